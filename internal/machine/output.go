package machine

import (
	"fmt"

	"github.com/Proton-105/vending-machine/internal/catalog"
)

// OutputKind discriminates Output variants.
type OutputKind int

const (
	OutputMoneyDisplay OutputKind = iota + 1
	OutputStockDisplay
	OutputProductDispensed
	OutputChangeReturned
	OutputInsufficientFunds
	OutputInsufficientStock
)

var outputKindNames = map[OutputKind]string{
	OutputMoneyDisplay:      "money_display",
	OutputStockDisplay:      "stock_display",
	OutputProductDispensed:  "product_dispensed",
	OutputChangeReturned:    "change_returned",
	OutputInsufficientFunds: "insufficient_funds",
	OutputInsufficientStock: "insufficient_stock",
}

// String implements fmt.Stringer.
func (k OutputKind) String() string {
	if name, ok := outputKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsError reports whether the kind signals a refused selection.
func (k OutputKind) IsError() bool {
	return k == OutputInsufficientFunds || k == OutputInsufficientStock
}

// Output is a notification produced by a transition.
// Amount carries money for money-display and change-returned;
// Product and Count carry the slot for stock-display, product-dispensed
// and insufficient-stock.
type Output struct {
	Kind    OutputKind
	Amount  int
	Product catalog.Product
	Count   int
}

func moneyDisplay(amount int) Output {
	return Output{Kind: OutputMoneyDisplay, Amount: amount}
}

func stockDisplay(p catalog.Product, count int) Output {
	return Output{Kind: OutputStockDisplay, Product: p, Count: count}
}

func productDispensed(p catalog.Product) Output {
	return Output{Kind: OutputProductDispensed, Product: p}
}

func changeReturned(amount int) Output {
	return Output{Kind: OutputChangeReturned, Amount: amount}
}

func insufficientFunds() Output {
	return Output{Kind: OutputInsufficientFunds}
}

func insufficientStock(p catalog.Product) Output {
	return Output{Kind: OutputInsufficientStock, Product: p}
}

// String implements fmt.Stringer.
func (o Output) String() string {
	switch o.Kind {
	case OutputMoneyDisplay, OutputChangeReturned:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Amount)
	case OutputStockDisplay:
		return fmt.Sprintf("%s(%s,%d)", o.Kind, o.Product, o.Count)
	case OutputProductDispensed, OutputInsufficientStock:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Product)
	default:
		return o.Kind.String()
	}
}
