package machine

import (
	"fmt"

	"github.com/Proton-105/vending-machine/internal/catalog"
)

// InputKind discriminates Input variants.
type InputKind int

const (
	// InputNone is the zero value and leaves the machine untouched.
	InputNone InputKind = iota
	InputInsertMoney
	InputSelectProduct
	InputRestockProduct
	InputRefillEmpty
	InputReset
)

var inputKindNames = map[InputKind]string{
	InputNone:           "none",
	InputInsertMoney:    "insert_money",
	InputSelectProduct:  "select_product",
	InputRestockProduct: "restock_product",
	InputRefillEmpty:    "refill_empty",
	InputReset:          "reset",
}

// String implements fmt.Stringer.
func (k InputKind) String() string {
	if name, ok := inputKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Input is a single external action translated for the machine.
// Amount is set for InputInsertMoney, Product for select and restock.
type Input struct {
	Kind    InputKind
	Amount  int
	Product catalog.Product
}

// InsertMoney adds m to the balance.
func InsertMoney(m int) Input {
	return Input{Kind: InputInsertMoney, Amount: m}
}

// SelectProduct tries to buy p.
func SelectProduct(p catalog.Product) Input {
	return Input{Kind: InputSelectProduct, Product: p}
}

// RestockProduct adds one unit of p.
func RestockProduct(p catalog.Product) Input {
	return Input{Kind: InputRestockProduct, Product: p}
}

// RefillEmpty refills every empty slot to the configured full level.
func RefillEmpty() Input {
	return Input{Kind: InputRefillEmpty}
}

// Reset returns the balance as change.
func Reset() Input {
	return Input{Kind: InputReset}
}

// NoOp is the input for unrecognized actions.
func NoOp() Input {
	return Input{}
}

// String implements fmt.Stringer.
func (in Input) String() string {
	switch in.Kind {
	case InputInsertMoney:
		return fmt.Sprintf("%s(%d)", in.Kind, in.Amount)
	case InputSelectProduct, InputRestockProduct:
		return fmt.Sprintf("%s(%s)", in.Kind, in.Product)
	default:
		return in.Kind.String()
	}
}
