package machine

import (
	"math"

	"github.com/Proton-105/vending-machine/internal/catalog"
)

// Apply performs one transition. It never mutates state; the returned State is
// a fresh value the caller stores as the next current state. Refused selections
// leave the state unchanged and produce a single error output.
func Apply(cfg Config, state State, input Input) (State, []Output) {
	switch input.Kind {
	case InputInsertMoney:
		if input.Amount <= 0 || input.Amount > math.MaxInt-state.Money {
			return state, nil
		}
		next := state.Clone()
		next.Money += input.Amount
		return next, []Output{moneyDisplay(next.Money)}

	case InputRestockProduct:
		if !catalog.Valid(input.Product) || state.Stocks[input.Product] == math.MaxInt {
			return state, nil
		}
		next := state.Clone()
		next.Stocks[input.Product]++
		if !cfg.TrackRestock {
			return next, nil
		}
		return next, []Output{stockDisplay(input.Product, next.Stocks[input.Product])}

	case InputSelectProduct:
		return selectProduct(state, input.Product)

	case InputReset:
		next := state.Clone()
		next.Money = 0
		return next, []Output{changeReturned(state.Money), moneyDisplay(0)}

	case InputRefillEmpty:
		next := state.Clone()
		for _, p := range catalog.All() {
			if next.Stocks[p] == 0 {
				next.Stocks[p] = cfg.fullLevel()
			}
		}
		return next, nil

	default:
		return state, nil
	}
}

// selectProduct checks stock before funds: an unavailable product is never
// reported as unaffordable.
func selectProduct(state State, p catalog.Product) (State, []Output) {
	if !catalog.Valid(p) {
		return state, nil
	}

	price := catalog.Price(p)
	if state.Stocks[p] <= 0 {
		return state, []Output{insufficientStock(p)}
	}
	if state.Money < price {
		return state, []Output{insufficientFunds()}
	}

	next := state.Clone()
	next.Money -= price
	next.Stocks[p]--

	return next, []Output{
		productDispensed(p),
		moneyDisplay(next.Money),
		stockDisplay(p, next.Stocks[p]),
	}
}
