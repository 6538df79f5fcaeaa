// Package panel maps front-panel buttons and typed commands to machine inputs.
package panel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Proton-105/vending-machine/internal/catalog"
	"github.com/Proton-105/vending-machine/internal/machine"
)

// Button actions.
const (
	ActionCoin    = "coin"
	ActionSelect  = "select"
	ActionRestock = "restock"
	ActionRefill  = "refill"
	ActionReset   = "reset"
)

// Panel translates button ids into machine inputs. Coins outside the accepted
// denominations are not recognized.
type Panel struct {
	denominations map[int]struct{}
}

// New creates a Panel accepting the given coin and note values.
func New(denominations []int) *Panel {
	accepted := make(map[int]struct{}, len(denominations))
	for _, d := range denominations {
		if d > 0 {
			accepted[d] = struct{}{}
		}
	}
	return &Panel{denominations: accepted}
}

// Denominations returns the accepted values in ascending order.
func (p *Panel) Denominations() []int {
	out := make([]int, 0, len(p.denominations))
	for d := range p.denominations {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Buttons lists the customer-facing button ids: one per coin, one per product, and reset.
func (p *Panel) Buttons() []string {
	buttons := make([]string, 0, len(p.denominations)+len(catalog.All())+1)
	for _, d := range p.Denominations() {
		buttons = append(buttons, strconv.Itoa(d))
	}
	for _, product := range catalog.All() {
		buttons = append(buttons, catalog.Name(product))
	}
	return append(buttons, ActionReset)
}

// Decode maps a button id to an input. Unrecognized ids yield a no-op and false.
//
// Bare ids mirror the physical buttons ("500", "cola", "reset"); prefixed ids
// ("coin:500", "select:cola", "restock:cola", "refill") cover operator actions.
func (p *Panel) Decode(id string) (machine.Input, bool) {
	action, payload, err := DecodeButton(strings.ToLower(strings.TrimSpace(id)))
	if err != nil {
		return machine.NoOp(), false
	}

	if payload == "" {
		switch action {
		case ActionReset:
			return machine.Reset(), true
		case ActionRefill:
			return machine.RefillEmpty(), true
		}
		if product, ok := catalog.Parse(action); ok {
			return machine.SelectProduct(product), true
		}
		return p.coin(action)
	}

	switch action {
	case ActionCoin:
		return p.coin(payload)
	case ActionSelect:
		if product, ok := catalog.Parse(payload); ok {
			return machine.SelectProduct(product), true
		}
	case ActionRestock:
		if product, ok := catalog.Parse(payload); ok {
			return machine.RestockProduct(product), true
		}
	}

	return machine.NoOp(), false
}

func (p *Panel) coin(raw string) (machine.Input, bool) {
	amount, err := strconv.Atoi(raw)
	if err != nil {
		return machine.NoOp(), false
	}
	if _, ok := p.denominations[amount]; !ok {
		return machine.NoOp(), false
	}
	return machine.InsertMoney(amount), true
}

// Encode returns the canonical prefixed button id for in.
func (p *Panel) Encode(in machine.Input) (string, error) {
	switch in.Kind {
	case machine.InputInsertMoney:
		return EncodeButton(ActionCoin, strconv.Itoa(in.Amount))
	case machine.InputSelectProduct:
		return EncodeButton(ActionSelect, catalog.Name(in.Product))
	case machine.InputRestockProduct:
		return EncodeButton(ActionRestock, catalog.Name(in.Product))
	case machine.InputRefillEmpty:
		return EncodeButton(ActionRefill, "")
	case machine.InputReset:
		return EncodeButton(ActionReset, "")
	default:
		return "", fmt.Errorf("input %s has no button", in.Kind)
	}
}
