// Package catalog defines the fixed set of products the machine can dispense.
package catalog

import "strings"

// Product identifies a dispensable catalog entry.
type Product int

const (
	// Cola is the cheapest drink in the machine.
	Cola Product = iota + 1
	// Cider is the lemon-lime soda.
	Cider
	// Fanta is the orange soda.
	Fanta
)

type entry struct {
	name  string
	price int
}

var entries = map[Product]entry{
	Cola:  {name: "cola", price: 1000},
	Cider: {name: "cider", price: 1100},
	Fanta: {name: "fanta", price: 1200},
}

var ordered = []Product{Cola, Cider, Fanta}

// All returns every catalog product in display order.
func All() []Product {
	out := make([]Product, len(ordered))
	copy(out, ordered)
	return out
}

// Valid reports whether p is a catalog product.
func Valid(p Product) bool {
	_, ok := entries[p]
	return ok
}

// Price returns the price of p in the smallest currency unit, or 0 for unknown products.
func Price(p Product) int {
	return entries[p].price
}

// Name returns the ASCII identifier of p.
func Name(p Product) string {
	if e, ok := entries[p]; ok {
		return e.name
	}
	return "unknown"
}

// Parse resolves a product by its identifier, ignoring case and surrounding spaces.
func Parse(name string) (Product, bool) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for _, p := range ordered {
		if entries[p].name == norm {
			return p, true
		}
	}
	return 0, false
}

// String implements fmt.Stringer.
func (p Product) String() string {
	return Name(p)
}
