// Package machine implements the vending machine core: the machine state, the input and
// output events, and the transition function that connects them.
package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Proton-105/vending-machine/internal/catalog"
)

// DefaultFullLevel is the refill target used when Config.FullLevel is not set.
const DefaultFullLevel = 10

// StockPolicy decides how every slot is filled when the machine starts.
type StockPolicy struct {
	Empty bool
	Units int
}

// EmptyStock starts every slot at zero.
func EmptyStock() StockPolicy {
	return StockPolicy{Empty: true}
}

// PrefilledStock starts every slot at n units.
func PrefilledStock(n int) StockPolicy {
	return StockPolicy{Units: n}
}

// ParseStockPolicy accepts "empty" or a non-negative unit count.
func ParseStockPolicy(raw string) (StockPolicy, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if norm == "" || norm == "empty" {
		return EmptyStock(), nil
	}

	n, err := strconv.Atoi(norm)
	if err != nil {
		return StockPolicy{}, fmt.Errorf("parse stock policy %q: %w", raw, err)
	}
	if n < 0 {
		return StockPolicy{}, fmt.Errorf("parse stock policy %q: negative unit count", raw)
	}
	if n == 0 {
		return EmptyStock(), nil
	}

	return PrefilledStock(n), nil
}

func (p StockPolicy) units() int {
	if p.Empty || p.Units < 0 {
		return 0
	}
	return p.Units
}

// String implements fmt.Stringer.
func (p StockPolicy) String() string {
	if p.units() == 0 {
		return "empty"
	}
	return strconv.Itoa(p.Units)
}

// Config holds the parameters the core recognizes at initialization.
type Config struct {
	InitialStock StockPolicy
	// FullLevel is the stock every empty slot is raised to by a refill.
	FullLevel int
	// Denominations lists accepted coins and notes. Informational for the core;
	// the panel uses it to reject unknown coins.
	Denominations []int
	// TrackRestock makes a manual restock report the new stock count.
	TrackRestock bool
}

// DefaultConfig returns a pre-filled machine accepting 100, 500 and 1000.
func DefaultConfig() Config {
	return Config{
		InitialStock:  PrefilledStock(DefaultFullLevel),
		FullLevel:     DefaultFullLevel,
		Denominations: []int{100, 500, 1000},
		TrackRestock:  true,
	}
}

func (c Config) fullLevel() int {
	if c.FullLevel <= 0 {
		return DefaultFullLevel
	}
	return c.FullLevel
}

// State is the mutable machine state threaded through every transition.
type State struct {
	Money  int                     `json:"money"`
	Stocks map[catalog.Product]int `json:"stocks"`
}

// NewState builds the initial state: no money, every product stocked per policy.
func NewState(cfg Config) State {
	stocks := make(map[catalog.Product]int, len(catalog.All()))
	for _, p := range catalog.All() {
		stocks[p] = cfg.InitialStock.units()
	}

	return State{Stocks: stocks}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	stocks := make(map[catalog.Product]int, len(s.Stocks))
	for p, n := range s.Stocks {
		stocks[p] = n
	}

	return State{Money: s.Money, Stocks: stocks}
}

// Stock returns the remaining units of p.
func (s State) Stock(p catalog.Product) int {
	return s.Stocks[p]
}
