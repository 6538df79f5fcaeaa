package display

import (
	"sync"

	"github.com/Proton-105/vending-machine/internal/catalog"
)

// View is a copy of everything currently shown on the front panel.
type View struct {
	Money     string            `json:"money"`
	Tray      string            `json:"tray"`
	Info      string            `json:"info"`
	Stocks    map[string]string `json:"stocks"`
	Transient bool              `json:"transient"`
}

// Board holds the panel contents. Tray and Info are transient and carry a
// generation so a late clear never wipes a newer message.
type Board struct {
	mu     sync.Mutex
	money  string
	tray   string
	info   string
	stocks map[catalog.Product]string
	gen    uint64
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{stocks: make(map[catalog.Product]string)}
}

func (b *Board) setMoney(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.money = text
}

func (b *Board) setStock(p catalog.Product, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stocks[p] = text
}

func (b *Board) setTray(text string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tray = text
	b.gen++
	return b.gen
}

func (b *Board) setInfo(text string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = text
	b.gen++
	return b.gen
}

// clearTransient empties Tray and Info if nothing was shown since gen.
func (b *Board) clearTransient(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		return false
	}
	b.tray = ""
	b.info = ""
	return true
}

// View returns a snapshot of the board.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	stocks := make(map[string]string, len(b.stocks))
	for p, text := range b.stocks {
		stocks[catalog.Name(p)] = text
	}

	return View{
		Money:     b.money,
		Tray:      b.tray,
		Info:      b.info,
		Stocks:    stocks,
		Transient: b.tray != "" || b.info != "",
	}
}
