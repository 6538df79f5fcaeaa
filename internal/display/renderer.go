// Package display renders machine outputs as panel text and clears transient
// messages after a delay.
package display

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Proton-105/vending-machine/internal/catalog"
	"github.com/Proton-105/vending-machine/internal/i18n"
	"github.com/Proton-105/vending-machine/internal/machine"
)

// Slots a rendered line can target.
const (
	SlotMoney = "money"
	SlotStock = "stock"
	SlotTray  = "tray"
	SlotInfo  = "info"
)

// RequiredKeys lists the translation keys the renderer uses.
func RequiredKeys() []string {
	keys := []string{
		"display.money",
		"display.stock",
		"display.dispensed",
		"display.change",
		"error.insufficient_funds",
		"error.insufficient_stock",
	}
	for _, p := range catalog.All() {
		keys = append(keys, productKey(p))
	}
	return keys
}

func productKey(p catalog.Product) string {
	return "product." + catalog.Name(p)
}

// Renderer writes one line per output and keeps the Board current.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	tr      i18n.Translator
	board   *Board
	clearer *Clearer
	log     *slog.Logger
}

// NewRenderer creates a Renderer. A nil clearer leaves transient messages on the board.
func NewRenderer(out io.Writer, tr i18n.Translator, clearer *Clearer, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}

	return &Renderer{
		out:     out,
		tr:      tr,
		board:   NewBoard(),
		clearer: clearer,
		log:     log,
	}
}

// SetTranslator switches the display language for subsequent renders.
func (r *Renderer) SetTranslator(tr i18n.Translator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tr = tr
}

// Render shows outputs in order. Transient messages schedule a clear that
// supersedes any clear still pending.
func (r *Renderer) Render(outputs []machine.Output) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range outputs {
		slot, text := r.message(o)
		if err := r.show(slot, o.Product, text); err != nil {
			return fmt.Errorf("render %s: %w", o.Kind, err)
		}
	}

	return nil
}

// Notify shows the translation of key in the info slot until the next clear.
func (r *Renderer) Notify(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.show(SlotInfo, 0, i18n.Format(r.tr, key)); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return nil
}

func (r *Renderer) show(slot string, p catalog.Product, text string) error {
	switch slot {
	case SlotMoney:
		r.board.setMoney(text)
	case SlotStock:
		r.board.setStock(p, text)
	case SlotTray:
		r.scheduleClear(r.board.setTray(text))
	case SlotInfo:
		r.scheduleClear(r.board.setInfo(text))
	}

	_, err := fmt.Fprintf(r.out, "%-5s | %s\n", slot, text)
	return err
}

// Message returns the slot and localized text for a single output.
func (r *Renderer) Message(o machine.Output) (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message(o)
}

func (r *Renderer) message(o machine.Output) (string, string) {
	switch o.Kind {
	case machine.OutputMoneyDisplay:
		return SlotMoney, i18n.Format(r.tr, "display.money", o.Amount)
	case machine.OutputStockDisplay:
		return SlotStock, i18n.Format(r.tr, "display.stock", r.productName(o.Product), o.Count)
	case machine.OutputProductDispensed:
		return SlotTray, i18n.Format(r.tr, "display.dispensed", r.productName(o.Product))
	case machine.OutputChangeReturned:
		return SlotInfo, i18n.Format(r.tr, "display.change", o.Amount)
	case machine.OutputInsufficientFunds:
		return SlotInfo, i18n.Format(r.tr, "error.insufficient_funds")
	case machine.OutputInsufficientStock:
		return SlotInfo, i18n.Format(r.tr, "error.insufficient_stock", r.productName(o.Product))
	default:
		return SlotInfo, o.String()
	}
}

func (r *Renderer) productName(p catalog.Product) string {
	if r.tr == nil {
		return catalog.Name(p)
	}
	return r.tr.T(productKey(p))
}

func (r *Renderer) scheduleClear(gen uint64) {
	if r.clearer == nil {
		return
	}

	board := r.board
	log := r.log
	r.clearer.Schedule(func() {
		if board.clearTransient(gen) {
			log.Debug("transient display cleared", slog.Uint64("generation", gen))
		}
	})
}

// View returns what the panel currently shows.
func (r *Renderer) View() View {
	return r.board.View()
}
