// Package status serves a read-only JSON view of the machine and its display.
package status

import (
	"encoding/json"
	"net/http"

	"github.com/Proton-105/vending-machine/internal/catalog"
	"github.com/Proton-105/vending-machine/internal/display"
	"github.com/Proton-105/vending-machine/internal/machine"
)

// Snapshotter returns a copy of the machine state.
type Snapshotter interface {
	Snapshot() machine.State
}

// Viewer returns what the display currently shows.
type Viewer interface {
	View() display.View
}

// ProductStatus describes one slot.
type ProductStatus struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

// Response is the /status payload.
type Response struct {
	Money    int             `json:"money"`
	Products []ProductStatus `json:"products"`
	Display  *display.View   `json:"display,omitempty"`
}

// Handler serves the machine state; viewer may be nil.
func Handler(m Snapshotter, viewer Viewer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		state := m.Snapshot()
		resp := Response{Money: state.Money}
		for _, p := range catalog.All() {
			resp.Products = append(resp.Products, ProductStatus{
				Name:  catalog.Name(p),
				Price: catalog.Price(p),
				Stock: state.Stock(p),
			})
		}
		if viewer != nil {
			view := viewer.View()
			resp.Display = &view
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}
