// Package metrics exposes Prometheus metrics for the vending machine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/vending-machine/internal/catalog"
	"github.com/Proton-105/vending-machine/internal/machine"
)

var (
	inputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vending_inputs_total",
			Help: "Total number of inputs applied labeled by kind",
		},
		[]string{"kind"},
	)
	outputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vending_outputs_total",
			Help: "Total number of outputs emitted labeled by kind",
		},
		[]string{"kind"},
	)
	salesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vending_sales_total",
			Help: "Number of products dispensed",
		},
		[]string{"product"},
	)
	revenueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vending_revenue_total",
			Help: "Money collected for dispensed products, in the smallest currency unit",
		},
	)
	changeReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vending_change_returned_total",
			Help: "Money handed back on reset, in the smallest currency unit",
		},
	)
	moneyBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vending_money_balance",
			Help: "Current unspent balance",
		},
	)
	stockUnits = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vending_stock_units",
			Help: "Remaining units per product",
		},
		[]string{"product"},
	)
)

func init() {
	machine.RegisterTransitionRecorder(RecordTransition)
}

// RecordTransition updates counters and gauges from a completed transition.
func RecordTransition(tr machine.Transition) {
	inputsTotal.WithLabelValues(tr.Input.Kind.String()).Inc()

	for _, out := range tr.Outputs {
		outputsTotal.WithLabelValues(out.Kind.String()).Inc()

		switch out.Kind {
		case machine.OutputProductDispensed:
			salesTotal.WithLabelValues(catalog.Name(out.Product)).Inc()
			revenueTotal.Add(float64(catalog.Price(out.Product)))
		case machine.OutputChangeReturned:
			changeReturnedTotal.Add(float64(out.Amount))
		}
	}

	SetState(tr.After)
}

// SetState publishes the balance and per-product stock gauges.
func SetState(state machine.State) {
	moneyBalance.Set(float64(state.Money))
	for _, p := range catalog.All() {
		stockUnits.WithLabelValues(catalog.Name(p)).Set(float64(state.Stock(p)))
	}
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
