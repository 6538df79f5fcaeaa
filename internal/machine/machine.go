package machine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Proton-105/vending-machine/internal/catalog"
	apperrors "github.com/Proton-105/vending-machine/internal/errors"
	"github.com/Proton-105/vending-machine/pkg/logger"
)

// ErrCorruptState indicates that the held state violates a machine invariant.
var ErrCorruptState = errors.New("machine state violates invariants")

// Transition describes one completed Apply call.
type Transition struct {
	Input   Input
	Before  State
	After   State
	Outputs []Output
}

var transitionRecorder = func(Transition) {}

// RegisterTransitionRecorder allows external packages to observe machine transitions.
func RegisterTransitionRecorder(recorder func(Transition)) {
	if recorder == nil {
		transitionRecorder = func(Transition) {}
		return
	}

	transitionRecorder = recorder
}

// Machine owns the single state slot and runs every input through Apply.
type Machine struct {
	mu    sync.Mutex
	cfg   Config
	state State
	log   *slog.Logger
}

// New creates a machine with the initial state derived from cfg.
func New(cfg Config, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}

	m := &Machine{
		cfg:   cfg,
		state: NewState(cfg),
		log:   log,
	}

	m.log.Info("vending machine initialized",
		slog.String("initial_stock", cfg.InitialStock.String()),
		slog.Int("full_level", cfg.fullLevel()),
		slog.Bool("track_restock", cfg.TrackRestock),
	)

	return m
}

// Apply runs input against the current state, stores the result and returns the outputs in order.
func (m *Machine) Apply(ctx context.Context, input Input) []Output {
	m.mu.Lock()
	before := m.state
	after, outputs := Apply(m.cfg, before, input)
	m.state = after
	m.mu.Unlock()

	attrs := []any{
		slog.String("input", input.String()),
		slog.Int("money", after.Money),
		slog.Int("outputs", len(outputs)),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	for _, out := range outputs {
		if out.Kind.IsError() {
			m.log.Info("selection refused", append(attrs, slog.String("reason", out.Kind.String()))...)
		}
	}
	m.log.Debug("transition applied", attrs...)

	transitionRecorder(Transition{
		Input:   input,
		Before:  before.Clone(),
		After:   after.Clone(),
		Outputs: outputs,
	})

	return outputs
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Config returns the configuration the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}

// HealthCheck verifies the held state still satisfies the machine invariants.
// Violations are reported as state errors wrapping ErrCorruptState.
func (m *Machine) HealthCheck(ctx context.Context) error {
	if err := checkInvariants(m.Snapshot()); err != nil {
		return apperrors.NewStateError(err)
	}
	return nil
}

func checkInvariants(state State) error {
	if state.Money < 0 {
		return fmt.Errorf("%w: negative money %d", ErrCorruptState, state.Money)
	}

	for _, p := range catalog.All() {
		n, ok := state.Stocks[p]
		if !ok {
			return fmt.Errorf("%w: missing stock entry for %s", ErrCorruptState, p)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative stock %d for %s", ErrCorruptState, n, p)
		}
	}

	return nil
}
