// Package terminal drives the machine from a line-oriented front panel such as stdin.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/Proton-105/vending-machine/internal/errors"
	"github.com/Proton-105/vending-machine/internal/machine"
	"github.com/Proton-105/vending-machine/pkg/logger"
)

// Applier runs inputs through the machine.
type Applier interface {
	Apply(ctx context.Context, input machine.Input) []machine.Output
}

// Decoder maps a button id to an input.
type Decoder interface {
	Decode(id string) (machine.Input, bool)
}

// Renderer shows outputs and error notices to the customer.
type Renderer interface {
	Render(outputs []machine.Output) error
	Notify(key string) error
}

var quitCommands = map[string]struct{}{
	"quit": {},
	"exit": {},
}

// Session reads one button per line and feeds the machine until the reader
// ends, a quit command arrives, or ctx is cancelled. Inputs are applied and
// rendered strictly one after another.
type Session struct {
	machine    Applier
	panel      Decoder
	display    Renderer
	errHandler *apperrors.Handler
	log        *slog.Logger
}

// NewSession wires a session.
func NewSession(m Applier, p Decoder, d Renderer, errHandler *apperrors.Handler, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if errHandler == nil {
		errHandler = apperrors.NewHandler(log, false)
	}

	return &Session{
		machine:    m,
		panel:      p,
		display:    d,
		errHandler: errHandler,
		log:        log,
	}
}

type line struct {
	text string
	err  error
}

// Run processes lines from r. It returns nil on EOF, quit or cancellation.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan line)
	go scan(ctx, r, lines)

	s.log.Info("panel session started")
	defer s.log.Info("panel session stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			if l.err != nil {
				err := apperrors.NewInputError(l.err)
				s.errHandler.Handle(ctx, err)
				return err
			}

			if _, quit := quitCommands[strings.ToLower(strings.TrimSpace(l.text))]; quit {
				return nil
			}

			s.Press(ctx, l.text)
		}
	}
}

// Press handles a single button press and returns the outputs it produced.
func (s *Session) Press(ctx context.Context, id string) []machine.Output {
	ctx, _ = logger.WithCorrelationID(ctx)

	input, ok := s.panel.Decode(id)
	if !ok {
		if strings.TrimSpace(id) != "" {
			s.notify(ctx, s.errHandler.Handle(ctx, apperrors.NewButtonError(id)))
		}
		return nil
	}

	outputs := s.machine.Apply(ctx, input)
	if len(outputs) == 0 {
		return outputs
	}

	if err := s.display.Render(outputs); err != nil {
		s.notify(ctx, s.errHandler.Handle(ctx, fmt.Errorf("button %q: %w", id, apperrors.NewRenderError(err))))
	}

	return outputs
}

// notify shows retryable notices; the others need the operator, not the customer.
func (s *Session) notify(ctx context.Context, notice apperrors.Notice) {
	if !notice.Retryable {
		return
	}

	if err := s.display.Notify(notice.Key); err != nil {
		s.log.Warn("notice not shown",
			slog.String("notice", notice.Key),
			slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
			slog.Any("error", err),
		)
	}
}

func scan(ctx context.Context, r io.Reader, lines chan<- line) {
	defer close(lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case lines <- line{text: scanner.Text()}:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case lines <- line{err: err}:
		case <-ctx.Done():
		}
	}
}
