package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/vending-machine/pkg/logger"
)

// Notice is what the panel shows after an error was handled.
type Notice struct {
	Key       string
	Retryable bool
}

// Handler logs adapter errors at a level matching their severity and reports
// high and critical ones to Sentry.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{log: log, sentryEnabled: sentryEnabled}
}

// Handle records err and returns the notice for the customer. A nil err yields
// the zero Notice.
func (h *Handler) Handle(ctx context.Context, err error) Notice {
	if err == nil {
		return Notice{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	appErr := classify(err)

	attrs := []slog.Attr{
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
		slog.String("error", err.Error()),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}
	h.log.LogAttrs(ctx, levelFor(appErr.Severity), "panel error", attrs...)

	if h.sentryEnabled && reportable(appErr.Severity) {
		capture(ctx, err, appErr)
	}

	key := appErr.NoticeKey
	if key == "" {
		key = NoticeTryAgain
	}

	return Notice{Key: key, Retryable: appErr.Retryable}
}

// classify finds the AppError in err's chain; anything else is treated as an
// unexpected high-severity failure.
func classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}

	return &AppError{
		Code:      CodeUnknown,
		Message:   err.Error(),
		NoticeKey: NoticeTryAgain,
		Severity:  SeverityHigh,
		cause:     err,
	}
}

func levelFor(severity Severity) slog.Level {
	switch severity {
	case SeverityLow:
		return slog.LevelDebug
	case SeverityMedium:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func reportable(severity Severity) bool {
	return severity == SeverityHigh || severity == SeverityCritical
}

func capture(ctx context.Context, err error, appErr *AppError) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("code", appErr.Code)
		scope.SetTag("severity", string(appErr.Severity))
		if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
			scope.SetTag("correlation_id", correlationID)
		}
		hub.CaptureException(err)
	})
}
