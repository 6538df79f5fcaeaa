// Package errors defines the adapter-level error taxonomy. The machine core never
// fails; these errors cover configuration, panel input, display output and
// state checks.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeUnknown    = "E000"
	CodeValidation = "E100"
	CodeInput      = "E200"
	CodeButton     = "E210"
	CodeRender     = "E300"
	CodeState      = "E400"
)

// Translation keys of the notices shown on the panel after an error.
const (
	NoticeTryAgain     = "notice.try_again"
	NoticeMisconfig    = "notice.misconfigured"
	NoticePressAgain   = "notice.press_again"
	NoticeDisplayDown  = "notice.display_unavailable"
	NoticeOutOfOrder   = "notice.out_of_order"
	NoticePanelOffline = "notice.panel_offline"
)

// NoticeKeys lists every key an AppError can carry.
func NoticeKeys() []string {
	return []string{
		NoticeTryAgain,
		NoticeMisconfig,
		NoticePressAgain,
		NoticeDisplayDown,
		NoticeOutOfOrder,
		NoticePanelOffline,
	}
}

// AppError is an adapter failure. NoticeKey names the panel message for the
// customer; Retryable means the customer may simply press again.
type AppError struct {
	Code      string
	Message   string
	NoticeKey string
	Severity  Severity
	Retryable bool
	cause     error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func newAppError(code string, severity Severity, notice, prefix string, cause error) *AppError {
	msg := prefix
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", prefix, cause)
	}

	return &AppError{
		Code:      code,
		Message:   msg,
		NoticeKey: notice,
		Severity:  severity,
		cause:     cause,
	}
}

func NewValidationError(msg string, cause error) *AppError {
	return newAppError(CodeValidation, SeverityCritical, NoticeMisconfig, msg, cause)
}

// NewInputError reports that the panel itself could not be read.
func NewInputError(cause error) *AppError {
	return newAppError(CodeInput, SeverityMedium, NoticePanelOffline, "panel input error", cause)
}

// NewButtonError reports a press the panel does not recognize.
func NewButtonError(button string) *AppError {
	err := newAppError(CodeButton, SeverityLow, NoticePressAgain, fmt.Sprintf("unrecognized button %q", button), nil)
	err.Retryable = true
	return err
}

func NewRenderError(cause error) *AppError {
	return newAppError(CodeRender, SeverityHigh, NoticeDisplayDown, "display error", cause)
}

func NewStateError(cause error) *AppError {
	return newAppError(CodeState, SeverityCritical, NoticeOutOfOrder, "machine state error", cause)
}
