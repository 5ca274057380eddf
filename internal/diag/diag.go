// Package diag defines the widget host's failure taxonomy and its diagnostics
// channel.
//
// Every failure site has a stable numeric code. Monitoring pipelines scrape
// the emitted lines, so both the codes and the line format
// "[ShieldGate] <message> (Code: <n>)" must stay stable across releases.
// Failures are recovered locally and reported here; none of them may halt the
// host page.
package diag

import (
	"fmt"

	"go.uber.org/zap"
)

// Product is the prefix on every diagnostic line.
const Product = "ShieldGate"

// Code is a stable numeric identifier for one failure site.
type Code int

const (
	CodeStartupConfigMissing Code = 3584
	CodeContainerNotFound    Code = 3586
	CodeMissingSitekey       Code = 3588
	CodeInvalidSize          Code = 3590
	CodeWidgetNotFound       Code = 3592
	CodeMountFailed          Code = 3594
)

// Error pairs a diagnostic code with a human-readable message. It satisfies
// the error interface so lifecycle operations can both return and report it.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// New creates a diagnostic error.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Reporter emits diagnostics in the stable scrape format through the
// structured logger.
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a reporter writing through the given logger.
func NewReporter(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

// Report emits one diagnostic line for err.
func (r *Reporter) Report(err *Error) {
	r.logger.Warn(
		fmt.Sprintf("[%s] %s (Code: %d)", Product, err.Message, err.Code),
		zap.Int("code", int(err.Code)),
	)
}

// Reportf builds and emits a diagnostic, returning it for callers that also
// propagate the failure.
func (r *Reporter) Reportf(code Code, format string, args ...interface{}) *Error {
	err := New(code, format, args...)
	r.Report(err)
	return err
}
