// Package errors provides structured error types for benchcheck.
//
// Every failure the harness can report is an *Error carrying a Kind. Per-test
// kinds (subprocess failure, fatal render error, malformed output, score
// regression, image mismatch) turn a single test into FAILED and the run
// continues. Run-level kinds (config, malformed baseline, runtime) abort the
// run before or between tests.
package errors

import (
	"errors"
	"fmt"
)

// Kind represents the type of error.
type Kind int

const (
	KindRuntime Kind = iota
	KindConfig
	KindSubprocess
	KindFatalRender
	KindMalformedOutput
	KindScoreRegression
	KindImageMismatch
	KindMalformedBaseline
)

var kindNames = map[Kind]string{
	KindRuntime:           "runtime error",
	KindConfig:            "configuration error",
	KindSubprocess:        "subprocess failure",
	KindFatalRender:       "fatal render error",
	KindMalformedOutput:   "malformed output",
	KindScoreRegression:   "score regression",
	KindImageMismatch:     "image mismatch",
	KindMalformedBaseline: "malformed baseline",
}

// String returns a human-readable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PerTest reports whether errors of this kind only fail the current test.
func (k Kind) PerTest() bool {
	switch k {
	case KindSubprocess, KindFatalRender, KindMalformedOutput, KindScoreRegression, KindImageMismatch:
		return true
	default:
		return false
	}
}

// Error is the base error type for benchcheck.
type Error struct {
	Kind    Kind
	Message string
	Test    string // Test run identifier if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Test != "" {
		return fmt.Sprintf("[%s] %s", e.Test, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same Kind, so sentinel values like
// ErrScoreRegression work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinel values for errors.Is checks.
var (
	ErrSubprocess        = &Error{Kind: KindSubprocess}
	ErrFatalRender       = &Error{Kind: KindFatalRender}
	ErrMalformedOutput   = &Error{Kind: KindMalformedOutput}
	ErrScoreRegression   = &Error{Kind: KindScoreRegression}
	ErrImageMismatch     = &Error{Kind: KindImageMismatch}
	ErrMalformedBaseline = &Error{Kind: KindMalformedBaseline}
	ErrConfig            = &Error{Kind: KindConfig}
)

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// Subprocess reports a renderer that could not be run or exited non-zero.
func Subprocess(test, message string, cause error) *Error {
	return &Error{Kind: KindSubprocess, Test: test, Message: message, Cause: cause}
}

// FatalRender reports a fatal-error marker found in the renderer's stderr.
func FatalRender(test, message string) *Error {
	return &Error{Kind: KindFatalRender, Test: test, Message: message}
}

// MalformedOutput reports renderer output without a usable statistics block.
func MalformedOutput(message string) *Error {
	return &Error{Kind: KindMalformedOutput, Message: message}
}

// ScoreRegression reports a score outside the tolerance band.
func ScoreRegression(test, message string) *Error {
	return &Error{Kind: KindScoreRegression, Test: test, Message: message}
}

// ImageMismatch reports a rendered image that differs from its reference.
func ImageMismatch(test, message string, cause error) *Error {
	return &Error{Kind: KindImageMismatch, Test: test, Message: message, Cause: cause}
}

// MalformedBaseline reports an unparsable baseline row.
func MalformedBaseline(file string, line int, reason string) *Error {
	return &Error{
		Kind:    KindMalformedBaseline,
		Message: fmt.Sprintf("%s:%d: malformed baseline row: %s", file, line, reason),
	}
}

// KindOf returns the Kind of err, or KindRuntime if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRuntime
}

// Reason returns the message of err without the test prefix.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
