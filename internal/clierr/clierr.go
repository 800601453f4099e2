// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional detail lines.
package clierr

import (
	"errors"
	"fmt"

	"github.com/Tiliavir/trackthetime/internal/tasklog"
)

// Error code constants.
const (
	ParseFailed   = "PARSE_ERROR"
	InvalidInput  = "INVALID_INPUT"
	IOError       = "IO_ERROR"
	InternalError = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details []string
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with code whose message is err's.
func Wrap(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), err: err}
}

// WithDetails returns the error with the given detail lines attached.
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for I/O and internal errors, 1 for all others.
func (e *Error) ExitCode() int {
	switch e.Code {
	case IOError, InternalError:
		return 2 //nolint:mnd // exit code 2 for I/O and internal errors
	}
	return 1
}

// FromParse converts a log parse error into a PARSE_ERROR listing the
// malformed lines. Other errors are returned unchanged.
func FromParse(path string, err error) error {
	var perr *tasklog.ParseError
	if !errors.As(err, &perr) {
		return err
	}
	details := make([]string, len(perr.Lines))
	for i, l := range perr.Lines {
		details[i] = l.String()
	}
	e := Newf(ParseFailed, "%s contains %d malformed line(s); fix them with --edit", path, len(perr.Lines))
	e.err = err
	return e.WithDetails(details...)
}
