// Package errors defines the diagnostic error type shared by every
// compiler pass, modeled on the "first error wins" policy from
// spec.md §7.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a diagnostic per spec.md §7's error-kind table.
type Kind string

const (
	SyntaxError       Kind = "syntax error"
	HierarchyError    Kind = "hierarchy error"
	BindingError      Kind = "binding error"
	TypeError         Kind = "type error"
	RuntimeAbort      Kind = "runtime abort"
	AllocationFailure Kind = "allocation failure"
	InternalInvariant Kind = "internal invariant violation"
)

// CoolError is the single error type returned by analyzer, IR, SSA,
// optimisation and GC entry points. Its Error() string matches the
// `"<file>", line <N>: <message>` format spec.md requires for
// compiler diagnostics.
type CoolError struct {
	Kind  Kind
	File  string
	Line  int
	Msg   string
	cause error
}

// New creates a CoolError with no wrapped cause.
func New(kind Kind, file string, line int, format string, args ...interface{}) *CoolError {
	return &CoolError{
		Kind: kind,
		File: file,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Internal wraps an internal invariant violation with a stack trace
// via github.com/pkg/errors, so debug builds retain the trace even
// though the public-facing message is a single line (spec.md §7's
// "Internal invariant violation" row).
func Internal(format string, args ...interface{}) *CoolError {
	msg := fmt.Sprintf(format, args...)
	return &CoolError{
		Kind:  InternalInvariant,
		Msg:   msg,
		cause: pkgerrors.New(msg),
	}
}

// Wrap attaches an internal-invariant stack trace to an existing error.
func Wrap(err error, format string, args ...interface{}) *CoolError {
	msg := fmt.Sprintf(format, args...)
	return &CoolError{
		Kind:  InternalInvariant,
		Msg:   msg,
		cause: pkgerrors.Wrap(err, msg),
	}
}

func (e *CoolError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%q, line %d: %s", e.File, e.Line, e.Msg)
	}
	return string(e.Kind) + ": " + e.Msg
}

// Unwrap exposes the pkg/errors-wrapped cause, if any, so
// errors.As/Is and stack-trace printers compose normally.
func (e *CoolError) Unwrap() error {
	return e.cause
}

// StackTrace forwards to the wrapped cause's stack trace, when present,
// and returns nil otherwise. cmd/coolc does not call it.
func (e *CoolError) StackTrace() pkgerrors.StackTrace {
	type tracer interface{ StackTrace() pkgerrors.StackTrace }
	if t, ok := e.cause.(tracer); ok {
		return t.StackTrace()
	}
	return nil
}
