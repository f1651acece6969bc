// Package errs defines the error kinds reported by the surrogate pipeline.
//
// Every error carries a Kind so callers can test it with errors.Is against
// the kind sentinels, plus the parameter name and the expected and actual
// values needed to diagnose it without re-running.
package errs

import "fmt"
import "strings"

import "github.com/pkg/errors"

// Kind classifies an error.
type Kind string

const (
	KindConfiguration Kind = "configuration"  // invalid physical or split parameters
	KindIO            Kind = "io"             // missing or corrupt sample or artifact file
	KindNotFitted     Kind = "not fitted"     // scaler used before Fit
	KindShapeMismatch Kind = "shape mismatch" // wrong column count or layer dimensions
)

// Error is a classified error with diagnostic context.
type Error struct {
	Kind Kind

	Op       string // operation that failed, e.g. "scaler.Transform"
	Param    string // parameter or path involved
	Expected string
	Actual   string

	Err error // underlying cause
}

// Kind sentinels for errors.Is.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrIO            = &Error{Kind: KindIO}
	ErrNotFitted     = &Error{Kind: KindNotFitted}
	ErrShapeMismatch = &Error{Kind: KindShapeMismatch}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, ": %s", e.Param)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Configuration reports an invalid configuration value.
func Configuration(param, expected string, actual interface{}) *Error {
	return &Error{
		Kind:     KindConfiguration,
		Op:       "config",
		Param:    param,
		Expected: expected,
		Actual:   fmt.Sprint(actual),
	}
}

// IO wraps a file system failure on path.
func IO(op, path string, err error) *Error {
	return &Error{
		Kind:  KindIO,
		Op:    op,
		Param: path,
		Err:   errors.WithStack(err),
	}
}

// Corrupt reports a file whose content could not be understood.
func Corrupt(op, path, format string, args ...interface{}) *Error {
	return &Error{
		Kind:  KindIO,
		Op:    op,
		Param: path,
		Err:   errors.Errorf(format, args...),
	}
}

// NotFitted reports use of an unfitted scaler.
func NotFitted(op string) *Error {
	return &Error{
		Kind: KindNotFitted,
		Op:   op,
	}
}

// Shape reports a dimension mismatch.
func Shape(op, param string, expected, actual int) *Error {
	return &Error{
		Kind:     KindShapeMismatch,
		Op:       op,
		Param:    param,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return errors.Is(err, &Error{Kind: k})
}
