// Package sqlerr provides the unified error type used across SafeLite.
//
// Every layer (identifier validation, statement building, driver
// execution) wraps its failures into *sqlerr.Error before returning them.
// Callers use the Is* predicates to handle errors without inspecting
// driver-specific types or error strings.
package sqlerr

import (
	"errors"
	"fmt"
)

// Kind categorises an error without exposing driver-specific codes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidIdentifier is a malformed table or column name. Raised
	// before any SQL text is built; never reaches the engine.
	KindInvalidIdentifier
	// KindUnsupportedTemplate is an unknown statement template kind.
	KindUnsupportedTemplate
	// KindArityMismatch is a wrong number of identifiers or values for a
	// statement template.
	KindArityMismatch
	// KindConstraintViolation is an engine-reported uniqueness or
	// primary-key conflict.
	KindConstraintViolation
	// KindTableNotFound is an engine report that the named table does
	// not exist.
	KindTableNotFound
	// KindDriver is any other failure from the underlying engine
	// (I/O, corruption, lock contention).
	KindDriver
)

func (k Kind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindUnsupportedTemplate:
		return "unsupported_template"
	case KindArityMismatch:
		return "arity_mismatch"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindTableNotFound:
		return "table_not_found"
	case KindDriver:
		return "driver"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all SafeLite layers.
type Error struct {
	Kind    Kind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with the given kind and message and no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsInvalidIdentifier reports whether err is a malformed identifier error.
func IsInvalidIdentifier(err error) bool {
	return KindOf(err) == KindInvalidIdentifier
}

// IsUnsupportedTemplate reports whether err is an unknown template error.
func IsUnsupportedTemplate(err error) bool {
	return KindOf(err) == KindUnsupportedTemplate
}

// IsArityMismatch reports whether err is a template arity error.
func IsArityMismatch(err error) bool {
	return KindOf(err) == KindArityMismatch
}

// IsConstraintViolation reports whether err is a uniqueness or
// primary-key conflict reported by the engine.
func IsConstraintViolation(err error) bool {
	return KindOf(err) == KindConstraintViolation
}

// IsTableNotFound reports whether err means the named table does not exist.
func IsTableNotFound(err error) bool {
	return KindOf(err) == KindTableNotFound
}

// IsDriver reports whether err is an uncategorised engine failure.
func IsDriver(err error) bool {
	return KindOf(err) == KindDriver
}

// KindOf extracts the Kind from any error in the chain. Errors that do
// not carry an *Error return KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
