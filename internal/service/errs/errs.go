// Package errs defines the error taxonomy shared by services and transports.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrUnauthorized,
	ErrForbidden,
	ErrConflict,
	ErrUnavailable,
}

// Error is a classified failure with a machine code and a user-facing message.
type Error struct {
	Kind    error
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}

	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// New creates a classified error.
func New(kind error, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind error, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies a lower-level error, keeping it as the cause.
func Wrap(kind error, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: err.Error(), Err: err}
}

// KindOf returns the kind sentinel err belongs to, or nil for unclassified errors.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	return nil
}

// CodeOf returns the machine code of the outermost *Error in the chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}

// MessageOf returns the user-facing message of the outermost *Error in the chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return ""
}

// IsRetryable reports whether the caller may retry the same request later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Validation is shorthand for a VALIDATION_ERROR.
func Validation(message string) *Error {
	return New(ErrValidation, "VALIDATION_ERROR", message)
}
