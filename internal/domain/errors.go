package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the core wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Error carries a caller-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

// KindOf returns the error kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrConflict, ErrInvalidState} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
