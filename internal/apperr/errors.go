// Package apperr defines the typed failures returned by quotedesk services.
// Callers match them with errors.Is against the sentinel kinds.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every *Error unwraps to exactly one of these.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrNotFound          = errors.New("not found")
	// ErrConflict reports a lost optimistic version check.
	ErrConflict = errors.New("conflict")
)

// Error is a failure of a known kind with a human readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an Error of the given kind.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(ErrForbidden, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return New(ErrUnauthorized, format, args...)
}

func InvalidTransition(format string, args ...any) error {
	return New(ErrInvalidTransition, format, args...)
}

func InvalidState(format string, args ...any) error {
	return New(ErrInvalidState, format, args...)
}

func Conflict(format string, args ...any) error {
	return New(ErrConflict, format, args...)
}

// KindOf returns the sentinel kind carried by err, or nil for untyped errors.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []error{ErrUnauthenticated, ErrForbidden, ErrUnauthorized, ErrInvalidTransition, ErrInvalidState, ErrNotFound, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
