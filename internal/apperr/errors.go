// Package apperr defines the typed errors returned by the engine. Every
// failure a caller can act on is classified by Kind; transports map kinds
// to their own status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindNotFound means the room, user or resource does not exist.
	KindNotFound Kind = iota + 1
	// KindForbidden means the caller is not a participant of the resource.
	KindForbidden
	// KindInsufficientResource means the user has no hearts left.
	KindInsufficientResource
	// KindInvalidState means the operation is illegal in the current
	// lifecycle state, e.g. answering a question out of turn.
	KindInvalidState
	// KindValidation means the input was malformed.
	KindValidation
	// KindPersistence means a durable write failed. The in-memory result,
	// if any, is still valid and must still reach the caller.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInsufficientResource:
		return "insufficient_resource"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a kinded engine error, optionally wrapping a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two engine errors by kind, so errors.Is(err, apperr.NotFound(""))
// style sentinels work without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden builds a KindForbidden error.
func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientResource builds a KindInsufficientResource error.
func InsufficientResource(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientResource, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState builds a KindInvalidState error.
func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a failed durable write.
func Persistence(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
