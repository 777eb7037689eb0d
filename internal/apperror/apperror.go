// Package apperror defines the failure taxonomy shared by services and the
// HTTP layer. Every service failure is an *Error carrying a stable message.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure
type Kind string

const (
	KindValidation      Kind = "validation"
	KindInvalidID       Kind = "invalid_id"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnauthorized    Kind = "unauthorized"
	KindConflict        Kind = "conflict"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal"
)

// Error is a domain failure with a machine-stable message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the failure kind onto an HTTP status code
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindInvalidID, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error   { return newError(KindValidation, message) }
func InvalidID(message string) *Error    { return newError(KindInvalidID, message) }
func NotFound(message string) *Error     { return newError(KindNotFound, message) }
func Forbidden(message string) *Error    { return newError(KindForbidden, message) }
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }
func Conflict(message string) *Error     { return newError(KindConflict, message) }

func TooManyRequests(message string) *Error { return newError(KindTooManyRequests, message) }

// Internal wraps an unexpected store or crypto failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From extracts an *Error from err. Anything else becomes an internal error
// with a generic message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Is reports whether err is an *Error of the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
