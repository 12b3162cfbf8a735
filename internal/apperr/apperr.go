// Package apperr defines the typed failures returned by the storefront
// services and their HTTP mapping.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for consistent HTTP mapping.
type Kind string

const (
	KindUnknown         Kind = "unknown"
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindStoreFailure    Kind = "store_failure"
)

// HTTPStatus returns the default status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed application failure. Message is safe to show to callers;
// Cause is kept for logs only.
type Error struct {
	Kind    Kind
	Message string
	// Status overrides the kind's default HTTP status when non-zero.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// WithStatus returns a copy of e carrying an explicit HTTP status.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func InvalidInput(message string) *Error    { return New(KindInvalidInput, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Unauthorized(message string) *Error    { return New(KindUnauthorized, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }

// StoreFailure wraps a persistence error. The message is for logs; callers
// see a generic message.
func StoreFailure(message string, cause error) *Error {
	return Wrap(KindStoreFailure, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to an HTTP status code. Errors outside this
// package map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	if appErr.Status != 0 {
		return appErr.Status
	}
	return appErr.Kind.HTTPStatus()
}

// PublicMessage returns the text safe to put in a response body.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindStoreFailure || appErr.Kind == KindUnknown {
		return "Some error occurred"
	}
	return appErr.Message
}
