package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	Unexpected Kind = iota
	Validation
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

// Error represents an application error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error kind.
// A booking conflict answers 400 like any other rejected request.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Helpers for common errors
func NewValidation(message string) *Error   { return newError(Validation, message) }
func NewUnauthorized(message string) *Error { return newError(Unauthorized, message) }
func NewForbidden(message string) *Error    { return newError(Forbidden, message) }
func NewNotFound(message string) *Error     { return newError(NotFound, message) }
func NewConflict(message string) *Error     { return newError(Conflict, message) }

// Wrap marks err as an unexpected failure described by message.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Unexpected, Message: message, Err: err}
}

// KindOf returns the kind of err, or Unexpected for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unexpected
}

// As extracts the *Error from err's chain. Foreign errors are wrapped as Unexpected.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Unexpected error")
}
