// Package apperr defines the error kinds surfaced by the service layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	BadRequest
	Conflict
	NotFound
	InvalidCredential
	Unauthorized
	Forbidden
	InsufficientStock
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case BadRequest:
		return "bad_request"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case InvalidCredential:
		return "invalid_credential"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case InsufficientStock:
		return "insufficient_stock"
	}
	return "internal"
}

// Status maps a kind onto the HTTP status code returned to clients.
func (k Kind) Status() int {
	switch k {
	case Validation, BadRequest, InsufficientStock:
		return http.StatusBadRequest
	case InvalidCredential, Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns Internal for errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-safe message carried by err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Server Error"
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
