// Package apperr carries the request-facing error taxonomy shared by the
// intake, payment and generation flows.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies a user-facing failure class. The string value is what
// clients see in the "error" field of a response body.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindUnsupportedFile Kind = "UNSUPPORTED_FILE"
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindInvalidSession  Kind = "INVALID_SESSION"
	KindUnpaid          Kind = "UNPAID"
	KindNoCredits       Kind = "NO_CREDITS"
	KindNotFound        Kind = "NOT_FOUND"
	KindPayment         Kind = "PAYMENT_ERROR"
	KindServer          Kind = "SERVER_ERROR"
)

// Error pairs a Kind with the message shown to the user. Err holds the
// underlying cause, if any, and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindServer for errors
// that did not originate here.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// Status maps a Kind to its HTTP status class.
func Status(kind Kind) int {
	switch kind {
	case KindValidation, KindUnsupportedFile, KindInvalidRequest, KindInvalidSession:
		return http.StatusBadRequest
	case KindUnpaid, KindNoCredits:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
