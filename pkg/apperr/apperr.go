package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Validation      Kind = "VALIDATION"
	Unauthenticated Kind = "UNAUTHENTICATED"
	Forbidden       Kind = "FORBIDDEN"
	NotFound        Kind = "NOT_FOUND"
	Conflict        Kind = "CONFLICT"
	InvalidState    Kind = "INVALID_STATE"
	NoAvailability  Kind = "NO_AVAILABILITY"
	NoInventory     Kind = "NO_INVENTORY"
	Upstream        Kind = "UPSTREAM"
	Internal        Kind = "INTERNAL"
)

// Error is a failure with a kind the transport layer can map to a status.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message is the caller-facing text. Unclassified errors never leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Kind != Internal && e.Err != nil {
			return e.Err.Error()
		}
	}
	return "internal server error"
}

func Status(kind Kind) int {
	switch kind {
	case Validation, InvalidState, NoAvailability, NoInventory:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the inverse used by HTTP clients reading a collaborator's reply.
func FromStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return Validation
	case http.StatusUnauthorized:
		return Unauthenticated
	case http.StatusForbidden:
		return Forbidden
	case http.StatusNotFound:
		return NotFound
	case http.StatusConflict:
		return Conflict
	default:
		return Upstream
	}
}
