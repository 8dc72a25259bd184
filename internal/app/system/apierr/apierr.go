// Package apierr carries the error taxonomy used across handlers,
// stores, and the cascade engine, and maps each kind to a transport
// status code.
//
// Kinds:
//   - Unauthenticated: no/invalid session (401)
//   - Forbidden: authenticated but lacks permission (403)
//   - InvalidArgument: malformed id, blank required field, bad value (400)
//   - NotFound: entity absent (404)
//   - Conflict: duplicate unique field (409)
//   - Upstream: external provider call failed (502)
//   - Internal: unexpected storage/runtime failure (500)
package apierr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	InvalidArgument
	NotFound
	Conflict
	Upstream
)

// Status returns the transport status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case InvalidArgument:
		return http.StatusBadRequest
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

// Error is a kinded error with a caller-safe message. Msg is what ends
// up in the response envelope; Err (optional) is the underlying cause
// and is only ever logged, never serialized.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kinded error with a caller-safe message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap attaches a kind and caller-safe message to an underlying cause.
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal for
// unclassified errors so unexpected failures never leak details.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the caller-safe message for err. Unclassified errors
// report a generic message rather than their internals.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "something went wrong"
}
