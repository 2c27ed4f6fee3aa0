// Package serrors carries typed failure kinds through ordinary error chains.
package serrors

import (
	"errors"
	"fmt"
)

type Kind interface {
	error
	kind()
}

type kindName string

func (k kindName) Error() string { return string(k) }
func (k kindName) kind()         {}

func NewKind(name string) Kind { return kindName(name) }

// Pipeline failure kinds.
var (
	// ErrNetwork is a transient fetch failure; adapters retry it.
	ErrNetwork = NewKind("NETWORK")
	// ErrRenderTimeout is a headless render that overran its deadline.
	ErrRenderTimeout = NewKind("RENDER_TIMEOUT")
	// ErrParse is scoped to a single listing card.
	ErrParse = NewKind("PARSE")
	// ErrTransport is an email delivery failure.
	ErrTransport = NewKind("TRANSPORT")
)

// Generic kinds used by the storage and API layers.
var (
	ErrNotFound   = NewKind("NOT_FOUND")
	ErrBadRequest = NewKind("BAD_REQUEST")
	ErrConflict   = NewKind("CONFLICT")
	// ErrUnprocessable is a well-formed request the current state cannot serve.
	ErrUnprocessable = NewKind("UNPROCESSABLE")
	ErrUnauthorized  = NewKind("UNAUTHORIZED")
	ErrInternal      = NewKind("INTERNAL")
)

type Error struct {
	kind Kind
	err  error
	msg  string
}

func With(k Kind, format string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(format, args...)}
}

func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is matches either the kind sentinel or anything in the wrapped chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	return e.err != nil && errors.Is(e.err, target)
}

func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the first Kind found in err's chain, or nil.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) && se.kind != nil {
		return se.kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return nil
}

// IsRetryable reports whether err belongs to a kind adapters retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrRenderTimeout)
}
