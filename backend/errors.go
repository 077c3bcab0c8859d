package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers connection failures, non-2xx statuses and unreadable bodies.
	ErrTransport = errors.New("transport failure")
	// ErrContract covers replies that arrive but do not have the agreed shape.
	ErrContract = errors.New("contract violation")
)

// Error describes a failed backend call. errors.Is matches both the Kind
// sentinel and the underlying cause.
type Error struct {
	Op     string
	Status int
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportError(op string, status int, err error) *Error {
	return &Error{Op: op, Status: status, Kind: ErrTransport, Err: err}
}

func contractError(op string, err error) *Error {
	return &Error{Op: op, Kind: ErrContract, Err: err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}
