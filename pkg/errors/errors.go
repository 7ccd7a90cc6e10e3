// Package errors augments standard errors with a Wrap method,
// so call sites can chain a typed error without going through
// fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New returns a new Error with the given message
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is an error message with an optional wrapped cause.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	if e == nil || e.err == nil {
		return false
	}
	return stderr.Is(e.err, target)
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
