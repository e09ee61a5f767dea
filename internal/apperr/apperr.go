// Package apperr defines the typed error carried from the domain services to
// the HTTP boundary, where it is rendered as a localized response envelope.
package apperr

import (
	"errors"
	"fmt"

	"github.com/esslidev/sga-advanced-system/internal/locale"
)

// Error carries an HTTP status, a locale key resolving to a localized
// title/message pair, and the client-control flags driving token renewal and
// forced logout on the frontend.
type Error struct {
	Status int
	Key    locale.Key

	ExpiredAccessToken bool
	ExpiredRenewToken  bool
	AccessUnauthorized bool

	cause error
}

// New constructs a domain error for the given status and locale key.
func New(status int, key locale.Key) *Error {
	return &Error{Status: status, Key: key}
}

// Wrap attaches an underlying cause to a domain error.
func Wrap(cause error, status int, key locale.Key) *Error {
	return &Error{Status: status, Key: key, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %v", e.Key, e.Status, e.cause)
	}
	return fmt.Sprintf("%s (%d)", e.Key, e.Status)
}

func (e *Error) Unwrap() error { return e.cause }

// Flag setters return the receiver so constructors chain.

func (e *Error) WithExpiredAccessToken() *Error {
	e.ExpiredAccessToken = true
	return e
}

func (e *Error) WithExpiredRenewToken() *Error {
	e.ExpiredRenewToken = true
	return e
}

func (e *Error) WithAccessUnauthorized() *Error {
	e.AccessUnauthorized = true
	return e
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
