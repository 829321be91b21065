// ABOUTME: Authentication and authorization error types
// ABOUTME: Carries client-facing messages alongside Is-matchable sentinel kinds

package auth

import "errors"

// Sentinel kinds for authentication and authorization failures.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is an authentication or authorization failure with a client-facing
// message. It unwraps to ErrUnauthorized or ErrForbidden so callers can
// match with errors.Is while the message travels to the response body.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Unauthorized returns a 401-class error with the given message.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden returns a 403-class error with the given message.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}
