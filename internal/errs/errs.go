// Package errs defines the error kinds the API can report.
//
// Each kind is a sentinel. Errors built with E carry a client-facing
// message and match their kind with errors.Is, so the HTTP layer can pick
// a status code without inspecting message strings.
package errs

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
)

// Error is a kinded error with a message safe to show to API clients.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Is reports a match against the kind sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// E builds a kinded error with a client-facing message.
func E(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap builds a kinded error that keeps cause for logging.
func Wrap(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Message returns the client-facing text of err, and false when err is not
// a kinded error.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
