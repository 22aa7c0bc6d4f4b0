// Package apperr holds the error kinds every service surfaces to the HTTP boundary.
package apperr

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidState  = errors.New("invalid state")
)

// Error carries a kind sentinel plus a human readable message.
// errors.Is(err, ErrConflict) matches any *Error of that kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error    { return newError(ErrValidation, msg) }
func Authorization(msg string) *Error { return newError(ErrAuthorization, msg) }
func NotFound(msg string) *Error      { return newError(ErrNotFound, msg) }
func Conflict(msg string) *Error      { return newError(ErrConflict, msg) }
func InvalidState(msg string) *Error  { return newError(ErrInvalidState, msg) }

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Message returns the user facing text of err, or "" when err carries none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}
