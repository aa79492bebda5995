package service

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrStorage       = errors.New("storage error")
	ErrInvalidToken  = errors.New("invalid token")
	ErrMisconfigured = errors.New("config invalid")
)

// Error pairs one of the sentinel kinds with a message safe to show the
// client. errors.Is matches both the kind and the wrapped cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func storageError(err error) *Error {
	return &Error{Kind: ErrStorage, Message: "storage failure", Err: err}
}

func unauthorized(message string) *Error {
	return newError(ErrUnauthorized, message)
}

// Message returns the client-facing text for err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
