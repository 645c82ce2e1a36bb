// Package apperror holds the error kinds surfaced to API callers.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Error pairs an error kind with the message returned to the caller.
// The underlying cause is kept for logging only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Cause }

func InvalidInput(message string, cause error) *Error {
	return &Error{Kind: ErrInvalidInput, Message: message, Cause: cause}
}

func DuplicateKey(message string, cause error) *Error {
	return &Error{Kind: ErrDuplicateKey, Message: message, Cause: cause}
}

func StorageUnavailable(message string, cause error) *Error {
	return &Error{Kind: ErrStorageUnavailable, Message: message, Cause: cause}
}

// StatusCode maps an error to the HTTP status the API answers with
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicateKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message, falling back to fallback for
// errors that carry none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
