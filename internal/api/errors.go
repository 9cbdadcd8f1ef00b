package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// It is a hard, non-retryable termination of the current session: by the
// time a caller sees it, the persisted and in-memory session have already
// been cleared and the unauthorized hook has fired.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a normalized non-2xx backend response.
type Error struct {
	// StatusCode is the HTTP status the backend answered with.
	StatusCode int

	// Message is the human-readable message from the error payload, or
	// the generic fallback when the payload was not parseable.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// errorPayload is the JSON error shape the backend uses.
type errorPayload struct {
	Message string `json:"message"`
}
