package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps transport failures: DNS, refused connections, timeouts.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrMalformedResponse is returned when a response body cannot be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}
