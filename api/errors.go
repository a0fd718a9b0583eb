package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP-level failure: the backend answered, and the answer was a
// rejection. Message carries the server-supplied human-readable text when
// the body contained one, else the status text.
type Error struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the failure means the presented credential
// was rejected.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsError extracts an *Error when err is HTTP-level. A false return means
// the failure never produced a decodable backend response (transport
// failure, timeout, malformed body) and should be treated as retryable.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
