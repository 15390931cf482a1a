package api

import (
	"fmt"
	"net/http"
)

// StatusError is returned when the remote service answers with anything
// other than 200 OK.
type StatusError struct {
	Code   int
	Reason string
}

// NewStatusError creates a StatusError with the standard reason phrase for code.
func NewStatusError(code int) *StatusError {
	return &StatusError{
		Code:   code,
		Reason: ReasonPhrase(code),
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d (%s)", e.Code, e.Reason)
}

// TransportError is returned when a request could not be built or the
// round trip failed before a complete response was received.
type TransportError struct {
	Err error
}

// Error returns the underlying message unchanged.
func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ReasonPhrase maps an HTTP status code to its standard reason phrase.
// Wording follows net/http, e.g. 413 is "Request Entity Too Large".
func ReasonPhrase(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", code)
}
