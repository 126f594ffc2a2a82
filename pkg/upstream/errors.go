package upstream

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Common errors returned by the client.
var (
	// ErrUpstreamStatus is returned when the menu API answers with a non-2xx status.
	ErrUpstreamStatus = zerr.New("unexpected upstream status")

	// ErrMalformedBody is returned when a response body is not a JSON object.
	ErrMalformedBody = zerr.New("malformed upstream body")
)

// StatusError describes a non-2xx response for one of the menu resources.
type StatusError struct {
	Resource   Resource
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: %s (status %d)", e.Resource, ErrUpstreamStatus, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUpstreamStatus.
func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}
