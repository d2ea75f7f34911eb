package apiclient

import (
	"errors"
	"fmt"
)

// TransportError means no response was received: the API was unreachable,
// the request timed out or its context was cancelled.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is returned for any non-2xx response
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Status)
}

// Detail returns the API's error message when the body carries one
func (e *HTTPError) Detail() string {
	return errorDetail(e.Body)
}

// IsStatus reports whether err is an HTTPError with the given status
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

// IsTransport reports whether err is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
