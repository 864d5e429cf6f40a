package clients

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call to an external API
type ErrorKind string

const (
	// ErrorKindTransport means the request never produced a usable response
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindStatus means the API answered with a non-2xx status
	ErrorKindStatus ErrorKind = "status"

	// ErrorKindDecode means the response body could not be decoded
	ErrorKindDecode ErrorKind = "decode"
)

// APIError is returned by BaseClient and the typed clients built on it
type APIError struct {
	Kind       ErrorKind
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case ErrorKindStatus:
		return fmt.Sprintf("%s %s: API returned status code: %d, response: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
	case ErrorKindDecode:
		return fmt.Sprintf("%s %s: failed to decode response: %v", e.Method, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s %s: failed to make request: %v", e.Method, e.Endpoint, e.Err)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or "" when err is not an APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
