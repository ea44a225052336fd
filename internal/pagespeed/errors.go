package pagespeed

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by Fetch when the client has no API key.
	ErrMissingAPIKey = errors.New("pagespeed: API key is not configured")

	// ErrUnexpectedStatus is wrapped by TransportError for non-2xx responses.
	ErrUnexpectedStatus = errors.New("pagespeed: unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// TransportError reports a failed request to the audit API: the connection
// failed, the context ended, or the server answered with a non-2xx status.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pagespeed request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pagespeed request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ShapeError reports a response body that lacks a required field or cannot
// be decoded at all.
type ShapeError struct {
	// Field names the missing or invalid field, empty when decoding failed.
	Field string

	// Err is the decoding error, if any.
	Err error
}

func (e *ShapeError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("malformed pagespeed response: %s: %v", e.Field, e.Err)
	case e.Field != "":
		return "malformed pagespeed response: missing " + e.Field
	default:
		return fmt.Sprintf("malformed pagespeed response: %v", e.Err)
	}
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
