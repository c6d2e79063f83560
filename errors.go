package piratebay

import (
	"errors"
	"fmt"
)

// RequestError reports a failure below the content layer: the request never
// reached the API, timed out, or came back with a non-success status. It is
// never retried.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("piratebay: %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("piratebay: %s: request failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ContentError reports that the transport succeeded but the payload did not
// match the expected shape, or that a call parameter failed validation before
// any request was dispatched. Field names the first offending field when one
// is known.
type ContentError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ContentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("piratebay: %s: field %q: %v", e.Endpoint, e.Field, e.Err)
	}
	return fmt.Sprintf("piratebay: %s: %v", e.Endpoint, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

var (
	errEmptyQuery     = errors.New("query must not be empty")
	errInvalidPeriod  = errors.New("period must be one of today, twodays, threedays")
	errNotInteger     = errors.New("value is not an integer")
	errMissingField   = errors.New("required field is missing")
	errUnexpectedBody = errors.New("unexpected response shape")
)
