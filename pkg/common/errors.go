package common

import (
	"errors"
	"fmt"
)

// Returned when a source delivered no usable release.
var ErrNoCandidates = errors.New("no release candidates")

// A transport level failure (DNS, connection, timeout).
type NetworkError struct {
	Url string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to '%s' failed: %v", e.Url, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// An unexpected status code returned by an upstream.
type HttpStatusError struct {
	Url        string
	StatusCode int
}

func (e *HttpStatusError) Error() string {
	return fmt.Sprintf("request to '%s' returned status code %d", e.Url, e.StatusCode)
}

// A payload that could not be parsed.
type ParseError struct {
	// What was parsed (eg. "chart index").
	Subject string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing the %s: %v", e.Subject, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// A failed registry token exchange.
type AuthError struct {
	Registry string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed authenticating against '%s': %v", e.Registry, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Maps an error to the category used for failure reporting.
func CategoryOf(err error) FailureCategory {
	var authErr *AuthError
	var parseErr *ParseError
	var statusErr *HttpStatusError
	var networkErr *NetworkError
	switch {
	case err == nil:
		return FAILURE_CATEGORY_UNKNOWN
	case errors.Is(err, ErrNoCandidates):
		return FAILURE_CATEGORY_NO_CANDIDATES
	case errors.As(err, &authErr):
		return FAILURE_CATEGORY_AUTH
	case errors.As(err, &parseErr):
		return FAILURE_CATEGORY_PARSE
	case errors.As(err, &statusErr):
		return FAILURE_CATEGORY_HTTP_STATUS
	case errors.As(err, &networkErr):
		return FAILURE_CATEGORY_NETWORK
	}
	return FAILURE_CATEGORY_UNKNOWN
}
