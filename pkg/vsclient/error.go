package vsclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors.
var (
	// ErrInvalidCredential is returned by New when no usable API key is given.
	ErrInvalidCredential = errors.New("vsclient: invalid credential")

	// ErrNotFound is returned when the service does not recognize an ID.
	ErrNotFound = errors.New("vsclient: not found")
)

// Error is a failed remote call as reported by the service.
type Error struct {
	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int `json:"http_status"`

	// Code is the service error code, if any (e.g. "invalid_api_key").
	Code string `json:"code,omitempty"`

	// Type is the service error type (e.g. "invalid_request_error").
	Type string `json:"type,omitempty"`

	// Message is the human readable message.
	Message string `json:"message"`

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("vsclient: %s (status=%d, code=%s)", e.Message, e.HTTPStatus, e.Code)
	}
	return fmt.Sprintf("vsclient: %s (status=%d)", e.Message, e.HTTPStatus)
}

// Unwrap exposes ErrNotFound for 404 responses and the SDK error otherwise.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.IsNotFound() {
		errs = append(errs, ErrNotFound)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// IsNotFound returns true if the resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsUnauthorized returns true if the API key was rejected.
func (e *Error) IsUnauthorized() bool {
	return e.HTTPStatus == http.StatusUnauthorized || e.Code == "invalid_api_key"
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := vsclient.AsError(err); ok && e.IsRateLimit() {
//	    // back off
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ResolutionError records why the file behind a membership could not be
// resolved while listing filenames.
type ResolutionError struct {
	MembershipID string
	Err          error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("vsclient: resolve membership %s: %v", e.MembershipID, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
