// Package googleapi holds thin HTTP clients for the Google endpoints
// this service talks to: the OAuth token endpoint, the Drive upload
// and metadata APIs, and Gmail for notifications. Requests are built
// by hand so the wire format stays under our control; responses are
// classified into sentinel errors callers can test with errors.Is.
package googleapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("googleapi: bad request")
	ErrUnauthorized = errors.New("googleapi: unauthorized")
	ErrForbidden    = errors.New("googleapi: forbidden")
	ErrNotFound     = errors.New("googleapi: not found")
	ErrServerError  = errors.New("googleapi: server error")
)

// APIError wraps a sentinel error with the HTTP status code and the
// response body tail for debugging.
type APIError struct {
	StatusCode int
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("googleapi: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err is an API rejection that requires
// the owner to re-establish consent (401/403 class).
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsAPIError reports whether err came back from Google as an HTTP
// error response, as opposed to a transport-level failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}
		return ErrBadRequest
	}
}

func newAPIError(statusCode int, body []byte) *APIError {
	const maxBody = 512
	msg := string(body)
	if len(msg) > maxBody {
		msg = msg[:maxBody]
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    msg,
		Err:        classifyStatus(statusCode),
	}
}
