package clickup

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// APIError is a failed ClickUp request: a non-2xx response or a transport error.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("clickup: %s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("clickup: API error %d (%s): %s (%s %s)", e.StatusCode, e.Code, e.Message, e.Method, e.URL)
	}
	return fmt.Sprintf("clickup: API error %d: %s (%s %s)", e.StatusCode, e.Message, e.Method, e.URL)
}

// Unwrap exposes domain.ErrUpstreamUnavailable and the transport cause.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrUpstreamUnavailable}
	}
	return []error{domain.ErrUpstreamUnavailable, e.Err}
}

// errorBody is the error envelope ClickUp returns on failure.
type errorBody struct {
	Err   string `json:"err"`
	ECode string `json:"ECODE"`
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error indicates a rejected token.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsRateLimited checks if the error is a 429 response.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}
