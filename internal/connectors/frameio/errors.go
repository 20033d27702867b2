package frameio

import (
	"errors"
	"fmt"
	"time"
)

// Connector-specific errors.
var (
	// ErrNoEndpoint indicates every candidate endpoint for an
	// operation failed.
	ErrNoEndpoint = errors.New("frameio: no working endpoint")

	// ErrNoRootFolder indicates the project payload carried no root
	// folder reference.
	ErrNoRootFolder = errors.New("frameio: project has no root folder")
)

// RateLimitError represents a rate limit whose retry budget is exhausted.
type RateLimitError struct {
	Attempts int
	LastWait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("frameio: rate limit retries exhausted after %d attempts", e.Attempts)
}

// APIError represents a non-retryable API error response.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("frameio: API error %d (URL: %s)", e.StatusCode, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}
