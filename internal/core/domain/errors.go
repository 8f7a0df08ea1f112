package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates a detection pattern or label expression
	// could not be compiled. Raised while building a registry, never mid-scan.
	ErrInvalidPattern = errors.New("invalid pattern")

	// Search Errors.

	// ErrTransport indicates the API could not be reached at all.
	// Terminal for the current query, non-fatal for the batch.
	ErrTransport = errors.New("transport failure")

	// ErrRateLimited indicates the API rejected a request for quota reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrProtocol indicates the API answered with an unexpected status.
	ErrProtocol = errors.New("unexpected API response")

	// Content Errors.

	// ErrContentUnavailable indicates a file could not be resolved or downloaded.
	// Callers skip the file and continue.
	ErrContentUnavailable = errors.New("content unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates no API token is configured.
	ErrAuthRequired = errors.New("authentication required")
)

// RateLimitError reports a rejected request (HTTP 403/429).
// HasReset is false when the response carried no reset metadata.
type RateLimitError struct {
	ResetAt   time.Time
	HasReset  bool
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if !e.HasReset {
		return "rate limit exceeded, no reset time reported"
	}
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// APIError represents a non-success API response other than a rate limit.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is makes errors.Is(err, ErrProtocol) match.
func (e *APIError) Is(target error) bool {
	return target == ErrProtocol
}
