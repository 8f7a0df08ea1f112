package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// ErrInvalidRepository indicates a repository name not in "owner/name" form.
var ErrInvalidRepository = errors.New("github: repository must be owner/name")

// wrapError converts go-github errors to domain errors.
//
//   - primary, secondary and 403/429 responses: *domain.RateLimitError
//   - other error responses: *domain.APIError
//   - undecodable bodies: domain.ErrProtocol
//   - anything else: domain.ErrTransport
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		rlErr := &domain.RateLimitError{
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
		if !rateLimitErr.Rate.Reset.IsZero() {
			rlErr.ResetAt = rateLimitErr.Rate.Reset.Time
			rlErr.HasReset = true
		}
		return rlErr
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		rlErr := &domain.RateLimitError{}
		if abuseErr.RetryAfter != nil {
			rlErr.ResetAt = time.Now().Add(*abuseErr.RetryAfter)
			rlErr.HasReset = true
		}
		return rlErr
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		if status == http.StatusForbidden || status == http.StatusTooManyRequests {
			return rateLimitFromResponse(ghErr.Response)
		}
		apiErr := &domain.APIError{
			StatusCode: status,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrProtocol, err)
	}

	return fmt.Errorf("%s: %w: %w", operation, domain.ErrTransport, err)
}

// rateLimitFromResponse builds a rate limit error from response headers.
// Retry-After takes precedence over X-RateLimit-Reset.
func rateLimitFromResponse(resp *http.Response) *domain.RateLimitError {
	rlErr := &domain.RateLimitError{}
	if res, ok := resourceFromHeader(resp.Header, ""); ok {
		rlErr.Remaining = res.Remaining
		rlErr.Limit = res.Limit
		if !res.ResetAt.IsZero() {
			rlErr.ResetAt = res.ResetAt
			rlErr.HasReset = true
		}
	}
	if after, ok := retryAfter(resp.Header); ok {
		rlErr.ResetAt = time.Now().Add(after)
		rlErr.HasReset = true
	}
	return rlErr
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, domain.ErrNotFound)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}
