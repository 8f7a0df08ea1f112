package github

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

const (
	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRateResource names the quota bucket a response was charged to.
	HeaderRateResource = "X-RateLimit-Resource"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// Ensure Client implements the interface.
var _ driven.QuotaSource = (*Client)(nil)

// Snapshot reads every quota bucket from the rate_limit endpoint.
// The endpoint itself does not consume quota. Results are never cached.
func (c *Client) Snapshot(ctx context.Context) (domain.QuotaSnapshot, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, wrapError(err, "get rate limit")
	}
	return snapshotFromLimits(limits), nil
}

// snapshotFromLimits keeps only the buckets the API reported.
func snapshotFromLimits(limits *gh.RateLimits) domain.QuotaSnapshot {
	snap := make(domain.QuotaSnapshot)
	if limits == nil {
		return snap
	}

	add := func(name string, r *gh.Rate) {
		if r == nil {
			return
		}
		snap[name] = domain.RateLimitResource{
			Name:      name,
			Remaining: r.Remaining,
			Limit:     r.Limit,
			ResetAt:   r.Reset.Time,
		}
	}
	add(domain.ResourceCore, limits.Core)
	add(domain.ResourceSearch, limits.Search)
	add(domain.ResourceCodeSearch, limits.CodeSearch)
	add(domain.ResourceGraphQL, limits.GraphQL)
	return snap
}

// resourceFromHeader parses the X-RateLimit-* headers of a response.
// ok is false when neither remaining nor limit is present.
func resourceFromHeader(h http.Header, fallbackName string) (domain.RateLimitResource, bool) {
	res := domain.RateLimitResource{Name: h.Get(HeaderRateResource)}
	if res.Name == "" {
		res.Name = fallbackName
	}

	found := false
	if v, err := strconv.Atoi(h.Get(HeaderRateRemaining)); err == nil {
		res.Remaining = v
		found = true
	}
	if v, err := strconv.Atoi(h.Get(HeaderRateLimit)); err == nil {
		res.Limit = v
		found = true
	}
	if v, err := strconv.ParseInt(h.Get(HeaderRateReset), 10, 64); err == nil {
		res.ResetAt = time.Unix(v, 0)
	}
	return res, found
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get(HeaderRetryAfter)
	if v == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// newDownloadLimiter returns the raw download throttle, or nil when disabled.
func newDownloadLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
