package domain

import "time"

// Well-known quota resource names reported by the rate limit endpoint.
const (
	ResourceCodeSearch = "code_search"
	ResourceSearch     = "search"
	ResourceCore       = "core"
	ResourceGraphQL    = "graphql"
)

// DefaultSearchBuckets is the priority order consulted before a search
// request: the most specific bucket first, core as the last resort.
var DefaultSearchBuckets = []string{ResourceCodeSearch, ResourceSearch, ResourceCore}

// RateLimitResource is one named quota bucket.
type RateLimitResource struct {
	Name      string
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// HasCapacity reports whether at least needed requests remain.
func (r RateLimitResource) HasCapacity(needed int) bool {
	return r.Remaining >= needed
}

// WaitUntilReset returns how long to wait from now until one second past
// the reset instant. Never negative.
func (r RateLimitResource) WaitUntilReset(now time.Time) time.Duration {
	wait := r.ResetAt.Sub(now) + time.Second
	if wait < 0 {
		return 0
	}
	return wait
}

// QuotaSnapshot is a point-in-time read of every quota resource.
type QuotaSnapshot map[string]RateLimitResource

// Pick returns the first candidate present in the snapshot.
func (s QuotaSnapshot) Pick(candidates []string) (RateLimitResource, bool) {
	for _, name := range candidates {
		if res, ok := s[name]; ok {
			return res, true
		}
	}
	return RateLimitResource{}, false
}
