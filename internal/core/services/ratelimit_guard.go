package services

import (
	"context"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// DefaultUnavailableDelay is the conservative wait applied when the quota
// snapshot cannot be read.
const DefaultUnavailableDelay = 5 * time.Second

// RateLimitGuard is a check-and-wait gate consulted before every search request.
//
// It reads a fresh snapshot, sleeps at most once and never re-checks after
// waking. Concurrent consumers of the same quota can still cause the next
// request to be rejected; the paginator's 403 path handles that.
// Callers must not invoke it concurrently for the same quota.
type RateLimitGuard struct {
	quota            driven.QuotaSource
	clock            driven.Clock
	events           driven.EventSink
	unavailableDelay time.Duration
}

// GuardOption configures a RateLimitGuard.
type GuardOption func(*RateLimitGuard)

// WithUnavailableDelay overrides the wait used when no snapshot is available.
func WithUnavailableDelay(d time.Duration) GuardOption {
	return func(g *RateLimitGuard) {
		g.unavailableDelay = d
	}
}

// NewRateLimitGuard creates a guard. A nil clock defaults to SystemClock.
func NewRateLimitGuard(
	quota driven.QuotaSource,
	clock driven.Clock,
	events driven.EventSink,
	opts ...GuardOption,
) *RateLimitGuard {
	if clock == nil {
		clock = SystemClock{}
	}
	g := &RateLimitGuard{
		quota:            quota,
		clock:            clock,
		events:           events,
		unavailableDelay: DefaultUnavailableDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EnsureCapacity waits, at most once, until the first candidate resource
// present in a fresh snapshot is expected to allow needed more requests.
// It only fails when ctx is cancelled during a wait.
func (g *RateLimitGuard) EnsureCapacity(ctx context.Context, candidates []string, needed int) error {
	if needed < 1 {
		needed = 1
	}

	snapshot, err := g.quota.Snapshot(ctx)
	if err != nil || len(snapshot) == 0 {
		fields := map[string]any{"delay": g.unavailableDelay.String()}
		if err != nil {
			fields["error"] = err.Error()
		}
		emit(g.events, domain.EventWarn, "cannot check rate limits, applying conservative wait", fields)
		return g.clock.Sleep(ctx, g.unavailableDelay)
	}

	resource, ok := snapshot.Pick(candidates)
	if !ok {
		return nil
	}
	if resource.HasCapacity(needed) {
		return nil
	}

	wait := resource.WaitUntilReset(g.clock.Now())
	emit(g.events, domain.EventWarn, "quota insufficient, waiting for reset", map[string]any{
		"resource":  resource.Name,
		"remaining": resource.Remaining,
		"needed":    needed,
		"reset_at":  resource.ResetAt.UTC().Format(time.RFC3339),
		"wait":      wait.String(),
	})
	return g.clock.Sleep(ctx, wait)
}
