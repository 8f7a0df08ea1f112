package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

func TestRateLimitGuard_EnsureCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("capacity available returns immediately", func(t *testing.T) {
		clock := newFakeClock()
		guard := NewRateLimitGuard(plentifulQuota(), clock, nil)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Empty(t, clock.Sleeps())
	})

	t.Run("exhausted quota sleeps once until reset", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceCodeSearch: {Name: domain.ResourceCodeSearch, Remaining: 0, Limit: 10, ResetAt: testEpoch.Add(12 * time.Second)},
		}}}
		events := &recordingEvents{}
		guard := NewRateLimitGuard(quota, clock, events)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))

		assert.Equal(t, []time.Duration{13 * time.Second}, clock.Sleeps())
		assert.Equal(t, 1, quota.calls, "must not re-check after waking")
		assert.Equal(t, 1, events.Count(domain.EventWarn))
	})

	t.Run("reset in the past does not wait", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceSearch: {Name: domain.ResourceSearch, Remaining: 0, ResetAt: testEpoch.Add(-time.Minute)},
		}}}
		guard := NewRateLimitGuard(quota, clock, nil)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Equal(t, []time.Duration{0}, clock.Sleeps())
	})

	t.Run("first present candidate wins", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceSearch: {Name: domain.ResourceSearch, Remaining: 0, ResetAt: testEpoch.Add(30 * time.Second)},
			domain.ResourceCore:   {Name: domain.ResourceCore, Remaining: 5000},
		}}}
		guard := NewRateLimitGuard(quota, clock, nil)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Equal(t, []time.Duration{31 * time.Second}, clock.Sleeps())
	})

	t.Run("no candidate present returns immediately", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceGraphQL: {Name: domain.ResourceGraphQL, Remaining: 0},
		}}}
		guard := NewRateLimitGuard(quota, clock, nil)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Empty(t, clock.Sleeps())
	})

	t.Run("needed below one is treated as one", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceCodeSearch: {Name: domain.ResourceCodeSearch, Remaining: 0, ResetAt: testEpoch},
		}}}
		guard := NewRateLimitGuard(quota, clock, nil)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 0))
		assert.Equal(t, []time.Duration{time.Second}, clock.Sleeps())
	})

	t.Run("snapshot unavailable applies conservative delay", func(t *testing.T) {
		clock := newFakeClock()
		quota := &fakeQuota{err: errors.New("connection refused")}
		events := &recordingEvents{}
		guard := NewRateLimitGuard(quota, clock, events)

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Equal(t, []time.Duration{DefaultUnavailableDelay}, clock.Sleeps())
		assert.Equal(t, 1, events.Count(domain.EventWarn))
	})

	t.Run("empty snapshot applies configured delay", func(t *testing.T) {
		clock := newFakeClock()
		guard := NewRateLimitGuard(&fakeQuota{}, clock, nil, WithUnavailableDelay(2*time.Second))

		require.NoError(t, guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1))
		assert.Equal(t, []time.Duration{2 * time.Second}, clock.Sleeps())
	})

	t.Run("cancelled context ends the wait", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		quota := &fakeQuota{snapshots: []domain.QuotaSnapshot{{
			domain.ResourceCodeSearch: {Name: domain.ResourceCodeSearch, Remaining: 0, ResetAt: testEpoch.Add(time.Hour)},
		}}}
		guard := NewRateLimitGuard(quota, newFakeClock(), nil)

		err := guard.EnsureCapacity(cctx, domain.DefaultSearchBuckets, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSystemClock_Sleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SystemClock{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)

	assert.NoError(t, SystemClock{}.Sleep(context.Background(), time.Millisecond))
}
