package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

func newTestPaginator(searcher *fakeSearcher, clock *fakeClock, opts ...PaginatorOption) *SearchPaginator {
	guard := NewRateLimitGuard(plentifulQuota(), clock, nil)
	return NewSearchPaginator(searcher, guard, clock, nil, opts...)
}

func TestSearchPaginator_ShortPageStops(t *testing.T) {
	searcher := &fakeSearcher{responses: []searchResponse{{items: 30}, {items: 5}}}
	clock := newFakeClock()
	p := newTestPaginator(searcher, clock)

	outcome, err := p.Paginate(context.Background(), "filename:.env", 30, 100)
	require.NoError(t, err)

	assert.Len(t, outcome.Items, 35)
	assert.Equal(t, domain.StopShortPage, outcome.Stop)
	assert.Equal(t, 2, outcome.Pages)

	reqs := searcher.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 1, reqs[0].Page)
	assert.Equal(t, 2, reqs[1].Page)
	assert.Equal(t, 30, reqs[1].PerPage)
	assert.Equal(t, []time.Duration{DefaultPageDelay}, clock.Sleeps())
}

func TestSearchPaginator_CapTruncatesExactly(t *testing.T) {
	t.Run("across pages", func(t *testing.T) {
		searcher := &fakeSearcher{responses: []searchResponse{{items: 30}, {items: 30}, {items: 30}}}
		p := newTestPaginator(searcher, newFakeClock())

		outcome, err := p.Paginate(context.Background(), "q", 30, 45)
		require.NoError(t, err)

		assert.Len(t, outcome.Items, 45)
		assert.Equal(t, domain.StopMaxResults, outcome.Stop)
		assert.Len(t, searcher.Requests(), 2)
		assert.Equal(t, "p2/f14.env", outcome.Items[44].Path)
	})

	t.Run("within first page", func(t *testing.T) {
		searcher := &fakeSearcher{responses: []searchResponse{{items: 30}}}
		p := newTestPaginator(searcher, newFakeClock())

		outcome, err := p.Paginate(context.Background(), "q", 30, 10)
		require.NoError(t, err)

		assert.Len(t, outcome.Items, 10)
		assert.Len(t, searcher.Requests(), 1)
	})

	t.Run("never exceeds the cap", func(t *testing.T) {
		for _, perPage := range []int{1, 7, 30, 100} {
			for _, maxResults := range []int{1, 5, 30, 99, 250} {
				responses := make([]searchResponse, 0, 300)
				for i := 0; i < 300; i++ {
					responses = append(responses, searchResponse{items: perPage})
				}
				searcher := &fakeSearcher{responses: responses}
				p := newTestPaginator(searcher, newFakeClock(), WithPageDelay(0))

				outcome, err := p.Paginate(context.Background(), "q", perPage, maxResults)
				require.NoError(t, err)
				assert.Len(t, outcome.Items, maxResults, "perPage=%d maxResults=%d", perPage, maxResults)
			}
		}
	})
}

func TestSearchPaginator_Exhausted(t *testing.T) {
	searcher := &fakeSearcher{responses: []searchResponse{{items: 30}, {items: 0}}}
	p := newTestPaginator(searcher, newFakeClock())

	outcome, err := p.Paginate(context.Background(), "q", 30, 100)
	require.NoError(t, err)

	assert.Len(t, outcome.Items, 30)
	assert.Equal(t, domain.StopExhausted, outcome.Stop)
	assert.Equal(t, 2, outcome.Pages)
}

func TestSearchPaginator_RateLimitRetriesSamePage(t *testing.T) {
	tests := []struct {
		name     string
		err      *domain.RateLimitError
		wantWait time.Duration
	}{
		{
			name:     "reset far ahead",
			err:      &domain.RateLimitError{HasReset: true, ResetAt: testEpoch.Add(60 * time.Second)},
			wantWait: 61 * time.Second,
		},
		{
			name:     "reset imminent uses minimum",
			err:      &domain.RateLimitError{HasReset: true, ResetAt: testEpoch.Add(2 * time.Second)},
			wantWait: MinRateLimitWait,
		},
		{
			name:     "no reset metadata",
			err:      &domain.RateLimitError{},
			wantWait: MinRateLimitWait,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{responses: []searchResponse{{err: tt.err}, {items: 3}}}
			clock := newFakeClock()
			p := newTestPaginator(searcher, clock)

			outcome, err := p.Paginate(context.Background(), "q", 30, 100)
			require.NoError(t, err)

			reqs := searcher.Requests()
			require.Len(t, reqs, 2)
			assert.Equal(t, 1, reqs[0].Page)
			assert.Equal(t, 1, reqs[1].Page)
			assert.Equal(t, 1, outcome.Pages)
			assert.Len(t, outcome.Items, 3)
			assert.Equal(t, []time.Duration{tt.wantWait}, clock.Sleeps())
		})
	}
}

func TestSearchPaginator_MaxRateLimitRetries(t *testing.T) {
	rl := &domain.RateLimitError{}
	searcher := &fakeSearcher{responses: []searchResponse{{err: rl}, {err: rl}, {err: rl}, {items: 1}}}
	clock := newFakeClock()
	p := newTestPaginator(searcher, clock, WithMaxRateLimitRetries(2))

	outcome, err := p.Paginate(context.Background(), "q", 30, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, domain.StopError, outcome.Stop)
	assert.Len(t, searcher.Requests(), 3)
	assert.Len(t, clock.Sleeps(), 2)
}

func TestSearchPaginator_TransportFailureKeepsPartialItems(t *testing.T) {
	searcher := &fakeSearcher{responses: []searchResponse{
		{items: 30},
		{err: fmt.Errorf("%w: connection reset", domain.ErrTransport)},
	}}
	p := newTestPaginator(searcher, newFakeClock())

	outcome, err := p.Paginate(context.Background(), "q", 30, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "search page 2")
	assert.Len(t, outcome.Items, 30)
	assert.Equal(t, domain.StopError, outcome.Stop)
}

func TestSearchPaginator_ProtocolErrorIsTerminal(t *testing.T) {
	searcher := &fakeSearcher{responses: []searchResponse{
		{err: &domain.APIError{StatusCode: 422, Message: "Validation Failed"}},
		{items: 5},
	}}
	p := newTestPaginator(searcher, newFakeClock())

	outcome, err := p.Paginate(context.Background(), "q", 30, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProtocol)
	assert.Empty(t, outcome.Items)
	assert.Len(t, searcher.Requests(), 1)
}

func TestSearchPaginator_InvalidArguments(t *testing.T) {
	for _, perPage := range []int{0, -1, 101} {
		searcher := &fakeSearcher{}
		p := newTestPaginator(searcher, newFakeClock())

		_, err := p.Paginate(context.Background(), "q", perPage, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, searcher.Requests())
	}

	searcher := &fakeSearcher{responses: []searchResponse{{items: 5}}}
	p := newTestPaginator(searcher, newFakeClock())
	outcome, err := p.Paginate(context.Background(), "q", 30, 0)
	require.NoError(t, err)
	assert.Empty(t, outcome.Items)
	assert.Empty(t, searcher.Requests())
}

func TestSearchPaginator_GuardConsultedBeforeEveryRequest(t *testing.T) {
	quota := plentifulQuota()
	clock := newFakeClock()
	searcher := &fakeSearcher{responses: []searchResponse{{items: 2}, {err: &domain.RateLimitError{}}, {items: 1}}}
	p := NewSearchPaginator(searcher, NewRateLimitGuard(quota, clock, nil), clock, nil)

	_, err := p.Paginate(context.Background(), "q", 2, 100)
	require.NoError(t, err)
	assert.Equal(t, len(searcher.Requests()), quota.calls)
}

func TestSearchPaginator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	searcher := &fakeSearcher{responses: []searchResponse{{items: 5}}}
	p := newTestPaginator(searcher, newFakeClock())

	outcome, err := p.Paginate(ctx, "q", 30, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StopError, outcome.Stop)
	assert.Empty(t, searcher.Requests())
}
