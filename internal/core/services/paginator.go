package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

const (
	// DefaultPageDelay is the politeness delay between successful pages.
	DefaultPageDelay = time.Second

	// MinRateLimitWait is the shortest wait after a rejected search request.
	// It is also the whole wait when no reset time was reported.
	MinRateLimitWait = 10 * time.Second
)

// SearchPaginator drives multi-page code search retrieval against the
// quota-gated API, bounded by a result cap. Not safe for concurrent use:
// search must stay single-flight for the guard's assumptions to hold.
type SearchPaginator struct {
	searcher   driven.CodeSearcher
	guard      *RateLimitGuard
	clock      driven.Clock
	events     driven.EventSink
	pageDelay  time.Duration
	maxRetries int
}

// PaginatorOption configures a SearchPaginator.
type PaginatorOption func(*SearchPaginator)

// WithPageDelay overrides the politeness delay between pages.
func WithPageDelay(d time.Duration) PaginatorOption {
	return func(p *SearchPaginator) {
		p.pageDelay = d
	}
}

// WithMaxRateLimitRetries bounds consecutive rate-limited retries of the
// same page. Zero, the default, retries until the context is cancelled.
func WithMaxRateLimitRetries(n int) PaginatorOption {
	return func(p *SearchPaginator) {
		p.maxRetries = n
	}
}

// NewSearchPaginator creates a paginator. A nil clock defaults to SystemClock.
func NewSearchPaginator(
	searcher driven.CodeSearcher,
	guard *RateLimitGuard,
	clock driven.Clock,
	events driven.EventSink,
	opts ...PaginatorOption,
) *SearchPaginator {
	if clock == nil {
		clock = SystemClock{}
	}
	p := &SearchPaginator{
		searcher:  searcher,
		guard:     guard,
		clock:     clock,
		events:    events,
		pageDelay: DefaultPageDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paginate retrieves up to maxResults items for query, perPage at a time.
//
// On a terminal error the outcome still carries the items gathered so far
// with Stop set to StopError.
func (p *SearchPaginator) Paginate(
	ctx context.Context, query string, perPage, maxResults int,
) (domain.SearchOutcome, error) {
	outcome := domain.SearchOutcome{}

	if perPage < domain.MinPerPage || perPage > domain.MaxPerPage {
		outcome.Stop = domain.StopError
		return outcome, fmt.Errorf("%w: per page must be between %d and %d, got %d",
			domain.ErrInvalidInput, domain.MinPerPage, domain.MaxPerPage, perPage)
	}
	if maxResults <= 0 {
		outcome.Stop = domain.StopMaxResults
		return outcome, nil
	}

	page := 1
	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			outcome.Stop = domain.StopError
			return outcome, err
		}

		if err := p.guard.EnsureCapacity(ctx, domain.DefaultSearchBuckets, 1); err != nil {
			outcome.Stop = domain.StopError
			return outcome, err
		}

		result, err := p.searcher.SearchCode(ctx, domain.SearchRequest{
			Query:   query,
			PerPage: perPage,
			Page:    page,
		})
		if err != nil {
			var rlErr *domain.RateLimitError
			if errors.As(err, &rlErr) {
				retries++
				if p.maxRetries > 0 && retries > p.maxRetries {
					outcome.Stop = domain.StopError
					return outcome, fmt.Errorf("page %d still rate limited after %d retries: %w",
						page, p.maxRetries, err)
				}
				if err := p.waitRateLimit(ctx, rlErr, page); err != nil {
					outcome.Stop = domain.StopError
					return outcome, err
				}
				continue
			}

			outcome.Stop = domain.StopError
			return outcome, fmt.Errorf("search page %d: %w", page, err)
		}
		retries = 0
		outcome.Pages++
		p.reportQuota(result.Quota)

		if len(result.Items) == 0 {
			outcome.Stop = domain.StopExhausted
			break
		}

		for _, item := range result.Items {
			outcome.Items = append(outcome.Items, item)
			if len(outcome.Items) >= maxResults {
				outcome.Stop = domain.StopMaxResults
				break
			}
		}
		if outcome.Stop == domain.StopMaxResults {
			break
		}

		if len(result.Items) < perPage {
			outcome.Stop = domain.StopShortPage
			break
		}

		page++
		if err := p.clock.Sleep(ctx, p.pageDelay); err != nil {
			outcome.Stop = domain.StopError
			return outcome, err
		}
	}

	emit(p.events, domain.EventInfo, "search finished", map[string]any{
		"query":   query,
		"results": len(outcome.Items),
		"pages":   outcome.Pages,
		"stop":    string(outcome.Stop),
	})
	return outcome, nil
}

// waitRateLimit sleeps after a rejected request before the same page is retried.
func (p *SearchPaginator) waitRateLimit(ctx context.Context, rlErr *domain.RateLimitError, page int) error {
	wait := MinRateLimitWait
	fields := map[string]any{"page": page}
	if rlErr.HasReset {
		if untilReset := rlErr.ResetAt.Sub(p.clock.Now()) + time.Second; untilReset > wait {
			wait = untilReset
		}
		fields["reset_at"] = rlErr.ResetAt.UTC().Format(time.RFC3339)
	}
	fields["wait"] = wait.String()

	emit(p.events, domain.EventWarn, "rate limit exceeded, retrying page after wait", fields)
	return p.clock.Sleep(ctx, wait)
}

func (p *SearchPaginator) reportQuota(quota *domain.RateLimitResource) {
	if quota == nil {
		return
	}
	emit(p.events, domain.EventDebug, "rate limit", map[string]any{
		"resource":  quota.Name,
		"remaining": quota.Remaining,
		"limit":     quota.Limit,
		"reset_at":  quota.ResetAt.UTC().Format(time.RFC3339),
	})
}
