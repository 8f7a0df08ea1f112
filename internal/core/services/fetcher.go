package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// FetchResult is either retrieved content or an explained absence.
type FetchResult struct {
	Content *domain.RawContent

	// Err is set when Content is nil and always wraps domain.ErrContentUnavailable.
	Err error
}

// Found reports whether content was retrieved.
func (r FetchResult) Found() bool {
	return r.Content != nil
}

// ContentFetcher retrieves raw bytes for one repository path.
// It bypasses the rate limit guard and never retries.
type ContentFetcher struct {
	source driven.ContentSource
	events driven.EventSink
}

// NewContentFetcher creates a fetcher over a content source.
func NewContentFetcher(source driven.ContentSource, events driven.EventSink) *ContentFetcher {
	return &ContentFetcher{
		source: source,
		events: events,
	}
}

// Fetch resolves then downloads the file. Failures yield an absent result;
// the caller skips the file and carries on.
func (f *ContentFetcher) Fetch(ctx context.Context, repository, path string) FetchResult {
	desc, err := f.source.Resolve(ctx, repository, path)
	if err != nil {
		return f.absent(repository, path, "resolve", err)
	}

	data, err := f.source.Download(ctx, desc)
	if err != nil {
		return f.absent(repository, path, "download", err)
	}

	return FetchResult{
		Content: &domain.RawContent{
			Repository: repository,
			Path:       path,
			Data:       data,
		},
	}
}

func (f *ContentFetcher) absent(repository, path, step string, cause error) FetchResult {
	emit(f.events, domain.EventWarn, "failed to download file", map[string]any{
		"repository": repository,
		"path":       path,
		"step":       step,
		"error":      cause.Error(),
	})
	return FetchResult{
		Err: fmt.Errorf("%w: %s %s/%s: %w", domain.ErrContentUnavailable, step, repository, path, cause),
	}
}
