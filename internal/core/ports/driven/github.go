package driven

import (
	"context"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// QuotaSource returns named rate limit resources. Read-only.
type QuotaSource interface {
	// Snapshot fetches the current quota state. Implementations must not cache.
	Snapshot(ctx context.Context) (domain.QuotaSnapshot, error)
}

// CodeSearcher requests one page of code search results.
//
// Errors are classified as:
//   - *domain.RateLimitError for HTTP 403/429 (recoverable)
//   - *domain.APIError for any other non-success status
//   - errors wrapping domain.ErrTransport when the API is unreachable
type CodeSearcher interface {
	SearchCode(ctx context.Context, req domain.SearchRequest) (*domain.SearchPage, error)
}

// ContentSource resolves and downloads file contents.
// Content retrieval does not consume search quota.
type ContentSource interface {
	// Resolve returns a descriptor with a direct download reference.
	Resolve(ctx context.Context, repository, path string) (domain.ContentDescriptor, error)

	// Download fetches the raw bytes behind a descriptor.
	Download(ctx context.Context, desc domain.ContentDescriptor) ([]byte, error)
}
