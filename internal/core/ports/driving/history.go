package driving

import (
	"context"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// HistoryService answers questions about past harvests.
type HistoryService interface {
	Runs(ctx context.Context, limit int) ([]domain.SearchRun, error)
	Files(ctx context.Context, dork string, limit int) ([]domain.DownloadedFile, error)
	Findings(ctx context.Context, severity domain.SeverityTier, limit int) ([]domain.StoredFinding, error)
	SeverityCounts(ctx context.Context) (map[domain.SeverityTier]int, error)
}

// QuotaService reports the current API quota.
type QuotaService interface {
	Snapshot(ctx context.Context) (domain.QuotaSnapshot, error)
}
