package driven

import (
	"context"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// SearchRunStore persists dork executions.
type SearchRunStore interface {
	// SaveRun stores or updates a run keyed by its ID.
	SaveRun(ctx context.Context, run domain.SearchRun) error

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]domain.SearchRun, error)
}

// FileStore persists downloaded file records.
type FileStore interface {
	// SaveFile upserts by (dork, repository, path) and returns the record ID.
	SaveFile(ctx context.Context, file domain.DownloadedFile) (int64, error)

	// ListFiles returns files for a dork, or all files when dork is empty.
	ListFiles(ctx context.Context, dork string, limit int) ([]domain.DownloadedFile, error)
}

// FindingStore persists scan findings.
type FindingStore interface {
	// SaveFindings upserts findings for a file. Re-saving the same finding is a no-op.
	SaveFindings(ctx context.Context, fileID int64, findings []domain.Finding) error

	// ListBySeverity returns findings of one tier, newest first.
	ListBySeverity(ctx context.Context, severity domain.SeverityTier, limit int) ([]domain.StoredFinding, error)

	// CountBySeverity returns totals per tier.
	CountBySeverity(ctx context.Context) (map[domain.SeverityTier]int, error)
}

// RawFileStore keeps local copies of downloaded files.
type RawFileStore interface {
	// Save writes content and returns the local path.
	Save(content []byte, repository, path, keyword string) (string, error)
}
