package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
	"github.com/custodia-labs/gitminer/internal/core/ports/driving"
)

// Ensure services implement the interfaces.
var (
	_ driving.HistoryService = (*HistoryService)(nil)
	_ driving.QuotaService   = (*QuotaService)(nil)
)

// DefaultHistoryLimit applies when a non-positive limit is requested.
const DefaultHistoryLimit = 50

// HistoryService reads past harvests back from the stores.
type HistoryService struct {
	runs     driven.SearchRunStore
	files    driven.FileStore
	findings driven.FindingStore
}

// NewHistoryService creates a history service.
func NewHistoryService(runs driven.SearchRunStore, files driven.FileStore, findings driven.FindingStore) *HistoryService {
	return &HistoryService{
		runs:     runs,
		files:    files,
		findings: findings,
	}
}

// Runs returns recent search runs, newest first.
func (s *HistoryService) Runs(ctx context.Context, limit int) ([]domain.SearchRun, error) {
	runs, err := s.runs.ListRuns(ctx, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Files returns downloaded files, optionally filtered by dork.
func (s *HistoryService) Files(ctx context.Context, dork string, limit int) ([]domain.DownloadedFile, error) {
	files, err := s.files.ListFiles(ctx, dork, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Findings returns stored findings of one severity tier.
func (s *HistoryService) Findings(
	ctx context.Context,
	severity domain.SeverityTier,
	limit int,
) ([]domain.StoredFinding, error) {
	if !severity.IsValid() {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidInput, severity)
	}
	findings, err := s.findings.ListBySeverity(ctx, severity, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	return findings, nil
}

// SeverityCounts returns stored finding totals per tier. Every tier is present.
func (s *HistoryService) SeverityCounts(ctx context.Context) (map[domain.SeverityTier]int, error) {
	counts, err := s.findings.CountBySeverity(ctx)
	if err != nil {
		return nil, fmt.Errorf("count findings: %w", err)
	}
	out := make(map[domain.SeverityTier]int, len(domain.AllSeverities()))
	for _, tier := range domain.AllSeverities() {
		out[tier] = counts[tier]
	}
	return out, nil
}

func normaliseLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}

// QuotaService exposes the API quota snapshot.
type QuotaService struct {
	source driven.QuotaSource
}

// NewQuotaService creates a quota service.
func NewQuotaService(source driven.QuotaSource) *QuotaService {
	return &QuotaService{source: source}
}

// Snapshot fetches the current quota.
func (s *QuotaService) Snapshot(ctx context.Context) (domain.QuotaSnapshot, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return snap, nil
}
