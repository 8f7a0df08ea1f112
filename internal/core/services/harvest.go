package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
	"github.com/custodia-labs/gitminer/internal/core/ports/driving"
	"github.com/custodia-labs/gitminer/internal/scanner"
)

// Ensure Harvester implements the interfaces.
var (
	_ driving.Harvester   = (*Harvester)(nil)
	_ driving.FileScanner = (*Harvester)(nil)
)

// Harvest defaults applied when options are left zero.
const (
	DefaultPerPage    = 30
	DefaultMaxResults = 200
	DefaultWorkers    = 4
)

// HarvesterDeps are the collaborators of a Harvester.
// Stores, report sink and events are optional.
type HarvesterDeps struct {
	Paginator *SearchPaginator
	Fetcher   *ContentFetcher
	Engine    *scanner.Engine

	RawFiles driven.RawFileStore
	Runs     driven.SearchRunStore
	Files    driven.FileStore
	Findings driven.FindingStore
	Reports  driven.ReportSink

	Clock  driven.Clock
	Events driven.EventSink
}

// Harvester runs dorks end to end: search, download, scan, record, report.
type Harvester struct {
	deps HarvesterDeps
}

// NewHarvester creates a harvester. A nil engine scans with the built-in
// registry and a nil clock defaults to SystemClock.
func NewHarvester(deps HarvesterDeps) *Harvester {
	if deps.Engine == nil {
		deps.Engine = scanner.NewEngine(scanner.DefaultRegistry())
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	return &Harvester{deps: deps}
}

// Run processes dorks sequentially. Search failures are recorded in the
// summary and the batch moves on; only cancellation aborts it.
func (h *Harvester) Run(ctx context.Context, dorks []string, opts driving.HarvestOptions) (*domain.HarvestSummary, error) {
	if h.deps.Paginator == nil || h.deps.Fetcher == nil {
		return nil, fmt.Errorf("harvest: search pipeline not configured")
	}
	opts = normaliseOptions(opts)

	summary := &domain.HarvestSummary{
		BySeverity: make(map[domain.SeverityTier]int),
	}

	for _, dork := range dorks {
		dork = strings.TrimSpace(dork)
		if dork == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Dorks++
		if err := h.harvestDork(ctx, dork, opts, summary); err != nil {
			return summary, err
		}
	}

	emit(h.deps.Events, domain.EventInfo, "harvest complete", map[string]any{
		"dorks":      summary.Dorks,
		"results":    summary.Results,
		"downloaded": summary.Downloaded,
		"findings":   summary.Findings,
		"failed":     len(summary.Failed),
	})

	return summary, nil
}

func normaliseOptions(opts driving.HarvestOptions) driving.HarvestOptions {
	if opts.PerPage == 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxContextLength < 1 {
		opts.MaxContextLength = scanner.DefaultMaxContextLength
	}
	return opts
}

// harvestDork returns an error only when ctx is done.
func (h *Harvester) harvestDork(
	ctx context.Context,
	dork string,
	opts driving.HarvestOptions,
	summary *domain.HarvestSummary,
) error {
	emit(h.deps.Events, domain.EventInfo, "processing dork", map[string]any{"dork": dork})

	outcome, err := h.deps.Paginator.Paginate(ctx, dork, opts.PerPage, opts.MaxResults)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		summary.Failed = append(summary.Failed, dork)
		emit(h.deps.Events, domain.EventError, "search failed", map[string]any{
			"dork":  dork,
			"items": len(outcome.Items),
			"error": err.Error(),
		})
	}

	run := domain.SearchRun{
		ID:           uuid.New().String(),
		Dork:         dork,
		SearchedAt:   h.deps.Clock.Now().UTC(),
		ResultsCount: len(outcome.Items),
	}
	keyword := scanner.KeywordFromQuery(dork)

	results, err := h.processItems(ctx, run, keyword, outcome.Items, opts)
	if err != nil {
		return err
	}

	var rows []domain.ReportRow
	for _, res := range results {
		if res.Downloaded {
			run.DownloadedCount++
		}
		for _, f := range res.Findings {
			summary.BySeverity[f.Severity]++
			rows = append(rows, domain.ReportRow{
				Severity:    f.Severity,
				Label:       f.Label,
				MatchedText: f.MatchedText,
				Context:     f.Context,
				LineNumber:  f.LineNumber,
				Repository:  res.Item.Repository,
				Path:        res.Item.Path,
				LocalPath:   res.LocalPath,
				URL:         res.Item.HTMLURL,
			})
		}
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	summary.Results += run.ResultsCount
	summary.Downloaded += run.DownloadedCount
	summary.Findings += len(rows)

	if h.deps.Runs != nil {
		if err := h.deps.Runs.SaveRun(ctx, run); err != nil {
			h.warn("failed to record search run", dork, err)
		}
	}

	if h.deps.Reports != nil && len(rows) > 0 {
		if err := h.deps.Reports.Write(ctx, dork, rows); err != nil {
			h.warn("failed to write report", dork, err)
		}
	}

	emit(h.deps.Events, domain.EventInfo, "dork processed", map[string]any{
		"dork":       dork,
		"results":    run.ResultsCount,
		"downloaded": run.DownloadedCount,
		"findings":   len(rows),
		"stop":       string(outcome.Stop),
	})
	return nil
}

// processItems fans items out to a bounded worker pool and returns their
// results in item order.
func (h *Harvester) processItems(
	ctx context.Context,
	run domain.SearchRun,
	keyword string,
	items []domain.SearchResultItem,
	opts driving.HarvestOptions,
) ([]domain.FileResult, error) {
	results := make([]domain.FileResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = h.processItem(gctx, run, keyword, item, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Harvester) processItem(
	ctx context.Context,
	run domain.SearchRun,
	keyword string,
	item domain.SearchResultItem,
	opts driving.HarvestOptions,
) domain.FileResult {
	res := domain.FileResult{
		Item:    item,
		Dork:    run.Dork,
		Keyword: keyword,
	}

	fetched := h.deps.Fetcher.Fetch(ctx, item.Repository, item.Path)
	if !fetched.Found() {
		return res
	}
	res.Downloaded = true
	data := fetched.Content.Data

	if h.deps.RawFiles != nil {
		localPath, err := h.deps.RawFiles.Save(data, item.Repository, item.Path, keyword)
		if err != nil {
			h.warn("failed to save raw file", run.Dork, err)
		}
		res.LocalPath = localPath
	}

	var fileID int64
	if h.deps.Files != nil && res.LocalPath != "" {
		id, err := h.deps.Files.SaveFile(ctx, domain.DownloadedFile{
			Dork:       run.Dork,
			Repository: item.Repository,
			Path:       item.Path,
			LocalPath:  res.LocalPath,
			URL:        item.HTMLURL,
			SearchedAt: run.SearchedAt,
			Size:       len(data),
		})
		if err != nil {
			h.warn("failed to record downloaded file", run.Dork, err)
		}
		fileID = id
	}

	// Reports need findings even when analysis output is off.
	if !opts.Analyze && h.deps.Reports == nil {
		return res
	}

	text := scanner.DecodeText(data)
	if opts.Analyze {
		res.Keywords = scanner.FindLines(text, keyword, false)
		if opts.KeywordLimit > 0 && len(res.Keywords) > opts.KeywordLimit {
			res.Keywords = res.Keywords[:opts.KeywordLimit]
		}
	}
	res.Findings = h.deps.Engine.ScanText(text, opts.MaxContextLength)

	if h.deps.Findings != nil && fileID > 0 && len(res.Findings) > 0 {
		if err := h.deps.Findings.SaveFindings(ctx, fileID, res.Findings); err != nil {
			h.warn("failed to record findings", run.Dork, err)
		}
	}

	return res
}

func (h *Harvester) warn(msg, dork string, err error) {
	emit(h.deps.Events, domain.EventWarn, msg, map[string]any{
		"dork":  dork,
		"error": err.Error(),
	})
}

// ScanFile scans one local file with the harvester's engine.
// An empty keyword skips the keyword search.
func (h *Harvester) ScanFile(ctx context.Context, path, keyword string, maxContext int) (*driving.FileScan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	text := scanner.DecodeText(data)
	findings := h.deps.Engine.ScanText(text, maxContext)

	return &driving.FileScan{
		Path:     path,
		Keywords: scanner.FindLines(text, keyword, false),
		Findings: findings,
		Stats:    scanner.Statistics(findings),
	}, nil
}
