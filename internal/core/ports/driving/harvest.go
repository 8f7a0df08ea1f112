package driving

import (
	"context"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// HarvestOptions configures a harvest run.
type HarvestOptions struct {
	PerPage    int
	MaxResults int

	// Workers bounds concurrent fetch+scan of search items.
	Workers int

	MaxContextLength int

	// Analyze enables keyword search and pattern scanning of downloads.
	// Downloads are still scanned for the report sink when it is off.
	Analyze bool

	// KeywordLimit caps keyword matches kept per file. Zero keeps all.
	KeywordLimit int

	// OnResult, when set, receives every item's result in search order
	// once its dork has been processed.
	OnResult func(domain.FileResult)
}

// Harvester searches dorks, downloads hits and scans them.
type Harvester interface {
	// Run processes dorks in order. A failing dork does not stop the batch.
	Run(ctx context.Context, dorks []string, opts HarvestOptions) (*domain.HarvestSummary, error)
}

// FileScan is the result of scanning one local file.
type FileScan struct {
	Path     string
	Keywords []domain.KeywordMatch
	Findings []domain.Finding
	Stats    domain.FindingStats
}

// FileScanner scans local files with the detection engine.
type FileScanner interface {
	ScanFile(ctx context.Context, path, keyword string, maxContext int) (*FileScan, error)
}
