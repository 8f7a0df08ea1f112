package domain

import "time"

// SearchRun records one dork execution.
type SearchRun struct {
	// ID is the unique identifier (UUID).
	ID              string
	Dork            string
	SearchedAt      time.Time
	ResultsCount    int
	DownloadedCount int
}

// DownloadedFile records a retrieved file. Unique per (Dork, Repository, Path).
type DownloadedFile struct {
	ID         int64
	Dork       string
	Repository string
	Path       string
	LocalPath  string
	URL        string
	SearchedAt time.Time
	Size       int
}

// StoredFinding is a persisted finding joined with its file.
// Unique per (FileID, Label, MatchedText, LineNumber).
type StoredFinding struct {
	Finding
	ID      int64
	FileID  int64
	FoundAt time.Time

	// Populated on reads.
	Repository string
	Path       string
	LocalPath  string
}

// ReportRow is one entry of the ordered stream handed to report writers.
type ReportRow struct {
	Severity    SeverityTier
	Label       string
	MatchedText string
	Context     string
	LineNumber  int
	Repository  string
	Path        string
	LocalPath   string
	URL         string
}

// FileResult is what the harvest pipeline produced for one search item.
type FileResult struct {
	Item       SearchResultItem
	Dork       string
	Keyword    string
	LocalPath  string
	Downloaded bool
	Keywords   []KeywordMatch
	Findings   []Finding
}

// HarvestSummary totals a harvest run.
type HarvestSummary struct {
	Dorks      int
	Results    int
	Downloaded int
	Findings   int
	BySeverity map[SeverityTier]int

	// Failed lists dorks whose search ended with a terminal error.
	Failed []string
}
