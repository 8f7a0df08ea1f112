package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interfaces.
var (
	_ driven.SearchRunStore = (*HistoryStore)(nil)
	_ driven.FileStore      = (*HistoryStore)(nil)
	_ driven.FindingStore   = (*HistoryStore)(nil)
)

type fileKey struct {
	dork, repository, path string
}

type findingKey struct {
	fileID      int64
	label       string
	matchedText string
	lineNumber  int
}

// HistoryStore is an in-memory implementation of the run, file and finding stores.
type HistoryStore struct {
	mu sync.RWMutex

	runs     map[string]domain.SearchRun
	runOrder []string

	files     map[int64]domain.DownloadedFile
	fileIndex map[fileKey]int64
	nextFile  int64

	findings     []domain.StoredFinding
	findingIndex map[findingKey]struct{}
	nextFinding  int64

	now func() time.Time
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		runs:         make(map[string]domain.SearchRun),
		files:        make(map[int64]domain.DownloadedFile),
		fileIndex:    make(map[fileKey]int64),
		findingIndex: make(map[findingKey]struct{}),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SaveRun stores or updates a run.
func (s *HistoryStore) SaveRun(_ context.Context, run domain.SearchRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run ID is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		s.runOrder = append(s.runOrder, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

// ListRuns returns the most recent runs first.
func (s *HistoryStore) ListRuns(_ context.Context, limit int) ([]domain.SearchRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.SearchRun, 0, len(s.runOrder))
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		runs = append(runs, s.runs[s.runOrder[i]])
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].SearchedAt.After(runs[j].SearchedAt)
	})
	return truncate(runs, limit), nil
}

// SaveFile upserts by (dork, repository, path) and returns the record ID.
func (s *HistoryStore) SaveFile(_ context.Context, file domain.DownloadedFile) (int64, error) {
	if file.Repository == "" || file.Path == "" {
		return 0, fmt.Errorf("%w: repository and path are required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fileKey{file.Dork, file.Repository, file.Path}
	id, ok := s.fileIndex[key]
	if !ok {
		s.nextFile++
		id = s.nextFile
		s.fileIndex[key] = id
	}
	file.ID = id
	s.files[id] = file
	return id, nil
}

// ListFiles returns files for a dork, or every file when dork is empty.
func (s *HistoryStore) ListFiles(_ context.Context, dork string, limit int) ([]domain.DownloadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]domain.DownloadedFile, 0, len(s.files))
	for _, f := range s.files {
		if dork == "" || f.Dork == dork {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].SearchedAt.Equal(files[j].SearchedAt) {
			return files[i].SearchedAt.After(files[j].SearchedAt)
		}
		return files[i].ID > files[j].ID
	})
	return truncate(files, limit), nil
}

// SaveFindings records findings for a file. Duplicates are ignored.
func (s *HistoryStore) SaveFindings(_ context.Context, fileID int64, findings []domain.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[fileID]; !ok {
		return fmt.Errorf("%w: file %d", domain.ErrNotFound, fileID)
	}

	foundAt := s.now()
	for _, f := range findings {
		key := findingKey{fileID, f.Label, f.MatchedText, f.LineNumber}
		if _, dup := s.findingIndex[key]; dup {
			continue
		}
		s.findingIndex[key] = struct{}{}
		s.nextFinding++
		s.findings = append(s.findings, domain.StoredFinding{
			Finding: f,
			ID:      s.nextFinding,
			FileID:  fileID,
			FoundAt: foundAt,
		})
	}
	return nil
}

// ListBySeverity returns findings of one tier joined with their file, newest first.
func (s *HistoryStore) ListBySeverity(
	_ context.Context,
	severity domain.SeverityTier,
	limit int,
) ([]domain.StoredFinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.StoredFinding
	for i := len(s.findings) - 1; i >= 0; i-- {
		sf := s.findings[i]
		if sf.Severity != severity {
			continue
		}
		file := s.files[sf.FileID]
		sf.Repository = file.Repository
		sf.Path = file.Path
		sf.LocalPath = file.LocalPath
		out = append(out, sf)
	}
	return truncate(out, limit), nil
}

// CountBySeverity returns totals per tier.
func (s *HistoryStore) CountBySeverity(_ context.Context) (map[domain.SeverityTier]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.SeverityTier]int)
	for _, sf := range s.findings {
		counts[sf.Severity]++
	}
	return counts, nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
