package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeClock advances Now by every Sleep and records the durations.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// fakeQuota serves snapshots in order, repeating the last one.
type fakeQuota struct {
	mu        sync.Mutex
	snapshots []domain.QuotaSnapshot
	err       error
	calls     int
}

func (q *fakeQuota) Snapshot(_ context.Context) (domain.QuotaSnapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	if len(q.snapshots) == 0 {
		return domain.QuotaSnapshot{}, nil
	}
	i := q.calls - 1
	if i >= len(q.snapshots) {
		i = len(q.snapshots) - 1
	}
	return q.snapshots[i], nil
}

// plentifulQuota never forces a wait.
func plentifulQuota() *fakeQuota {
	return &fakeQuota{snapshots: []domain.QuotaSnapshot{{
		domain.ResourceCodeSearch: {Name: domain.ResourceCodeSearch, Remaining: 10, Limit: 10, ResetAt: testEpoch.Add(time.Minute)},
	}}}
}

// searchResponse is one scripted reply of fakeSearcher.
type searchResponse struct {
	items int
	err   error
}

// fakeSearcher replays scripted responses and records requests.
type fakeSearcher struct {
	mu        sync.Mutex
	responses []searchResponse
	requests  []domain.SearchRequest
}

func (s *fakeSearcher) SearchCode(_ context.Context, req domain.SearchRequest) (*domain.SearchPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.requests) > len(s.responses) {
		return &domain.SearchPage{}, nil
	}
	resp := s.responses[len(s.requests)-1]
	if resp.err != nil {
		return nil, resp.err
	}

	page := &domain.SearchPage{
		Quota: &domain.RateLimitResource{Name: domain.ResourceCodeSearch, Remaining: 9, Limit: 10},
	}
	for i := 0; i < resp.items; i++ {
		page.Items = append(page.Items, domain.SearchResultItem{
			Repository: "octo/repo",
			Path:       fmt.Sprintf("p%d/f%d.env", req.Page, i),
			HTMLURL:    fmt.Sprintf("https://github.com/octo/repo/blob/main/p%d/f%d.env", req.Page, i),
		})
	}
	return page, nil
}

func (s *fakeSearcher) Requests() []domain.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SearchRequest(nil), s.requests...)
}

// fakeContent serves files keyed by "repo/path".
type fakeContent struct {
	mu          sync.Mutex
	files       map[string][]byte
	resolveErr  map[string]error
	downloadErr map[string]error
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		files:       make(map[string][]byte),
		resolveErr:  make(map[string]error),
		downloadErr: make(map[string]error),
	}
}

func (c *fakeContent) Resolve(_ context.Context, repository, path string) (domain.ContentDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := repository + "/" + path
	if err := c.resolveErr[key]; err != nil {
		return domain.ContentDescriptor{}, err
	}
	if _, ok := c.files[key]; !ok {
		return domain.ContentDescriptor{}, domain.ErrNotFound
	}
	return domain.ContentDescriptor{
		Repository:  repository,
		Path:        path,
		DownloadURL: "https://raw.example/" + key,
	}, nil
}

func (c *fakeContent) Download(_ context.Context, desc domain.ContentDescriptor) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := desc.Repository + "/" + desc.Path
	if err := c.downloadErr[key]; err != nil {
		return nil, err
	}
	return c.files[key], nil
}

// recordingEvents collects emitted events.
type recordingEvents struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingEvents) Emit(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) Count(level domain.EventLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

// fakeRawStore records saved files.
type fakeRawStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (s *fakeRawStore) Save(content []byte, repository, path, keyword string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	local := "raw/" + keyword + "/" + repository + "/" + path
	s.saved[local] = content
	return local, nil
}

// fakeStores implements the run, file and finding stores in memory.
type fakeStores struct {
	mu       sync.Mutex
	runs     []domain.SearchRun
	files    []domain.DownloadedFile
	findings map[int64][]domain.Finding
	fail     bool
}

var (
	_ driven.SearchRunStore = (*fakeStores)(nil)
	_ driven.FileStore      = (*fakeStores)(nil)
	_ driven.FindingStore   = (*fakeStores)(nil)
)

var errStoreDown = errors.New("store down")

func (s *fakeStores) SaveRun(_ context.Context, run domain.SearchRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStores) ListRuns(_ context.Context, limit int) ([]domain.SearchRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	if limit < len(s.runs) {
		return s.runs[:limit], nil
	}
	return s.runs, nil
}

func (s *fakeStores) SaveFile(_ context.Context, file domain.DownloadedFile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, errStoreDown
	}
	s.files = append(s.files, file)
	return int64(len(s.files)), nil
}

func (s *fakeStores) ListFiles(_ context.Context, dork string, _ int) ([]domain.DownloadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DownloadedFile
	for _, f := range s.files {
		if dork == "" || f.Dork == dork {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStores) SaveFindings(_ context.Context, fileID int64, findings []domain.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	if s.findings == nil {
		s.findings = make(map[int64][]domain.Finding)
	}
	s.findings[fileID] = append(s.findings[fileID], findings...)
	return nil
}

func (s *fakeStores) ListBySeverity(_ context.Context, severity domain.SeverityTier, _ int) ([]domain.StoredFinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StoredFinding
	for id, fs := range s.findings {
		for _, f := range fs {
			if f.Severity == severity {
				out = append(out, domain.StoredFinding{Finding: f, FileID: id})
			}
		}
	}
	return out, nil
}

func (s *fakeStores) CountBySeverity(_ context.Context) (map[domain.SeverityTier]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	out := make(map[domain.SeverityTier]int)
	for _, fs := range s.findings {
		for _, f := range fs {
			out[f.Severity]++
		}
	}
	return out, nil
}

// fakeReports records report writes.
type fakeReports struct {
	mu     sync.Mutex
	writes map[string][]domain.ReportRow
}

func (r *fakeReports) Write(_ context.Context, dork string, rows []domain.ReportRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes == nil {
		r.writes = make(map[string][]domain.ReportRow)
	}
	r.writes[dork] = rows
	return nil
}
