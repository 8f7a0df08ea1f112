package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driving"
)

type fakeHarvester struct {
	dorks   []string
	opts    driving.HarvestOptions
	results []domain.FileResult
	summary *domain.HarvestSummary
	err     error
}

func (f *fakeHarvester) Run(_ context.Context, dorks []string, opts driving.HarvestOptions) (*domain.HarvestSummary, error) {
	f.dorks = dorks
	f.opts = opts
	for _, r := range f.results {
		if opts.OnResult != nil {
			opts.OnResult(r)
		}
	}
	return f.summary, f.err
}

type fakeScanner struct {
	scan    *driving.FileScan
	err     error
	path    string
	keyword string
}

func (f *fakeScanner) ScanFile(_ context.Context, path, keyword string, _ int) (*driving.FileScan, error) {
	f.path = path
	f.keyword = keyword
	return f.scan, f.err
}

type fakeHistory struct {
	runs     []domain.SearchRun
	files    []domain.DownloadedFile
	findings []domain.StoredFinding
	counts   map[domain.SeverityTier]int

	limit    int
	dork     string
	severity domain.SeverityTier
}

func (f *fakeHistory) Runs(_ context.Context, limit int) ([]domain.SearchRun, error) {
	f.limit = limit
	return f.runs, nil
}

func (f *fakeHistory) Files(_ context.Context, dork string, limit int) ([]domain.DownloadedFile, error) {
	f.dork = dork
	f.limit = limit
	return f.files, nil
}

func (f *fakeHistory) Findings(_ context.Context, severity domain.SeverityTier, limit int) ([]domain.StoredFinding, error) {
	f.severity = severity
	f.limit = limit
	return f.findings, nil
}

func (f *fakeHistory) SeverityCounts(_ context.Context) (map[domain.SeverityTier]int, error) {
	return f.counts, nil
}

type fakeQuota struct {
	snapshot domain.QuotaSnapshot
	err      error
}

func (f *fakeQuota) Snapshot(_ context.Context) (domain.QuotaSnapshot, error) {
	return f.snapshot, f.err
}

// setupTestServices installs svcs behind the bootstrap hook and returns
// the options of the last bootstrap call.
func setupTestServices(t *testing.T, svcs *Services) *Options {
	t.Helper()
	if svcs.Settings == (domain.Settings{}) {
		svcs.Settings = domain.DefaultSettings()
	}

	captured := &Options{}
	original := bootstrap
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		*captured = opts
		return svcs, nil
	})
	t.Cleanup(func() { bootstrap = original })
	return captured
}

// executeCommand runs the root command and returns combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	configPath, tokenFlag, verbose = "", "", false
	runMaxResults, runPerPage, runWorkers = 0, 0, 0
	runOutputCSV, runLabelsFile, runPatternsFile = "", "", ""
	runReport, runNoAnalyze, runNoHistory = false, false, false
	scanKeyword, scanLimit = "", 0
	historyLimit, historyDork = 50, ""
	findingsSeverity, findingsLimit = "", 50
	configForce = false
}
