package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

//go:embed templates/report.md.tmpl
var templates embed.FS

const (
	topLabels       = 10
	topRepositories = 20
	labelsPerTier   = 50
	samplesPerLabel = 3
	sampleLength    = 40
	filesShown      = 50
	rowsPerFile     = 10
	slugLength      = 50
)

// Ensure MarkdownWriter implements the interface.
var _ driven.ReportSink = (*MarkdownWriter)(nil)

// MarkdownWriter renders one markdown report per dork into a directory.
type MarkdownWriter struct {
	dir      string
	version  string
	database string
	user     string
	now      func() time.Time
	tmpl     *template.Template

	mu    sync.Mutex
	paths []string
}

// MarkdownOption configures a MarkdownWriter.
type MarkdownOption func(*MarkdownWriter)

// WithVersion sets the tool version printed in the report.
func WithVersion(v string) MarkdownOption {
	return func(w *MarkdownWriter) { w.version = v }
}

// WithDatabase sets the history database name printed in the metadata.
func WithDatabase(name string) MarkdownOption {
	return func(w *MarkdownWriter) { w.database = name }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) MarkdownOption {
	return func(w *MarkdownWriter) { w.now = now }
}

// NewMarkdownWriter creates the output directory and parses the template.
func NewMarkdownWriter(dir string, opts ...MarkdownOption) (*MarkdownWriter, error) {
	if dir == "" {
		return nil, errors.New("report: output directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	user := os.Getenv("USER")
	if user == "" {
		user = "N/A"
	}

	w := &MarkdownWriter{
		dir:      dir,
		version:  "dev",
		database: "gitminer_history.sqlite",
		user:     user,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	tmpl, err := template.New("report.md.tmpl").Funcs(template.FuncMap{
		"join":  strings.Join,
		"clip":  clip,
		"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 UTC") },
	}).ParseFS(templates, "templates/report.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	w.tmpl = tmpl

	return w, nil
}

// Write renders the rows of one dork to report_<slug>_<timestamp>.md.
func (w *MarkdownWriter) Write(ctx context.Context, dork string, rows []domain.ReportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := w.now()
	data := buildReport(dork, rows)
	data.Version = w.version
	data.Database = w.database
	data.User = w.user
	data.GeneratedAt = now

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	base := fmt.Sprintf("report_%s_%s", Slugify(dork), now.Format("20060102-150405"))
	path, err := createUnique(w.dir, base, ".md", buf.Bytes())
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.paths = append(w.paths, path)
	w.mu.Unlock()
	return nil
}

// Paths returns the reports written so far.
func (w *MarkdownWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.paths...)
}

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// Slugify maps s to a file-name fragment of at most 50 characters.
func Slugify(s string) string {
	slug := slugUnsafe.ReplaceAllString(s, "_")
	if len(slug) > slugLength {
		slug = slug[:slugLength]
	}
	return slug
}

func createUnique(dir, base, ext string, data []byte) (string, error) {
	path := filepath.Join(dir, base+ext)
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
		if err == nil {
			_, werr := f.Write(data)
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				return "", fmt.Errorf("writing report: %w", werr)
			}
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("creating report: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
	}
}

// clip truncates to n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type count struct {
	Name  string
	Count int
}

type labelSummary struct {
	Name    string
	Count   int
	Samples []string
}

type tierSection struct {
	Tier   domain.SeverityTier
	Labels []labelSummary
}

type fileSection struct {
	Repository string
	Path       string
	URL        string
	LocalPath  string
	Rows       []domain.ReportRow
	Shown      []domain.ReportRow
	Hidden     int
}

type reportData struct {
	Dork        string
	Version     string
	Database    string
	User        string
	GeneratedAt time.Time

	Total           int
	Repositories    []count
	TopRepositories []count
	Distribution    []count
	TopLabels       []count
	Tiers           []tierSection
	Files           []fileSection
	HiddenFiles     int
}

func buildReport(dork string, rows []domain.ReportRow) reportData {
	data := reportData{Dork: dork, Total: len(rows)}

	data.Repositories = tally(rows, func(r domain.ReportRow) string { return r.Repository })
	data.TopRepositories = head(data.Repositories, topRepositories)
	data.TopLabels = head(tally(rows, func(r domain.ReportRow) string { return r.Label }), topLabels)

	for _, tier := range domain.AllSeverities() {
		var tierRows []domain.ReportRow
		for _, r := range rows {
			if r.Severity == tier {
				tierRows = append(tierRows, r)
			}
		}
		if len(tierRows) > 0 {
			data.Distribution = append(data.Distribution, count{Name: tier.String(), Count: len(tierRows)})
		}

		section := tierSection{Tier: tier}
		for _, c := range head(tally(tierRows, func(r domain.ReportRow) string { return r.Label }), labelsPerTier) {
			section.Labels = append(section.Labels, labelSummary{
				Name:    c.Name,
				Count:   c.Count,
				Samples: samples(tierRows, c.Name),
			})
		}
		data.Tiers = append(data.Tiers, section)
	}

	files := groupFiles(rows)
	if len(files) > filesShown {
		data.HiddenFiles = len(files) - filesShown
		files = files[:filesShown]
	}
	data.Files = files

	return data
}

// tally counts keys, most common first; ties keep first-seen order.
func tally(rows []domain.ReportRow, key func(domain.ReportRow) string) []count {
	index := make(map[string]int)
	var out []count
	for _, r := range rows {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, count{Name: k, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func samples(rows []domain.ReportRow, label string) []string {
	var out []string
	for _, r := range rows {
		if r.Label != label {
			continue
		}
		s := strings.NewReplacer("`", "'", "|", `\|`).Replace(r.MatchedText)
		out = append(out, clip(s, sampleLength))
		if len(out) == samplesPerLabel {
			break
		}
	}
	return out
}

type fileKey struct {
	repository, path, url, localPath string
}

// groupFiles groups rows per file, files with most findings first.
func groupFiles(rows []domain.ReportRow) []fileSection {
	index := make(map[fileKey]int)
	var files []fileSection
	for _, r := range rows {
		k := fileKey{r.Repository, r.Path, r.URL, r.LocalPath}
		i, ok := index[k]
		if !ok {
			i = len(files)
			index[k] = i
			files = append(files, fileSection{
				Repository: r.Repository,
				Path:       r.Path,
				URL:        r.URL,
				LocalPath:  r.LocalPath,
			})
		}
		files[i].Rows = append(files[i].Rows, r)
	}
	sort.SliceStable(files, func(i, j int) bool { return len(files[i].Rows) > len(files[j].Rows) })

	for i := range files {
		files[i].Shown = head(files[i].Rows, rowsPerFile)
		files[i].Hidden = len(files[i].Rows) - len(files[i].Shown)
	}
	return files
}
