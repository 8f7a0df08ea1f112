package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gitminer/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// DefaultDatabaseName is used when NewStore is given no file name.
const DefaultDatabaseName = "gitminer_history.sqlite"

// Store is a unified SQLite-based storage that provides access to
// all history store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.gitminer/data.
func NewStore(dataDir, name string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gitminer", "data")
	}
	if name == "" {
		name = DefaultDatabaseName
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, name)

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SearchRunStore returns a SearchRunStore backed by this store.
func (s *Store) SearchRunStore() driven.SearchRunStore {
	return &searchRunStore{store: s}
}

// FileStore returns a FileStore backed by this store.
func (s *Store) FileStore() driven.FileStore {
	return &fileStore{store: s}
}

// FindingStore returns a FindingStore backed by this store.
func (s *Store) FindingStore() driven.FindingStore {
	return &findingStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// ==================== Search Run Store ====================

// searchRunStore implements driven.SearchRunStore.
type searchRunStore struct {
	store *Store
}

var _ driven.SearchRunStore = (*searchRunStore)(nil)

// SaveRun stores or updates a run.
func (s *searchRunStore) SaveRun(ctx context.Context, run domain.SearchRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run ID is required", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_runs (id, dork, searched_at, results_count, downloaded_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dork = excluded.dork,
			searched_at = excluded.searched_at,
			results_count = excluded.results_count,
			downloaded_count = excluded.downloaded_count
	`, run.ID, run.Dork, toUnix(run.SearchedAt), run.ResultsCount, run.DownloadedCount)
	if err != nil {
		return fmt.Errorf("saving search run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *searchRunStore) ListRuns(ctx context.Context, limit int) ([]domain.SearchRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, dork, searched_at, results_count, downloaded_count
		FROM search_runs
		ORDER BY searched_at DESC, rowid DESC
		LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying search runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SearchRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.SearchRun
		var searchedAt int64
		if err := rows.Scan(&run.ID, &run.Dork, &searchedAt, &run.ResultsCount, &run.DownloadedCount); err != nil {
			return nil, fmt.Errorf("scanning search run: %w", err)
		}
		run.SearchedAt = fromUnix(searchedAt)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search runs: %w", err)
	}

	return runs, nil
}

// ==================== File Store ====================

// fileStore implements driven.FileStore.
type fileStore struct {
	store *Store
}

var _ driven.FileStore = (*fileStore)(nil)

// SaveFile upserts a file record and returns its ID.
func (s *fileStore) SaveFile(ctx context.Context, file domain.DownloadedFile) (int64, error) {
	if file.Repository == "" || file.Path == "" {
		return 0, fmt.Errorf("%w: repository and path are required", domain.ErrInvalidInput)
	}

	var id int64
	err := s.store.db.QueryRowContext(ctx, `
		INSERT INTO downloaded_files (dork, repository, path, local_path, url, searched_at, size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dork, repository, path) DO UPDATE SET
			local_path = excluded.local_path,
			url = excluded.url,
			searched_at = excluded.searched_at,
			size = excluded.size
		RETURNING id
	`, file.Dork, file.Repository, file.Path, file.LocalPath, file.URL,
		toUnix(file.SearchedAt), file.Size).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving downloaded file: %w", err)
	}
	return id, nil
}

// ListFiles returns files for a dork, or every file when dork is empty.
func (s *fileStore) ListFiles(ctx context.Context, dork string, limit int) ([]domain.DownloadedFile, error) {
	query := `
		SELECT id, dork, repository, path, local_path, url, searched_at, size
		FROM downloaded_files
	`
	args := []any{}
	if dork != "" {
		query += " WHERE dork = ?"
		args = append(args, dork)
	}
	query += " ORDER BY searched_at DESC, id DESC LIMIT ?"
	args = append(args, sqlLimit(limit))

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying downloaded files: %w", err)
	}
	defer rows.Close()

	var files []domain.DownloadedFile //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.DownloadedFile
		var searchedAt int64
		if err := rows.Scan(&f.ID, &f.Dork, &f.Repository, &f.Path, &f.LocalPath,
			&f.URL, &searchedAt, &f.Size); err != nil {
			return nil, fmt.Errorf("scanning downloaded file: %w", err)
		}
		f.SearchedAt = fromUnix(searchedAt)
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating downloaded files: %w", err)
	}

	return files, nil
}

// ==================== Finding Store ====================

// findingStore implements driven.FindingStore.
type findingStore struct {
	store *Store
}

var _ driven.FindingStore = (*findingStore)(nil)

// SaveFindings inserts findings for a file in one transaction. Duplicates are ignored.
func (s *findingStore) SaveFindings(ctx context.Context, fileID int64, findings []domain.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	if fileID <= 0 {
		return fmt.Errorf("%w: file ID is required", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (file_id, label, matched_text, context, line_number, severity, found_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, label, matched_text, line_number) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing finding insert: %w", err)
	}
	defer stmt.Close()

	foundAt := toUnix(s.store.now())
	for _, f := range findings {
		if _, err := stmt.ExecContext(ctx, fileID, f.Label, f.MatchedText, f.Context,
			f.LineNumber, string(f.Severity), foundAt); err != nil {
			return fmt.Errorf("saving finding %s: %w", f.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing findings: %w", err)
	}
	return nil
}

// ListBySeverity returns findings of one tier joined with their file, newest first.
func (s *findingStore) ListBySeverity(
	ctx context.Context,
	severity domain.SeverityTier,
	limit int,
) ([]domain.StoredFinding, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT f.id, f.file_id, f.label, f.matched_text, f.context, f.line_number,
		       f.severity, f.found_at, d.repository, d.path, d.local_path
		FROM findings f
		JOIN downloaded_files d ON d.id = f.file_id
		WHERE f.severity = ?
		ORDER BY f.found_at DESC, f.id DESC
		LIMIT ?
	`, string(severity), sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredFinding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sf domain.StoredFinding
		var tier string
		var foundAt int64
		if err := rows.Scan(&sf.ID, &sf.FileID, &sf.Label, &sf.MatchedText, &sf.Context,
			&sf.LineNumber, &tier, &foundAt, &sf.Repository, &sf.Path, &sf.LocalPath); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		sf.Severity = domain.SeverityTier(tier)
		sf.FoundAt = fromUnix(foundAt)
		out = append(out, sf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating findings: %w", err)
	}

	return out, nil
}

// CountBySeverity returns totals per tier. Tiers without findings are absent.
func (s *findingStore) CountBySeverity(ctx context.Context) (map[domain.SeverityTier]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT severity, COUNT(*) FROM findings GROUP BY severity
	`)
	if err != nil {
		return nil, fmt.Errorf("counting findings: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SeverityTier]int)
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[domain.SeverityTier(tier)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}

	return counts, nil
}
