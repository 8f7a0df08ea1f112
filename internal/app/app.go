// Package app wires adapters and core services for one gitminer invocation.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/custodia-labs/gitminer/internal/adapters/driven/auth"
	"github.com/custodia-labs/gitminer/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitminer/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/gitminer/internal/adapters/driven/report"
	"github.com/custodia-labs/gitminer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gitminer/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gitminer/internal/adapters/driving/cli"
	"github.com/custodia-labs/gitminer/internal/connectors/github"
	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
	"github.com/custodia-labs/gitminer/internal/core/services"
	"github.com/custodia-labs/gitminer/internal/logger"
	"github.com/custodia-labs/gitminer/internal/scanner"
)

// Ensure Build satisfies the CLI bootstrap hook.
var _ cli.Bootstrap = Build

// Version is recorded in generated reports.
var Version = "dev"

type historyStores struct {
	runs     driven.SearchRunStore
	files    driven.FileStore
	findings driven.FindingStore
	database string
	close    func() error
}

// Build assembles the services for one command from settings and flags.
func Build(_ context.Context, opts cli.Options) (*cli.Services, error) {
	settingsStore, err := file.NewSettingsStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	settings := settingsStore.Settings()
	logger.Info("settings loaded from %s", settingsStore.Path())

	if settings.Log.File != "" {
		if err := logger.SetFile(logger.FileOptions{
			Path:       settings.Log.File,
			MaxSizeMB:  settings.Log.MaxSizeMB,
			MaxBackups: settings.Log.MaxBackups,
		}); err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
	}
	sink := logger.NewSink(nil)

	engine, err := buildEngine(settings.Files, opts)
	if err != nil {
		return nil, err
	}

	provider := auth.NewPATProvider(opts.Token, auth.PromptFunc(opts.Prompt))
	client := github.NewClient(github.ConfigFromSettings(settings.GitHub), provider)

	guard := services.NewRateLimitGuard(client, services.SystemClock{}, sink)
	paginator := services.NewSearchPaginator(client, guard, services.SystemClock{}, sink,
		services.WithPageDelay(settings.GitHub.PageDelay()),
		services.WithMaxRateLimitRetries(settings.GitHub.MaxRateLimitRetries),
	)
	fetcher := services.NewContentFetcher(client, sink)

	raw, err := filesystem.NewRawStore(settings.Directories.RawFiles)
	if err != nil {
		return nil, fmt.Errorf("preparing raw file directory: %w", err)
	}

	stores, err := openHistory(settings, opts.NoHistory)
	if err != nil {
		return nil, err
	}
	logger.Debug("history database: %s", stores.database)

	deps := services.HarvesterDeps{
		Paginator: paginator,
		Fetcher:   fetcher,
		Engine:    engine,
		RawFiles:  raw,
		Runs:      stores.runs,
		Files:     stores.files,
		Findings:  stores.findings,
		Events:    sink,
	}

	reports := func() []string { return nil }
	if opts.Report {
		writer, err := report.NewMarkdownWriter(settings.Directories.Reports,
			report.WithVersion(Version),
			report.WithDatabase(stores.database),
		)
		if err != nil {
			_ = stores.close()
			return nil, fmt.Errorf("preparing report directory: %w", err)
		}
		deps.Reports = writer
		reports = writer.Paths
	}

	harvester := services.NewHarvester(deps)

	var closeOnce sync.Once
	var closeErr error
	closeAll := func() error {
		closeOnce.Do(func() {
			closeErr = errors.Join(stores.close(), logger.Close())
		})
		return closeErr
	}

	return &cli.Services{
		Harvester:    harvester,
		Scanner:      harvester,
		History:      services.NewHistoryService(stores.runs, stores.files, stores.findings),
		Quota:        services.NewQuotaService(client),
		Settings:     settings,
		ConfigPath:   settingsStore.Path(),
		SaveSettings: settingsStore.Update,
		Reports:      reports,
		Close:        closeAll,
	}, nil
}

// buildEngine loads the label and pattern tables. Flags win over settings;
// both empty, or a named file that does not exist, selects the built-in sets.
func buildEngine(files domain.FileSettings, opts cli.Options) (*scanner.Engine, error) {
	labelsPath := firstNonEmpty(opts.LabelsFile, files.Labels)
	patternsPath := firstNonEmpty(opts.PatternsFile, files.Patterns)

	labels, err := file.LoadLabels(labelsPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("labels file %s not found, using built-in labels", labelsPath)
		labels, err = scanner.DefaultLabels(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading labels: %w", err)
	}
	patterns, err := file.LoadPatterns(patternsPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("patterns file %s not found, using built-in patterns", patternsPath)
		patterns, err = scanner.DefaultPatterns(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading patterns: %w", err)
	}

	reg, err := scanner.NewRegistry(patterns, labels)
	if err != nil {
		return nil, fmt.Errorf("building pattern registry: %w", err)
	}
	return scanner.NewEngine(reg), nil
}

// openHistory opens the SQLite history, or an in-memory one when
// persistence is disabled.
func openHistory(settings domain.Settings, ephemeral bool) (historyStores, error) {
	if ephemeral {
		mem := memory.NewHistoryStore()
		return historyStores{
			runs:     mem,
			files:    mem,
			findings: mem,
			database: "in-memory",
			close:    func() error { return nil },
		}, nil
	}

	store, err := sqlite.NewStore(settings.Directories.Data, settings.Files.Database)
	if err != nil {
		return historyStores{}, fmt.Errorf("opening history database: %w", err)
	}
	return historyStores{
		runs:     store.SearchRunStore(),
		files:    store.FileStore(),
		findings: store.FindingStore(),
		database: store.Path(),
		close:    store.Close,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
