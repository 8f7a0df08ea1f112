// Package cli implements the gitminer command line using cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driving"
	"github.com/custodia-labs/gitminer/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	configPath string
	tokenFlag  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gitminer",
	Short: "Harvest GitHub code search results and scan them for secrets",
	Long: `GitMiner runs GitHub code-search queries ("dorks"), downloads every
matching file under the API quota, and scans the files for credentials,
keys and other sensitive assignments.

The GitHub token is read from --token, then GITHUB_TOKEN, then an
interactive prompt.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (default ~/.gitminer/gitminer.toml)")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "GitHub token (alternatively use GITHUB_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services groups what the commands need from the application.
type Services struct {
	Harvester driving.Harvester
	Scanner   driving.FileScanner
	History   driving.HistoryService
	Quota     driving.QuotaService

	Settings   domain.Settings
	ConfigPath string

	// SaveSettings persists settings to ConfigPath.
	SaveSettings func(domain.Settings) error

	// Reports lists report files written during this process.
	Reports func() []string

	// Close releases stores and log files.
	Close func() error
}

// Options carries flag values the bootstrap needs.
type Options struct {
	ConfigPath   string
	Token        string
	LabelsFile   string
	PatternsFile string

	// Report enables markdown reports for harvests.
	Report bool

	// NoHistory keeps history in memory only.
	NoHistory bool

	// Prompt asks for a token when no other source has one.
	Prompt func(ctx context.Context) (string, error)
}

// Bootstrap builds services for one command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var bootstrap Bootstrap

// SetBootstrap installs the service factory. Called from main.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, typically cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds services with the global flags applied.
func loadServices(cmd *cobra.Command, opts Options) (*Services, error) {
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}
	opts.ConfigPath = configPath
	opts.Token = tokenFlag
	opts.Prompt = tokenPrompt(cmd.ErrOrStderr())

	svcs, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	return svcs, nil
}

// closeServices releases services, reporting failures through the logger.
func closeServices(svcs *Services) {
	if svcs == nil || svcs.Close == nil {
		return
	}
	if err := svcs.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}
