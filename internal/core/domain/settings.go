package domain

import "time"

// Settings holds the application configuration.
// Struct tags drive validation in the config adapter.
type Settings struct {
	Directories DirectorySettings `toml:"directories"`
	Files       FileSettings      `toml:"files"`
	GitHub      GitHubSettings    `toml:"github"`
	Scan        ScanSettings      `toml:"scan"`
	Log         LogSettings       `toml:"log"`
}

// DirectorySettings locates on-disk output.
type DirectorySettings struct {
	RawFiles string `toml:"raw_files" validate:"required"`
	Reports  string `toml:"reports" validate:"required"`
	Data     string `toml:"data" validate:"required"`
}

// FileSettings names individual files. Labels and Patterns are optional;
// built-in sets are used when they are empty or missing.
type FileSettings struct {
	Database string `toml:"database" validate:"required"`
	Labels   string `toml:"labels"`
	Patterns string `toml:"patterns"`
}

// GitHubSettings configures the API client and pagination.
type GitHubSettings struct {
	// APIURL is the REST base URL; set for GitHub Enterprise.
	APIURL    string `toml:"api_url" validate:"required,url"`
	UserAgent string `toml:"user_agent" validate:"required"`

	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `toml:"timeout" validate:"min=1"`

	PerPage    int `toml:"per_page" validate:"min=1,max=100"`
	MaxResults int `toml:"max_results" validate:"min=1"`

	// PageDelayMillis is the politeness delay between pages.
	PageDelayMillis int `toml:"page_delay_ms" validate:"min=0"`

	// ContentRate caps raw downloads per second; 0 disables throttling.
	ContentRate float64 `toml:"content_rate" validate:"min=0"`

	// MaxRateLimitRetries bounds consecutive 403 retries of one page; 0 is unbounded.
	MaxRateLimitRetries int `toml:"max_rate_limit_retries" validate:"min=0"`
}

// ScanSettings configures downloading and analysis.
type ScanSettings struct {
	Workers          int `toml:"workers" validate:"min=1,max=64"`
	MaxContextLength int `toml:"max_context_length" validate:"min=1"`

	// KeywordLimit caps keyword lines shown per file; 0 shows all.
	KeywordLimit int `toml:"keyword_limit" validate:"min=0"`
}

// LogSettings configures the optional rotating log file.
type LogSettings struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `toml:"max_backups" validate:"min=0"`
}

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Directories: DirectorySettings{
			RawFiles: "raw",
			Reports:  "reports",
			Data:     "data",
		},
		Files: FileSettings{
			Database: "gitminer_history.sqlite",
		},
		GitHub: GitHubSettings{
			APIURL:          "https://api.github.com/",
			UserAgent:       "GitMiner-v3",
			TimeoutSeconds:  60,
			PerPage:         30,
			MaxResults:      200,
			PageDelayMillis: 1000,
			ContentRate:     10,
		},
		Scan: ScanSettings{
			Workers:          4,
			MaxContextLength: 500,
			KeywordLimit:     10,
		},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Timeout returns the request timeout as a duration.
func (g GitHubSettings) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// PageDelay returns the politeness delay as a duration.
func (g GitHubSettings) PageDelay() time.Duration {
	return time.Duration(g.PageDelayMillis) * time.Millisecond
}
