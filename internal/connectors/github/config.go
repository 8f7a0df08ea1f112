package github

import (
	"strings"
	"time"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com/"

	// DefaultUserAgent identifies requests.
	DefaultUserAgent = "GitMiner-v3"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultContentRate is the default raw download rate (per second).
	DefaultContentRate = 10.0
)

// Config holds the connection settings of a Client.
type Config struct {
	// APIURL is the REST base URL. Must end with a slash; one is added if missing.
	APIURL    string
	UserAgent string
	Timeout   time.Duration

	// ContentRate caps raw downloads per second. Zero or less disables the throttle.
	ContentRate float64
}

// DefaultConfig returns the public GitHub configuration.
func DefaultConfig() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		ContentRate: DefaultContentRate,
	}
}

// ConfigFromSettings maps application settings to a Client config.
func ConfigFromSettings(s domain.GitHubSettings) Config {
	cfg := Config{
		APIURL:      s.APIURL,
		UserAgent:   s.UserAgent,
		Timeout:     s.Timeout(),
		ContentRate: s.ContentRate,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if !strings.HasSuffix(c.APIURL, "/") {
		c.APIURL += "/"
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
