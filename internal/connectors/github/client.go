package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// Client wraps the go-github client and implements the GitHub-facing ports.
// Safe for concurrent use.
type Client struct {
	cfg           Config
	tokenProvider driven.TokenProvider

	mu sync.Mutex
	gh *gh.Client

	// raw downloads go through a plain client so the token never leaves the API host.
	raw       *http.Client
	downloads *rate.Limiter
}

// NewClient creates a GitHub API client. The underlying HTTP client is built
// on first use so the token is only requested when needed.
func NewClient(cfg Config, tokenProvider driven.TokenProvider) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		raw:           &http.Client{Timeout: cfg.Timeout},
		downloads:     newDownloadLimiter(cfg.ContentRate),
	}
}

// ensureClient initializes the go-github client if not already done.
func (c *Client) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return nil
	}

	httpClient, err := c.httpClient(ctx)
	if err != nil {
		return err
	}

	client := gh.NewClient(httpClient)
	baseURL, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return fmt.Errorf("parse api url: %w", err)
	}
	client.BaseURL = baseURL
	client.UserAgent = c.cfg.UserAgent

	c.gh = client
	return nil
}

func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	if c.tokenProvider == nil || c.tokenProvider.AuthMethod() == domain.AuthMethodNone {
		return &http.Client{Timeout: c.cfg.Timeout}, nil
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	// Detach from the caller's context: the client outlives this call.
	tc := oauth2.NewClient(context.WithoutCancel(ctx), ts)
	tc.Timeout = c.cfg.Timeout
	return tc, nil
}

// ValidateCredentials checks the token by fetching the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", err
	}

	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", wrapError(err, "validate credentials")
	}
	return user.GetLogin(), nil
}

// splitRepository splits "owner/name".
func splitRepository(repository string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %w: %q", domain.ErrInvalidInput, ErrInvalidRepository, repository)
	}
	return owner, name, nil
}

// isContextErr reports whether err stems from cancellation.
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
