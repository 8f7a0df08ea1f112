package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// TokenEnvVar is the environment variable consulted for a token.
const TokenEnvVar = "GITHUB_TOKEN"

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

// PromptFunc asks the user for a token.
type PromptFunc func(ctx context.Context) (string, error)

// PATProvider provides a Personal Access Token resolved, in order, from an
// explicit value, the environment and an interactive prompt. The first
// non-empty token wins and is kept for the life of the provider.
type PATProvider struct {
	explicit string
	lookup   func(string) (string, bool)
	prompt   PromptFunc

	mu    sync.Mutex
	token string
}

// NewPATProvider creates a provider. prompt may be nil.
func NewPATProvider(explicit string, prompt PromptFunc) *PATProvider {
	return &PATProvider{
		explicit: strings.TrimSpace(explicit),
		lookup:   os.LookupEnv,
		prompt:   prompt,
	}
}

// GetToken returns the PAT token, prompting at most once.
func (p *PATProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	if p.explicit != "" {
		p.token = p.explicit
		return p.token, nil
	}

	if v, ok := p.lookup(TokenEnvVar); ok && strings.TrimSpace(v) != "" {
		p.token = strings.TrimSpace(v)
		return p.token, nil
	}

	if p.prompt == nil {
		return "", fmt.Errorf("%w: set %s or pass --token", domain.ErrAuthRequired, TokenEnvVar)
	}

	token, err := p.prompt(ctx)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", domain.ErrAuthRequired)
	}
	p.token = token
	return p.token, nil
}

// AuthMethod returns AuthMethodPAT.
func (p *PATProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}
