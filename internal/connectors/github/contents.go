package github

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// MaxDownloadSize bounds a single raw download.
const MaxDownloadSize = 50 << 20

// Ensure Client implements the interface.
var _ driven.ContentSource = (*Client)(nil)

// Resolve fetches file metadata from the contents API and returns its
// direct download URL. Directories and submodules have none.
func (c *Client) Resolve(ctx context.Context, repository, path string) (domain.ContentDescriptor, error) {
	owner, name, err := splitRepository(repository)
	if err != nil {
		return domain.ContentDescriptor{}, err
	}
	if err := c.ensureClient(ctx); err != nil {
		return domain.ContentDescriptor{}, err
	}

	file, _, _, err := c.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return domain.ContentDescriptor{}, wrapError(err, "get contents")
	}
	if file == nil {
		return domain.ContentDescriptor{}, fmt.Errorf("%w: %s/%s is a directory", domain.ErrNotFound, repository, path)
	}

	downloadURL := file.GetDownloadURL()
	if downloadURL == "" {
		return domain.ContentDescriptor{}, fmt.Errorf("%w: no download url for %s/%s", domain.ErrNotFound, repository, path)
	}

	return domain.ContentDescriptor{
		Repository:  repository,
		Path:        path,
		DownloadURL: downloadURL,
		Size:        file.GetSize(),
	}, nil
}

// Download fetches the raw bytes behind a descriptor, throttled locally.
func (c *Client) Download(ctx context.Context, desc domain.ContentDescriptor) ([]byte, error) {
	if desc.DownloadURL == "" {
		return nil, fmt.Errorf("%w: empty download url", domain.ErrInvalidInput)
	}

	if c.downloads != nil {
		if err := c.downloads.Wait(ctx); err != nil {
			return nil, fmt.Errorf("download throttle: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.raw.Do(req)
	if err != nil {
		if isContextErr(err) {
			return nil, fmt.Errorf("download: %w", err)
		}
		return nil, fmt.Errorf("download: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        desc.DownloadURL,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("read download: %w: %w", domain.ErrTransport, err)
	}
	return data, nil
}
