// Package filesystem stores downloaded file contents on local disk.
package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

// Ensure RawStore implements the interface.
var _ driven.RawFileStore = (*RawStore)(nil)

// maxCollisions bounds the suffix search for a free file name.
const maxCollisions = 10000

// RawStore saves content under <base>/<keyword>/<owner_repo>/<file name>.
// Existing files are never overwritten; a numeric suffix is added instead.
type RawStore struct {
	base string
}

// NewRawStore creates the base directory if needed.
func NewRawStore(base string) (*RawStore, error) {
	if base == "" {
		return nil, errors.New("raw store: base directory is required")
	}
	if err := os.MkdirAll(base, 0750); err != nil {
		return nil, fmt.Errorf("creating raw directory: %w", err)
	}
	return &RawStore{base: base}, nil
}

// Base returns the root directory.
func (s *RawStore) Base() string {
	return s.base
}

// Save writes content and returns the local path.
func (s *RawStore) Save(content []byte, repository, filePath, keyword string) (string, error) {
	dir := filepath.Join(s.base,
		segment(SanitizeName(keyword)),
		segment(SanitizeName(strings.ReplaceAll(repository, "/", "_"))))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	name := SanitizeName(path.Base(filePath))
	if name == "" || name == "_" || name == "." {
		name = segment(SanitizeName(strings.ReplaceAll(filePath, "/", "_")))
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// Dotfiles such as ".env" have no extension.
		stem, ext = name, ""
	}

	target := filepath.Join(dir, name)
	for i := 1; ; i++ {
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
		if err == nil {
			_, werr := f.Write(content)
			cerr := f.Close()
			if werr != nil {
				return "", fmt.Errorf("writing %s: %w", target, werr)
			}
			if cerr != nil {
				return "", fmt.Errorf("closing %s: %w", target, cerr)
			}
			return target, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("creating %s: %w", target, err)
		}
		if i > maxCollisions {
			return "", fmt.Errorf("no free name for %s in %s", name, dir)
		}
		target = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
	}
}

// SanitizeName makes s safe as a single path element on common filesystems:
// NFKD normalisation, reserved characters replaced with '_', and every ".."
// replaced with '_'.
func SanitizeName(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "..", "_")
}

func segment(s string) string {
	if s == "" || s == "." {
		return "_"
	}
	return s
}
