package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// DefaultFileName is the settings file looked up in the config directory.
const DefaultFileName = "gitminer.toml"

// SettingsStore is a file-based settings store using TOML.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings
}

// NewSettingsStore creates a TOML settings store. An empty path defaults to
// ~/.gitminer/gitminer.toml. A missing file yields the default settings.
func NewSettingsStore(path string) (*SettingsStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".gitminer", DefaultFileName)
	}

	s := &SettingsStore{
		filePath: path,
		settings: domain.DefaultSettings(),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Settings returns a copy of the current settings.
func (s *SettingsStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update validates and replaces the settings, then persists them.
func (s *SettingsStore) Update(settings domain.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.save()
}

// Save persists the current settings to disk.
func (s *SettingsStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes settings to the TOML file (caller must hold lock).
func (s *SettingsStore) save() error {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Owner-only permissions.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads settings from disk over the defaults. Keys absent from the
// file keep their default values.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	settings := domain.DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	if err := ValidateSettings(settings); err != nil {
		return fmt.Errorf("%s: %w", s.filePath, err)
	}

	s.settings = settings
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSettings checks struct-tag constraints and reports every violation.
func ValidateSettings(settings domain.Settings) error {
	err := validate.Struct(settings)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		// Drop the leading "Settings." from the namespace.
		field := e.StructNamespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		msg := fmt.Sprintf("%s: rule '%s'", field, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w: configuration validation failed:\n  %s",
		domain.ErrInvalidInput, strings.Join(messages, "\n  "))
}
