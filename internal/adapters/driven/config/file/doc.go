// Package file provides file-based configuration adapters.
//
// Adapters:
//   - SettingsStore: TOML settings with struct-tag validation
//   - LoadLabels / LoadPatterns: ordered YAML detection tables
package file
