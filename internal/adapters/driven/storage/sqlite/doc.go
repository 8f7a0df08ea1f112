// Package sqlite provides a SQLite-based implementation of the history stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements the history interfaces
// through a single database connection:
//
//   - SearchRunStore: one row per dork execution
//   - FileStore: downloaded files, unique per (dork, repository, path)
//   - FindingStore: findings, unique per (file, label, matched text, line)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.gitminer/data/gitminer_history.sqlite
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
