// Package migrations embeds the history schema for the SQLite store.
//
// Files are applied in name order. Only *.up.sql files are run; the
// matching *.down.sql files document how to revert a version by hand.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
