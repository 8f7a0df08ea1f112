// Package memory provides in-memory implementations of the history stores.
// Records live for the life of the process; used by runs that skip the
// on-disk history and by tests.
package memory
