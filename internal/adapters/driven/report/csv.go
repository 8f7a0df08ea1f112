package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// csvHeader is the column order of the results export.
var csvHeader = []string{"dork", "repository", "path", "local_path", "url", "snippet"}

// CSVWriter streams search results as CSV. The header is written before
// the first record, so an export with no results still has one.
type CSVWriter struct {
	mu      sync.Mutex
	w       *csv.Writer
	started bool
	count   int
}

// NewCSVWriter wraps out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(out)}
}

// WriteResult appends one result row.
func (c *CSVWriter) WriteResult(r domain.FileResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.header(); err != nil {
		return err
	}
	record := []string{r.Dork, r.Item.Repository, r.Item.Path, r.LocalPath, r.Item.HTMLURL, r.Item.Snippet}
	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("writing csv record: %w", err)
	}
	c.count++
	return nil
}

// Count returns the number of records written.
func (c *CSVWriter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Flush writes the header if needed and flushes buffered records.
func (c *CSVWriter) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.header(); err != nil {
		return err
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func (c *CSVWriter) header() error {
	if c.started {
		return nil
	}
	c.started = true
	if err := c.w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	return nil
}
