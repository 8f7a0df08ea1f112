package driven

import (
	"context"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// ReportSink consumes the ordered report rows of one dork.
type ReportSink interface {
	Write(ctx context.Context, dork string, rows []domain.ReportRow) error
}

// EventSink receives structured diagnostics from the core.
type EventSink interface {
	Emit(event domain.Event)
}
