package logger

import (
	"github.com/rs/zerolog"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driven"
)

var _ driven.EventSink = (*Sink)(nil)

// Sink writes core events through zerolog.
type Sink struct {
	logger *zerolog.Logger
}

// NewSink returns a sink bound to l. A nil logger follows the package
// logger, picking up later verbosity and file changes.
func NewSink(l *zerolog.Logger) *Sink {
	return &Sink{logger: l}
}

// Emit logs the event with its fields.
func (s *Sink) Emit(event domain.Event) {
	l := s.logger
	if l == nil {
		current := Logger()
		l = &current
	}

	var e *zerolog.Event
	switch event.Level {
	case domain.EventDebug:
		e = l.Debug()
	case domain.EventWarn:
		e = l.Warn()
	case domain.EventError:
		e = l.Error()
	default:
		e = l.Info()
	}
	e.Fields(event.Fields).Msg(event.Message)
}
