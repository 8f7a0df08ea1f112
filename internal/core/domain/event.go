package domain

// EventLevel is the severity of a structured event.
type EventLevel string

// Event levels.
const (
	EventDebug EventLevel = "debug"
	EventInfo  EventLevel = "info"
	EventWarn  EventLevel = "warn"
	EventError EventLevel = "error"
)

// Event is a structured diagnostic emitted by the core.
// Presentation is left to the sink.
type Event struct {
	Level   EventLevel
	Message string
	Fields  map[string]any
}
