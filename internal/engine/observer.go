package engine

import "time"

// EventType represents different lifecycle phases of a run
type EventType string

const (
	EventLoadStart     EventType = "load_start"
	EventLoadEnd       EventType = "load_end"
	EventIndexStart    EventType = "index_start"
	EventIndexEnd      EventType = "index_end"
	EventStratifyStart EventType = "stratify_start"
	EventStratifyEnd   EventType = "stratify_end"
	EventWriteStart    EventType = "write_start"
	EventWriteEnd      EventType = "write_end"
	EventRunFailed     EventType = "run_failed"
)

// Event represents a lifecycle event of a run
type Event struct {
	Type      EventType   // Type of event
	RunID     string      // Run ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (e.g., path, row count, error)
}

// Observer interface for event subscribers
// Observers receive events at major phases of a run
type Observer interface {
	OnEvent(event Event)
}
