// Package live renders pipeline progress as a Bubble Tea console UI.
package live

import "evalcmp/internal/analysis"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a comparison.
	EventRunStart EventKind = iota
	// EventModel delivers a model status update.
	EventModel
	// EventRunEnd signals the comparison finished.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	Benchmark string
	Root      string
	Model     analysis.ModelEvent
}
