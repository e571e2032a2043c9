package live

import (
	"time"

	"evalcmp/internal/analysis"
)

// ModelRow holds UI state for a single model.
type ModelRow struct {
	Model          string
	Stage          analysis.Stage
	RunID          string
	Records        int
	Correct        int
	FormatFailures int
	StartedAt      time.Time
	FinishedAt     time.Time
	Error          string
}

// StatusCounts aggregates rows by stage.
type StatusCounts struct {
	Queued  int
	Loading int
	Done    int
	Missing int
	Failed  int
}

// State captures the live UI state for a comparison run.
type State struct {
	Benchmark string
	Root      string
	StartedAt time.Time
	LastEvent string
	Rows      []ModelRow
	Counts    StatusCounts
}
