package live

import (
	"fmt"
	"time"

	"evalcmp/internal/analysis"
)

// Reduce applies a model event to the UI state.
func Reduce(state State, event analysis.ModelEvent, now time.Time) State {
	index := ensureRow(&state, event.Model)
	row := state.Rows[index]
	row.Stage = event.Stage
	switch event.Stage {
	case analysis.StageLoading:
		if row.StartedAt.IsZero() {
			row.StartedAt = now
		}
	case analysis.StageClassified:
		row.RunID = event.RunID
		row.Records = event.Records
		row.Correct = event.Correct
		row.FormatFailures = event.FormatFailures
		row.FinishedAt = now
	case analysis.StageMissing, analysis.StageFailed:
		if event.Err != nil {
			row.Error = event.Err.Error()
		}
		row.FinishedAt = now
	}
	state.Rows[index] = row
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow returns the row index for a model, appending it when new.
func ensureRow(state *State, model string) int {
	for i, row := range state.Rows {
		if row.Model == model {
			return i
		}
	}
	state.Rows = append(state.Rows, ModelRow{Model: model, Stage: analysis.StageQueued})
	return len(state.Rows) - 1
}

// recount recomputes stage counts for the current rows.
func recount(rows []ModelRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Stage {
		case analysis.StageQueued:
			counts.Queued++
		case analysis.StageLoading:
			counts.Loading++
		case analysis.StageClassified:
			counts.Done++
		case analysis.StageMissing:
			counts.Missing++
		case analysis.StageFailed:
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event analysis.ModelEvent) string {
	switch event.Stage {
	case analysis.StageClassified:
		return fmt.Sprintf("%s: %d records from run %s", event.Model, event.Records, event.RunID)
	case analysis.StageMissing:
		return fmt.Sprintf("%s: no results found", event.Model)
	case analysis.StageFailed:
		if event.Err != nil {
			return fmt.Sprintf("%s: load failed (%v)", event.Model, event.Err)
		}
		return fmt.Sprintf("%s: load failed", event.Model)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
