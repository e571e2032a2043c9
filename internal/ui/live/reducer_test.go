package live

import (
	"errors"
	"strings"
	"testing"
	"time"

	"evalcmp/internal/analysis"
	"evalcmp/internal/testutil"
)

// TestReduceModelLifecycle verifies stage transitions and loaded counts are recorded.
func TestReduceModelLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Now()
		state := State{}
		state = Reduce(state, modelEvent("llama-8b", analysis.StageQueued), start)
		state = Reduce(state, modelEvent("llama-8b", analysis.StageLoading), start)
		done := modelEvent("llama-8b", analysis.StageClassified)
		done.Records = 198
		done.Correct = 60
		done.FormatFailures = 12
		done.RunID = "run-2"
		state = Reduce(state, done, start.Add(300*time.Millisecond))

		row := state.Rows[0]
		if row.Stage != analysis.StageClassified {
			t.Fatalf("expected classified stage, got %s", row.Stage)
		}
		if row.Records != 198 || row.FormatFailures != 12 {
			t.Fatalf("expected counts to be set, got %+v", row)
		}
		if state.Counts.Done != 1 {
			t.Fatalf("expected done count, got %d", state.Counts.Done)
		}
		if formatRowDuration(row, time.Now()) != "300ms" {
			t.Fatalf("unexpected duration %q", formatRowDuration(row, time.Now()))
		}
		if !strings.Contains(state.LastEvent, "198 records") {
			t.Fatalf("unexpected last event %q", state.LastEvent)
		}
	})
}

// TestReduceMissingAndFailed verifies terminal error stages and counts.
func TestReduceMissingAndFailed(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := State{}
		missing := modelEvent("llama-70b", analysis.StageMissing)
		missing.Err = errors.New("no runs found")
		state = Reduce(state, missing, time.Now())
		failed := modelEvent("llama-405b", analysis.StageFailed)
		failed.Err = errors.New("permission denied")
		state = Reduce(state, failed, time.Now())

		if state.Counts.Missing != 1 || state.Counts.Failed != 1 {
			t.Fatalf("unexpected counts %+v", state.Counts)
		}
		if state.Rows[1].Error != "permission denied" {
			t.Fatalf("expected error to be recorded, got %q", state.Rows[1].Error)
		}
		if got := formatStatus(state.Rows[1], true); got != "failed: permission denied" {
			t.Fatalf("unexpected status %q", got)
		}
	})
}

// TestRowsForStateKeepsModelOrder verifies rows follow first appearance.
func TestRowsForStateKeepsModelOrder(t *testing.T) {
	state := State{}
	for _, model := range []string{"b", "a", "c"} {
		state = Reduce(state, modelEvent(model, analysis.StageQueued), time.Now())
	}
	state = Reduce(state, modelEvent("a", analysis.StageLoading), time.Now())
	rows := rowsForState(state, time.Now(), true)
	if len(rows) != 3 || rows[0][0] != "b" || rows[1][0] != "a" || rows[2][0] != "c" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if rows[1][1] != "loading" {
		t.Fatalf("expected loading status, got %q", rows[1][1])
	}
}

// TestModelViewRendersRows verifies the Bubble Tea view includes header and rows.
func TestModelViewRendersRows(t *testing.T) {
	m := NewModel(nil, Options{NoColor: true})
	m = applyEvent(m, Event{Kind: EventRunStart, Benchmark: "gpqa_diamond", Root: "results"})
	m = applyEvent(m, Event{Kind: EventModel, Model: modelEvent("llama-8b", analysis.StageLoading)})
	view := m.View()
	for _, token := range []string{"Comparing gpqa_diamond", "Loading: 1", "llama-8b"} {
		if !strings.Contains(view, token) {
			t.Fatalf("expected view to include %q:\n%s", token, view)
		}
	}
}

// modelEvent builds a ModelEvent for testing.
func modelEvent(model string, stage analysis.Stage) analysis.ModelEvent {
	return analysis.ModelEvent{Model: model, Stage: stage}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
