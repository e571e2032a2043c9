package record

import (
	"fmt"
	"math"
)

// scoreTolerance bounds the allowed drift between a summary file's score and
// the accuracy recomputed from records.
const scoreTolerance = 1e-3

// ResultSet is one model's decoded evaluation output.
type ResultSet struct {
	ModelID        string
	RunID          string
	Records        []Record
	FormatFailures int
	Correct        int
	Summary        map[string]any
}

// NewResultSet builds a result set and derives its counters from records.
func NewResultSet(modelID string, records []Record) ResultSet {
	set := ResultSet{ModelID: modelID, Records: records}
	for _, rec := range records {
		if rec.IsFormatFailure() {
			set.FormatFailures++
		}
		if rec.IsCorrect() {
			set.Correct++
		}
	}
	return set
}

// Total returns the number of records.
func (s ResultSet) Total() int {
	return len(s.Records)
}

// Accuracy returns the fraction of fully correct records.
func (s ResultSet) Accuracy() float64 {
	if len(s.Records) == 0 {
		return 0
	}
	return float64(s.Correct) / float64(len(s.Records))
}

// FormatFailureRate returns the fraction of records without an extracted label.
func (s ResultSet) FormatFailureRate() float64 {
	if len(s.Records) == 0 {
		return 0
	}
	return float64(s.FormatFailures) / float64(len(s.Records))
}

// MissingCorrect counts records whose correct-answer label was not recovered.
func (s ResultSet) MissingCorrect() int {
	missing := 0
	for _, rec := range s.Records {
		if !rec.HasCorrect() {
			missing++
		}
	}
	return missing
}

// Score returns the summary file's score when present, else the accuracy.
func (s ResultSet) Score() float64 {
	if value, ok := summaryNumber(s.Summary, "score"); ok {
		return value
	}
	return s.Accuracy()
}

// Reconcile compares record-derived counters with the external summary and
// describes every disagreement. The record-level values stay authoritative.
func (s ResultSet) Reconcile() []string {
	if s.Summary == nil {
		return nil
	}
	var notes []string
	if value, ok := summaryNumber(s.Summary, "score"); ok && len(s.Records) > 0 {
		if math.Abs(value-s.Accuracy()) > scoreTolerance {
			notes = append(notes, fmt.Sprintf("summary score %.4f differs from record accuracy %.4f", value, s.Accuracy()))
		}
	}
	for _, key := range []string{"format_failures", "num_format_failures"} {
		if value, ok := summaryNumber(s.Summary, key); ok && int(value) != s.FormatFailures {
			notes = append(notes, fmt.Sprintf("summary %s %d differs from record count %d", key, int(value), s.FormatFailures))
		}
	}
	return notes
}

func summaryNumber(summary map[string]any, key string) (float64, bool) {
	raw, ok := summary[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
