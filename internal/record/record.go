// Package record recovers per-question records from benchmark report
// documents and groups them into per-model result sets.
package record

// NoAnswer marks a record whose response yielded no parseable label.
const NoAnswer = ""

// Record is one evaluated question as it appeared in a model's report.
type Record struct {
	Index           int     `json:"index"`
	Prompt          string  `json:"prompt"`
	Response        string  `json:"response"`
	CorrectAnswer   string  `json:"correct_answer,omitempty"`
	ExtractedAnswer string  `json:"extracted_answer,omitempty"`
	Score           float64 `json:"score"`
}

// IsFormatFailure reports whether the scorer could not attribute a label.
func (r Record) IsFormatFailure() bool {
	return r.ExtractedAnswer == NoAnswer
}

// IsCorrect reports whether the record earned full credit.
func (r Record) IsCorrect() bool {
	return r.Score == 1.0
}

// HasCorrect reports whether the correct-answer label was recovered.
func (r Record) HasCorrect() bool {
	return r.CorrectAnswer != ""
}

// Preview returns the prompt cut to limit runes, with "..." when cut.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
