// Package classify assigns a failure-mode tag to each evaluated question
// using an ordered table of text heuristics.
package classify

// Category is the top-level outcome of a record.
type Category string

const (
	CategoryCorrect       Category = "correct"
	CategoryFormatFailure Category = "format_failure"
	CategoryWrongAnswer   Category = "wrong_answer"
)

// Format-failure subtypes.
const (
	SubtypeRepetitiveLoop         = "repetitive_loop"
	SubtypeTruncatedButCorrect    = "truncated_but_correct"
	SubtypeTruncatedNoAnswer      = "truncated_no_answer"
	SubtypeWrongFormatButCorrect  = "wrong_format_but_correct"
	SubtypeWrongFormatWrongAnswer = "wrong_format_wrong_answer"
	SubtypeNoClearAnswer          = "no_clear_answer"
)

// absentLabel stands in for a missing correct-answer label in subtypes.
const absentLabel = "None"

// Tag is the classification of one record. Subtype is empty when absent.
type Tag struct {
	Category Category `json:"category"`
	Subtype  string   `json:"subtype,omitempty"`
}

// Key renders the tag as "category/subtype", or just the category.
func (t Tag) Key() string {
	if t.Subtype == "" {
		return string(t.Category)
	}
	return string(t.Category) + "/" + t.Subtype
}

// FormatFailureSubtypes lists the closed set of format-failure refinements.
func FormatFailureSubtypes() []string {
	return []string{
		SubtypeRepetitiveLoop,
		SubtypeTruncatedButCorrect,
		SubtypeTruncatedNoAnswer,
		SubtypeWrongFormatButCorrect,
		SubtypeWrongFormatWrongAnswer,
		SubtypeNoClearAnswer,
	}
}

func wrongAnswerSubtype(extracted, correct string) string {
	if correct == "" {
		correct = absentLabel
	}
	return "answered_" + extracted + "_correct_" + correct
}
