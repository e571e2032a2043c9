package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalcmp/internal/record"
)

func newTestClassifier() *Classifier {
	return New(DefaultSettings(), record.DefaultLabels())
}

// TestClassifyHiddenCorrectAnswer verifies a parse failure whose text states the correct option.
func TestClassifyHiddenCorrectAnswer(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      "…so the answer is B.",
		CorrectAnswer: "B",
		Score:         0,
	}
	assert.Equal(t, Tag{Category: CategoryFormatFailure, Subtype: SubtypeWrongFormatButCorrect}, c.Classify(rec))
}

// TestClassifyTruncatedWithoutAnswer verifies long responses with no answer statement.
func TestClassifyTruncatedWithoutAnswer(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      strings.Repeat("x", 4000),
		CorrectAnswer: "C",
	}
	assert.Equal(t, Tag{Category: CategoryFormatFailure, Subtype: SubtypeTruncatedNoAnswer}, c.Classify(rec))
}

// TestClassifyTruncatedWithHiddenAnswer verifies truncation takes the hidden answer into account.
func TestClassifyTruncatedWithHiddenAnswer(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      strings.Repeat("y", 3600) + " option C",
		CorrectAnswer: "C",
	}
	assert.Equal(t, SubtypeTruncatedButCorrect, c.Classify(rec).Subtype)
}

// TestClassifyRepetitiveLoop verifies the loop rule wins over every later rule.
func TestClassifyRepetitiveLoop(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      strings.Repeat("we need to compute the value. ", 8),
		CorrectAnswer: "A",
	}
	assert.Equal(t, Tag{Category: CategoryFormatFailure, Subtype: SubtypeRepetitiveLoop}, c.Classify(rec))
}

// TestClassifyLoopBelowMinimumLength verifies the loop check can be limited to long responses.
func TestClassifyLoopBelowMinimumLength(t *testing.T) {
	settings := DefaultSettings()
	settings.MinLoopLength = 1000
	c := New(settings, record.DefaultLabels())
	rec := record.Record{
		Response:      strings.Repeat("we need to compute the value. ", 8),
		CorrectAnswer: "A",
	}
	assert.Equal(t, SubtypeNoClearAnswer, c.Classify(rec).Subtype)
}

// TestClassifyExplicitOtherLabel verifies a stated but wrong option.
func TestClassifyExplicitOtherLabel(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      "After weighing both, the correct answer is D",
		CorrectAnswer: "A",
	}
	assert.Equal(t, SubtypeWrongFormatWrongAnswer, c.Classify(rec).Subtype)
}

// TestClassifyLabelWordBoundary verifies labels are not matched inside words.
func TestClassifyLabelWordBoundary(t *testing.T) {
	c := newTestClassifier()
	rec := record.Record{
		Response:      "the answer is about a difference in energy",
		CorrectAnswer: "A",
	}
	assert.Equal(t, SubtypeNoClearAnswer, c.Classify(rec).Subtype)
}

// TestClassifyCorrectAndWrong covers the scored rules.
func TestClassifyCorrectAndWrong(t *testing.T) {
	c := newTestClassifier()
	cases := []struct {
		name string
		rec  record.Record
		want Tag
	}{
		{
			name: "correct",
			rec:  record.Record{CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
			want: Tag{Category: CategoryCorrect},
		},
		{
			name: "wrong",
			rec:  record.Record{CorrectAnswer: "B", ExtractedAnswer: "A", Score: 0},
			want: Tag{Category: CategoryWrongAnswer, Subtype: "answered_A_correct_B"},
		},
		{
			name: "wrong without correct label",
			rec:  record.Record{ExtractedAnswer: "C", Score: 0},
			want: Tag{Category: CategoryWrongAnswer, Subtype: "answered_C_correct_None"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.rec))
		})
	}
}

// TestClassifyTotalAndIdempotent verifies every record receives exactly one stable tag.
func TestClassifyTotalAndIdempotent(t *testing.T) {
	c := newTestClassifier()
	inputs := []record.Record{
		{},
		{Response: "", CorrectAnswer: "A"},
		{Response: "A)", CorrectAnswer: "A"},
		{Response: "(B) is correct", CorrectAnswer: "B"},
		{Response: "option C is best", CorrectAnswer: "D"},
		{Response: strings.Repeat("z ", 3000), CorrectAnswer: "B"},
		{Response: "Answer: A", ExtractedAnswer: "A", CorrectAnswer: "A", Score: 1},
	}
	for _, rec := range inputs {
		first := c.Classify(rec)
		require.NotEmpty(t, first.Category)
		assert.Equal(t, first, c.Classify(rec))
		if first.Category == CategoryFormatFailure {
			assert.Contains(t, FormatFailureSubtypes(), first.Subtype)
		}
	}
}

// TestClassifyCustomLabels verifies the alphabet is taken from the constructor.
func TestClassifyCustomLabels(t *testing.T) {
	c := New(DefaultSettings(), []string{"A", "B", "C", "D", "E"})
	rec := record.Record{Response: "I think the answer: E", CorrectAnswer: "E"}
	assert.Equal(t, SubtypeWrongFormatButCorrect, c.Classify(rec).Subtype)
}

// TestRulesOrder verifies the decision table order.
func TestRulesOrder(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, []string{
		"correct", "wrong_answer", "repetitive_loop", "truncated",
		"hidden_answer", "explicit_answer", "no_clear_answer",
	}, c.Rules())
}

// TestTally verifies failure buckets skip correct records and keep indices.
func TestTally(t *testing.T) {
	c := newTestClassifier()
	set := record.NewResultSet("m", []record.Record{
		{Index: 0, CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
		{Index: 1, CorrectAnswer: "A", ExtractedAnswer: "B"},
		{Index: 2, CorrectAnswer: "A", Response: "nothing useful"},
		{Index: 3, CorrectAnswer: "C", Response: "also nothing"},
	})
	taxonomy := Tally(c, set)
	assert.Equal(t, 3, taxonomy.Failures())
	assert.Equal(t, []string{"format_failure/no_clear_answer", "wrong_answer/answered_B_correct_A"}, taxonomy.Keys())
	assert.Equal(t, []int{2, 3}, taxonomy["format_failure/no_clear_answer"].Indices)
	assert.Equal(t, 0, taxonomy.Count("correct"))
}
