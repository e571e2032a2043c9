package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"evalcmp/internal/classify"
	"evalcmp/internal/compare"
	"evalcmp/internal/record"
)

func sampleExport(t *testing.T) Export {
	t.Helper()
	small := record.NewResultSet("llama-8b", []record.Record{
		{Index: 0, Prompt: "What is <b>?", CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
		{Index: 1, Prompt: strings.Repeat("q", 250), CorrectAnswer: "B", ExtractedAnswer: "C"},
		{Index: 2, Prompt: "third", CorrectAnswer: "C", Response: "answer is C"},
	})
	large := record.NewResultSet("llama-405b", []record.Record{
		{Index: 0, CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
		{Index: 1, CorrectAnswer: "B", ExtractedAnswer: "B", Score: 1},
		{Index: 2, CorrectAnswer: "C", ExtractedAnswer: "D"},
	})
	large.Summary = map[string]any{"score": 0.7}
	sets := []record.ResultSet{small, large}
	roster := compare.Roster{{ID: "llama-8b", Size: 8}, {ID: "llama-70b", Size: 70}, {ID: "llama-405b", Size: 405}}
	patterns := []compare.PatternSpec{
		{Name: "only_largest_correct", Kind: compare.KindSelector, Correct: []string{compare.RoleLargest}, Wrong: []string{compare.SelectorOthers}, Surprising: true},
	}
	cmp := compare.Compare(sets, roster, patterns)
	classifier := classify.New(classify.DefaultSettings(), record.DefaultLabels())
	taxonomies := map[string]classify.Taxonomy{}
	for _, set := range sets {
		taxonomies[set.ModelID] = classify.Tally(classifier, set)
	}
	return Assemble(Input{
		Sets:          sets,
		MissingModels: []string{"llama-70b"},
		Comparison:    cmp,
		Taxonomies:    taxonomies,
		Warnings:      cmp.Warnings(),
	})
}

// TestAssembleSummaries verifies per-model scalars and score precedence.
func TestAssembleSummaries(t *testing.T) {
	export := sampleExport(t)

	assert.Equal(t, []string{"llama-8b", "llama-405b"}, export.Models)
	small, ok := export.Summary("llama-8b")
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, small.Score, 1e-9)
	assert.Equal(t, 1, small.FormatFailures)

	large, ok := export.Summary("llama-405b")
	require.True(t, ok)
	assert.Equal(t, 0.7, large.Score)
	assert.Equal(t, 2, large.Correct)

	only, ok := export.Pattern("only_largest_correct")
	require.True(t, ok)
	assert.Equal(t, []int{1}, only.Indices)
	assert.Equal(t, 3, export.AlignedQuestions)
}

// TestAssemblePerQuestion verifies alignment rows and the preview cut.
func TestAssemblePerQuestion(t *testing.T) {
	export := sampleExport(t)
	require.Len(t, export.PerQuestion, 3)

	second := export.PerQuestion[1]
	assert.Equal(t, "B", second.CorrectAnswer)
	assert.Len(t, []rune(second.QuestionPreview), QuestionPreviewLimit)

	third := export.PerQuestion[2]
	result, ok := third.Result("llama-8b")
	require.True(t, ok)
	assert.Equal(t, "None", result.Extracted)
	assert.True(t, result.FormatFailure)
	assert.False(t, result.Correct)
}

// TestWriteJSONKeyOrder verifies the top-level keys keep their documented order.
func TestWriteJSONKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleExport(t)))
	out := buf.String()

	keys := []string{
		`"scores"`, `"format_failures"`, `"format_failure_rate"`, `"correct_counts"`, `"models"`,
		`"pattern_summary"`, `"all_correct_indices"`, `"all_wrong_indices"`, `"mixed_indices"`,
		`"only_largest_correct_indices"`, `"per_question"`, `"coverage"`, `"regions"`,
		`"failure_modes"`, `"warnings"`, `"missing_models"`, `"aligned_questions"`,
	}
	last := -1
	for _, key := range keys {
		pos := strings.Index(out, key)
		require.NotEqual(t, -1, pos, key)
		assert.Greater(t, pos, last, key)
		last = pos
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{"llama-8b", "llama-405b"}, decoded["models"])
	summary := decoded["pattern_summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["all_correct"])
}

// TestWriteYAML verifies the YAML export decodes with the same keys.
func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleExport(t)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "per_question")
	assert.Equal(t, 3, decoded["aligned_questions"])
	assert.True(t, strings.HasPrefix(buf.String(), "scores:"))
}

// TestWriteFailureDetails verifies buckets are keyed by model then category/subtype.
func TestWriteFailureDetails(t *testing.T) {
	export := sampleExport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteFailureDetails(&buf, export.Models, export.FailureModes))

	var decoded map[string]map[string]struct {
		Count   int   `json:"count"`
		Indices []int `json:"indices"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded["llama-8b"]["wrong_answer/answered_C_correct_B"].Count)
	assert.Equal(t, []int{2}, decoded["llama-8b"]["format_failure/wrong_format_but_correct"].Indices)
	assert.Equal(t, 1, decoded["llama-405b"]["wrong_answer/answered_D_correct_C"].Count)
}

// TestWriteTextPlain verifies the plain summary, N/A rows and example marks.
func TestWriteTextPlain(t *testing.T) {
	var buf bytes.Buffer
	err := WriteText(&buf, sampleExport(t), TextOptions{Roster: []string{"llama-8b", "llama-70b", "llama-405b"}})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "## Overall Scores")
	assert.Contains(t, out, "33.3%")
	assert.Regexp(t, `llama-70b\s+N/A\s+N/A`, out)
	assert.Contains(t, out, "## Examples: only_largest_correct")
	assert.Contains(t, out, "llama-405b: B ✓")
	assert.Contains(t, out, "llama-8b: C ✗")
	assert.Contains(t, out, "llama-8b covered by llama-405b: 100.0%")
}

// TestWriteTextStyled verifies the table renderer includes every roster row.
func TestWriteTextStyled(t *testing.T) {
	var buf bytes.Buffer
	err := WriteText(&buf, sampleExport(t), TextOptions{
		Roster:  []string{"llama-8b", "llama-70b", "llama-405b"},
		Styled:  true,
		NoColor: true,
	})
	require.NoError(t, err)
	out := buf.String()
	for _, token := range []string{"Model", "llama-8b", "llama-70b", "llama-405b", "N/A"} {
		assert.Contains(t, out, token)
	}
}

// TestRenderHTML verifies the page escapes prompt text and lists models.
func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(context.Background(), sampleExport(t))
	require.NoError(t, err)
	assert.Contains(t, html, "<table")
	assert.Contains(t, html, "What is &lt;b&gt;?")
	assert.Contains(t, html, "llama-70b")
}

// TestWriteXLSXFile verifies the workbook sheets and summary rows.
func TestWriteXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "comparison.xlsx")
	require.NoError(t, WriteXLSXFile(path, sampleExport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetQuestions, SheetPatterns, SheetFailures}, f.GetSheetList())
	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "llama-8b", rows[1][0])
	assert.Equal(t, []string{"llama-70b", "N/A"}, rows[3])
}

// TestWriteFileByExtension verifies the export format follows the file extension.
func TestWriteFileByExtension(t *testing.T) {
	dir := t.TempDir()
	export := sampleExport(t)

	jsonPath := filepath.Join(dir, "a", "comparison.json")
	require.NoError(t, WriteFile(jsonPath, export))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))

	yamlPath := filepath.Join(dir, "comparison.yaml")
	require.NoError(t, WriteFile(yamlPath, export))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "scores:"))
}

// TestWriteFailureText verifies bucket lines and the N/A row for unknown models.
func TestWriteFailureText(t *testing.T) {
	export := sampleExport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteFailureText(&buf, []string{"llama-8b", "llama-70b", "llama-405b"}, export.FailureModes))

	out := buf.String()
	assert.Contains(t, out, "llama-8b: 2 failures")
	assert.Contains(t, out, "llama-70b: N/A")
	assert.Contains(t, out, "llama-405b: 1 failures")
	assert.Contains(t, out, "wrong_answer/answered_D_correct_C")
}
