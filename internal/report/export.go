// Package report assembles comparison results into an exportable document and
// renders it as JSON, YAML, text, HTML or XLSX.
package report

import (
	"evalcmp/internal/classify"
	"evalcmp/internal/compare"
	"evalcmp/internal/record"
)

// Prompt preview lengths. The per-question preview is cut from the longer one.
const (
	PromptPreviewLimit   = 200
	QuestionPreviewLimit = 100
)

// ModelResult is one model's outcome on one aligned question.
type ModelResult struct {
	Model         string
	Extracted     string
	Correct       bool
	FormatFailure bool
}

// QuestionDetail is the per-index alignment row.
type QuestionDetail struct {
	Index           int
	CorrectAnswer   string
	QuestionPreview string
	Results         []ModelResult
}

// Result returns a model's outcome for the question.
func (q QuestionDetail) Result(model string) (ModelResult, bool) {
	for _, result := range q.Results {
		if result.Model == model {
			return result, true
		}
	}
	return ModelResult{}, false
}

// PatternResult is one partition or named pattern with its indices.
type PatternResult struct {
	Name       string
	Surprising bool
	Inert      bool
	Indices    []int
}

// ModelSummary holds the per-model scalars.
type ModelSummary struct {
	Model             string
	Score             float64
	Total             int
	Correct           int
	FormatFailures    int
	FormatFailureRate float64
}

// Export is the assembled comparison document.
type Export struct {
	Models           []string
	MissingModels    []string
	Summaries        []ModelSummary
	Patterns         []PatternResult
	PerQuestion      []QuestionDetail
	Coverage         []compare.CoverageEntry
	CorrectRegions   []compare.Region
	WrongRegions     []compare.Region
	FailureModes     map[string]classify.Taxonomy
	Warnings         []compare.Warning
	AlignedQuestions int
	NoAnswerText     string
}

// Summary returns the scalars for a model.
func (e Export) Summary(model string) (ModelSummary, bool) {
	for _, summary := range e.Summaries {
		if summary.Model == model {
			return summary, true
		}
	}
	return ModelSummary{}, false
}

// Pattern returns a pattern result by name.
func (e Export) Pattern(name string) (PatternResult, bool) {
	for _, pattern := range e.Patterns {
		if pattern.Name == name {
			return pattern, true
		}
	}
	return PatternResult{}, false
}

// Input bundles everything Assemble consumes.
type Input struct {
	Sets          []record.ResultSet
	MissingModels []string
	Comparison    *compare.Comparison
	Taxonomies    map[string]classify.Taxonomy
	Warnings      []compare.Warning
	NoAnswerText  string
}

// Assemble builds the export document. Sets must be in comparison order.
func Assemble(in Input) Export {
	export := Export{
		Models:        make([]string, 0, len(in.Sets)),
		MissingModels: append([]string{}, in.MissingModels...),
		FailureModes:  in.Taxonomies,
		Warnings:      append([]compare.Warning{}, in.Warnings...),
		NoAnswerText:  in.NoAnswerText,
	}
	if export.NoAnswerText == "" {
		export.NoAnswerText = record.DefaultNoAnswerText
	}
	if export.FailureModes == nil {
		export.FailureModes = map[string]classify.Taxonomy{}
	}

	for _, set := range in.Sets {
		export.Models = append(export.Models, set.ModelID)
		export.Summaries = append(export.Summaries, ModelSummary{
			Model:             set.ModelID,
			Score:             set.Score(),
			Total:             set.Total(),
			Correct:           set.Correct,
			FormatFailures:    set.FormatFailures,
			FormatFailureRate: set.FormatFailureRate(),
		})
	}

	if in.Comparison == nil {
		return export
	}
	export.AlignedQuestions = in.Comparison.Aligned()
	partition := in.Comparison.Partition()
	export.Patterns = append(export.Patterns,
		PatternResult{Name: compare.PartitionAllCorrect, Indices: partition.AllCorrect},
		PatternResult{Name: compare.PartitionAllWrong, Indices: partition.AllWrong},
		PatternResult{Name: compare.PartitionMixed, Indices: partition.Mixed},
	)
	for _, pattern := range partition.Patterns {
		export.Patterns = append(export.Patterns, PatternResult{
			Name:       pattern.Name,
			Surprising: pattern.Surprising,
			Inert:      pattern.Inert,
			Indices:    pattern.Indices,
		})
	}
	export.Coverage = in.Comparison.CoverageMatrix()
	export.CorrectRegions = in.Comparison.Regions(true)
	export.WrongRegions = in.Comparison.Regions(false)
	export.PerQuestion = perQuestion(in.Sets, export.AlignedQuestions, export.NoAnswerText)
	return export
}

// perQuestion builds alignment rows. The correct label and preview come from
// the first model whose record carries them.
func perQuestion(sets []record.ResultSet, aligned int, noAnswerText string) []QuestionDetail {
	details := make([]QuestionDetail, 0, aligned)
	for i := 0; i < aligned; i++ {
		detail := QuestionDetail{Index: i, Results: make([]ModelResult, 0, len(sets))}
		for _, set := range sets {
			rec := set.Records[i]
			if detail.CorrectAnswer == "" && rec.HasCorrect() {
				detail.CorrectAnswer = rec.CorrectAnswer
			}
			if detail.QuestionPreview == "" && rec.Prompt != "" {
				detail.QuestionPreview = questionPreview(rec.Prompt)
			}
			extracted := rec.ExtractedAnswer
			if rec.IsFormatFailure() {
				extracted = noAnswerText
			}
			detail.Results = append(detail.Results, ModelResult{
				Model:         set.ModelID,
				Extracted:     extracted,
				Correct:       rec.IsCorrect(),
				FormatFailure: rec.IsFormatFailure(),
			})
		}
		details = append(details, detail)
	}
	return details
}

// questionPreview cuts the prompt preview down to the per-question length.
func questionPreview(prompt string) string {
	runes := []rune(record.Preview(prompt, PromptPreviewLimit))
	if len(runes) > QuestionPreviewLimit {
		runes = runes[:QuestionPreviewLimit]
	}
	return string(runes)
}
