package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"evalcmp/internal/classify"
)

// Document converts the export into its serialized key layout.
func (e Export) Document() *OrderedMap {
	doc := newOrderedMap()

	scores := newOrderedMap()
	failures := newOrderedMap()
	rates := newOrderedMap()
	correct := newOrderedMap()
	for _, summary := range e.Summaries {
		scores.Set(summary.Model, summary.Score)
		failures.Set(summary.Model, summary.FormatFailures)
		rates.Set(summary.Model, summary.FormatFailureRate)
		correct.Set(summary.Model, summary.Correct)
	}
	doc.Set("scores", scores)
	doc.Set("format_failures", failures)
	doc.Set("format_failure_rate", rates)
	doc.Set("correct_counts", correct)
	doc.Set("models", nonNil(e.Models))

	summary := newOrderedMap()
	for _, pattern := range e.Patterns {
		summary.Set(pattern.Name, len(pattern.Indices))
	}
	doc.Set("pattern_summary", summary)
	for _, pattern := range e.Patterns {
		doc.Set(pattern.Name+"_indices", nonNilInts(pattern.Indices))
	}

	questions := make([]*OrderedMap, 0, len(e.PerQuestion))
	for _, detail := range e.PerQuestion {
		questions = append(questions, questionDocument(detail))
	}
	doc.Set("per_question", questions)

	coverage := make([]*OrderedMap, 0, len(e.Coverage))
	for _, entry := range e.Coverage {
		item := newOrderedMap()
		item.Set("from", entry.From)
		item.Set("to", entry.To)
		item.Set("value", entry.Value)
		coverage = append(coverage, item)
	}
	doc.Set("coverage", coverage)

	regions := newOrderedMap()
	correctRegions := newOrderedMap()
	for _, region := range e.CorrectRegions {
		correctRegions.Set(region.Key(), region.Count)
	}
	wrongRegions := newOrderedMap()
	for _, region := range e.WrongRegions {
		wrongRegions.Set(region.Key(), region.Count)
	}
	regions.Set("correct", correctRegions)
	regions.Set("wrong", wrongRegions)
	doc.Set("regions", regions)

	doc.Set("failure_modes", FailureDocument(e.Models, e.FailureModes))

	warnings := make([]*OrderedMap, 0, len(e.Warnings))
	for _, warning := range e.Warnings {
		item := newOrderedMap()
		item.Set("kind", warning.Kind)
		if warning.Model != "" {
			item.Set("model", warning.Model)
		}
		item.Set("message", warning.Message)
		warnings = append(warnings, item)
	}
	doc.Set("warnings", warnings)
	doc.Set("missing_models", nonNil(e.MissingModels))
	doc.Set("aligned_questions", e.AlignedQuestions)
	return doc
}

func questionDocument(detail QuestionDetail) *OrderedMap {
	item := newOrderedMap()
	item.Set("index", detail.Index)
	if detail.CorrectAnswer == "" {
		item.Set("correct_answer", nil)
	} else {
		item.Set("correct_answer", detail.CorrectAnswer)
	}
	item.Set("question_preview", detail.QuestionPreview)
	results := newOrderedMap()
	for _, result := range detail.Results {
		entry := newOrderedMap()
		entry.Set("extracted", result.Extracted)
		entry.Set("correct", result.Correct)
		entry.Set("format_failure", result.FormatFailure)
		results.Set(result.Model, entry)
	}
	item.Set("results", results)
	return item
}

// FailureDocument lays out per-model failure buckets keyed "category/subtype".
func FailureDocument(models []string, taxonomies map[string]classify.Taxonomy) *OrderedMap {
	doc := newOrderedMap()
	for _, model := range models {
		taxonomy, ok := taxonomies[model]
		if !ok {
			continue
		}
		buckets := newOrderedMap()
		for _, key := range taxonomy.Keys() {
			bucket := newOrderedMap()
			bucket.Set("count", taxonomy[key].Count)
			bucket.Set("indices", nonNilInts(taxonomy[key].Indices))
			buckets.Set(key, bucket)
		}
		doc.Set(model, buckets)
	}
	return doc
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, export Export) error {
	return writeIndentedJSON(w, export.Document())
}

// WriteYAML writes the export as YAML.
func WriteYAML(w io.Writer, export Export) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(export.Document()); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return encoder.Close()
}

// WriteFailureDetails writes per-model failure buckets as indented JSON.
func WriteFailureDetails(w io.Writer, models []string, taxonomies map[string]classify.Taxonomy) error {
	return writeIndentedJSON(w, FailureDocument(models, taxonomies))
}

// WriteFile writes the export to path, as YAML for .yaml/.yml and JSON otherwise.
func WriteFile(path string, export Export) error {
	return writeFile(path, func(w io.Writer) error {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return WriteYAML(w, export)
		default:
			return WriteJSON(w, export)
		}
	})
}

// WriteFailureFile writes failure details to path.
func WriteFailureFile(path string, models []string, taxonomies map[string]classify.Taxonomy) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteFailureDetails(w, models, taxonomies)
	})
}

func writeIndentedJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
