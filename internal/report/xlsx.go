package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetQuestions = "Questions"
	SheetPatterns  = "Patterns"
	SheetFailures  = "Failures"
)

// BuildWorkbook lays the export out over four sheets.
func BuildWorkbook(export Export) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetQuestions, SheetPatterns, SheetFailures} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	summary := [][]any{{"Model", "Score", "Total", "Correct", "Format Fail", "Fail Rate"}}
	for _, s := range export.Summaries {
		summary = append(summary, []any{s.Model, s.Score, s.Total, s.Correct, s.FormatFailures, s.FormatFailureRate})
	}
	for _, model := range export.MissingModels {
		summary = append(summary, []any{model, notAvailable})
	}

	questionHeader := []any{"Index", "Correct Answer", "Question"}
	for _, model := range export.Models {
		questionHeader = append(questionHeader, model)
	}
	questions := [][]any{questionHeader}
	for _, detail := range export.PerQuestion {
		row := []any{detail.Index, detail.CorrectAnswer, detail.QuestionPreview}
		for _, result := range detail.Results {
			row = append(row, result.Extracted+" "+outcomeMark(result))
		}
		questions = append(questions, row)
	}

	patterns := [][]any{{"Pattern", "Count", "Indices"}}
	for _, pattern := range export.Patterns {
		patterns = append(patterns, []any{pattern.Name, len(pattern.Indices), fmt.Sprint(pattern.Indices)})
	}

	failures := [][]any{{"Model", "Failure Mode", "Count", "Indices"}}
	for _, model := range export.Models {
		taxonomy, ok := export.FailureModes[model]
		if !ok {
			continue
		}
		for _, key := range taxonomy.Keys() {
			failures = append(failures, []any{model, key, taxonomy[key].Count, fmt.Sprint(taxonomy[key].Indices)})
		}
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summary},
		{SheetQuestions, questions},
		{SheetPatterns, patterns},
		{SheetFailures, failures},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSXFile writes the workbook to path.
func WriteXLSXFile(path string, export Export) error {
	f, err := BuildWorkbook(export)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
