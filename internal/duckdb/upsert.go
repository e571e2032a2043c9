package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"evalcmp/internal/classify"
	"evalcmp/internal/report"
)

// RunInput describes one comparison export to persist.
type RunInput struct {
	Benchmark string
	Source    string
	Metadata  map[string]string
	Export    report.Export
}

// RunKey returns the deterministic fingerprint for a run. Identical exports of
// the same benchmark share a key.
func RunKey(input RunInput) (string, error) {
	document, err := CanonicalJSON(input.Export.Document())
	if err != nil {
		return "", err
	}
	return FingerprintJSON(map[string]any{
		"benchmark": input.Benchmark,
		"document":  document,
	})
}

// UpsertRun stores an export and returns its run id. A run whose key already
// exists is left untouched and inserted is false.
func UpsertRun(ctx context.Context, db *sql.DB, input RunInput) (runID string, inserted bool, err error) {
	if ctx == nil {
		return "", false, errors.New("duckdb: context is nil")
	}
	if db == nil {
		return "", false, errors.New("duckdb: db is nil")
	}
	if input.Benchmark == "" {
		return "", false, errors.New("duckdb: benchmark is required")
	}
	document, err := CanonicalJSON(input.Export.Document())
	if err != nil {
		return "", false, fmt.Errorf("encode document: %w", err)
	}
	key, err := RunKey(input)
	if err != nil {
		return "", false, err
	}
	existing, err := lookupID(ctx, db, "runs", "run_id", "run_key", key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("lookup run id: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("begin run tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID = uuid.NewString()
	query := fmt.Sprintf(
		`INSERT INTO runs (
		  run_id, run_key, benchmark, source, metadata, aligned_questions, document, created_at
		) VALUES (?, ?, ?, ?, %s, ?, ?, now())`,
		mapExpression(input.Metadata),
	)
	if _, err = tx.ExecContext(ctx, query,
		runID, key, input.Benchmark, nullableString(input.Source),
		input.Export.AlignedQuestions, string(document),
	); err != nil {
		return "", false, fmt.Errorf("insert run: %w", err)
	}
	if err = insertScores(ctx, tx, runID, input.Export); err != nil {
		return "", false, err
	}
	if err = insertQuestions(ctx, tx, runID, input.Export); err != nil {
		return "", false, err
	}
	if err = insertPatterns(ctx, tx, runID, input.Export); err != nil {
		return "", false, err
	}
	if err = insertWarnings(ctx, tx, runID, input.Export); err != nil {
		return "", false, err
	}
	if err = tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit run: %w", err)
	}
	return runID, true, nil
}

func insertScores(ctx context.Context, tx *sql.Tx, runID string, export report.Export) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO model_scores (
		  run_id, model_id, position, missing, score, total, correct, format_failures, format_failure_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare scores: %w", err)
	}
	defer stmt.Close()
	position := 0
	for _, summary := range export.Summaries {
		if _, err := stmt.ExecContext(ctx, runID, summary.Model, position, false,
			summary.Score, summary.Total, summary.Correct, summary.FormatFailures, summary.FormatFailureRate,
		); err != nil {
			return fmt.Errorf("insert score %s: %w", summary.Model, err)
		}
		position++
	}
	for _, model := range export.MissingModels {
		if _, err := stmt.ExecContext(ctx, runID, model, position, true, nil, nil, nil, nil, nil); err != nil {
			return fmt.Errorf("insert missing model %s: %w", model, err)
		}
		position++
	}
	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, runID string, export report.Export) error {
	questionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (run_id, question_index, correct_answer, question_preview) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare questions: %w", err)
	}
	defer questionStmt.Close()
	resultStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (
		  run_id, model_id, question_index, extracted, correct, format_failure, tag
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare results: %w", err)
	}
	defer resultStmt.Close()

	tags := tagIndex(export.FailureModes)
	for _, question := range export.PerQuestion {
		if _, err := questionStmt.ExecContext(ctx, runID, question.Index,
			nullableString(question.CorrectAnswer), nullableString(question.QuestionPreview),
		); err != nil {
			return fmt.Errorf("insert question %d: %w", question.Index, err)
		}
		for _, result := range question.Results {
			tag := tags[result.Model][question.Index]
			if tag == "" && result.Correct {
				tag = string(classify.CategoryCorrect)
			}
			if _, err := resultStmt.ExecContext(ctx, runID, result.Model, question.Index,
				result.Extracted, result.Correct, result.FormatFailure, nullableString(tag),
			); err != nil {
				return fmt.Errorf("insert result %s/%d: %w", result.Model, question.Index, err)
			}
		}
	}
	return nil
}

func insertPatterns(ctx context.Context, tx *sql.Tx, runID string, export report.Export) error {
	patternStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patterns (run_id, pattern, position, surprising, inert, size) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare patterns: %w", err)
	}
	defer patternStmt.Close()
	memberStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pattern_members (run_id, pattern, question_index) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare pattern members: %w", err)
	}
	defer memberStmt.Close()

	for position, pattern := range export.Patterns {
		if _, err := patternStmt.ExecContext(ctx, runID, pattern.Name, position,
			pattern.Surprising, pattern.Inert, len(pattern.Indices),
		); err != nil {
			return fmt.Errorf("insert pattern %s: %w", pattern.Name, err)
		}
		for _, index := range pattern.Indices {
			if _, err := memberStmt.ExecContext(ctx, runID, pattern.Name, index); err != nil {
				return fmt.Errorf("insert pattern member %s/%d: %w", pattern.Name, index, err)
			}
		}
	}
	return nil
}

func insertWarnings(ctx context.Context, tx *sql.Tx, runID string, export report.Export) error {
	for seq, warning := range export.Warnings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (run_id, seq, kind, model_id, message) VALUES (?, ?, ?, ?, ?)`,
			runID, seq, warning.Kind, nullableString(warning.Model), warning.Message,
		); err != nil {
			return fmt.Errorf("insert warning %d: %w", seq, err)
		}
	}
	return nil
}

// tagIndex inverts the failure taxonomies into model -> index -> tag key.
func tagIndex(taxonomies map[string]classify.Taxonomy) map[string]map[int]string {
	out := make(map[string]map[int]string, len(taxonomies))
	for model, taxonomy := range taxonomies {
		byIndex := map[int]string{}
		for key, bucket := range taxonomy {
			for _, index := range bucket.Indices {
				byIndex[index] = key
			}
		}
		out[model] = byIndex
	}
	return out
}
