package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

// StoredScore is one model row read back from model_scores.
type StoredScore struct {
	Model          string
	Missing        bool
	Score          float64
	Total          int
	Correct        int
	FormatFailures int
}

// FailureMode is one row of the v_failure_modes view.
type FailureMode struct {
	Model string
	Tag   string
	Count int
}

// RunScores returns the model rows of a run in roster order.
func RunScores(ctx context.Context, db *sql.DB, runID string) ([]StoredScore, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT model_id, missing, COALESCE(score, 0), COALESCE(total, 0), COALESCE(correct, 0), COALESCE(format_failures, 0)
		 FROM model_scores WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()
	var out []StoredScore
	for rows.Next() {
		var score StoredScore
		if err := rows.Scan(&score.Model, &score.Missing, &score.Score, &score.Total, &score.Correct, &score.FormatFailures); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, score)
	}
	return out, rows.Err()
}

// RunFailureModes returns tag counts for a run ordered by model and tag.
func RunFailureModes(ctx context.Context, db *sql.DB, runID string) ([]FailureMode, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT model_id, tag, count FROM v_failure_modes WHERE run_id = ? ORDER BY model_id, tag`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failure modes: %w", err)
	}
	defer rows.Close()
	var out []FailureMode
	for rows.Next() {
		var mode FailureMode
		if err := rows.Scan(&mode.Model, &mode.Tag, &mode.Count); err != nil {
			return nil, fmt.Errorf("scan failure mode: %w", err)
		}
		out = append(out, mode)
	}
	return out, rows.Err()
}

// PatternMembers returns the sorted question indices of a stored pattern.
func PatternMembers(ctx context.Context, db *sql.DB, runID, pattern string) ([]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT question_index FROM pattern_members WHERE run_id = ? AND pattern = ? ORDER BY question_index`,
		runID, pattern)
	if err != nil {
		return nil, fmt.Errorf("query pattern members: %w", err)
	}
	defer rows.Close()
	out := []int{}
	for rows.Next() {
		var index int
		if err := rows.Scan(&index); err != nil {
			return nil, fmt.Errorf("scan pattern member: %w", err)
		}
		out = append(out, index)
	}
	return out, rows.Err()
}
