package duckdb_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"evalcmp/internal/classify"
	"evalcmp/internal/compare"
	"evalcmp/internal/duckdb/testing"
	"evalcmp/internal/record"
	"evalcmp/internal/report"
	"evalcmp/internal/testutil"
)

const (
	testTimeout = 2 * time.Second
)

// openTestDB opens an in-memory DuckDB instance with the schema applied.
func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx := testutil.Context(t, testTimeout)
	db := duckdbtesting.Open(t, ":memory:")
	duckdbtesting.ApplySchema(t, db)
	return db, ctx
}

// queryInt returns a single integer value from the database.
func queryInt(t *testing.T, ctx context.Context, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var out int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&out); err != nil {
		t.Fatalf("query int failed: %v", err)
	}
	return out
}

// sampleExport builds a two-model export with one missing model.
func sampleExport(t *testing.T) report.Export {
	t.Helper()
	small := record.NewResultSet("llama-8b", []record.Record{
		{Index: 0, Prompt: "first", CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
		{Index: 1, Prompt: "second", CorrectAnswer: "B", ExtractedAnswer: "C"},
		{Index: 2, Prompt: "third", CorrectAnswer: "C", Response: "I cannot decide"},
	})
	large := record.NewResultSet("llama-405b", []record.Record{
		{Index: 0, CorrectAnswer: "A", ExtractedAnswer: "A", Score: 1},
		{Index: 1, CorrectAnswer: "B", ExtractedAnswer: "B", Score: 1},
		{Index: 2, CorrectAnswer: "C", ExtractedAnswer: "D"},
	})
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
	warnings := append(cmp.Warnings(), compare.Warning{Kind: "missing_data", Model: "llama-70b", Message: "no results found"})
	return report.Assemble(report.Input{
		Sets:          sets,
		MissingModels: []string{"llama-70b"},
		Comparison:    cmp,
		Taxonomies:    taxonomies,
		Warnings:      warnings,
	})
}
