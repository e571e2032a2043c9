package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nullableString converts an empty string into a SQL NULL.
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// mapExpression builds a map constructor expression for SQL literals.
func mapExpression(values map[string]string) string {
	if values == nil {
		return "NULL"
	}
	if len(values) == 0 {
		return "map([], [])"
	}
	keys := sortedKeys(values)
	keyLiterals := make([]string, 0, len(keys))
	valLiterals := make([]string, 0, len(keys))
	for _, k := range keys {
		keyLiterals = append(keyLiterals, quoteLiteral(k))
		valLiterals = append(valLiterals, quoteLiteral(values[k]))
	}
	return fmt.Sprintf("map([%s], [%s])", strings.Join(keyLiterals, ", "), strings.Join(valLiterals, ", "))
}

// quoteLiteral escapes a string for SQL literal use.
func quoteLiteral(value string) string {
	escaped := strings.ReplaceAll(value, "'", "''")
	return "'" + escaped + "'"
}

// lookupID fetches a single ID column value for a row keyed by keyColumn.
func lookupID(ctx context.Context, q queryer, table, idColumn, keyColumn, key string) (string, error) {
	query := fmt.Sprintf("SELECT CAST(%s AS VARCHAR) FROM %s WHERE %s = ?", idColumn, table, keyColumn)
	var id string
	if err := q.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
