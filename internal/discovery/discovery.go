// Package discovery locates the latest report artifacts for each model on the
// local filesystem or in an S3 bucket.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound reports that a model has no discoverable report.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one model's latest report document and optional summary metrics.
// SummaryErr is set when a summary file exists but cannot be read or decoded;
// Summary is nil in that case and the report is still usable.
type Artifact struct {
	ModelID    string
	RunID      string
	Location   string
	Document   string
	Summary    map[string]any
	SummaryErr error
}

// Source resolves the latest artifact for a model.
type Source interface {
	Latest(ctx context.Context, modelID string) (Artifact, error)
}

// Layout describes where a benchmark's files sit inside a run directory:
// <model>/<run>/<benchmark>/artifacts/<benchmark>/<benchmark>.{html,json}.
type Layout struct {
	Benchmark string
}

// artifactsDir is relative to a run directory.
func (l Layout) artifactsDir() string {
	return path.Join(l.Benchmark, "artifacts")
}

// reportPath is relative to a run directory.
func (l Layout) reportPath() string {
	return path.Join(l.artifactsDir(), l.Benchmark, l.Benchmark+".html")
}

// summaryPath is relative to a run directory.
func (l Layout) summaryPath() string {
	return path.Join(l.artifactsDir(), l.Benchmark, l.Benchmark+".json")
}

func decodeSummary(data []byte, location string) (map[string]any, error) {
	var summary map[string]any
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", location, err)
	}
	return summary, nil
}

// ParseS3URL splits s3://bucket/prefix into its parts. The prefix may be empty.
func ParseS3URL(ref string) (string, string, error) {
	const scheme = "s3://"
	if !strings.HasPrefix(ref, scheme) {
		return "", "", fmt.Errorf("bad s3 url (missing s3://): %q", ref)
	}
	rest := strings.TrimPrefix(ref, scheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("bad s3 url (missing bucket): %q", ref)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}
