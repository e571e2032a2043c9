package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FSSource reads artifacts from a results directory tree.
type FSSource struct {
	Root   string
	Layout Layout
}

// NewFSSource returns a filesystem source rooted at root.
func NewFSSource(root, benchmark string) *FSSource {
	return &FSSource{Root: root, Layout: Layout{Benchmark: benchmark}}
}

// Latest loads the report of the lexicographically greatest run that holds
// the benchmark's artifacts.
func (s *FSSource) Latest(ctx context.Context, modelID string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	modelDir := filepath.Join(s.Root, modelID)
	runDir, runID, err := s.findLatestRunDir(modelDir)
	if err != nil {
		return Artifact{}, err
	}

	reportPath := filepath.Join(runDir, filepath.FromSlash(s.Layout.reportPath()))
	document, err := os.ReadFile(reportPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, fmt.Errorf("%s: report %s missing: %w", modelID, reportPath, ErrNotFound)
		}
		return Artifact{}, fmt.Errorf("read report %s: %w", reportPath, err)
	}
	artifact := Artifact{
		ModelID:  modelID,
		RunID:    runID,
		Location: reportPath,
		Document: string(document),
	}

	summaryPath := filepath.Join(runDir, filepath.FromSlash(s.Layout.summaryPath()))
	data, err := os.ReadFile(summaryPath)
	switch {
	case err == nil:
		artifact.Summary, artifact.SummaryErr = decodeSummary(data, summaryPath)
	case !errors.Is(err, fs.ErrNotExist):
		artifact.SummaryErr = fmt.Errorf("read summary %s: %w", summaryPath, err)
	}
	return artifact, nil
}

// findLatestRunDir picks the greatest run directory containing artifacts.
func (s *FSSource) findLatestRunDir(modelDir string) (string, string, error) {
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("no results in %s: %w", modelDir, ErrNotFound)
		}
		return "", "", err
	}
	runIDs := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		artifacts := filepath.Join(modelDir, entry.Name(), filepath.FromSlash(s.Layout.artifactsDir()))
		if info, err := os.Stat(artifacts); err == nil && info.IsDir() {
			runIDs = append(runIDs, entry.Name())
		}
	}
	if len(runIDs) == 0 {
		return "", "", fmt.Errorf("no runs found in %s: %w", modelDir, ErrNotFound)
	}
	sort.Strings(runIDs)
	latest := runIDs[len(runIDs)-1]
	return filepath.Join(modelDir, latest), latest, nil
}
