package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"evalcmp/internal/testutil"
)

const testBenchmark = "gpqa_diamond"

const testConfig = `version: 1
results:
  root: results
  benchmark: gpqa_diamond
models:
  - id: llama-8b
    size: 8
  - id: llama-70b
    size: 70
  - id: llama-405b
    size: 405
    reference: true
logging:
  level: warn
`

// writeProject lays out a config and three model runs. Question 1 is solved
// only by the largest model, question 2 only by the smallest.
func writeProject(t *testing.T) (dir, specPath string) {
	t.Helper()
	dir = t.TempDir()
	specPath = filepath.Join(dir, ".evalcmp", "config.yml")
	if err := os.MkdirAll(filepath.Dir(specPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(specPath, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	results := filepath.Join(dir, "results")
	runs := map[string][]testutil.ReportQuestion{
		"llama-8b": {
			testutil.Answered("A", "A"),
			testutil.Answered("B", "C"),
			testutil.Answered("C", "C"),
			testutil.Unanswered("D", "I keep thinking about this and cannot settle"),
		},
		"llama-70b": {
			testutil.Answered("A", "A"),
			testutil.Answered("B", "C"),
			testutil.Answered("C", "D"),
			testutil.Answered("D", "A"),
		},
		"llama-405b": {
			testutil.Answered("A", "A"),
			testutil.Answered("B", "B"),
			testutil.Answered("C", "D"),
			testutil.Answered("D", "B"),
		},
	}
	for model, questions := range runs {
		testutil.WriteRun(t, results, model, "2025-01-01T00-00-00", testBenchmark, testutil.ReportDocument(questions...), "")
	}
	return dir, specPath
}

// runCLI executes a command and returns its exit code and output.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// readJSONFile decodes a JSON document into a generic map.
func readJSONFile(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc
}

// intList converts a decoded JSON array of numbers.
func intList(t *testing.T, value any) []int {
	t.Helper()
	items, ok := value.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", value)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, int(item.(float64)))
	}
	return out
}
