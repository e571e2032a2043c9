package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultConfigTemplate = `version: 1
results:
  root: "%s"
  benchmark: gpqa_diamond
  expected_questions: 198

models:
  - id: llama-8b
    size: 8
  - id: llama-70b
    size: 70
  - id: llama-405b
    size: 405
    reference: true

format:
  section_delimiter: "<hr>"
  section_marker: "Correct Answer:"
  block_pattern: '(?s)<pre>(.*?)</pre>'
  labels: [A, B, C, D]
  no_answer: "None"

classifier:
  tail_window: 500
  tail_words: 5
  min_window_words: 10
  repeat_threshold: 3
  truncation_length: 3500

patterns:
  - name: only_largest_correct
    correct: [largest]
    wrong: [others]
    surprising: true
  - name: smallest_correct_larger_wrong
    correct: [smallest]
    wrong: [others]
    surprising: true
  - name: largest_correct_smallest_wrong
    correct: [largest]
    wrong: [smallest]
  - name: monotonic_scaling
    kind: monotonic

output:
  json: "analysis/comparison.json"
  failures: "analysis/failure_details.json"
`

// Scaffold writes a starter config at specPath.
func Scaffold(specPath, resultsRoot string) error {
	if specPath == "" {
		return fmt.Errorf("spec path is required")
	}
	if info, err := os.Stat(specPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("spec path %q is a directory", specPath)
		}
		return fmt.Errorf("spec file already exists at %q", specPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat spec file: %w", err)
	}
	if strings.TrimSpace(resultsRoot) == "" {
		resultsRoot = DefaultResultsRoot
	}
	if err := os.MkdirAll(filepath.Dir(specPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	content := fmt.Sprintf(defaultConfigTemplate, resultsRoot)
	if err := os.WriteFile(specPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write spec file: %w", err)
	}
	return nil
}
