package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"evalcmp/internal/spec"
)

// Validate checks a normalized config for correctness.
func Validate(cfg *spec.Config) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Results.Root) == "" {
		collector.add("results.root", "is required")
	}
	if cfg.Results.ExpectedQuestions < 0 {
		collector.add("results.expected_questions", "must be >= 0")
	}

	modelIDs := validateModels(cfg, collector.add)
	validateFormat(&cfg.Format, collector.add)
	validateClassifier(&cfg.Classifier, collector.add)
	validatePatterns(cfg, modelIDs, collector.add)
	validateOutput(&cfg.Output, collector.add)
	validateLogging(&cfg.Logging, collector.add)

	return collector.result()
}

// validateOutput checks export destinations.
func validateOutput(output *spec.OutputConfig, add issueAdder) {
	switch strings.ToLower(filepath.Ext(output.JSON)) {
	case ".json", ".yaml", ".yml":
	default:
		add("output.json", fmt.Sprintf("unsupported export extension %q (expected .json, .yaml or .yml)", filepath.Ext(output.JSON)))
	}
	if output.XLSX != "" && strings.ToLower(filepath.Ext(output.XLSX)) != ".xlsx" {
		add("output.xlsx", "must end with .xlsx")
	}
}

// validateLogging checks level and encoder names.
func validateLogging(logging *spec.LoggingConfig, add issueAdder) {
	switch strings.ToLower(logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", fmt.Sprintf("unsupported level %q", logging.Level))
	}
	switch strings.ToLower(logging.Format) {
	case "console", "json":
	default:
		add("logging.format", fmt.Sprintf("unsupported format %q", logging.Format))
	}
}
