package config

import (
	"fmt"
	"regexp"

	"evalcmp/internal/spec"
)

// validateModels checks roster entries and returns the set of model IDs.
func validateModels(cfg *spec.Config, add issueAdder) map[string]struct{} {
	modelIDs := map[string]struct{}{}
	if len(cfg.Models) == 0 {
		add("models", "at least one model is required")
	}
	references := 0
	for i, model := range cfg.Models {
		fieldPrefix := fmt.Sprintf("models[%d]", i)
		if model.ID == "" {
			add(fieldPrefix+".id", "is required")
		} else if _, exists := modelIDs[model.ID]; exists {
			add("models.id", fmt.Sprintf("duplicate id %q", model.ID))
		} else {
			modelIDs[model.ID] = struct{}{}
		}
		if model.Size < 0 {
			add(fieldPrefix+".size", "must be >= 0")
		}
		if model.Reference {
			references++
		}
	}
	if references > 1 {
		add("models.reference", "at most one model may be the reference")
	}
	return modelIDs
}

// validateFormat checks the report pattern table.
func validateFormat(format *spec.FormatConfig, add issueAdder) {
	if format.SectionMarker == "" {
		add("format.section_marker", "is required")
	}
	if re, err := regexp.Compile(format.BlockPattern); err != nil {
		add("format.block_pattern", fmt.Sprintf("invalid pattern: %v", err))
	} else if re.NumSubexp() < 1 {
		add("format.block_pattern", "must contain a capture group")
	}
	seen := map[string]struct{}{}
	for i, label := range format.Labels {
		field := fmt.Sprintf("format.labels[%d]", i)
		if label == "" {
			add(field, "is required")
			continue
		}
		if _, exists := seen[label]; exists {
			add(field, fmt.Sprintf("duplicate label %q", label))
		}
		seen[label] = struct{}{}
	}
	if format.NoAnswer == "" {
		add("format.no_answer", "is required")
	} else if _, clash := seen[format.NoAnswer]; clash {
		add("format.no_answer", fmt.Sprintf("%q is also a label", format.NoAnswer))
	}
}

// validateClassifier checks heuristic thresholds.
func validateClassifier(c *spec.ClassifierConfig, add issueAdder) {
	if c.TailWindow < 1 {
		add("classifier.tail_window", "must be >= 1")
	}
	if c.TailWords < 1 {
		add("classifier.tail_words", "must be >= 1")
	}
	if c.MinWindowWords < 0 {
		add("classifier.min_window_words", "must be >= 0")
	}
	if c.RepeatThreshold < 1 {
		add("classifier.repeat_threshold", "must be >= 1")
	}
	if c.MinLoopLength < 0 {
		add("classifier.min_loop_length", "must be >= 0")
	}
	if c.TruncationLength < 1 {
		add("classifier.truncation_length", "must be >= 1")
	}
}
