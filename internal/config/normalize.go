package config

import (
	"strings"

	"evalcmp/internal/classify"
	"evalcmp/internal/compare"
	"evalcmp/internal/record"
	"evalcmp/internal/spec"
)

// DefaultBenchmark is the benchmark directory name used when none is set.
const DefaultBenchmark = "gpqa_diamond"

// DefaultPatterns returns the named patterns used when none are configured.
func DefaultPatterns() []spec.PatternConfig {
	return []spec.PatternConfig{
		{Name: "only_largest_correct", Correct: []string{"largest"}, Wrong: []string{"others"}, Surprising: true},
		{Name: "smallest_correct_larger_wrong", Correct: []string{"smallest"}, Wrong: []string{"others"}, Surprising: true},
		{Name: "largest_correct_smallest_wrong", Correct: []string{"largest"}, Wrong: []string{"smallest"}},
		{Name: "monotonic_scaling", Kind: compare.KindMonotonic},
	}
}

// Normalize fills unset fields with defaults and trims identifiers.
func Normalize(cfg *spec.Config) {
	if strings.TrimSpace(cfg.Results.Root) == "" {
		cfg.Results.Root = DefaultResultsRoot
	}
	if strings.TrimSpace(cfg.Results.Benchmark) == "" {
		cfg.Results.Benchmark = DefaultBenchmark
	}
	for i := range cfg.Models {
		cfg.Models[i].ID = strings.TrimSpace(cfg.Models[i].ID)
	}
	normalizeFormat(&cfg.Format)
	normalizeClassifier(&cfg.Classifier)
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns()
	}
	for i := range cfg.Patterns {
		cfg.Patterns[i].Name = strings.TrimSpace(cfg.Patterns[i].Name)
		cfg.Patterns[i].Kind = strings.ToLower(strings.TrimSpace(cfg.Patterns[i].Kind))
		cfg.Patterns[i].Correct = trimAll(cfg.Patterns[i].Correct)
		cfg.Patterns[i].Wrong = trimAll(cfg.Patterns[i].Wrong)
	}
	if cfg.Output.JSON == "" {
		cfg.Output.JSON = DefaultOutputJSON
	}
	if cfg.Output.Failures == "" {
		cfg.Output.Failures = DefaultFailures
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func normalizeFormat(format *spec.FormatConfig) {
	if format.SectionDelimiter == "" {
		format.SectionDelimiter = record.DefaultSectionDelimiter
	}
	if format.SectionMarker == "" {
		format.SectionMarker = record.DefaultSectionMarker
	}
	if format.ExtractedMarker == "" {
		format.ExtractedMarker = record.DefaultExtractedMarker
	}
	if format.ScoreMarker == "" {
		format.ScoreMarker = record.DefaultScoreMarker
	}
	if format.BlockPattern == "" {
		format.BlockPattern = record.DefaultBlockPattern
	}
	if len(format.Labels) == 0 {
		format.Labels = record.DefaultLabels()
	}
	format.Labels = trimAll(format.Labels)
	if format.NoAnswer == "" {
		format.NoAnswer = record.DefaultNoAnswerText
	}
}

func normalizeClassifier(c *spec.ClassifierConfig) {
	defaults := classify.DefaultSettings()
	if c.TailWindow == 0 {
		c.TailWindow = defaults.TailWindow
	}
	if c.TailWords == 0 {
		c.TailWords = defaults.TailWords
	}
	if c.MinWindowWords == 0 {
		c.MinWindowWords = defaults.MinWindowWords
	}
	if c.RepeatThreshold == 0 {
		c.RepeatThreshold = defaults.RepeatThreshold
	}
	if c.TruncationLength == 0 {
		c.TruncationLength = defaults.TruncationLength
	}
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}
