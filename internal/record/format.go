package record

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"evalcmp/internal/spec"
)

// Defaults for the simple-evals style HTML report.
const (
	DefaultSectionDelimiter = "<hr>"
	DefaultSectionMarker    = "Correct Answer:"
	DefaultExtractedMarker  = "Extracted Answer:"
	DefaultScoreMarker      = "Score:"
	DefaultBlockPattern     = `(?s)<pre>(.*?)</pre>`
	DefaultNoAnswerText     = "None"
)

// DefaultLabels returns the four-option multiple-choice alphabet.
func DefaultLabels() []string {
	return []string{"A", "B", "C", "D"}
}

// Format is the declarative pattern table used to parse one report layout.
type Format struct {
	SectionDelimiter string
	SectionMarker    string
	Labels           []string
	NoAnswerText     string

	block     *regexp.Regexp
	correct   *regexp.Regexp
	extracted *regexp.Regexp
	score     *regexp.Regexp
}

// DefaultFormat returns the pattern table for simple-evals HTML reports.
func DefaultFormat() Format {
	format, err := NewFormat(spec.FormatConfig{})
	if err != nil {
		panic(fmt.Sprintf("record: default format: %v", err))
	}
	return format
}

// NewFormat compiles a pattern table. Empty fields take the defaults.
func NewFormat(cfg spec.FormatConfig) (Format, error) {
	format := Format{
		SectionDelimiter: orDefault(cfg.SectionDelimiter, DefaultSectionDelimiter),
		SectionMarker:    orDefault(cfg.SectionMarker, DefaultSectionMarker),
		Labels:           cfg.Labels,
		NoAnswerText:     orDefault(cfg.NoAnswer, DefaultNoAnswerText),
	}
	if len(format.Labels) == 0 {
		format.Labels = DefaultLabels()
	}

	block, err := regexp.Compile(orDefault(cfg.BlockPattern, DefaultBlockPattern))
	if err != nil {
		return Format{}, fmt.Errorf("compile block pattern: %w", err)
	}
	if block.NumSubexp() < 1 {
		return Format{}, fmt.Errorf("block pattern %q has no capture group", block.String())
	}
	format.block = block

	labels := LabelAlternation(format.Labels)
	extractedMarker := orDefault(cfg.ExtractedMarker, DefaultExtractedMarker)
	scoreMarker := orDefault(cfg.ScoreMarker, DefaultScoreMarker)
	format.correct = regexp.MustCompile(regexp.QuoteMeta(format.SectionMarker) + `[ \t]*(?P<label>` + labels + `)`)
	format.extracted = regexp.MustCompile(regexp.QuoteMeta(extractedMarker) + `[ \t]*(?P<label>` + labels + `|` + regexp.QuoteMeta(format.NoAnswerText) + `)`)
	format.score = regexp.MustCompile(regexp.QuoteMeta(scoreMarker) + `[ \t]*(?P<score>[0-9]+(?:\.[0-9]+)?)`)
	return format, nil
}

// LabelAlternation builds a regexp alternation over labels, longest first so
// that multi-character labels are not shadowed by their prefixes.
func LabelAlternation(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, 0, len(sorted))
	for _, label := range sorted {
		quoted = append(quoted, regexp.QuoteMeta(label))
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// IsLabel reports whether value belongs to the label alphabet.
func (f Format) IsLabel(value string) bool {
	for _, label := range f.Labels {
		if label == value {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
