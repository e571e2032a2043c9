package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"evalcmp/internal/classify"
)

// DefaultMaxExamples bounds the example rows printed per surprising pattern.
const DefaultMaxExamples = 5

const notAvailable = "N/A"

// Outcome marks used in example rows.
const (
	markCorrect       = "✓"
	markFormatFailure = "∅"
	markWrong         = "✗"
)

// TextOptions controls the human-readable summary.
type TextOptions struct {
	// Roster lists every requested model; models absent from the export get an
	// N/A row. Empty means the export's own model list.
	Roster      []string
	Styled      bool
	NoColor     bool
	MaxExamples int
	Title       string
}

// WriteText renders the summary tables, pattern counts, coverage and examples.
func WriteText(w io.Writer, export Export, opts TextOptions) error {
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = DefaultMaxExamples
	}
	if opts.Title == "" {
		opts.Title = "Model Comparison"
	}
	roster := opts.Roster
	if len(roster) == 0 {
		roster = export.Models
	}

	var b strings.Builder
	rule := strings.Repeat("=", 70)
	b.WriteString(rule + "\n")
	b.WriteString(heading(opts.Title, opts) + "\n")
	b.WriteString(rule + "\n")

	b.WriteString("\n" + heading("## Overall Scores", opts) + "\n\n")
	if opts.Styled {
		b.WriteString(scoreTable(export, roster, opts.NoColor).View() + "\n")
	} else {
		writePlainScores(&b, export, roster)
	}

	b.WriteString("\n" + heading("## Question Patterns", opts) + "\n\n")
	for _, pattern := range export.Patterns {
		line := fmt.Sprintf("%-32s %d questions", pattern.Name+":", len(pattern.Indices))
		if pattern.Inert {
			line += " (inactive)"
		}
		b.WriteString(line + "\n")
	}

	if len(export.Coverage) > 0 {
		b.WriteString("\n" + heading("## Coverage", opts) + "\n\n")
		for _, entry := range export.Coverage {
			fmt.Fprintf(&b, "%s covered by %s: %s%%\n", entry.From, entry.To, formatPercent(entry.Value))
		}
	}

	for _, pattern := range export.Patterns {
		if !pattern.Surprising || len(pattern.Indices) == 0 {
			continue
		}
		b.WriteString("\n" + heading("## Examples: "+pattern.Name, opts) + "\n\n")
		writeExamples(&b, export, pattern.Indices, opts.MaxExamples)
	}

	if len(export.Warnings) > 0 {
		b.WriteString("\n" + heading("## Warnings", opts) + "\n\n")
		for _, warning := range export.Warnings {
			prefix := warning.Kind
			if warning.Model != "" {
				prefix += " " + warning.Model
			}
			fmt.Fprintf(&b, "- %s: %s\n", prefix, warning.Message)
		}
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writePlainScores(b *strings.Builder, export Export, roster []string) {
	width := 15
	for _, model := range roster {
		if len(model)+2 > width {
			width = len(model) + 2
		}
	}
	fmt.Fprintf(b, "%-*s %-10s %-10s %-12s %-10s\n", width, "Model", "Score", "Correct", "Format Fail", "Fail Rate")
	b.WriteString(strings.Repeat("-", width+45) + "\n")
	for _, model := range roster {
		summary, ok := export.Summary(model)
		if !ok {
			fmt.Fprintf(b, "%-*s %-10s %-10s %-12s %-10s\n", width, model, notAvailable, notAvailable, notAvailable, notAvailable)
			continue
		}
		fmt.Fprintf(b, "%-*s %6s%%    %-10d %-12d %6s%%\n", width, model,
			formatPercent(summary.Score), summary.Correct, summary.FormatFailures, formatPercent(summary.FormatFailureRate))
	}
}

// scoreTable builds a static bubbles table of the per-model scalars.
func scoreTable(export Export, roster []string, noColor bool) table.Model {
	width := 15
	for _, model := range roster {
		if len(model)+2 > width {
			width = len(model) + 2
		}
	}
	columns := []table.Column{
		{Title: "Model", Width: width},
		{Title: "Score", Width: 8},
		{Title: "Correct", Width: 8},
		{Title: "Format Fail", Width: 12},
		{Title: "Fail Rate", Width: 10},
	}
	rows := make([]table.Row, 0, len(roster))
	for _, model := range roster {
		summary, ok := export.Summary(model)
		if !ok {
			rows = append(rows, table.Row{model, notAvailable, notAvailable, notAvailable, notAvailable})
			continue
		}
		rows = append(rows, table.Row{
			model,
			formatPercent(summary.Score) + "%",
			fmt.Sprint(summary.Correct),
			fmt.Sprint(summary.FormatFailures),
			formatPercent(summary.FormatFailureRate) + "%",
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	t.SetStyles(tableStyles(noColor))
	return t
}

// tableStyles returns table styles for the summary.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	return styles
}

func writeExamples(b *strings.Builder, export Export, indices []int, limit int) {
	for n, index := range indices {
		if n >= limit {
			break
		}
		if index < 0 || index >= len(export.PerQuestion) {
			continue
		}
		detail := export.PerQuestion[index]
		fmt.Fprintf(b, "Q%d: %s\n", index, detail.QuestionPreview)
		correct := detail.CorrectAnswer
		if correct == "" {
			correct = notAvailable
		}
		fmt.Fprintf(b, "   Correct: %s\n", correct)
		for _, result := range detail.Results {
			fmt.Fprintf(b, "   %s: %s %s\n", result.Model, result.Extracted, outcomeMark(result))
		}
		b.WriteString("\n")
	}
}

func outcomeMark(result ModelResult) string {
	switch {
	case result.Correct:
		return markCorrect
	case result.FormatFailure:
		return markFormatFailure
	default:
		return markWrong
	}
}

func heading(text string, opts TextOptions) string {
	if !opts.Styled || opts.NoColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(text)
}

// formatPercent returns a ratio as a percentage with one decimal.
func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f", rate*100)
}

// WriteFailureText lists each model's failure buckets, largest first. Models
// without a taxonomy are reported as N/A.
func WriteFailureText(w io.Writer, models []string, taxonomies map[string]classify.Taxonomy) error {
	var b strings.Builder
	for _, model := range models {
		taxonomy, ok := taxonomies[model]
		if !ok {
			fmt.Fprintf(&b, "%s: %s\n", model, notAvailable)
			continue
		}
		fmt.Fprintf(&b, "%s: %d failures\n", model, taxonomy.Failures())
		keys := taxonomy.Keys()
		sort.SliceStable(keys, func(i, j int) bool {
			return taxonomy[keys[i]].Count > taxonomy[keys[j]].Count
		})
		for _, key := range keys {
			fmt.Fprintf(&b, "  %-48s %d\n", key, taxonomy[key].Count)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
