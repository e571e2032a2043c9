package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ReportPage renders the export as a standalone HTML page.
func ReportPage(export Export) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\"><title>Model Comparison</title>")
		b.WriteString("<style>body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse;margin-bottom:1.5rem}" +
			"th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}.ok{color:#087f23}.fmt{color:#8a6d00}.bad{color:#b00020}</style>")
		b.WriteString("</head><body><h1>Model Comparison</h1>")

		b.WriteString("<h2>Overall Scores</h2><table><thead><tr><th>Model</th><th>Score</th><th>Correct</th><th>Format Fail</th><th>Fail Rate</th></tr></thead><tbody>")
		for _, summary := range export.Summaries {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s%%</td><td>%d</td><td>%d</td><td>%s%%</td></tr>",
				templ.EscapeString(summary.Model), formatPercent(summary.Score), summary.Correct,
				summary.FormatFailures, formatPercent(summary.FormatFailureRate))
		}
		for _, model := range export.MissingModels {
			fmt.Fprintf(&b, "<tr><td>%s</td><td colspan=\"4\">%s</td></tr>", templ.EscapeString(model), notAvailable)
		}
		b.WriteString("</tbody></table>")

		b.WriteString("<h2>Question Patterns</h2><table><thead><tr><th>Pattern</th><th>Questions</th></tr></thead><tbody>")
		for _, pattern := range export.Patterns {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td></tr>", templ.EscapeString(pattern.Name), len(pattern.Indices))
		}
		b.WriteString("</tbody></table>")

		if len(export.Coverage) > 0 {
			b.WriteString("<h2>Coverage</h2><table><thead><tr><th>Model</th><th>Covered by</th><th>Share</th></tr></thead><tbody>")
			for _, entry := range export.Coverage {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s%%</td></tr>",
					templ.EscapeString(entry.From), templ.EscapeString(entry.To), formatPercent(entry.Value))
			}
			b.WriteString("</tbody></table>")
		}

		b.WriteString("<h2>Questions</h2><table><thead><tr><th>#</th><th>Correct</th><th>Question</th>")
		for _, model := range export.Models {
			fmt.Fprintf(&b, "<th>%s</th>", templ.EscapeString(model))
		}
		b.WriteString("</tr></thead><tbody>")
		for _, detail := range export.PerQuestion {
			fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td>",
				detail.Index, templ.EscapeString(detail.CorrectAnswer), templ.EscapeString(detail.QuestionPreview))
			for _, result := range detail.Results {
				fmt.Fprintf(&b, "<td class=\"%s\">%s %s</td>", outcomeClass(result),
					templ.EscapeString(result.Extracted), outcomeMark(result))
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")

		if len(export.Warnings) > 0 {
			b.WriteString("<h2>Warnings</h2><ul>")
			for _, warning := range export.Warnings {
				fmt.Fprintf(&b, "<li><strong>%s</strong> %s</li>", templ.EscapeString(warning.Kind), templ.EscapeString(warning.Message))
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</body></html>\n")

		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderHTML renders the report page into a string.
func RenderHTML(ctx context.Context, export Export) (string, error) {
	var builder strings.Builder
	if err := ReportPage(export).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// WriteHTMLFile renders the report page to path.
func WriteHTMLFile(ctx context.Context, path string, export Export) error {
	return writeFile(path, func(w io.Writer) error {
		return ReportPage(export).Render(ctx, w)
	})
}

func outcomeClass(result ModelResult) string {
	switch {
	case result.Correct:
		return "ok"
	case result.FormatFailure:
		return "fmt"
	default:
		return "bad"
	}
}
