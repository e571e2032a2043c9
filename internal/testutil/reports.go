package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ReportQuestion describes one question section of a synthetic report.
type ReportQuestion struct {
	Prompt    string
	Response  string
	Correct   string
	Extracted string
	Score     string
}

// Answered returns a question answered with label extracted.
func Answered(correct, extracted string) ReportQuestion {
	score := "0.0"
	if correct == extracted {
		score = "1.0"
	}
	return ReportQuestion{
		Prompt:    "Which option holds?",
		Response:  "Answer: " + extracted,
		Correct:   correct,
		Extracted: extracted,
		Score:     score,
	}
}

// Unanswered returns a format failure with the given response text.
func Unanswered(correct, response string) ReportQuestion {
	return ReportQuestion{
		Prompt:    "Which option holds?",
		Response:  response,
		Correct:   correct,
		Extracted: "None",
		Score:     "0.0",
	}
}

// ReportDocument renders questions in the simple-evals HTML report layout.
func ReportDocument(questions ...ReportQuestion) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>Metrics</h1><p>score: n/a</p>")
	for _, q := range questions {
		b.WriteString("<hr>")
		b.WriteString(`<div class="message user"><pre>` + q.Prompt + `</pre></div>`)
		if q.Response != "" {
			b.WriteString(`<div class="message assistant"><pre>` + q.Response + `</pre></div>`)
		}
		b.WriteString("<h3>Results</h3>")
		if q.Correct != "" {
			b.WriteString("<p>Correct Answer: " + q.Correct + "</p>\n")
		}
		if q.Extracted != "" {
			b.WriteString("<p>Extracted Answer: " + q.Extracted + "</p>\n")
		}
		if q.Score != "" {
			b.WriteString("<p>Score: " + q.Score + "</p>\n")
		}
	}
	b.WriteString("</body></html>")
	return b.String()
}

// WriteRun lays out a run directory the way the evaluation harness does:
// <root>/<model>/<run>/<bench>/artifacts/<bench>/<bench>.{html,json}.
// An empty summary skips the JSON file.
func WriteRun(t testing.TB, root, model, run, bench, document, summary string) string {
	t.Helper()
	dir := filepath.Join(root, model, run, bench, "artifacts", bench)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir run: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, bench+".html"), []byte(document), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if summary != "" {
		if err := os.WriteFile(filepath.Join(dir, bench+".json"), []byte(summary), 0o644); err != nil {
			t.Fatalf("write summary: %v", err)
		}
	}
	return dir
}
