package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evalcmp/internal/record"
	"evalcmp/internal/testutil"
)

// TestExtractCommandPrintsRecords verifies one JSON line per parsed question.
func TestExtractCommandPrintsRecords(t *testing.T) {
	input := filepath.Join(t.TempDir(), "report.html")
	doc := testutil.ReportDocument(
		testutil.Answered("A", "A"),
		testutil.Unanswered("B", "no idea"),
	)
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	code, stdout, stderr := runCLI(t, "extract", "--input", input, "--model", "llama-8b")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two records, got %q", stdout)
	}
	var second record.Record
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if second.Index != 1 || second.CorrectAnswer != "B" || !second.IsFormatFailure() {
		t.Fatalf("unexpected record %+v", second)
	}
	if !strings.Contains(stderr, "llama-8b: 2 records, 1 correct, 1 format failures") {
		t.Fatalf("unexpected summary %q", stderr)
	}
}

// TestExtractCommandRequiresInput verifies --input is mandatory.
func TestExtractCommandRequiresInput(t *testing.T) {
	code, _, stderr := runCLI(t, "extract")
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr, "Missing --input") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}
