package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evalcmp/internal/config"
)

// TestInitCommandCreatesConfig verifies the scaffolded config loads.
func TestInitCommandCreatesConfig(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, ".evalcmp", "config.yml")
	setInitInput(t, "y\nruns\n")

	var out, err bytes.Buffer
	code := Run([]string{"init", "--spec", specPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	if !strings.Contains(out.String(), "Wrote "+specPath) {
		t.Fatalf("expected output to include write, got %q", out.String())
	}
	cfg, loadErr := config.Load(specPath)
	if loadErr != nil {
		t.Fatalf("load scaffolded config: %v", loadErr)
	}
	if cfg.Results.Root != "runs" {
		t.Fatalf("expected prompted results root, got %q", cfg.Results.Root)
	}
}

// TestInitCommandResultsFlagSkipsPrompts verifies --results bypasses the prompts.
func TestInitCommandResultsFlagSkipsPrompts(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "config.yml")
	setInitInput(t, "")

	var out, err bytes.Buffer
	code := Run([]string{"init", "--spec", specPath, "--results", "s3://bucket/results"}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	if strings.Contains(out.String(), "[Y/n]") {
		t.Fatalf("did not expect prompts, got %q", out.String())
	}
	data, readErr := os.ReadFile(specPath)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(data), `root: "s3://bucket/results"`) {
		t.Fatalf("expected s3 root in config, got %s", data)
	}
}

// TestInitCommandGitignore verifies the analysis folder is ignored inside a git repo.
func TestInitCommandGitignore(t *testing.T) {
	dir := t.TempDir()
	if mkErr := os.Mkdir(filepath.Join(dir, ".git"), 0o755); mkErr != nil {
		t.Fatalf("mkdir .git: %v", mkErr)
	}
	specPath := filepath.Join(dir, ".evalcmp", "config.yml")
	setInitInput(t, "y\n\ny\n")

	var out, err bytes.Buffer
	if code := Run([]string{"init", "--spec", specPath}, &out, &err); code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, err.String())
	}
	data, readErr := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if readErr != nil {
		t.Fatalf("read .gitignore: %v", readErr)
	}
	if strings.TrimSpace(string(data)) != "analysis" {
		t.Fatalf("unexpected .gitignore %q", data)
	}
}

// TestInitCommandRefusesOverwrite verifies existing configs are kept.
func TestInitCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(specPath, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	var out, err bytes.Buffer
	code := Run([]string{"init", "--spec", specPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(err.String(), "already exists") {
		t.Fatalf("expected overwrite warning, got %q", err.String())
	}
}

// setInitInput replaces the init prompt input for one test.
func setInitInput(t *testing.T, input string) {
	t.Helper()
	original := initInput
	initInput = strings.NewReader(input)
	t.Cleanup(func() { initInput = original })
}
