package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootHelp verifies the command list is printed.
func TestRootHelp(t *testing.T) {
	var out, err bytes.Buffer
	code := Run([]string{"--help"}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if err.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", err.String())
	}
	output := out.String()
	if !strings.Contains(output, "Usage:") {
		t.Fatalf("expected usage header, got %q", output)
	}
	for _, cmd := range commands {
		if !strings.Contains(output, cmd.Name) {
			t.Fatalf("expected command %q in output", cmd.Name)
		}
	}
}

// TestNoArgsShowsUsage verifies a bare invocation is a usage error.
func TestNoArgsShowsUsage(t *testing.T) {
	var out, err bytes.Buffer
	code := Run(nil, &out, &err)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected usage output, got %q", out.String())
	}
}

// TestUnknownCommand verifies unknown commands go to stderr with usage.
func TestUnknownCommand(t *testing.T) {
	var out, err bytes.Buffer
	code := Run([]string{"nope"}, &out, &err)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(err.String(), "Unknown command") || !strings.Contains(err.String(), "Usage:") {
		t.Fatalf("expected unknown command error with usage, got %q", err.String())
	}
}

// TestCommandHelp verifies every command prints its usage lines.
func TestCommandHelp(t *testing.T) {
	for _, cmd := range commands {
		var out, err bytes.Buffer
		code := Run([]string{cmd.Name, "--help"}, &out, &err)
		if code != ExitOK {
			t.Fatalf("%s: expected exit %d, got %d", cmd.Name, ExitOK, code)
		}
		if err.Len() != 0 {
			t.Fatalf("%s: expected no stderr output, got %q", cmd.Name, err.String())
		}
		for _, line := range cmd.Usage {
			if !strings.Contains(out.String(), line) {
				t.Fatalf("%s: expected usage line %q", cmd.Name, line)
			}
		}
	}
}

// TestUnexpectedArguments verifies positional arguments are usage errors.
func TestUnexpectedArguments(t *testing.T) {
	for _, name := range []string{"validate", "compare", "failures", "serve", "extract"} {
		var out, err bytes.Buffer
		if code := Run([]string{name, "stray"}, &out, &err); code != ExitUsage {
			t.Fatalf("%s: expected exit %d, got %d", name, ExitUsage, code)
		}
		if !strings.Contains(err.String(), "unexpected arguments: stray") {
			t.Fatalf("%s: unexpected stderr %q", name, err.String())
		}
	}
}

// TestSplitList verifies comma lists are trimmed and empty parts dropped.
func TestSplitList(t *testing.T) {
	got := splitList(" a, b,,c ,")
	if strings.Join(got, "|") != "a|b|c" {
		t.Fatalf("unexpected list %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

// TestSplitListDropsDuplicates verifies repeated entries keep their first position.
func TestSplitListDropsDuplicates(t *testing.T) {
	got := splitList("b,a, b,a,c")
	if strings.Join(got, "|") != "b|a|c" {
		t.Fatalf("unexpected list %v", got)
	}
}
