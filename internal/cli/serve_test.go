package cli

import (
	"context"
	"strings"
	"testing"

	"evalcmp/internal/reportserver"
)

// TestServeCommandPassesExport verifies serve runs the pipeline and hands the export to the server.
func TestServeCommandPassesExport(t *testing.T) {
	_, specPath := writeProject(t)
	original := serveReport
	t.Cleanup(func() { serveReport = original })

	var got reportserver.Config
	serveReport = func(_ context.Context, cfg reportserver.Config, ready func(string)) error {
		got = cfg
		ready("127.0.0.1:9999")
		return nil
	}

	code, stdout, stderr := runCLI(t, "serve", "--spec", specPath, "--addr", "127.0.0.1:0")
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, stderr)
	}
	if got.Addr != "127.0.0.1:0" || got.Export == nil {
		t.Fatalf("unexpected server config %+v", got)
	}
	if len(got.Export.Models) != 3 || got.DBPath != "" {
		t.Fatalf("unexpected export or db path: %v %q", got.Export.Models, got.DBPath)
	}
	if !strings.Contains(stdout, "Serving report at http://127.0.0.1:9999/") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}
