package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"evalcmp/internal/analysis"
	"evalcmp/internal/duckdb"
	"evalcmp/internal/report"
	"evalcmp/internal/ui/live"
)

// compareOutputs are the export destinations requested on the command line.
type compareOutputs struct {
	JSON     string
	Failures string
	HTML     string
	XLSX     string
	DuckDB   string
}

// runCompare builds the handler for the compare command.
func runCompare(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var params sessionParams
		var outputs compareOutputs
		fs.StringVar(&params.SpecPath, "spec", "", "Path to config file (default: search for .evalcmp/config.yml)")
		fs.StringVar(&params.Root, "root", "", "Results root directory or s3://bucket/prefix")
		fs.StringVar(&params.Models, "models", "", "Comma-separated model ids (default: config roster)")
		fs.StringVar(&params.LogLevel, "log-level", "", "Log level override (debug|info|warn|error)")
		fs.StringVar(&outputs.JSON, "output", "", "Export path (.json, .yaml or .yml)")
		fs.StringVar(&outputs.Failures, "failures", "", "Failure details JSON path")
		fs.StringVar(&outputs.HTML, "html", "", "HTML report path")
		fs.StringVar(&outputs.XLSX, "xlsx", "", "XLSX workbook path")
		fs.StringVar(&outputs.DuckDB, "duckdb", "", "DuckDB database path")
		uiMode := fs.String("ui", "auto", "Console mode: auto|live|plain")
		verbose := fs.Bool("verbose", false, "Verbose logging (disables the live UI)")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors")
		maxExamples := fs.Int("max-examples", report.DefaultMaxExamples, "Examples shown per surprising pattern")
		concurrency := fs.Int("concurrency", analysis.DefaultConcurrency, "Models loaded in parallel")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid ui mode: %v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}
		if *verbose && params.LogLevel == "" {
			params.LogLevel = "debug"
		}
		if decision.useLive && params.LogLevel == "" {
			params.LogLevel = "error"
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess, err := openSession(ctx, params, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Compare failed: %v\n", err)
			return ExitError
		}
		defer sess.close()

		var controller *live.Controller
		var observer analysis.Observer
		if decision.useLive {
			controller = startLiveUI(stdout, live.Options{NoColor: *noColor})
			controller.OnRunStart(sess.cfg.Results.Benchmark, sess.resultsRoot)
			observer = controller
		}
		result, err := sess.run(ctx, *concurrency, observer)
		controller.Finish()
		if err != nil {
			if errors.Is(err, analysis.ErrNoModels) {
				fmt.Fprintf(stderr, "Compare failed: no results found under %s for %v\n", sess.resultsRoot, sess.models)
				return ExitError
			}
			fmt.Fprintf(stderr, "Compare failed: %v\n", err)
			return ExitError
		}

		export := result.Export()
		if err := report.WriteText(stdout, export, report.TextOptions{
			Roster:      sess.models,
			Styled:      decision.useLive,
			NoColor:     *noColor,
			MaxExamples: *maxExamples,
		}); err != nil {
			fmt.Fprintf(stderr, "Compare failed: write summary: %v\n", err)
			return ExitError
		}

		written, err := writeCompareOutputs(ctx, sess, result, export, outputs)
		for _, path := range written {
			fmt.Fprintf(stdout, "Wrote %s\n", path)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Compare failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// startLiveUI is a test seam for the Bubble Tea controller.
var startLiveUI = live.Start

// writeCompareOutputs writes every configured sink and returns the paths
// written before any failure.
func writeCompareOutputs(ctx context.Context, sess *session, result analysis.Result, export report.Export, outputs compareOutputs) ([]string, error) {
	var written []string
	cfgOut := sess.cfg.Output

	if path := sess.outputPath(outputs.JSON, cfgOut.JSON); path != "" {
		if err := report.WriteFile(path, export); err != nil {
			return written, fmt.Errorf("write export: %w", err)
		}
		written = append(written, path)
	}
	if path := sess.outputPath(outputs.Failures, cfgOut.Failures); path != "" {
		if err := report.WriteFailureFile(path, export.Models, result.Taxonomies); err != nil {
			return written, fmt.Errorf("write failure details: %w", err)
		}
		written = append(written, path)
	}
	if path := sess.outputPath(outputs.HTML, cfgOut.HTML); path != "" {
		if err := report.WriteHTMLFile(ctx, path, export); err != nil {
			return written, fmt.Errorf("write html: %w", err)
		}
		written = append(written, path)
	}
	if path := sess.outputPath(outputs.XLSX, cfgOut.XLSX); path != "" {
		if err := report.WriteXLSXFile(path, export); err != nil {
			return written, fmt.Errorf("write xlsx: %w", err)
		}
		written = append(written, path)
	}
	if path := sess.outputPath(outputs.DuckDB, cfgOut.DuckDB); path != "" {
		if err := storeRun(ctx, path, sess, export); err != nil {
			return written, fmt.Errorf("write duckdb: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// storeRun appends the export to a DuckDB database file.
func storeRun(ctx context.Context, path string, sess *session, export report.Export) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()
	runID, inserted, err := duckdb.UpsertRun(ctx, db, duckdb.RunInput{
		Benchmark: sess.cfg.Results.Benchmark,
		Source:    sess.resultsRoot,
		Metadata:  map[string]string{"models": strings.Join(sess.models, ",")},
		Export:    export,
	})
	if err != nil {
		return err
	}
	if inserted {
		sess.logger.Info("stored run", zap.String("run_id", runID), zap.String("path", path))
	} else {
		sess.logger.Info("run already stored", zap.String("run_id", runID), zap.String("path", path))
	}
	return nil
}

// ensureParentDir creates the directory that will hold path.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
