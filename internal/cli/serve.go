package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"evalcmp/internal/analysis"
	"evalcmp/internal/reportserver"
)

// serveReport is a test seam for the HTTP server.
var serveReport = reportserver.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var params sessionParams
		fs.StringVar(&params.SpecPath, "spec", "", "Path to config file (default: search for .evalcmp/config.yml)")
		fs.StringVar(&params.Root, "root", "", "Results root directory or s3://bucket/prefix")
		fs.StringVar(&params.Models, "models", "", "Comma-separated model ids (default: config roster)")
		fs.StringVar(&params.LogLevel, "log-level", "", "Log level override (debug|info|warn|error)")
		addr := fs.String("addr", "127.0.0.1:8080", "Listen address")
		dbPath := fs.String("duckdb", "", "DuckDB file to expose at "+reportserver.RouteDatabase)
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess, err := openSession(ctx, params, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		defer sess.close()

		result, err := sess.run(ctx, 0, nil)
		if err != nil {
			if errors.Is(err, analysis.ErrNoModels) {
				fmt.Fprintf(stderr, "Serve failed: no results found under %s for %v\n", sess.resultsRoot, sess.models)
				return ExitError
			}
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		export := result.Export()
		cfg := reportserver.Config{
			Addr:   *addr,
			Export: &export,
			DBPath: sess.outputPath(*dbPath, ""),
		}
		err = serveReport(ctx, cfg, func(bound string) {
			fmt.Fprintf(stdout, "Serving report at http://%s/\n", bound)
		})
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
