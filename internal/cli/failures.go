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
	"evalcmp/internal/report"
)

// runFailures builds the handler for the failures command.
func runFailures(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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
		output := fs.String("output", "", "Failure details JSON path")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess, err := openSession(ctx, params, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failures failed: %v\n", err)
			return ExitError
		}
		defer sess.close()

		result, err := sess.run(ctx, 0, nil)
		if err != nil {
			if errors.Is(err, analysis.ErrNoModels) {
				fmt.Fprintf(stderr, "Failures failed: no results found under %s for %v\n", sess.resultsRoot, sess.models)
				return ExitError
			}
			fmt.Fprintf(stderr, "Failures failed: %v\n", err)
			return ExitError
		}

		if err := report.WriteFailureText(stdout, sess.models, result.Taxonomies); err != nil {
			fmt.Fprintf(stderr, "Failures failed: write summary: %v\n", err)
			return ExitError
		}
		models := make([]string, 0, len(result.Sets))
		for _, set := range result.Sets {
			models = append(models, set.ModelID)
		}
		if path := sess.outputPath(*output, sess.cfg.Output.Failures); path != "" {
			if err := report.WriteFailureFile(path, models, result.Taxonomies); err != nil {
				fmt.Fprintf(stderr, "Failures failed: write failure details: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Wrote %s\n", path)
		}
		return ExitOK
	}
}
