package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"evalcmp/internal/config"
	"evalcmp/internal/record"
	"evalcmp/internal/spec"
)

// runExtract builds the handler for the extract command.
func runExtract(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		input := fs.String("input", "", "Report document to parse")
		modelID := fs.String("model", "", "Model id shown in the summary line (default: input path)")
		specPath := fs.String("spec", "", "Config file whose format section is used (default: built-in format)")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if strings.TrimSpace(*input) == "" {
			fmt.Fprintln(stderr, "Missing --input")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		formatCfg := spec.FormatConfig{}
		if strings.TrimSpace(*specPath) != "" {
			cfg, err := config.Load(*specPath)
			if err != nil {
				fmt.Fprintf(stderr, "Extract failed: %v\n", err)
				return ExitError
			}
			formatCfg = cfg.Format
		}
		format, err := record.NewFormat(formatCfg)
		if err != nil {
			fmt.Fprintf(stderr, "Extract failed: %v\n", err)
			return ExitError
		}

		data, err := os.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(stderr, "Extract failed: read input: %v\n", err)
			return ExitError
		}
		label := strings.TrimSpace(*modelID)
		if label == "" {
			label = *input
		}
		set := record.NewResultSet(label, record.NewExtractor(format).Extract(string(data)))
		encoder := json.NewEncoder(stdout)
		for _, rec := range set.Records {
			if err := encoder.Encode(rec); err != nil {
				fmt.Fprintf(stderr, "Extract failed: %v\n", err)
				return ExitError
			}
		}
		fmt.Fprintf(stderr, "%s: %d records, %d correct, %d format failures\n", set.ModelID, set.Total(), set.Correct, set.FormatFailures)
		return ExitOK
	}
}
