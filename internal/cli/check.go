package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liquidlens/liquidlens/pkg/analysis"
	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	config    string // config file path within the theme
	format    string // output format: text or json
	output    string // output file path (stdout if empty)
	failLevel string // minimum severity that causes a non-zero exit
	workers   int    // parallelism bound
}

// checkCommand creates the check command.
//
// Default options:
//   - config: .liquidlens.toml in the theme root
//   - format: text
//   - fail-level: error
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{
		config:    check.DefaultConfigPath,
		format:    "text",
		failLevel: "error",
	}

	cmd := &cobra.Command{
		Use:   "check [theme-dir]",
		Short: "Run checks over a theme and report offenses",
		Long: `Run the active checks over every Liquid template in a theme.

Offenses are printed sorted by file, position, and check registration
order. The exit code is non-zero when any offense at or above the
--fail-level severity is found.

Examples:
  liquidlens check                       # Check the current directory
  liquidlens check my-theme              # Check a theme directory
  liquidlens check --format json -o out.json my-theme`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runCheck(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", opts.config, "check configuration file (theme-relative)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: text or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.failLevel, "fail-level", opts.failLevel, "minimum severity for a non-zero exit: info, warning, or error")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = number of CPUs)")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, root string, opts checkOpts) error {
	failLevel, err := check.ParseSeverity(opts.failLevel)
	if err != nil {
		return fmt.Errorf("invalid fail-level: %w", err)
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format: %q (must be text or json)", opts.format)
	}

	logger := loggerFromContext(cmd.Context())
	runner := analysis.NewRunner(theme.DirFS(root), logger)
	prog := newProgress(logger)
	spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Checking %s...", root))
	spin.Start()
	result, err := runner.Execute(cmd.Context(), analysis.Options{
		Root:       root,
		ConfigPath: opts.config,
		SkipGraph:  true,
		Workers:    opts.workers,
		Logger:     logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %d files", result.Stats.Files))

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Offenses); err != nil {
			return err
		}
	default:
		for _, o := range result.Offenses {
			writeOffense(out, o)
		}
		writeOffenseSummary(out, result.Stats.Files, result.Offenses)
	}

	for _, o := range result.Offenses {
		if o.Severity >= failLevel {
			return fmt.Errorf("found offenses at or above %s severity", failLevel)
		}
	}
	return nil
}
