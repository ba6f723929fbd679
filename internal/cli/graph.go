package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liquidlens/liquidlens/pkg/analysis"
	"github.com/liquidlens/liquidlens/pkg/graph"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format  string // output format: json, dot, or svg
	output  string // output file path (stdout if empty)
	workers int    // parallelism bound
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "graph [theme-dir]",
		Short: "Build the theme dependency graph and export it",
		Long: `Build the module dependency graph of a theme and export it.

Nodes are theme modules (templates, sections, snippets, layouts,
blocks); edges are the static render, include, section, and layout
references between them. Node and edge order is deterministic for an
unchanged file tree.

Examples:
  liquidlens graph my-theme                     # JSON to stdout
  liquidlens graph --format dot my-theme        # Graphviz DOT
  liquidlens graph --format svg -o graph.svg my-theme`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runGraph(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: json, dot, or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = number of CPUs)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, root string, opts graphOpts) error {
	if opts.format != "json" && opts.format != "dot" && opts.format != "svg" {
		return fmt.Errorf("invalid format: %q (must be json, dot, or svg)", opts.format)
	}

	logger := loggerFromContext(cmd.Context())
	runner := analysis.NewRunner(theme.DirFS(root), logger)
	prog := newProgress(logger)
	spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Building graph for %s...", root))
	spin.Start()
	result, err := runner.Execute(cmd.Context(), analysis.Options{
		Root:       root,
		SkipChecks: true,
		Workers:    opts.workers,
		Logger:     logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built graph with %d modules and %d edges",
		result.Stats.Nodes, result.Stats.Edges))

	for _, ref := range result.Broken {
		logger.Warn("broken reference",
			"source", ref.Source, "target", ref.Target, "tag", ref.Tag)
	}

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(graph.ToDOT(result.Graph))
	case "svg":
		data, err = graph.RenderSVG(cmd.Context(), graph.ToDOT(result.Graph))
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	default:
		data, err = graph.MarshalGraph(result.Graph)
		if err != nil {
			return err
		}
		data = append(data, '\n')
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		printSuccess("Wrote %s", opts.output)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
