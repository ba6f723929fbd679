package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/graph"
	"github.com/liquidlens/liquidlens/pkg/observability"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// Runner encapsulates analysis execution over one theme file system.
//
// The Runner is stateless except for the file system and logger - it
// doesn't store run results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	FS     theme.FS
	Logger *log.Logger
}

// NewRunner creates a runner over the given theme file system.
// If logger is nil, the default logger is used.
func NewRunner(fsys theme.FS, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{FS: fsys, Logger: logger}
}

// Execute runs the complete check → graph analysis. Cancellation
// discards partial state: a non-nil Result is returned only when the
// whole run completed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{RunID: NewRunID()}
	start := time.Now()

	paths := opts.Paths
	if len(paths) == 0 {
		discovered, err := theme.ListLiquidFiles(r.FS)
		if err != nil {
			return nil, fmt.Errorf("discover files: %w", err)
		}
		paths = discovered
	}
	result.Stats.Files = len(paths)
	observability.Analysis().OnRunStart(ctx, result.RunID, opts.Root, len(paths))

	if !opts.SkipChecks {
		checkStart := time.Now()
		offenses, err := r.runChecks(ctx, opts, paths)
		if err != nil {
			observability.Analysis().OnRunComplete(ctx, result.RunID, 0, time.Since(start), err)
			return nil, fmt.Errorf("check: %w", err)
		}
		result.Offenses = offenses
		result.Stats.CheckTime = time.Since(checkStart)
		result.Stats.Offenses = len(offenses)

		logger.Info("checks complete",
			"files", len(paths),
			"offenses", len(offenses),
			"duration", result.Stats.CheckTime)
	}

	if !opts.SkipGraph {
		graphStart := time.Now()
		builder := graph.NewBuilder(r.FS, logger)
		builder.Workers = opts.Workers
		res, err := builder.Build(ctx, opts.Root)
		if err != nil {
			observability.Analysis().OnRunComplete(ctx, result.RunID, len(result.Offenses), time.Since(start), err)
			return nil, fmt.Errorf("graph: %w", err)
		}
		result.Graph = res.Graph
		result.Unresolved = res.Unresolved
		result.Broken = res.Broken
		result.Stats.GraphTime = time.Since(graphStart)
		result.Stats.Nodes = res.Graph.NodeCount()
		result.Stats.Edges = res.Graph.EdgeCount()

		logger.Info("graph complete",
			"nodes", result.Stats.Nodes,
			"edges", result.Stats.Edges,
			"duration", result.Stats.GraphTime)
	}

	observability.Analysis().OnRunComplete(ctx, result.RunID, len(result.Offenses), time.Since(start), nil)
	return result, nil
}

// runChecks loads the configuration and runs the active checks over the
// given paths.
func (r *Runner) runChecks(ctx context.Context, opts Options, paths []string) ([]check.Offense, error) {
	cfg, err := check.LoadConfig(r.FS, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", opts.ConfigPath, err)
	}

	runner := check.NewRunner(opts.Registry, cfg, r.FS, r.logger(opts))
	runner.Workers = opts.Workers
	collector := check.NewCollector(opts.Registry.Rank)
	if err := runner.Run(ctx, paths, collector); err != nil {
		return nil, err
	}
	return collector.Offenses(), nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
