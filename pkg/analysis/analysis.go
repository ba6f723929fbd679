// Package analysis provides the top-level theme analysis run for Liquidlens.
//
// This package implements the complete discover → check → graph run that
// can be used by the CLI and by library consumers. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// A run consists of two stages:
//
//  1. Check: run the active checks over every discovered file and
//     collect Offenses
//  2. Graph: build the theme dependency graph from the same file tree
//
// Each stage can be run independently or as part of the complete run.
//
// # Usage
//
// Create a Runner and execute a run:
//
//	runner := analysis.NewRunner(fsys, logger)
//	opts := analysis.Options{Root: "my-theme"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range result.Offenses {
//	    fmt.Println(o.Message)
//	}
package analysis

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/errors"
	"github.com/liquidlens/liquidlens/pkg/graph"

	// Register the built-in check catalog.
	_ "github.com/liquidlens/liquidlens/pkg/check/checks"
)

// Options contains all configuration for one analysis run.
type Options struct {
	// Root names the theme being analyzed; it appears in the serialized
	// graph and in log output. Defaults to "theme".
	Root string `json:"root,omitempty"`

	// ConfigPath is the check configuration file, resolved against the
	// theme file system. Defaults to check.DefaultConfigPath; a missing
	// file means all checks run with defaults.
	ConfigPath string `json:"config_path,omitempty"`

	// Paths restricts checking to specific files. Empty means every
	// discovered .liquid file.
	Paths []string `json:"paths,omitempty"`

	// SkipChecks disables the check stage.
	SkipChecks bool `json:"skip_checks,omitempty"`

	// SkipGraph disables the graph stage.
	SkipGraph bool `json:"skip_graph,omitempty"`

	// Workers bounds parallelism in both stages. Zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Registry *check.Registry `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SkipChecks && o.SkipGraph {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to do: both stages skipped")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be non-negative, got %d", o.Workers)
	}
	for _, p := range o.Paths {
		if err := errors.ValidateThemePath(p); err != nil {
			return err
		}
	}
	if o.Root == "" {
		o.Root = "theme"
	}
	if o.ConfigPath == "" {
		o.ConfigPath = check.DefaultConfigPath
	}
	if o.Registry == nil {
		o.Registry = check.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of one analysis run.
type Result struct {
	// RunID uniquely identifies this run in logs and hook events.
	RunID string

	// Offenses is the sorted, deduplicated diagnostic list.
	Offenses []check.Offense

	// Graph is the theme dependency graph; nil when the graph stage
	// was skipped.
	Graph *graph.Graph

	// Unresolved and Broken carry the graph builder's reference data.
	Unresolved []graph.Ref
	Broken     []graph.Ref

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run execution statistics.
type Stats struct {
	Files     int
	Offenses  int
	Nodes     int
	Edges     int
	CheckTime time.Duration
	GraphTime time.Duration
}

// NewRunID returns a fresh identifier for one run.
func NewRunID() string {
	return uuid.NewString()
}
