// Package pkg provides the core libraries for Liquidlens theme analysis.
//
// # Overview
//
// Liquidlens statically analyzes Liquid theme templates: it parses every
// template into a syntax tree, runs a configurable set of checks over the
// trees, and builds the theme's module dependency graph. The pkg directory
// is organized into five main areas:
//
//  1. [liquid] - Template parsing (syntax tree, positions, reference tags)
//  2. [theme] - Theme file system abstraction and module classification
//  3. [check] - The check engine (registry, visitor, collector, config)
//  4. [graph] - Dependency graph construction and serialization
//  5. [analysis] - Orchestration (discover → check → graph)
//
// # Architecture
//
// The typical data flow through Liquidlens:
//
//	Theme directory
//	         ↓
//	    [theme] package (discover and classify .liquid files)
//	         ↓
//	    [liquid] package (parse templates into syntax trees)
//	         ↓
//	    [check] package (run checks, collect Offenses)
//	    [graph] package (bind cross-module references into a graph)
//	         ↓
//	    Offense report + JSON/DOT/SVG graph output
//
// # Quick Start
//
// Run a complete analysis over a theme directory:
//
//	import (
//	    "context"
//	    "github.com/liquidlens/liquidlens/pkg/analysis"
//	    "github.com/liquidlens/liquidlens/pkg/theme"
//	)
//
//	runner := analysis.NewRunner(theme.DirFS("my-theme"), nil)
//	result, _ := runner.Execute(context.Background(), analysis.Options{Root: "my-theme"})
//	for _, o := range result.Offenses {
//	    fmt.Printf("%s:%d %s\n", o.Path, o.Position.Start, o.Message)
//	}
//
// Register a custom check:
//
//	check.Register(&check.Definition{
//	    Code:            "MyCheck",
//	    Name:            "My check",
//	    DefaultSeverity: check.SeverityWarning,
//	    New: func(ctx *check.Context) check.Handlers {
//	        return check.Handlers{
//	            liquid.KindOutput: func(node liquid.Node, ancestors []liquid.Node) error {
//	                ctx.Report(check.Report{Message: "found an output", Position: node.Pos()})
//	                return nil
//	            },
//	        }
//	    },
//	})
//
// # Main Packages
//
// [liquid] - Hand-written template parser producing a positioned syntax
// tree. Every node carries its half-open byte range in the source file,
// which is what checks highlight in their Offenses.
//
// [theme] - File system abstraction over a theme directory with module
// classification (template, section, snippet, layout, block) and
// reference-tag resolution.
//
// [check] - The pluggable check engine: a registry of check definitions,
// a kind-keyed dispatch visitor, per-check TOML configuration, and a
// concurrent runner with per-check failure isolation.
//
// [check/checks] - The built-in check catalog, registered via init.
//
// [graph] - The theme dependency graph: deterministic wave-based
// construction, idempotent bind, JSON serialization, and DOT/SVG export
// via Graphviz.
//
// [analysis] - Top-level run orchestration used by the CLI and library
// consumers.
//
// [observability] - Optional instrumentation hooks with no-op defaults.
//
// [errors] - Structured error codes shared across the library and CLI.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/check/...    # Specific package
//
// [liquid]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/liquid
// [theme]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/theme
// [check]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/check
// [check/checks]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/check/checks
// [graph]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/graph
// [analysis]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/analysis
// [observability]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/observability
// [errors]: https://pkg.go.dev/github.com/liquidlens/liquidlens/pkg/errors
package pkg
