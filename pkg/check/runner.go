package check

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/liquidlens/liquidlens/pkg/liquid"
	"github.com/liquidlens/liquidlens/pkg/observability"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// Runner executes the check pass: it validates configuration, builds the
// per-file dispatch table from the enabled checks, and walks every file.
// A Runner is stateless between runs; offenses land in the Collector the
// caller supplies, so the same Runner can serve many runs.
type Runner struct {
	Registry *Registry
	Config   Config
	FS       theme.FS
	Parser   liquid.Parser
	Logger   *log.Logger

	// Workers bounds the per-file parallelism of Run. Zero means
	// GOMAXPROCS. Offense ordering does not depend on it.
	Workers int
}

// NewRunner creates a runner. A nil registry means [Default], a nil
// parser means the reference parser, a nil logger means log.Default().
func NewRunner(reg *Registry, cfg Config, fsys theme.FS, logger *log.Logger) *Runner {
	if reg == nil {
		reg = Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Config:   cfg,
		FS:       fsys,
		Parser:   liquid.NewParser(),
		Logger:   logger,
	}
}

// plan is one enabled check with its validated settings.
type plan struct {
	def      *Definition
	rank     int
	settings Settings
}

// plan validates configuration for every registered check. Invalid
// configuration yields a single config-error offense for that check and
// the check is skipped for the run.
func (r *Runner) plan(collector *Collector) []plan {
	defs := r.Registry.Definitions()
	plans := make([]plan, 0, len(defs))
	for i, def := range defs {
		settings, err := r.Config.SettingsFor(def)
		if err != nil {
			collector.Add(Offense{
				Check:    def.Code,
				Severity: SeverityError,
				Message:  fmt.Sprintf("invalid configuration: %v", err),
				Path:     DefaultConfigPath,
			})
			continue
		}
		if !settings.Enabled {
			continue
		}
		plans = append(plans, plan{def: def, rank: i, settings: settings})
	}
	return plans
}

// Run checks every path through the theme file system. Files are
// processed with bounded parallelism; a file that cannot be read or
// parsed is logged and skipped, never fatal. Cancellation is honored at
// file boundaries; on cancellation the caller should discard the
// collector rather than surface partial results.
func (r *Runner) Run(ctx context.Context, paths []string, collector *Collector) error {
	plans := r.plan(collector)

	g, ctx := errgroup.WithContext(ctx)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for _, p := range paths {
		path := theme.Normalize(p)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			observability.Analysis().OnFileStart(ctx, path)
			start := time.Now()
			src, err := r.FS.ReadFile(path)
			if err != nil {
				r.Logger.Warn("skipping unreadable file", "path", path, "err", err)
				observability.Analysis().OnFileComplete(ctx, path, 0, time.Since(start), err)
				return nil
			}
			// Offenses go through a per-file collector first so the hook
			// sees an accurate count for this file alone.
			fileCollector := NewCollector(r.Registry.Rank)
			err = r.checkFile(path, src, plans, fileCollector)
			if err != nil {
				r.Logger.Debug("skipping unparsable file", "path", path, "err", err)
			}
			found := fileCollector.Offenses()
			for _, o := range found {
				collector.Add(o)
			}
			observability.Analysis().OnFileComplete(ctx, path, len(found), time.Since(start), err)
			return nil
		})
	}
	return g.Wait()
}

// CheckFile runs all enabled checks against a single file's text.
// It returns the parse error, if any; offenses go to the collector.
func (r *Runner) CheckFile(path, src string, collector *Collector) error {
	return r.checkFile(theme.Normalize(path), src, r.plan(collector), collector)
}

func (r *Runner) checkFile(path, src string, plans []plan, collector *Collector) error {
	doc, err := r.Parser.Parse(src)
	if err != nil {
		return err
	}

	visitor := NewVisitor(path, collector)
	for _, p := range plans {
		cctx := NewContext(p.def, p.settings, path, src, r.FS, collector)
		handlers, err := instantiate(p.def, cctx)
		if err != nil {
			collector.Add(Offense{
				Check:    p.def.Code,
				Severity: SeverityError,
				Message:  fmt.Sprintf("internal error: %v", err),
				Path:     path,
			})
			continue
		}
		visitor.AddHandlers(p.def.Code, p.rank, handlers)
	}
	visitor.Walk(doc)
	return nil
}

// instantiate evaluates a check's New factory with panic isolation, so
// one broken check cannot take down the file's whole dispatch table.
func instantiate(def *Definition, cctx *Context) (handlers Handlers, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return def.New(cctx), nil
}
