package graph

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/liquidlens/liquidlens/pkg/liquid"
	"github.com/liquidlens/liquidlens/pkg/observability"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// Ref is one cross-module reference found during the build.
type Ref struct {
	// Source is the module containing the reference.
	Source string
	// Target is the resolved module path; empty for dynamic references.
	Target string
	// Tag is the referencing tag name (render, include, section, layout).
	Tag string
	// Position is the reference's range in the source file: the target
	// argument when present, otherwise the whole tag.
	Position liquid.Position
}

// Result is the outcome of one graph build.
type Result struct {
	Graph *Graph

	// Unresolved lists references whose target is computed at runtime.
	// These carry no edge and are data for collaborators (e.g. a
	// dynamic-reference check), not errors.
	Unresolved []Ref

	// Broken lists static references whose target file does not exist.
	// The node and edge are still recorded so consumers see the intent.
	Broken []Ref

	// Stats summarizes the build.
	Stats Stats
}

// Stats carries build counters and timing.
type Stats struct {
	FilesParsed int
	Unparsable  int
	Duration    time.Duration
}

// Builder walks the theme's file system, parses every module file, and
// assembles the dependency graph. Files are parsed in waves with bounded
// parallelism, but every graph mutation happens on the build goroutine
// in wave order — single-writer discipline — so two builds over the same
// tree serialize identically, node for node and edge for edge.
type Builder struct {
	FS     theme.FS
	Parser liquid.Parser
	Logger *log.Logger

	// Workers bounds per-wave parse parallelism. Zero means GOMAXPROCS.
	Workers int
}

// NewBuilder creates a builder over the given theme file system.
func NewBuilder(fsys theme.FS, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		FS:     fsys,
		Parser: liquid.NewParser(),
		Logger: logger,
	}
}

// parsed is one file's parse outcome, produced concurrently and applied
// sequentially.
type parsed struct {
	path string
	doc  *liquid.Document
	err  error
}

// Build constructs the theme graph. Cancellation is checked at wave
// boundaries; a canceled build returns the context error and no partial
// result. Unparsable files and broken references never fail the build.
func (b *Builder) Build(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	observability.Graph().OnBuildStart(ctx, root)

	files, err := theme.ListLiquidFiles(b.FS)
	if err != nil {
		return nil, err
	}

	res := &Result{Graph: New(root)}
	seen := make(map[string]bool, len(files))

	// Seed: every discovered file is a module up front, entry-point
	// directories first, so insertion order starts with entry points.
	wave := make([]string, 0, len(files))
	for _, f := range files {
		p := theme.Normalize(f)
		if seen[p] {
			continue
		}
		seen[p] = true
		wave = append(wave, p)
		if _, err := res.Graph.Add(p, theme.KindOf(p)); err != nil {
			return nil, err
		}
	}

	for len(wave) > 0 {
		if err := ctx.Err(); err != nil {
			observability.Graph().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
			return nil, err
		}
		outcomes, err := b.parseWave(ctx, wave)
		if err != nil {
			observability.Graph().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
			return nil, err
		}
		var next []string
		for _, pc := range outcomes {
			next = append(next, b.apply(ctx, res, seen, pc)...)
		}
		wave = next
	}

	res.Stats.Duration = time.Since(start)
	observability.Graph().OnBuildComplete(ctx, res.Graph.NodeCount(), res.Graph.EdgeCount(), res.Stats.Duration, nil)
	return res, nil
}

// parseWave reads and parses one wave of files concurrently. The
// outcome slice preserves wave order; only cancellation aborts.
func (b *Builder) parseWave(ctx context.Context, wave []string) ([]parsed, error) {
	outcomes := make([]parsed, len(wave))

	g, ctx := errgroup.WithContext(ctx)
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, path := range wave {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := b.FS.ReadFile(path)
			if err != nil {
				outcomes[i] = parsed{path: path, err: err}
				return nil
			}
			doc, err := b.Parser.Parse(src)
			outcomes[i] = parsed{path: path, doc: doc, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// apply folds one parse outcome into the graph. It runs on the build
// goroutine only, in wave order, and returns newly discovered targets
// for the next wave.
func (b *Builder) apply(ctx context.Context, res *Result, seen map[string]bool, pc parsed) []string {
	module, _ := res.Graph.Module(pc.path)
	if pc.err != nil {
		// Unparsable or unreadable: keep the node, skip reference
		// extraction, carry on.
		res.Stats.Unparsable++
		b.Logger.Debug("module not parsable", "path", pc.path, "err", pc.err)
		observability.Graph().OnModuleVisited(ctx, pc.path, false)
		return nil
	}
	module.Parsed = true
	res.Stats.FilesParsed++
	observability.Graph().OnModuleVisited(ctx, pc.path, true)

	var next []string
	for _, ref := range scanRefs(pc.path, pc.doc) {
		if ref.Target == "" {
			res.Unresolved = append(res.Unresolved, ref)
			continue
		}
		if err := res.Graph.Bind(ref.Source, ref.Target); err != nil {
			b.Logger.Warn("bind failed", "source", ref.Source, "target", ref.Target, "err", err)
			continue
		}
		if !theme.Exists(b.FS, ref.Target) {
			res.Broken = append(res.Broken, ref)
		}
		// Consulting the seen set by path, not the call stack, is what
		// makes mutually recursive snippets terminate.
		if !seen[ref.Target] {
			seen[ref.Target] = true
			next = append(next, ref.Target)
		}
	}
	return next
}

// scanRefs walks one parsed tree and collects its reference tags. The
// walk uses an explicit stack; template nesting never grows the call
// stack.
func scanRefs(source string, doc *liquid.Document) []Ref {
	var refs []Ref
	stack := []liquid.Node{doc}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if tag, ok := node.(*liquid.RenderTag); ok {
			ref := Ref{Source: source, Tag: tag.TagName, Position: tag.Pos()}
			if tag.Target != nil {
				ref.Position = tag.Target.Pos()
			}
			if name, static := tag.StaticTarget(); static {
				ref.Target = theme.ResolveRef(tag.TagName, name)
			}
			refs = append(refs, ref)
		}

		children := node.Children()
		// Push in reverse so popping yields document order.
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, children[i])
			}
		}
	}
	return refs
}
