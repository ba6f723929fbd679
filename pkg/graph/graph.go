// Package graph builds and serializes the theme dependency graph: one
// node per theme module (template, section, snippet, layout, block) and
// one directed edge per static cross-module reference.
package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/liquidlens/liquidlens/pkg/theme"
)

var (
	// ErrInvalidModulePath is returned by [Graph.Add] when the path is
	// empty after normalization. All modules must have non-empty keys.
	ErrInvalidModulePath = errors.New("module path must not be empty")

	// ErrAsymmetricEdge is returned by [Graph.Validate] when an edge is
	// missing from either endpoint's dependency bookkeeping.
	ErrAsymmetricEdge = errors.New("edge bookkeeping is asymmetric")

	// ErrBadEntryPoint is returned by [Graph.Validate] when an entry
	// point is not a template or layout module.
	ErrBadEntryPoint = errors.New("entry point must be a template or layout")
)

// Module is one file in the theme. Dependencies and Dependents are kept
// in first-bind order; both sides of every edge are maintained together
// by [Graph.Bind].
type Module struct {
	Path         string
	Kind         theme.ModuleKind
	Dependencies []string
	Dependents   []string

	// Parsed is false until the builder successfully parses the file,
	// and stays false for unparsable or missing modules. Unparsed
	// modules keep their node and edges but contribute no references.
	Parsed bool
}

// Edge is a directed dependency between two module paths.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the module dependency graph of one theme. It preserves two
// orderings consumers depend on: module insertion order (entry points
// first, then discovery order) and bind order for edges. The zero value
// is not usable; use New. Graph is not safe for concurrent use — the
// builder funnels all mutation through a single writer.
type Graph struct {
	root        string
	modules     map[string]*Module
	order       []string
	entryPoints []string
	edges       []Edge
	edgeSet     map[Edge]bool
}

// New creates an empty graph for the theme rooted at root.
func New(root string) *Graph {
	return &Graph{
		root:    root,
		modules: make(map[string]*Module),
		edgeSet: make(map[Edge]bool),
	}
}

// Root returns the theme root the graph was built from.
func (g *Graph) Root() string { return g.root }

// Add inserts a module if absent and returns it. Paths are normalized,
// so the same file can never appear twice. Template and layout modules
// are recorded as entry points in insertion order.
func (g *Graph) Add(path string, kind theme.ModuleKind) (*Module, error) {
	p := theme.Normalize(path)
	if p == "" {
		return nil, ErrInvalidModulePath
	}
	if m, ok := g.modules[p]; ok {
		return m, nil
	}
	m := &Module{Path: p, Kind: kind}
	g.modules[p] = m
	g.order = append(g.order, p)
	if kind.IsEntryPoint() {
		g.entryPoints = append(g.entryPoints, p)
	}
	return m, nil
}

// Module returns the module for a path, if present.
func (g *Graph) Module(path string) (*Module, bool) {
	m, ok := g.modules[theme.Normalize(path)]
	return m, ok
}

// Modules returns all modules in insertion order.
func (g *Graph) Modules() []*Module {
	out := make([]*Module, len(g.order))
	for i, p := range g.order {
		out[i] = g.modules[p]
	}
	return out
}

// EntryPoints returns the template and layout modules in insertion order.
func (g *Graph) EntryPoints() []*Module {
	out := make([]*Module, len(g.entryPoints))
	for i, p := range g.entryPoints {
		out[i] = g.modules[p]
	}
	return out
}

// Edges returns all edges in bind order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of modules.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Bind establishes the directed dependency source → target, creating
// either module lazily with its kind inferred from the path. Bind is
// idempotent: binding the same pair twice records one edge. Both sides
// of the edge are updated together, so dependencies and dependents stay
// symmetric. Self-references and cycles are recorded as-is; termination
// is the builder's concern, not the graph's.
func (g *Graph) Bind(source, target string) error {
	src, err := g.Add(source, theme.KindOf(source))
	if err != nil {
		return fmt.Errorf("bind source: %w", err)
	}
	dst, err := g.Add(target, theme.KindOf(target))
	if err != nil {
		return fmt.Errorf("bind target: %w", err)
	}

	e := Edge{Source: src.Path, Target: dst.Path}
	if g.edgeSet[e] {
		return nil
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	src.Dependencies = append(src.Dependencies, dst.Path)
	dst.Dependents = append(dst.Dependents, src.Path)
	return nil
}

// Orphans returns non-entry-point modules nothing depends on, in
// insertion order. Dead-code consumers use this to flag unreferenced
// snippets and sections.
func (g *Graph) Orphans() []*Module {
	var out []*Module
	for _, p := range g.order {
		m := g.modules[p]
		if !m.Kind.IsEntryPoint() && len(m.Dependents) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks the structural invariants: every edge appears in both
// endpoints' bookkeeping and every entry point is a template or layout.
// It exists for tests and debugging; a graph built only through Add and
// Bind always passes.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		src, ok := g.modules[e.Source]
		if !ok || !slices.Contains(src.Dependencies, e.Target) {
			return fmt.Errorf("%w: %s -> %s", ErrAsymmetricEdge, e.Source, e.Target)
		}
		dst, ok := g.modules[e.Target]
		if !ok || !slices.Contains(dst.Dependents, e.Source) {
			return fmt.Errorf("%w: %s -> %s", ErrAsymmetricEdge, e.Source, e.Target)
		}
	}
	for _, p := range g.entryPoints {
		m, ok := g.modules[p]
		if !ok || !m.Kind.IsEntryPoint() {
			return fmt.Errorf("%w: %s", ErrBadEntryPoint, p)
		}
	}
	return nil
}
