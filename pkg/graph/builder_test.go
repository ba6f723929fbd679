package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/liquidlens/liquidlens/pkg/theme"
)

func build(t *testing.T, fsys theme.FS) *Result {
	t.Helper()
	res, err := NewBuilder(fsys, nil).Build(context.Background(), "theme")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestBuildDeterministicSerialization(t *testing.T) {
	fsys := theme.MapFS{
		"templates/index.liquid": `{% section 'header' %}{% render 'price' %}`,
		"sections/header.liquid": `{% render 'logo' %}`,
		"snippets/price.liquid":  "p",
		"snippets/logo.liquid":   "l",
		"layout/theme.liquid":    "{{ content_for_layout }}",
	}

	first, err := MarshalGraph(build(t, fsys).Graph)
	if err != nil {
		t.Fatal(err)
	}
	second, err := MarshalGraph(build(t, fsys).Graph)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("two builds differ:\n%s\n---\n%s", first, second)
	}
}

func TestBuildTerminatesOnCycle(t *testing.T) {
	fsys := theme.MapFS{
		"snippets/a.liquid": `{% render 'b' %}`,
		"snippets/b.liquid": `{% render 'a' %}`,
	}
	res := build(t, fsys)

	var a, b int
	for _, m := range res.Graph.Modules() {
		switch m.Path {
		case "snippets/a.liquid":
			a++
		case "snippets/b.liquid":
			b++
		}
	}
	if a != 1 || b != 1 {
		t.Errorf("a = %d, b = %d, want exactly one module each", a, b)
	}
	if res.Graph.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", res.Graph.EdgeCount())
	}
}

func TestBuildSelfReference(t *testing.T) {
	fsys := theme.MapFS{"snippets/loop.liquid": `{% render 'loop' %}`}
	res := build(t, fsys)
	if res.Graph.NodeCount() != 1 || res.Graph.EdgeCount() != 1 {
		t.Errorf("nodes = %d, edges = %d", res.Graph.NodeCount(), res.Graph.EdgeCount())
	}
}

func TestBuildEntryPointsSeedFirst(t *testing.T) {
	fsys := theme.MapFS{
		"snippets/a.liquid":      "a",
		"sections/s.liquid":      "s",
		"templates/index.liquid": "i",
		"layout/theme.liquid":    "t",
	}
	mods := build(t, fsys).Graph.Modules()
	if mods[0].Path != "templates/index.liquid" || mods[1].Path != "layout/theme.liquid" {
		t.Errorf("entry points not first: %s, %s", mods[0].Path, mods[1].Path)
	}
}

func TestBuildRecordsBrokenReference(t *testing.T) {
	src := `{% render 'gone' %}`
	fsys := theme.MapFS{"sections/a.liquid": src}
	res := build(t, fsys)

	if len(res.Broken) != 1 {
		t.Fatalf("broken = %v", res.Broken)
	}
	ref := res.Broken[0]
	if ref.Target != "snippets/gone.liquid" {
		t.Errorf("target = %q", ref.Target)
	}
	if got := src[ref.Position.Start:ref.Position.End]; got != "'gone'" {
		t.Errorf("position covers %q", got)
	}
	// The intended edge is still recorded.
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("edges = %d", res.Graph.EdgeCount())
	}
	m, ok := res.Graph.Module("snippets/gone.liquid")
	if !ok || m.Parsed {
		t.Errorf("missing target module should exist unparsed, got %+v", m)
	}
}

func TestBuildRecordsUnresolvedReference(t *testing.T) {
	fsys := theme.MapFS{"sections/a.liquid": `{% render block %}`}
	res := build(t, fsys)

	if len(res.Unresolved) != 1 {
		t.Fatalf("unresolved = %v", res.Unresolved)
	}
	if res.Unresolved[0].Target != "" || res.Unresolved[0].Tag != "render" {
		t.Errorf("ref = %+v", res.Unresolved[0])
	}
	// Dynamic references carry no edge.
	if res.Graph.EdgeCount() != 0 {
		t.Errorf("edges = %d", res.Graph.EdgeCount())
	}
}

func TestBuildSkipsUnparsableModule(t *testing.T) {
	fsys := theme.MapFS{
		"sections/bad.liquid": "{% if a",
		"sections/ok.liquid":  `{% render 'x' %}`,
		"snippets/x.liquid":   "x",
	}

	res := build(t, fsys)
	bad, ok := res.Graph.Module("sections/bad.liquid")
	if !ok || bad.Parsed {
		t.Errorf("unparsable module should stay in graph unparsed: %+v", bad)
	}
	if res.Stats.Unparsable != 1 {
		t.Errorf("unparsable = %d", res.Stats.Unparsable)
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("edges = %d, the healthy file should still contribute", res.Graph.EdgeCount())
	}
}

func TestBuildCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := theme.MapFS{"snippets/a.liquid": "a"}
	if _, err := NewBuilder(fsys, nil).Build(ctx, "theme"); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestToDOTContainsNodesAndEdges(t *testing.T) {
	fsys := theme.MapFS{
		"templates/index.liquid": `{% render 'a' %}`,
		"snippets/a.liquid":      "a",
	}
	dot := ToDOT(build(t, fsys).Graph)
	for _, want := range []string{
		`"templates/index.liquid"`,
		`"templates/index.liquid" -> "snippets/a.liquid"`,
		"digraph theme {",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}
