package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/liquidlens/liquidlens/pkg/theme"
)

// ToDOT converts a theme graph to Graphviz DOT format. Nodes are
// colored by module kind and unparsable modules get dashed outlines.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph theme {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, m := range g.Modules() {
		fmt.Fprintf(&buf, "  %q [%s];\n", m.Path, strings.Join(nodeAttrs(m), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(m *Module) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", m.Path),
		fmt.Sprintf("fillcolor=%q", kindColor(m.Kind)),
	}
	if !m.Parsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func kindColor(k theme.ModuleKind) string {
	switch k {
	case theme.KindTemplate:
		return "#B8E0D2"
	case theme.KindLayout:
		return "#D6EADF"
	case theme.KindSection:
		return "#EAC4D5"
	case theme.KindSnippet:
		return "#FFF1C9"
	case theme.KindBlock:
		return "#C9D7F8"
	default:
		return "white"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
