package graph

import (
	"encoding/json"
	"io"

	"github.com/liquidlens/liquidlens/pkg/theme"
)

// SerializedNode is one module in the serialized graph.
type SerializedNode struct {
	ID   string           `json:"id"`
	Kind theme.ModuleKind `json:"kind"`
}

// Serialized is the wire form of a graph. Nodes appear in insertion
// order and edges in bind order; nothing is re-sorted, so equal builds
// produce byte-identical output.
type Serialized struct {
	Root  string           `json:"root,omitempty"`
	Nodes []SerializedNode `json:"nodes"`
	Edges []Edge           `json:"edges"`
}

// Serialize flattens a graph into its wire form.
func Serialize(g *Graph) Serialized {
	s := Serialized{
		Root:  g.Root(),
		Nodes: make([]SerializedNode, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	for _, m := range g.Modules() {
		s.Nodes = append(s.Nodes, SerializedNode{ID: m.Path, Kind: m.Kind})
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	return s
}

// MarshalGraph renders a graph as indented JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(Serialize(g), "", "  ")
}

// WriteGraph writes the JSON form of a graph to w with a trailing
// newline.
func WriteGraph(w io.Writer, g *Graph) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
