// Package liquid defines the syntax-tree node model for Liquid templates
// and a small reference parser producing it.
//
// The analysis layers (pkg/check, pkg/graph) depend only on the node
// shapes defined here: every node carries a kind tag and a half-open
// byte-offset position range. Any parser producing these shapes can be
// plugged in via the Parser interface; the shipped implementation covers
// the constructs the built-in checks and the theme graph builder need.
package liquid

import "strings"

// Position is a half-open byte range [Start, End) into a file's raw text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the offset falls inside the range.
func (p Position) Contains(offset int) bool {
	return offset >= p.Start && offset < p.End
}

// Len returns the number of bytes covered by the range.
func (p Position) Len() int { return p.End - p.Start }

// NodeKind identifies the shape of a syntax-tree node. Check handlers are
// registered per kind, so the set of kinds is the dispatch vocabulary.
type NodeKind string

const (
	KindDocument   NodeKind = "document"
	KindText       NodeKind = "text"
	KindOutput     NodeKind = "output"
	KindTag        NodeKind = "tag"
	KindIf         NodeKind = "if"
	KindCase       NodeKind = "case"
	KindWhen       NodeKind = "when"
	KindRender     NodeKind = "render"
	KindSection    NodeKind = "section"
	KindLayout     NodeKind = "layout"
	KindComparison NodeKind = "comparison"
	KindVariable   NodeKind = "variable"
	KindString     NodeKind = "string"
	KindNumber     NodeKind = "number"
)

// Node is the common shape of every syntax-tree vertex.
type Node interface {
	Kind() NodeKind
	Pos() Position
	// Children returns the node's direct children in document order.
	// The returned slice must not be mutated.
	Children() []Node
}

// Document is the root node of one parsed file.
type Document struct {
	Range Position
	Body  []Node
}

func (d *Document) Kind() NodeKind   { return KindDocument }
func (d *Document) Pos() Position    { return d.Range }
func (d *Document) Children() []Node { return d.Body }

// Text is a run of raw markup between Liquid constructs.
type Text struct {
	Range Position
}

func (t *Text) Kind() NodeKind   { return KindText }
func (t *Text) Pos() Position    { return t.Range }
func (t *Text) Children() []Node { return nil }

// Output is a {{ expression }} interpolation.
type Output struct {
	Range Position
	Expr  Node
}

func (o *Output) Kind() NodeKind { return KindOutput }
func (o *Output) Pos() Position  { return o.Range }
func (o *Output) Children() []Node {
	if o.Expr == nil {
		return nil
	}
	return []Node{o.Expr}
}

// Tag is a generic {% name markup %} tag the parser has no dedicated
// shape for. Block tags (for, capture, ...) carry their body.
type Tag struct {
	Range  Position
	Name   string
	Markup string
	Body   []Node
}

func (t *Tag) Kind() NodeKind   { return KindTag }
func (t *Tag) Pos() Position    { return t.Range }
func (t *Tag) Children() []Node { return t.Body }

// IfTag is an {% if %} or {% unless %} block. Conditions holds the
// condition expression of the opening tag followed by those of any
// {% elsif %} branches; Body holds the nested nodes of all branches in
// document order.
type IfTag struct {
	Range      Position
	TagName    string // "if" or "unless"
	Conditions []Node
	Body       []Node
}

func (t *IfTag) Kind() NodeKind { return KindIf }
func (t *IfTag) Pos() Position  { return t.Range }
func (t *IfTag) Children() []Node {
	out := make([]Node, 0, len(t.Conditions)+len(t.Body))
	out = append(out, t.Conditions...)
	out = append(out, t.Body...)
	return out
}

// CaseTag is a {% case subject %} block with its when clauses.
type CaseTag struct {
	Range   Position
	Subject Node
	Whens   []*WhenClause
}

func (t *CaseTag) Kind() NodeKind { return KindCase }
func (t *CaseTag) Pos() Position  { return t.Range }
func (t *CaseTag) Children() []Node {
	out := make([]Node, 0, 1+len(t.Whens))
	if t.Subject != nil {
		out = append(out, t.Subject)
	}
	for _, w := range t.Whens {
		out = append(out, w)
	}
	return out
}

// WhenClause is one {% when value[, value...] %} arm of a case block.
type WhenClause struct {
	Range  Position
	Values []Node
	Body   []Node
}

func (w *WhenClause) Kind() NodeKind { return KindWhen }
func (w *WhenClause) Pos() Position  { return w.Range }
func (w *WhenClause) Children() []Node {
	out := make([]Node, 0, len(w.Values)+len(w.Body))
	out = append(out, w.Values...)
	out = append(out, w.Body...)
	return out
}

// Comparison is a binary comparison inside a condition expression.
// Range spans the full "left op right" source text.
type Comparison struct {
	Range Position
	Op    string // "==", "!=", "<", ">", "<=", ">=", "contains"
	Left  Node
	Right Node
}

func (c *Comparison) Kind() NodeKind   { return KindComparison }
func (c *Comparison) Pos() Position    { return c.Range }
func (c *Comparison) Children() []Node { return []Node{c.Left, c.Right} }

// Variable is a dotted lookup such as block.id or product.title.
type Variable struct {
	Range Position
	Path  []string
}

func (v *Variable) Kind() NodeKind   { return KindVariable }
func (v *Variable) Pos() Position    { return v.Range }
func (v *Variable) Children() []Node { return nil }

// Name returns the dotted lookup path, e.g. "block.id".
func (v *Variable) Name() string { return strings.Join(v.Path, ".") }

// StringLit is a single- or double-quoted string literal.
type StringLit struct {
	Range Position
	Value string
}

func (s *StringLit) Kind() NodeKind   { return KindString }
func (s *StringLit) Pos() Position    { return s.Range }
func (s *StringLit) Children() []Node { return nil }

// NumberLit is an integer or decimal literal.
type NumberLit struct {
	Range Position
	Value string
}

func (n *NumberLit) Kind() NodeKind   { return KindNumber }
func (n *NumberLit) Pos() Position    { return n.Range }
func (n *NumberLit) Children() []Node { return nil }

// RenderTag is a cross-module reference tag: {% render %}, {% include %},
// {% section %} or {% layout %}. Target is a *StringLit when the
// reference is static; any other node means the target is computed at
// runtime and cannot be resolved statically.
type RenderTag struct {
	Range   Position
	TagName string // "render", "include", "section", "layout"
	Target  Node
}

func (t *RenderTag) Kind() NodeKind {
	switch t.TagName {
	case "section":
		return KindSection
	case "layout":
		return KindLayout
	default:
		return KindRender
	}
}

func (t *RenderTag) Pos() Position { return t.Range }

func (t *RenderTag) Children() []Node {
	if t.Target == nil {
		return nil
	}
	return []Node{t.Target}
}

// StaticTarget returns the literal target name and true when the
// reference can be resolved statically.
func (t *RenderTag) StaticTarget() (string, bool) {
	if s, ok := t.Target.(*StringLit); ok {
		return s.Value, true
	}
	return "", false
}
