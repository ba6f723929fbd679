package check

import (
	"fmt"

	"github.com/liquidlens/liquidlens/pkg/liquid"
)

// dispatchEntry is one check's handler for a node kind, tagged with the
// check's registration rank so invocation order is stable.
type dispatchEntry struct {
	code string
	rank int
	fn   Handler
}

// Visitor drives a deterministic pre-order traversal of one file's
// syntax tree and invokes the handlers registered for each node's kind.
//
// Guarantees:
//   - nodes are visited in document order, parents before children;
//   - all handlers for a node complete before its children are visited;
//   - handlers for the same node run in check registration order;
//   - a handler that returns an error or panics is isolated: the failure
//     becomes an internal-error offense for that check and traversal
//     continues with the remaining handlers and nodes.
type Visitor struct {
	table     map[liquid.NodeKind][]dispatchEntry
	collector *Collector
	path      string

	// ancestors is the chain of enclosing nodes, outermost first. It is
	// pushed before descending into a node's children and popped on
	// return; handlers receive it read-only.
	ancestors []liquid.Node
}

// NewVisitor creates a visitor reporting isolation failures for file
// path into the collector.
func NewVisitor(path string, collector *Collector) *Visitor {
	return &Visitor{
		table:     make(map[liquid.NodeKind][]dispatchEntry),
		collector: collector,
		path:      path,
	}
}

// AddHandlers merges one check's handler map into the dispatch table.
// rank is the check's registration index.
func (v *Visitor) AddHandlers(code string, rank int, handlers Handlers) {
	for kind, fn := range handlers {
		if fn == nil {
			continue
		}
		v.table[kind] = append(v.table[kind], dispatchEntry{code: code, rank: rank, fn: fn})
	}
}

// Walk traverses the document. The dispatch table must be fully built
// before the first call; AddHandlers during a walk is not supported.
func (v *Visitor) Walk(doc *liquid.Document) {
	v.sortTable()
	v.ancestors = v.ancestors[:0]
	v.visit(doc)
}

func (v *Visitor) sortTable() {
	for _, entries := range v.table {
		// Insertion sort: entry lists are tiny and mostly ordered.
		for i := 1; i < len(entries); i++ {
			for j := i; j > 0 && entries[j].rank < entries[j-1].rank; j-- {
				entries[j], entries[j-1] = entries[j-1], entries[j]
			}
		}
	}
}

func (v *Visitor) visit(node liquid.Node) {
	for _, entry := range v.table[node.Kind()] {
		v.invoke(entry, node)
	}
	children := node.Children()
	if len(children) == 0 {
		return
	}
	v.ancestors = append(v.ancestors, node)
	for _, child := range children {
		if child == nil {
			continue
		}
		v.visit(child)
	}
	v.ancestors = v.ancestors[:len(v.ancestors)-1]
}

// invoke runs one handler with panic isolation.
func (v *Visitor) invoke(entry dispatchEntry, node liquid.Node) {
	defer func() {
		if r := recover(); r != nil {
			v.internalError(entry.code, node, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := entry.fn(node, v.ancestors); err != nil {
		v.internalError(entry.code, node, err)
	}
}

func (v *Visitor) internalError(code string, node liquid.Node, err error) {
	v.collector.Add(Offense{
		Check:    code,
		Severity: SeverityError,
		Message:  fmt.Sprintf("internal error: %v", err),
		Path:     v.path,
		Position: node.Pos(),
	})
}
