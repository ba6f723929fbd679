// Package checks holds the built-in check catalog. Importing the
// package (usually blank) registers every built-in into check.Default.
package checks

import (
	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/liquid"
)

// blockIDMessage is the fixed message both forms of the check report.
const blockIDMessage = "block.id is dynamically generated on each render; comparing it against a hardcoded string will never match"

func init() {
	check.Register(&check.Definition{
		Code:            "BlockIdComparison",
		Name:            "Block ID comparison",
		DefaultSeverity: check.SeverityWarning,
		Docs: "Reports conditions that compare block.id with a string literal. " +
			"Block IDs are generated by the platform, so such comparisons can never be true.",
		New: newBlockIDComparison,
	})
}

func newBlockIDComparison(ctx *check.Context) check.Handlers {
	return check.Handlers{
		// {% if block.id == '...' %} and the unless form: highlight the
		// whole comparison.
		liquid.KindComparison: func(node liquid.Node, ancestors []liquid.Node) error {
			cmp := node.(*liquid.Comparison)
			if !insideCondition(ancestors) {
				return nil
			}
			if !isEquality(cmp.Op) {
				return nil
			}
			if comparesBlockIDToLiteral(cmp) {
				ctx.Report(check.Report{
					Message:  blockIDMessage,
					Position: cmp.Pos(),
				})
			}
			return nil
		},
		// {% case block.id %}: highlight just the subject.
		liquid.KindCase: func(node liquid.Node, ancestors []liquid.Node) error {
			caseTag := node.(*liquid.CaseTag)
			v, ok := caseTag.Subject.(*liquid.Variable)
			if !ok || v.Name() != "block.id" {
				return nil
			}
			if len(caseTag.Whens) == 0 || !hasLiteralWhen(caseTag) {
				return nil
			}
			ctx.Report(check.Report{
				Message:  blockIDMessage,
				Position: v.Pos(),
			})
			return nil
		},
	}
}

// insideCondition reports whether the innermost enclosing tag is an
// if/unless block, i.e. the comparison is a branch condition rather than
// part of some other construct.
func insideCondition(ancestors []liquid.Node) bool {
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch ancestors[i].Kind() {
		case liquid.KindIf:
			return true
		case liquid.KindCase, liquid.KindWhen:
			return false
		}
	}
	return false
}

func isEquality(op string) bool {
	return op == "==" || op == "!=" || op == "<>"
}

func comparesBlockIDToLiteral(cmp *liquid.Comparison) bool {
	return isBlockID(cmp.Left) && isStringLit(cmp.Right) ||
		isStringLit(cmp.Left) && isBlockID(cmp.Right)
}

func isBlockID(n liquid.Node) bool {
	v, ok := n.(*liquid.Variable)
	return ok && v.Name() == "block.id"
}

func isStringLit(n liquid.Node) bool {
	_, ok := n.(*liquid.StringLit)
	return ok
}

// hasLiteralWhen reports whether any when arm matches against a string
// literal; a case over block.id that only dispatches on variables is not
// the hardcoded-ID pattern.
func hasLiteralWhen(caseTag *liquid.CaseTag) bool {
	for _, w := range caseTag.Whens {
		for _, v := range w.Values {
			if isStringLit(v) {
				return true
			}
		}
	}
	return false
}
