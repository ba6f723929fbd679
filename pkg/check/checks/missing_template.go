package checks

import (
	"fmt"

	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/liquid"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

func init() {
	check.Register(&check.Definition{
		Code:            "MissingTemplate",
		Name:            "Missing template",
		DefaultSeverity: check.SeverityError,
		Docs: "Reports render, include, section and layout tags whose static target " +
			"does not exist in the theme.",
		New: newMissingTemplate,
	})
}

func newMissingTemplate(ctx *check.Context) check.Handlers {
	handler := func(node liquid.Node, _ []liquid.Node) error {
		fsys := ctx.Theme()
		if fsys == nil {
			// Single-file runs have no cross-file access; nothing to verify.
			return nil
		}
		ref := node.(*liquid.RenderTag)
		target, ok := ref.StaticTarget()
		if !ok {
			// Dynamic targets are unresolved references, not errors.
			return nil
		}
		path := theme.ResolveRef(ref.TagName, target)
		if theme.Exists(fsys, path) {
			return nil
		}
		pos := ref.Pos()
		if ref.Target != nil {
			pos = ref.Target.Pos()
		}
		ctx.Report(check.Report{
			Message:  fmt.Sprintf("'%s' is not found", path),
			Position: pos,
		})
		return nil
	}
	return check.Handlers{
		liquid.KindRender:  handler,
		liquid.KindSection: handler,
		liquid.KindLayout:  handler,
	}
}
