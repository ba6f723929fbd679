package theme

import (
	"path"
	"strings"
)

// ModuleKind classifies a theme file by its directory location.
type ModuleKind string

const (
	KindTemplate ModuleKind = "template"
	KindSection  ModuleKind = "section"
	KindSnippet  ModuleKind = "snippet"
	KindLayout   ModuleKind = "layout"
	KindBlock    ModuleKind = "block"
	KindAsset    ModuleKind = "asset"
	KindUnknown  ModuleKind = "unknown"
)

// moduleDirs lists the theme directories holding modules, entry-point
// kinds first. ListLiquidFiles and the graph builder's seeding order
// both follow this ordering, which is what makes serialization put
// entry points before everything else.
var moduleDirs = []string{
	"templates",
	"layout",
	"sections",
	"snippets",
	"blocks",
}

// kindByDir maps the top-level directory to the module kind.
var kindByDir = map[string]ModuleKind{
	"templates": KindTemplate,
	"layout":    KindLayout,
	"sections":  KindSection,
	"snippets":  KindSnippet,
	"blocks":    KindBlock,
	"assets":    KindAsset,
}

// Normalize canonicalizes a theme-relative path: forward slashes, no
// leading slash or dot segments. Normalized paths are the unique module
// keys across the whole analysis.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// KindOf classifies a normalized path by its top-level directory.
func KindOf(p string) ModuleKind {
	dir := Normalize(p)
	if i := strings.IndexByte(dir, '/'); i >= 0 {
		dir = dir[:i]
	}
	if k, ok := kindByDir[dir]; ok {
		return k
	}
	return KindUnknown
}

// IsEntryPoint reports whether modules of this kind are reachable
// directly by the hosting platform rather than through another module.
func (k ModuleKind) IsEntryPoint() bool {
	return k == KindTemplate || k == KindLayout
}

// ResolveRef maps a reference tag and its static target name to the
// normalized path of the referenced module. Render and include targets
// live under snippets/, section targets under sections/, layout targets
// under layout/.
func ResolveRef(tagName, target string) string {
	var dir string
	switch tagName {
	case "section":
		dir = "sections"
	case "layout":
		dir = "layout"
	default:
		dir = "snippets"
	}
	if !strings.HasSuffix(target, ".liquid") {
		target += ".liquid"
	}
	return Normalize(dir + "/" + target)
}
