package check

import (
	"github.com/liquidlens/liquidlens/pkg/liquid"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// Context is the per-(check, file) reporting surface handed to a check's
// New factory. It exposes read-only access to the file under analysis,
// the validated settings, the theme's file system for cross-file checks,
// and Report, which forwards offenses to the run's collector.
type Context struct {
	def       *Definition
	settings  Settings
	path      string
	src       string
	fsys      theme.FS
	collector *Collector
}

// NewContext builds a context. It is exported for tests and for callers
// embedding the engine; production code goes through Runner.
func NewContext(def *Definition, settings Settings, path, src string, fsys theme.FS, collector *Collector) *Context {
	return &Context{
		def:       def,
		settings:  settings,
		path:      path,
		src:       src,
		fsys:      fsys,
		collector: collector,
	}
}

// Path returns the normalized theme-relative path of the file.
func (c *Context) Path() string { return c.path }

// Source returns the file's raw text.
func (c *Context) Source() string { return c.src }

// Theme returns the theme file system for cross-file lookups, or nil
// when the check pass runs without one.
func (c *Context) Theme() theme.FS { return c.fsys }

// StringOption returns a validated string option.
func (c *Context) StringOption(name string) (string, bool) {
	v, ok := c.settings.Options[name].(string)
	return v, ok
}

// BoolOption returns a validated bool option.
func (c *Context) BoolOption(name string) (bool, bool) {
	v, ok := c.settings.Options[name].(bool)
	return v, ok
}

// IntOption returns a validated integer option.
func (c *Context) IntOption(name string) (int64, bool) {
	v, ok := c.settings.Options[name].(int64)
	return v, ok
}

// Report is the set of fields a handler supplies when reporting.
type Report struct {
	Message    string
	Position   liquid.Position
	Suggestion string
}

// Report converts a handler's local report into an absolute, immutable
// Offense and forwards it to the collector. The position is clamped to
// the file's bounds so downstream consumers can always index the text.
func (c *Context) Report(r Report) {
	pos := clamp(r.Position, len(c.src))
	c.collector.Add(Offense{
		Check:      c.def.Code,
		Severity:   c.settings.Severity,
		Message:    r.Message,
		Path:       c.path,
		Position:   pos,
		Suggestion: r.Suggestion,
	})
}

func clamp(p liquid.Position, size int) liquid.Position {
	if p.Start < 0 {
		p.Start = 0
	}
	if p.Start > size {
		p.Start = size
	}
	if p.End < p.Start {
		p.End = p.Start
	}
	if p.End > size {
		p.End = size
	}
	return p
}
