package check

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/liquidlens/liquidlens/pkg/liquid"
	"github.com/liquidlens/liquidlens/pkg/observability"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

// textReporter is a trivial check that reports every text node.
func textReporter(code string) *Definition {
	return &Definition{
		Code:            code,
		Name:            code,
		DefaultSeverity: SeverityInfo,
		New: func(ctx *Context) Handlers {
			return Handlers{
				liquid.KindText: func(node liquid.Node, _ []liquid.Node) error {
					ctx.Report(Report{Message: "text found", Position: node.Pos()})
					return nil
				},
			}
		},
	}
}

func TestRunnerProducesOffenses(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(textReporter("TextFound")); err != nil {
		t.Fatal(err)
	}
	fsys := theme.MapFS{
		"snippets/a.liquid": "hello",
		"snippets/b.liquid": "world",
	}
	r := NewRunner(reg, Config{}, fsys, nil)
	collector := NewCollector(reg.Rank)

	err := r.Run(context.Background(), []string{"snippets/a.liquid", "snippets/b.liquid"}, collector)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	offenses := collector.Offenses()
	if len(offenses) != 2 {
		t.Fatalf("expected 2 offenses, got %d", len(offenses))
	}
	if offenses[0].Path != "snippets/a.liquid" || offenses[1].Path != "snippets/b.liquid" {
		t.Errorf("paths = %s, %s", offenses[0].Path, offenses[1].Path)
	}
}

func TestRunnerFailureIsolationAcrossFiles(t *testing.T) {
	reg := NewRegistry()
	// A check that panics for one specific file only.
	reg.Add(&Definition{
		Code:            "PanicsOnA",
		Name:            "Panics on A",
		DefaultSeverity: SeverityError,
		New: func(ctx *Context) Handlers {
			return Handlers{
				liquid.KindText: func(liquid.Node, []liquid.Node) error {
					if ctx.Path() == "snippets/a.liquid" {
						panic("boom")
					}
					return nil
				},
			}
		},
	})
	reg.Add(textReporter("TextFound"))

	fsys := theme.MapFS{
		"snippets/a.liquid": "aaa",
		"snippets/b.liquid": "bbb",
	}
	r := NewRunner(reg, Config{}, fsys, nil)
	collector := NewCollector(reg.Rank)
	if err := r.Run(context.Background(), []string{"snippets/a.liquid", "snippets/b.liquid"}, collector); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	var aInternal, aText, bText int
	for _, o := range collector.Offenses() {
		switch {
		case o.Path == "snippets/a.liquid" && o.Check == "PanicsOnA":
			aInternal++
		case o.Path == "snippets/a.liquid" && o.Check == "TextFound":
			aText++
		case o.Path == "snippets/b.liquid" && o.Check == "TextFound":
			bText++
		}
	}
	if aInternal != 1 {
		t.Errorf("expected 1 internal-error offense for file A, got %d", aInternal)
	}
	// The same file's other check and the other file both still report.
	if aText != 1 || bText != 1 {
		t.Errorf("aText = %d, bText = %d, want 1 and 1", aText, bText)
	}
}

func TestRunnerInvalidConfigSkipsCheck(t *testing.T) {
	reg := NewRegistry()
	reg.Add(textReporter("TextFound"))

	cfg := Config{Checks: map[string]map[string]any{
		"TextFound": {"severity": "fatal"},
	}}
	fsys := theme.MapFS{"snippets/a.liquid": "hello"}
	r := NewRunner(reg, cfg, fsys, nil)
	collector := NewCollector(reg.Rank)
	if err := r.Run(context.Background(), []string{"snippets/a.liquid"}, collector); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	offenses := collector.Offenses()
	if len(offenses) != 1 {
		t.Fatalf("expected exactly the config-error offense, got %d: %v", len(offenses), offenses)
	}
	o := offenses[0]
	if o.Check != "TextFound" || !strings.HasPrefix(o.Message, "invalid configuration:") {
		t.Errorf("offense = %+v", o)
	}
	if o.Path != DefaultConfigPath {
		t.Errorf("config offense path = %q", o.Path)
	}
}

func TestRunnerSkipsUnparsableFile(t *testing.T) {
	reg := NewRegistry()
	reg.Add(textReporter("TextFound"))

	fsys := theme.MapFS{
		"snippets/bad.liquid": "{% if a",
		"snippets/ok.liquid":  "fine",
	}
	r := NewRunner(reg, Config{}, fsys, nil)
	collector := NewCollector(reg.Rank)
	if err := r.Run(context.Background(), []string{"snippets/bad.liquid", "snippets/ok.liquid"}, collector); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	offenses := collector.Offenses()
	if len(offenses) != 1 || offenses[0].Path != "snippets/ok.liquid" {
		t.Errorf("offenses = %v", offenses)
	}
}

func TestRunnerCancellation(t *testing.T) {
	reg := NewRegistry()
	reg.Add(textReporter("TextFound"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := theme.MapFS{"snippets/a.liquid": "hello"}
	r := NewRunner(reg, Config{}, fsys, nil)
	collector := NewCollector(reg.Rank)
	if err := r.Run(ctx, []string{"snippets/a.liquid"}, collector); err == nil {
		t.Error("expected cancellation error")
	}
}

// fileEventHooks records per-file analysis events. Files run in
// parallel, so recording is locked.
type fileEventHooks struct {
	observability.NoopAnalysisHooks

	mu        sync.Mutex
	started   []string
	completed map[string]int
}

func (h *fileEventHooks) OnFileStart(_ context.Context, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, path)
}

func (h *fileEventHooks) OnFileComplete(_ context.Context, path string, offenses int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed[path] = offenses
}

func TestRunnerEmitsPerFileHooks(t *testing.T) {
	hooks := &fileEventHooks{completed: make(map[string]int)}
	observability.SetAnalysisHooks(hooks)
	t.Cleanup(observability.Reset)

	reg := NewRegistry()
	reg.Add(textReporter("TextFound"))

	fsys := theme.MapFS{
		"snippets/a.liquid": "hello",
		"snippets/b.liquid": "{% if a %}x{% endif %}",
	}
	r := NewRunner(reg, Config{}, fsys, nil)
	collector := NewCollector(reg.Rank)
	paths := []string{"snippets/a.liquid", "snippets/b.liquid", "snippets/missing.liquid"}
	if err := r.Run(context.Background(), paths, collector); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(hooks.started) != 3 {
		t.Fatalf("OnFileStart fired %d times, want 3", len(hooks.started))
	}
	if len(hooks.completed) != 3 {
		t.Fatalf("OnFileComplete fired for %d files, want 3", len(hooks.completed))
	}
	if got := hooks.completed["snippets/a.liquid"]; got != 1 {
		t.Errorf("a.liquid offense count = %d, want 1", got)
	}
	if got := hooks.completed["snippets/b.liquid"]; got != 1 {
		t.Errorf("b.liquid offense count = %d, want 1", got)
	}
	if got := hooks.completed["snippets/missing.liquid"]; got != 0 {
		t.Errorf("missing.liquid offense count = %d, want 0", got)
	}
}

func TestContextReportClampsPosition(t *testing.T) {
	collector := NewCollector(nil)
	def := textReporter("X")
	cctx := NewContext(def, Settings{Severity: SeverityInfo}, "a.liquid", "short", nil, collector)
	cctx.Report(Report{Message: "m", Position: liquid.Position{Start: -2, End: 99}})

	o := collector.Offenses()[0]
	if o.Position.Start != 0 || o.Position.End != 5 {
		t.Errorf("clamped position = %+v", o.Position)
	}
}
