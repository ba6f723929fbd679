package analysis

import (
	"context"
	"testing"

	"github.com/liquidlens/liquidlens/pkg/check"
	"github.com/liquidlens/liquidlens/pkg/theme"
)

func testTheme() theme.MapFS {
	return theme.MapFS{
		"templates/index.liquid": `{% section 'hero' %}`,
		"sections/hero.liquid":   `{% if block.id == '123' %}x{% endif %}{% render 'price' %}`,
		"snippets/price.liquid":  "{{ product.price }}",
	}
}

func TestExecuteFullRun(t *testing.T) {
	r := NewRunner(testTheme(), nil)
	result, err := r.Execute(context.Background(), Options{Root: "demo"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Stats.Files != 3 {
		t.Errorf("files = %d", result.Stats.Files)
	}

	var blockID bool
	for _, o := range result.Offenses {
		if o.Check == "BlockIdComparison" {
			blockID = true
		}
	}
	if !blockID {
		t.Errorf("expected BlockIdComparison offense, got %v", result.Offenses)
	}

	if result.Graph == nil {
		t.Fatal("graph should be built")
	}
	if result.Stats.Nodes != 3 || result.Stats.Edges != 2 {
		t.Errorf("nodes = %d, edges = %d", result.Stats.Nodes, result.Stats.Edges)
	}
	if result.Graph.Root() != "demo" {
		t.Errorf("root = %q", result.Graph.Root())
	}
}

func TestExecuteSkipStages(t *testing.T) {
	r := NewRunner(testTheme(), nil)

	res, err := r.Execute(context.Background(), Options{SkipGraph: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Graph != nil {
		t.Error("graph should be nil when skipped")
	}
	if len(res.Offenses) == 0 {
		t.Error("checks should still run")
	}

	res, err = r.Execute(context.Background(), Options{SkipChecks: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Graph == nil || len(res.Offenses) != 0 {
		t.Errorf("graph-only run: graph = %v, offenses = %v", res.Graph, res.Offenses)
	}

	if _, err := r.Execute(context.Background(), Options{SkipChecks: true, SkipGraph: true}); err == nil {
		t.Error("skipping both stages should be rejected")
	}
}

func TestExecuteHonorsConfig(t *testing.T) {
	fsys := testTheme()
	fsys[check.DefaultConfigPath] = "[checks.BlockIdComparison]\nenabled = false\n"

	r := NewRunner(fsys, nil)
	res, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range res.Offenses {
		if o.Check == "BlockIdComparison" {
			t.Errorf("disabled check still reported: %+v", o)
		}
	}
}

func TestExecutePathFilter(t *testing.T) {
	r := NewRunner(testTheme(), nil)
	res, err := r.Execute(context.Background(), Options{
		Paths:     []string{"snippets/price.liquid"},
		SkipGraph: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Files != 1 {
		t.Errorf("files = %d", res.Stats.Files)
	}
	for _, o := range res.Offenses {
		if o.Path != "snippets/price.liquid" {
			t.Errorf("offense outside filter: %+v", o)
		}
	}
}

func TestExecuteCancellationDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(testTheme(), nil)
	res, err := r.Execute(ctx, Options{})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if res != nil {
		t.Error("canceled run should return no partial result")
	}
}

func TestExecuteRejectsInvalidOptions(t *testing.T) {
	r := NewRunner(testTheme(), nil)
	if _, err := r.Execute(context.Background(), Options{Workers: -1}); err == nil {
		t.Error("negative workers should be rejected")
	}
	if _, err := r.Execute(context.Background(), Options{Paths: []string{"../outside.liquid"}}); err == nil {
		t.Error("traversal paths should be rejected")
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("run IDs should differ")
	}
}
