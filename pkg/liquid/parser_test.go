package liquid

import (
	"testing"
)

func TestParseTextOnly(t *testing.T) {
	doc, err := Parse("<p>hello</p>")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Body) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc.Body))
	}
	text, ok := doc.Body[0].(*Text)
	if !ok {
		t.Fatalf("expected *Text, got %T", doc.Body[0])
	}
	if text.Pos() != (Position{0, 12}) {
		t.Errorf("text position = %+v", text.Pos())
	}
}

func TestParseIfComparison(t *testing.T) {
	src := `{% if block.id == '123' %}No{% endif %}`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ifTag, ok := doc.Body[0].(*IfTag)
	if !ok {
		t.Fatalf("expected *IfTag, got %T", doc.Body[0])
	}
	if ifTag.TagName != "if" {
		t.Errorf("TagName = %q", ifTag.TagName)
	}
	if len(ifTag.Conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(ifTag.Conditions))
	}
	cmp, ok := ifTag.Conditions[0].(*Comparison)
	if !ok {
		t.Fatalf("expected *Comparison, got %T", ifTag.Conditions[0])
	}
	if got := src[cmp.Pos().Start:cmp.Pos().End]; got != "block.id == '123'" {
		t.Errorf("comparison span = %q", got)
	}
	left, ok := cmp.Left.(*Variable)
	if !ok || left.Name() != "block.id" {
		t.Errorf("left = %#v", cmp.Left)
	}
	right, ok := cmp.Right.(*StringLit)
	if !ok || right.Value != "123" {
		t.Errorf("right = %#v", cmp.Right)
	}
	// The if block must span to the end tag.
	if ifTag.Pos().End != len(src) {
		t.Errorf("if end = %d, want %d", ifTag.Pos().End, len(src))
	}
	if len(ifTag.Body) != 1 {
		t.Errorf("expected 1 body node, got %d", len(ifTag.Body))
	}
}

func TestParseCaseWhen(t *testing.T) {
	src := `{% case block.id %}{% when '123' %}x{% when '456', '789' %}{% endcase %}`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	caseTag, ok := doc.Body[0].(*CaseTag)
	if !ok {
		t.Fatalf("expected *CaseTag, got %T", doc.Body[0])
	}
	subject, ok := caseTag.Subject.(*Variable)
	if !ok || subject.Name() != "block.id" {
		t.Fatalf("subject = %#v", caseTag.Subject)
	}
	if got := src[subject.Pos().Start:subject.Pos().End]; got != "block.id" {
		t.Errorf("subject span = %q", got)
	}
	if len(caseTag.Whens) != 2 {
		t.Fatalf("expected 2 when clauses, got %d", len(caseTag.Whens))
	}
	if len(caseTag.Whens[0].Body) != 1 {
		t.Errorf("first when body = %d nodes", len(caseTag.Whens[0].Body))
	}
	if len(caseTag.Whens[1].Values) != 2 {
		t.Errorf("second when values = %d", len(caseTag.Whens[1].Values))
	}
}

func TestParseRenderTargets(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   NodeKind
		target string
		static bool
	}{
		{"render static", `{% render 'price' %}`, KindRender, "price", true},
		{"include static", `{% include 'icon' %}`, KindRender, "icon", true},
		{"section static", `{% section 'header' %}`, KindSection, "header", true},
		{"layout static", `{% layout 'theme' %}`, KindLayout, "theme", true},
		{"render dynamic", `{% render block %}`, KindRender, "", false},
		{"render with args", `{% render 'card', product: product %}`, KindRender, "card", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			ref, ok := doc.Body[0].(*RenderTag)
			if !ok {
				t.Fatalf("expected *RenderTag, got %T", doc.Body[0])
			}
			if ref.Kind() != tt.kind {
				t.Errorf("kind = %q, want %q", ref.Kind(), tt.kind)
			}
			target, static := ref.StaticTarget()
			if static != tt.static {
				t.Fatalf("static = %v, want %v", static, tt.static)
			}
			if target != tt.target {
				t.Errorf("target = %q, want %q", target, tt.target)
			}
		})
	}
}

func TestParseNesting(t *testing.T) {
	src := `{% for p in collection %}{% if p.available %}{{ p.title }}{% endif %}{% endfor %}`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	forTag, ok := doc.Body[0].(*Tag)
	if !ok || forTag.Name != "for" {
		t.Fatalf("expected for tag, got %#v", doc.Body[0])
	}
	ifTag, ok := forTag.Body[0].(*IfTag)
	if !ok {
		t.Fatalf("expected nested if, got %T", forTag.Body[0])
	}
	out, ok := ifTag.Body[0].(*Output)
	if !ok {
		t.Fatalf("expected output inside if, got %T", ifTag.Body[0])
	}
	v, ok := out.Expr.(*Variable)
	if !ok || v.Name() != "p.title" {
		t.Errorf("output expr = %#v", out.Expr)
	}
}

func TestParseElsifElse(t *testing.T) {
	src := `{% if a == '1' %}x{% elsif a == '2' %}y{% else %}z{% endif %}`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ifTag := doc.Body[0].(*IfTag)
	if len(ifTag.Conditions) != 2 {
		t.Errorf("expected 2 conditions (if + elsif), got %d", len(ifTag.Conditions))
	}
	// x, y and z all land in the block body.
	if len(ifTag.Body) != 3 {
		t.Errorf("expected 3 body nodes, got %d", len(ifTag.Body))
	}
}

func TestParseComment(t *testing.T) {
	src := `a{% comment %}{% if broken %}{% endcomment %}b`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Body) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(doc.Body))
	}
	tag, ok := doc.Body[1].(*Tag)
	if !ok || tag.Name != "comment" {
		t.Errorf("middle node = %#v", doc.Body[1])
	}
	if len(tag.Body) != 0 {
		t.Errorf("comment body should be opaque, got %d nodes", len(tag.Body))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated tag", `{% if a`},
		{"unterminated output", `{{ product.title`},
		{"unclosed block", `{% if a %}`},
		{"mismatched end", `{% if a %}{% endfor %}`},
		{"stray end", `{% endif %}`},
		{"when outside case", `{% when '1' %}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseUnlessContains(t *testing.T) {
	src := `{% unless product.tags contains 'sale' %}{% endunless %}`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ifTag := doc.Body[0].(*IfTag)
	if ifTag.TagName != "unless" {
		t.Errorf("TagName = %q", ifTag.TagName)
	}
	cmp, ok := ifTag.Conditions[0].(*Comparison)
	if !ok || cmp.Op != "contains" {
		t.Fatalf("condition = %#v", ifTag.Conditions[0])
	}
}
