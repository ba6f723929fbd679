package liquid

import (
	"fmt"
	"strings"
)

// Parser turns raw template text into a typed node tree. The analysis
// layers depend on this interface only, so a different implementation
// (e.g. a tree-sitter binding) can be substituted without touching them.
type Parser interface {
	Parse(src string) (*Document, error)
}

// NewParser returns the reference parser implementation.
func NewParser() Parser { return defaultParser{} }

type defaultParser struct{}

func (defaultParser) Parse(src string) (*Document, error) { return Parse(src) }

// ParseError reports a syntax error at a byte offset.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

func parseErrorf(offset int, format string, args ...any) error {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Parse parses one file's text into a Document. The returned tree's
// positions are byte offsets into src.
func Parse(src string) (*Document, error) {
	p := &treeParser{src: src, doc: &Document{Range: Position{0, len(src)}}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// endTags maps closing tag names to the opening tag they terminate.
var endTags = map[string]string{
	"endif":       "if",
	"endunless":   "unless",
	"endcase":     "case",
	"endfor":      "for",
	"endcapture":  "capture",
	"endform":     "form",
	"endpaginate": "paginate",
	"endtablerow": "tablerow",
}

// blockTags are generic tags that open a body terminated by end<name>.
var blockTags = map[string]bool{
	"for":      true,
	"capture":  true,
	"form":     true,
	"paginate": true,
	"tablerow": true,
}

// refTags are the tags that reference another theme module.
var refTags = map[string]bool{
	"render":  true,
	"include": true,
	"section": true,
	"layout":  true,
}

// frame is one open block on the parse stack.
type frame struct {
	name string // opening tag name
	node Node   // *IfTag, *CaseTag or *Tag
}

type treeParser struct {
	src   string
	doc   *Document
	stack []*frame
}

// append attaches a finished node to the innermost open body.
func (p *treeParser) append(n Node) {
	if len(p.stack) == 0 {
		p.doc.Body = append(p.doc.Body, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	switch t := top.node.(type) {
	case *IfTag:
		t.Body = append(t.Body, n)
	case *CaseTag:
		// Only whitespace is legal between case and the first when;
		// anything parsed there is dropped rather than misattached.
		if len(t.Whens) > 0 {
			w := t.Whens[len(t.Whens)-1]
			w.Body = append(w.Body, n)
		}
	case *Tag:
		t.Body = append(t.Body, n)
	}
}

func (p *treeParser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *treeParser) run() error {
	i := 0
	for i < len(p.src) {
		open := nextDelim(p.src, i)
		if open < 0 {
			p.append(&Text{Range: Position{i, len(p.src)}})
			break
		}
		if open > i {
			p.append(&Text{Range: Position{i, open}})
		}
		next, err := p.parseConstruct(open)
		if err != nil {
			return err
		}
		i = next
	}
	if f := p.top(); f != nil {
		return parseErrorf(f.node.Pos().Start, "unclosed {%% %s %%}", f.name)
	}
	return nil
}

// nextDelim returns the offset of the next "{%" or "{{", or -1.
func nextDelim(src string, from int) int {
	tag := strings.Index(src[from:], "{%")
	out := strings.Index(src[from:], "{{")
	switch {
	case tag < 0 && out < 0:
		return -1
	case tag < 0:
		return from + out
	case out < 0:
		return from + tag
	case out < tag:
		return from + out
	default:
		return from + tag
	}
}

// parseConstruct handles one tag or output starting at open and returns
// the offset just past it.
func (p *treeParser) parseConstruct(open int) (int, error) {
	if strings.HasPrefix(p.src[open:], "{{") {
		close := strings.Index(p.src[open+2:], "}}")
		if close < 0 {
			return 0, parseErrorf(open, "unterminated output")
		}
		end := open + 2 + close + 2
		toks := tokenize(p.src, open+2, end-2)
		var expr Node
		if len(toks) > 0 {
			// Filters after the first | do not matter for analysis.
			expr, _ = parsePrimary(toks, 0)
		}
		p.append(&Output{Range: Position{open, end}, Expr: expr})
		return end, nil
	}

	close := strings.Index(p.src[open+2:], "%}")
	if close < 0 {
		return 0, parseErrorf(open, "unterminated tag")
	}
	end := open + 2 + close + 2
	innerLo, innerHi := open+2, end-2
	// Whitespace-control dashes are irrelevant to the tree shape.
	if innerLo < innerHi && p.src[innerLo] == '-' {
		innerLo++
	}
	if innerHi > innerLo && p.src[innerHi-1] == '-' {
		innerHi--
	}

	toks := tokenize(p.src, innerLo, innerHi)
	if len(toks) == 0 {
		return 0, parseErrorf(open, "empty tag")
	}
	name := toks[0]
	if name.kind != tokIdent {
		return 0, parseErrorf(name.lo, "expected tag name")
	}
	rest := toks[1:]
	tagRange := Position{open, end}

	switch {
	case name.text == "if" || name.text == "unless":
		conds := parseConditionList(rest)
		p.stack = append(p.stack, &frame{name: name.text, node: &IfTag{
			Range:      tagRange,
			TagName:    name.text,
			Conditions: conds,
		}})

	case name.text == "elsif":
		f := p.top()
		t, ok := frameIf(f)
		if !ok {
			return 0, parseErrorf(open, "elsif outside if")
		}
		t.Conditions = append(t.Conditions, parseConditionList(rest)...)

	case name.text == "else":
		if f := p.top(); f == nil {
			return 0, parseErrorf(open, "else outside block")
		}

	case name.text == "case":
		var subject Node
		if len(rest) > 0 {
			subject, _ = parsePrimary(rest, 0)
		}
		p.stack = append(p.stack, &frame{name: "case", node: &CaseTag{
			Range:   tagRange,
			Subject: subject,
		}})

	case name.text == "when":
		f := p.top()
		c, ok := frameCase(f)
		if !ok {
			return 0, parseErrorf(open, "when outside case")
		}
		c.Whens = append(c.Whens, &WhenClause{
			Range:  tagRange,
			Values: parseValueList(rest),
		})

	case refTags[name.text]:
		var target Node
		if len(rest) > 0 {
			target, _ = parsePrimary(rest, 0)
		}
		p.append(&RenderTag{Range: tagRange, TagName: name.text, Target: target})

	case name.text == "comment" || name.text == "raw":
		bodyEnd, err := p.skipOpaque(end, "end"+name.text)
		if err != nil {
			return 0, err
		}
		p.append(&Tag{Range: Position{open, bodyEnd}, Name: name.text})
		return bodyEnd, nil

	case blockTags[name.text]:
		p.stack = append(p.stack, &frame{name: name.text, node: &Tag{
			Range:  tagRange,
			Name:   name.text,
			Markup: p.src[innerLo:innerHi],
		}})

	case strings.HasPrefix(name.text, "end"):
		want, known := endTags[name.text]
		if !known {
			want = strings.TrimPrefix(name.text, "end")
		}
		f := p.top()
		if f == nil || f.name != want {
			return 0, parseErrorf(open, "unexpected {%% %s %%}", name.text)
		}
		p.stack = p.stack[:len(p.stack)-1]
		setRangeEnd(f.node, end)
		p.append(f.node)

	default:
		// Inline tag (assign, echo, cycle, break, ...).
		p.append(&Tag{Range: tagRange, Name: name.text, Markup: p.src[innerLo:innerHi]})
	}

	return end, nil
}

// skipOpaque scans past the body of a comment/raw block, whose content is
// not parsed, and returns the offset just past the closing tag.
func (p *treeParser) skipOpaque(from int, endName string) (int, error) {
	i := from
	for {
		open := strings.Index(p.src[i:], "{%")
		if open < 0 {
			return 0, parseErrorf(from-1, "missing {%% %s %%}", endName)
		}
		open += i
		close := strings.Index(p.src[open+2:], "%}")
		if close < 0 {
			return 0, parseErrorf(open, "unterminated tag")
		}
		end := open + 2 + close + 2
		if strings.TrimFunc(p.src[open+2:end-2], isTagTrim) == endName {
			return end, nil
		}
		i = end
	}
}

func isTagTrim(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' }

func frameIf(f *frame) (*IfTag, bool) {
	if f == nil {
		return nil, false
	}
	t, ok := f.node.(*IfTag)
	return t, ok
}

func frameCase(f *frame) (*CaseTag, bool) {
	if f == nil {
		return nil, false
	}
	c, ok := f.node.(*CaseTag)
	return c, ok
}

func setRangeEnd(n Node, end int) {
	switch t := n.(type) {
	case *IfTag:
		t.Range.End = end
	case *CaseTag:
		t.Range.End = end
	case *Tag:
		t.Range.End = end
	}
}

// =============================================================================
// Expression tokens
// =============================================================================

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokNumber
	tokOp
	tokComma
)

type token struct {
	kind tokKind
	text string // for strings: the unquoted value
	lo   int    // byte offsets into the source, quotes included
	hi   int
}

// tokenize scans the window [lo, hi) of src into expression tokens.
// Unrecognized bytes are skipped so that filter markup, colons and
// brackets never derail analysis of the parts we do model.
func tokenize(src string, lo, hi int) []token {
	var toks []token
	i := lo
	for i < hi {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < hi && src[j] != quote {
				j++
			}
			if j >= hi {
				// Unterminated string: consume to end of window.
				toks = append(toks, token{tokString, src[i+1 : hi], i, hi})
				i = hi
				break
			}
			toks = append(toks, token{tokString, src[i+1 : j], i, j + 1})
			i = j + 1
		case c == ',':
			toks = append(toks, token{tokComma, ",", i, i + 1})
			i++
		case c == '=' || c == '!' || c == '<' || c == '>':
			j := i + 1
			if j < hi && src[j] == '=' {
				j++
			} else if c == '<' && j < hi && src[j] == '>' {
				j++
			}
			toks = append(toks, token{tokOp, src[i:j], i, j})
			i = j
		case c >= '0' && c <= '9' || c == '-' && i+1 < hi && src[i+1] >= '0' && src[i+1] <= '9':
			j := i + 1
			for j < hi && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j], i, j})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < hi && isIdentByte(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j], i, j})
			i = j
		default:
			i++
		}
	}
	return toks
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '.' || c == '_'
}

// comparisonOps are the binary operators that form a Comparison node.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<>": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"contains": true,
}

// parsePrimary parses one literal or variable lookup.
func parsePrimary(toks []token, i int) (Node, int) {
	if i >= len(toks) {
		return nil, i
	}
	t := toks[i]
	switch t.kind {
	case tokString:
		return &StringLit{Range: Position{t.lo, t.hi}, Value: t.text}, i + 1
	case tokNumber:
		return &NumberLit{Range: Position{t.lo, t.hi}, Value: t.text}, i + 1
	case tokIdent:
		return &Variable{
			Range: Position{t.lo, t.hi},
			Path:  strings.Split(strings.Trim(t.text, "."), "."),
		}, i + 1
	default:
		return nil, i + 1
	}
}

// parseComparison parses "primary [op primary]".
func parseComparison(toks []token, i int) (Node, int) {
	left, i := parsePrimary(toks, i)
	if left == nil || i >= len(toks) {
		return left, i
	}
	t := toks[i]
	op := t.text
	if t.kind == tokOp && comparisonOps[op] || t.kind == tokIdent && op == "contains" {
		right, j := parsePrimary(toks, i+1)
		if right == nil {
			return left, i + 1
		}
		return &Comparison{
			Range: Position{left.Pos().Start, right.Pos().End},
			Op:    op,
			Left:  left,
			Right: right,
		}, j
	}
	return left, i
}

// parseConditionList parses comparisons joined by and/or into a flat list.
func parseConditionList(toks []token) []Node {
	var out []Node
	i := 0
	for i < len(toks) {
		expr, j := parseComparison(toks, i)
		if expr != nil {
			out = append(out, expr)
		}
		if j <= i {
			j = i + 1
		}
		i = j
		if i < len(toks) && toks[i].kind == tokIdent && (toks[i].text == "and" || toks[i].text == "or") {
			i++
			continue
		}
		break
	}
	return out
}

// parseValueList parses when-clause values separated by commas or "or".
func parseValueList(toks []token) []Node {
	var out []Node
	i := 0
	for i < len(toks) {
		v, j := parsePrimary(toks, i)
		if v != nil {
			out = append(out, v)
		}
		if j <= i {
			j = i + 1
		}
		i = j
		if i < len(toks) && (toks[i].kind == tokComma || toks[i].kind == tokIdent && toks[i].text == "or") {
			i++
			continue
		}
		break
	}
	return out
}
