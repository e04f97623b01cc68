package selmode

import (
	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/syntax"
)

// SyntaxVariant distinguishes SyntaxNode{coarse} from SyntaxNode{fine}
// (spec §4.5): Coarse only sees named nodes, Fine also sees anonymous
// ones (punctuation, keywords).
type SyntaxVariant uint8

const (
	SyntaxCoarse SyntaxVariant = iota
	SyntaxFine
)

// SyntaxNodeMode selects tree-sitter-style syntax nodes (spec §4.5
// SyntaxNode Coarse/Fine). With no tree configured (ctx.Tree == nil,
// i.e. the syntax.NullService fallback) every method reports false,
// which is the spec's own "grammar absent" degenerate behavior — callers
// are expected to fall back to Word/Line modes at that point, not this
// mode silently inventing structure.
type SyntaxNodeMode struct {
	Variant SyntaxVariant
}

var _ Mode = SyntaxNodeMode{}

func (m SyntaxNodeMode) Tag() selection.ModeTag {
	if m.Variant == SyntaxFine {
		return "SyntaxNode{fine}"
	}
	return "SyntaxNode{coarse}"
}

func (SyntaxNodeMode) IsContiguous() bool { return true }

func nodeToSel(n syntax.Node) Sel {
	r := n.Range()
	return selection.NewRangeSelection(Range{Start: ByteOffset(r.Start), End: ByteOffset(r.End)}, false)
}

// currentNode resolves the node for pos, applying spec §4.5's documented
// fallback: "when the syntax service reports no node for a position,
// SyntaxNode modes fall back to returning the adjacent node (nearest
// tiebreak)."
func (m SyntaxNodeMode) currentNode(ctx *Context, pos ByteOffset) (syntax.Node, bool) {
	if ctx.Tree == nil {
		return nil, false
	}
	if m.Variant == SyntaxCoarse {
		if n, ok := ctx.Tree.LargestNodeStartingAt(buffer.ByteOffset(pos)); ok {
			return n, true
		}
	} else {
		at := buffer.Range{Start: buffer.ByteOffset(pos), End: buffer.ByteOffset(pos)}
		if n, ok := ctx.Tree.SmallestNodeContaining(at); ok {
			return n, true
		}
	}
	return m.fallbackAdjacent(ctx, pos)
}

// fallbackAdjacent walks the root's named-node list (via AllSiblings on
// the root itself, which for a single-root tree is just its children)
// and tie-breaks by TieBreak's nearest-to-cursor rule.
func (m SyntaxNodeMode) fallbackAdjacent(ctx *Context, pos ByteOffset) (syntax.Node, bool) {
	root := ctx.Tree.Root()
	candidates := collectNodes(root, m.Variant == SyntaxFine)
	if len(candidates) == 0 {
		return nil, false
	}
	var sels []Sel
	byRange := map[Range]syntax.Node{}
	for _, n := range candidates {
		s := nodeToSel(n)
		sels = append(sels, s)
		byRange[s.Range] = n
	}
	best, ok := TieBreak(ctx.Buf, pos, sels)
	if !ok {
		return nil, false
	}
	return byRange[best.Range], true
}

func collectNodes(n syntax.Node, includeAnonymous bool) []syntax.Node {
	var out []syntax.Node
	if includeAnonymous || n.IsNamed() {
		out = append(out, n)
	}
	for _, c := range n.Children() {
		out = append(out, collectNodes(c, includeAnonymous)...)
	}
	return out
}

func (m SyntaxNodeMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	n, ok := m.currentNode(ctx, pos)
	if !ok {
		return Sel{}, false
	}
	return nodeToSel(n), true
}

func (m SyntaxNodeMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Tree == nil {
		return Sel{}, false
	}
	n, ok := m.currentNode(ctx, sel.Active())
	if !ok {
		return Sel{}, false
	}
	var sib syntax.Node
	if m.Variant == SyntaxCoarse {
		sib, ok = n.NextNamedSibling()
	} else {
		sib, ok = n.NextSibling()
	}
	if !ok {
		return Sel{}, false
	}
	return nodeToSel(sib), true
}

func (m SyntaxNodeMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Tree == nil {
		return Sel{}, false
	}
	n, ok := m.currentNode(ctx, sel.Active())
	if !ok {
		return Sel{}, false
	}
	var sib syntax.Node
	if m.Variant == SyntaxCoarse {
		sib, ok = n.PrevNamedSibling()
	} else {
		sib, ok = n.PrevSibling()
	}
	if !ok {
		return Sel{}, false
	}
	return nodeToSel(sib), true
}

func (m SyntaxNodeMode) First(ctx *Context, ref Sel) (Sel, bool) {
	n, ok := m.currentNode(ctx, ref.Active())
	if !ok {
		return Sel{}, false
	}
	for {
		var sib syntax.Node
		var sibOk bool
		if m.Variant == SyntaxCoarse {
			sib, sibOk = n.PrevNamedSibling()
		} else {
			sib, sibOk = n.PrevSibling()
		}
		if !sibOk {
			break
		}
		n = sib
	}
	return nodeToSel(n), true
}

func (m SyntaxNodeMode) Last(ctx *Context, ref Sel) (Sel, bool) {
	n, ok := m.currentNode(ctx, ref.Active())
	if !ok {
		return Sel{}, false
	}
	for {
		var sib syntax.Node
		var sibOk bool
		if m.Variant == SyntaxCoarse {
			sib, sibOk = n.NextNamedSibling()
		} else {
			sib, sibOk = n.NextSibling()
		}
		if !sibOk {
			break
		}
		n = sib
	}
	return nodeToSel(n), true
}

func (m SyntaxNodeMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Tree == nil {
		return Sel{}, false
	}
	n, ok := m.currentNode(ctx, sel.Active())
	if !ok {
		return Sel{}, false
	}
	parent, ok := n.Parent()
	if !ok {
		return Sel{}, false
	}
	return nodeToSel(parent), true
}

func (m SyntaxNodeMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Tree == nil {
		return Sel{}, false
	}
	n, ok := m.currentNode(ctx, sel.Active())
	if !ok {
		return Sel{}, false
	}
	var child syntax.Node
	if m.Variant == SyntaxCoarse {
		child, ok = n.FirstNamedChild()
	} else {
		child, ok = n.FirstChild()
	}
	if !ok {
		return Sel{}, false
	}
	return nodeToSel(child), true
}

func (m SyntaxNodeMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m SyntaxNodeMode) All(ctx *Context, rng Range) []Sel {
	if ctx.Tree == nil {
		return nil
	}
	nodes := collectNodes(ctx.Tree.Root(), m.Variant == SyntaxFine)
	var out []Sel
	for _, n := range nodes {
		r := n.Range()
		if int(r.Start) >= int(rng.Start) && int(r.End) <= int(rng.End) {
			out = append(out, nodeToSel(n))
		}
	}
	return out
}
