package selmode

import "github.com/ki-editor/ki/internal/selection"

// FindMode selects the match ranges of ctx.Search (spec §4.5 Find). It
// is contiguous in the loose sense that Next/Prev walk consecutive
// matches; deletion/paste absorption rarely applies to search matches,
// but the contract doesn't distinguish "contiguous for editing" from
// "contiguous for navigation" so Find reports true like the other
// textual modes.
type FindMode struct{}

var _ Mode = FindMode{}

func (FindMode) Tag() selection.ModeTag { return "Find" }
func (FindMode) IsContiguous() bool     { return true }

func (m FindMode) matches(ctx *Context) [][2]int {
	if ctx.Search == nil {
		return nil
	}
	compiled, err := ctx.Search.Compile()
	if err != nil {
		return nil
	}
	return compiled.Matches(ctx.Buf.Text())
}

func (m FindMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	matches := m.matches(ctx)
	for _, mt := range matches {
		if int(pos) >= mt[0] && int(pos) < mt[1] {
			return selection.NewRangeSelection(Range{Start: ByteOffset(mt[0]), End: ByteOffset(mt[1])}, false), true
		}
	}
	for _, mt := range matches {
		if mt[0] >= int(pos) {
			return selection.NewRangeSelection(Range{Start: ByteOffset(mt[0]), End: ByteOffset(mt[1])}, false), true
		}
	}
	return Sel{}, false
}

func (m FindMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	matches := m.matches(ctx)
	for _, mt := range matches {
		if mt[0] >= int(sel.End()) {
			return selection.NewRangeSelection(Range{Start: ByteOffset(mt[0]), End: ByteOffset(mt[1])}, false), true
		}
	}
	return Sel{}, false
}

func (m FindMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	matches := m.matches(ctx)
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i][1] <= int(sel.Start()) {
			return selection.NewRangeSelection(Range{Start: ByteOffset(matches[i][0]), End: ByteOffset(matches[i][1])}, false), true
		}
	}
	return Sel{}, false
}

func (m FindMode) First(ctx *Context, _ Sel) (Sel, bool) {
	matches := m.matches(ctx)
	if len(matches) == 0 {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(matches[0][0]), End: ByteOffset(matches[0][1])}, false), true
}

func (m FindMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	matches := m.matches(ctx)
	if len(matches) == 0 {
		return Sel{}, false
	}
	last := matches[len(matches)-1]
	return selection.NewRangeSelection(Range{Start: ByteOffset(last[0]), End: ByteOffset(last[1])}, false), true
}

// Up/Down are not defined for Find: matches have no visual-line
// relationship to each other.
func (m FindMode) Up(ctx *Context, sel Sel) (Sel, bool)   { return Sel{}, false }
func (m FindMode) Down(ctx *Context, sel Sel) (Sel, bool) { return Sel{}, false }

func (m FindMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m FindMode) All(ctx *Context, rng Range) []Sel {
	var out []Sel
	for _, mt := range m.matches(ctx) {
		if mt[0] >= int(rng.Start) && mt[1] <= int(rng.End) {
			out = append(out, selection.NewRangeSelection(Range{Start: ByteOffset(mt[0]), End: ByteOffset(mt[1])}, false))
		}
	}
	return out
}
