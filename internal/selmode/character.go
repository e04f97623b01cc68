package selmode

import (
	"github.com/rivo/uniseg"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
)

// CharacterMode selects one grapheme cluster at a time (spec §4.5
// Character). Grapheme segmentation uses rivo/uniseg directly rather
// than buffer's line-scoped helpers, since Character mode needs
// boundaries anywhere in the buffer, not just within one line.
type CharacterMode struct{}

var _ Mode = CharacterMode{}

func (CharacterMode) Tag() selection.ModeTag { return "Character" }
func (CharacterMode) IsContiguous() bool     { return true }

// graphemeAt returns the [start, end) byte range of the grapheme cluster
// at or immediately following pos. It rescans from the start of text on
// every call; Character mode is a reference implementation, not a
// performance-critical path (the rope carries the O(log n) guarantees
// spec §4.1 actually requires).
func graphemeAt(text string, pos int) (start, end int, ok bool) {
	if pos < 0 || pos > len(text) {
		return 0, 0, false
	}
	if pos == len(text) {
		return pos, pos, true
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		from, to := gr.Positions()
		if pos >= from && pos < to {
			return from, to, true
		}
	}
	return 0, 0, false
}

func (CharacterMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	start, end, ok := graphemeAt(ctx.Buf.Text(), int(pos))
	if !ok {
		return Sel{}, false
	}
	if start == end {
		return selection.NewCursorSelection(ByteOffset(start)), true
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (m CharacterMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	return m.Current(ctx, ByteOffset(sel.End()))
}

func (m CharacterMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	text := ctx.Buf.Text()
	if sel.Start() == 0 {
		return Sel{}, false
	}
	gr := uniseg.NewGraphemes(text)
	lastStart := 0
	for gr.Next() {
		from, to := gr.Positions()
		if to > int(sel.Start()) {
			break
		}
		lastStart = from
	}
	return m.Current(ctx, ByteOffset(lastStart))
}

func (m CharacterMode) First(ctx *Context, ref Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(ref.Active()))
	lineStart := ctx.Buf.LineStartOffset(gp.Line)
	return m.Current(ctx, ByteOffset(lineStart))
}

func (m CharacterMode) Last(ctx *Context, ref Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(ref.Active()))
	lineEnd := ctx.Buf.LineEndOffset(gp.Line)
	return m.Prev(ctx, selection.NewCursorSelection(ByteOffset(lineEnd)+1))
}

func (m CharacterMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, -1)
}

func (m CharacterMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, 1)
}

func (m CharacterMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m CharacterMode) All(ctx *Context, rng Range) []Sel {
	text := ctx.Buf.Text()
	var out []Sel
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		from, to := gr.Positions()
		if from >= int(rng.Start) && to <= int(rng.End) {
			out = append(out, selection.NewRangeSelection(Range{Start: ByteOffset(from), End: ByteOffset(to)}, false))
		}
	}
	return out
}
