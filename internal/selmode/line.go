package selmode

import (
	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
)

// LineMode selects a line's trimmed content: the line's byte range minus
// leading/trailing whitespace and the trailing newline, matching the
// teacher's notion of a "text object" line rather than a raw line slice.
type LineMode struct{}

var _ Mode = LineMode{}

func (LineMode) Tag() selection.ModeTag { return "Line" }
func (LineMode) IsContiguous() bool     { return true }

func trimmedLineRange(buf *buffer.Buffer, line uint32) (int, int) {
	start := int(buf.LineStartOffset(line))
	end := int(buf.LineEndOffset(line))
	text := buf.Text()
	for start < end && isBlank(text[start]) {
		start++
	}
	for end > start && isBlank(text[end-1]) {
		end--
	}
	return start, end
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func (LineMode) lineAt(ctx *Context, pos ByteOffset) (Sel, bool) {
	if ctx.Buf.LineCount() == 0 {
		return Sel{}, false
	}
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(pos))
	start, end := trimmedLineRange(ctx.Buf, gp.Line)
	if start == end {
		return selection.NewCursorSelection(ByteOffset(start)), true
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (m LineMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	return m.lineAt(ctx, pos)
}

func (m LineMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	if gp.Line+1 >= ctx.Buf.LineCount() {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(gp.Line+1)))
}

func (m LineMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	if gp.Line == 0 {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(gp.Line-1)))
}

func (m LineMode) First(ctx *Context, _ Sel) (Sel, bool) {
	return m.lineAt(ctx, 0)
}

func (m LineMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	if ctx.Buf.LineCount() == 0 {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(ctx.Buf.LineCount()-1)))
}

func (m LineMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	return m.Prev(ctx, sel)
}

func (m LineMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	return m.Next(ctx, sel)
}

func (m LineMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m LineMode) All(ctx *Context, rng Range) []Sel {
	var out []Sel
	startLine := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(rng.Start)).Line
	endLine := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(rng.End)).Line
	for l := startLine; l <= endLine; l++ {
		if sel, ok := m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(l))); ok {
			out = append(out, sel)
		}
	}
	return out
}
