package selmode

import (
	"strings"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
)

// LineFullMode selects a line's untrimmed range including its trailing
// newline, so Delete absorbs the newline itself (spec §4.5: distinguishes
// Line's "content object" from LineFull's "whole record, for deletion").
// Up/Down also jump across blank-line paragraph boundaries instead of
// stepping one line at a time, matching its "paragraph jump" contract.
type LineFullMode struct{}

var _ Mode = LineFullMode{}

func (LineFullMode) Tag() selection.ModeTag { return "LineFull" }
func (LineFullMode) IsContiguous() bool     { return true }

func fullLineRange(buf *buffer.Buffer, line uint32) (int, int) {
	start := int(buf.LineStartOffset(line))
	end := int(buf.LineEndOffset(line))
	text := buf.Text()
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return start, end
}

func (m LineFullMode) lineAt(ctx *Context, pos ByteOffset) (Sel, bool) {
	if ctx.Buf.LineCount() == 0 {
		return Sel{}, false
	}
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(pos))
	start, end := fullLineRange(ctx.Buf, gp.Line)
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (m LineFullMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	return m.lineAt(ctx, pos)
}

func (m LineFullMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	if gp.Line+1 >= ctx.Buf.LineCount() {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(gp.Line+1)))
}

func (m LineFullMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	if gp.Line == 0 {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(gp.Line-1)))
}

func (m LineFullMode) First(ctx *Context, _ Sel) (Sel, bool) {
	return m.lineAt(ctx, 0)
}

func (m LineFullMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	if ctx.Buf.LineCount() == 0 {
		return Sel{}, false
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(ctx.Buf.LineCount()-1)))
}

func isBlankLine(buf *buffer.Buffer, line uint32) bool {
	return strings.TrimSpace(buf.LineText(line)) == ""
}

// Up/Down jump to the nearest paragraph boundary (the line after a run
// of blank lines, or the buffer edge) rather than stepping one line.
func (m LineFullMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	line := gp.Line
	for line > 0 && isBlankLine(ctx.Buf, line-1) {
		line--
	}
	for line > 0 && !isBlankLine(ctx.Buf, line-1) {
		line--
	}
	if line == gp.Line {
		if line == 0 {
			return Sel{}, false
		}
		line--
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(line)))
}

func (m LineFullMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	line := gp.Line
	total := ctx.Buf.LineCount()
	for line+1 < total && !isBlankLine(ctx.Buf, line) {
		line++
	}
	for line+1 < total && isBlankLine(ctx.Buf, line) {
		line++
	}
	if line == gp.Line {
		if line+1 >= total {
			return Sel{}, false
		}
		line++
	}
	return m.lineAt(ctx, ByteOffset(ctx.Buf.LineStartOffset(line)))
}

func (m LineFullMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m LineFullMode) All(ctx *Context, rng Range) []Sel {
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
