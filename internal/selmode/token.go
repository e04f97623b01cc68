package selmode

import (
	"unicode"

	"github.com/ki-editor/ki/internal/selection"
)

// TokenMode is Word mode's coarser sibling: `-` joins a run too, so
// kebab-case identifiers and CLI flags (`--dry-run`) select as one token
// rather than three Word runs. Everything else is shared via runscan.go.
type TokenMode struct{}

var _ Mode = TokenMode{}

func (TokenMode) Tag() selection.ModeTag { return "Token" }
func (TokenMode) IsContiguous() bool     { return true }

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func (TokenMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	start, end, ok := findRunAt(ctx.Buf.Text(), int(pos), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (TokenMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	start, end, ok := nextRunFrom(ctx.Buf.Text(), int(sel.End()), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (TokenMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	start, end, ok := prevRunBefore(ctx.Buf.Text(), int(sel.Start()), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (TokenMode) First(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := firstRun(ctx.Buf.Text(), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (TokenMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := lastRun(ctx.Buf.Text(), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (m TokenMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, -1)
}

func (m TokenMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, 1)
}

func (m TokenMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (TokenMode) All(ctx *Context, rng Range) []Sel {
	runs := allRuns(ctx.Buf.Text(), int(rng.Start), int(rng.End), isTokenRune)
	out := make([]Sel, len(runs))
	for i, r := range runs {
		out[i] = selection.NewRangeSelection(Range{Start: ByteOffset(r[0]), End: ByteOffset(r[1])}, false)
	}
	return out
}
