package selmode

import (
	"unicode"

	"github.com/ki-editor/ki/internal/selection"
)

// WordMode selects maximal runs of identifier-class runes (letters,
// digits, `_`); punctuation and whitespace are never part of a word run,
// matching how the teacher's own word-motion handlers classify runes.
type WordMode struct{}

var _ Mode = WordMode{}

func (WordMode) Tag() selection.ModeTag { return "Word" }
func (WordMode) IsContiguous() bool     { return true }

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (WordMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	text := ctx.Buf.Text()
	start, end, ok := findRunAt(text, int(pos), isWordRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (WordMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	start, end, ok := nextRunFrom(ctx.Buf.Text(), int(sel.End()), isWordRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (WordMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	start, end, ok := prevRunBefore(ctx.Buf.Text(), int(sel.Start()), isWordRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (WordMode) First(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := firstRun(ctx.Buf.Text(), isWordRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (WordMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := lastRun(ctx.Buf.Text(), isWordRune)
	if !ok {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(start), End: ByteOffset(end)}, false), true
}

func (m WordMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, -1)
}

func (m WordMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, 1)
}

func (m WordMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (WordMode) All(ctx *Context, rng Range) []Sel {
	runs := allRuns(ctx.Buf.Text(), int(rng.Start), int(rng.End), isWordRune)
	out := make([]Sel, len(runs))
	for i, r := range runs {
		out[i] = selection.NewRangeSelection(Range{Start: ByteOffset(r[0]), End: ByteOffset(r[1])}, false)
	}
	return out
}
