package selmode

import (
	"unicode"

	"github.com/ki-editor/ki/internal/selection"
)

// SubwordMode selects one naming-convention component within the Word
// run containing it: `helloWorld` splits into `hello`/`World`,
// `SCREAMING_SNAKE` into `SCREAMING`/`SNAKE`, `kebab-case` into
// `kebab`/`case`. It shares WordMode's run boundary (Token mode's `-`
// also participates, since kebab-case needs `-` to find the outer run)
// but subdivides on case/separator changes within that run.
type SubwordMode struct{}

var _ Mode = SubwordMode{}

func (SubwordMode) Tag() selection.ModeTag { return "Subword" }
func (SubwordMode) IsContiguous() bool     { return true }

// subwordSplit returns the [start,end) byte ranges of every subword
// piece inside the token run [runStart, runEnd) of text.
func subwordSplit(text string, runStart, runEnd int) [][2]int {
	var out [][2]int
	segStart := -1
	runes := []rune(text[runStart:runEnd])
	offsets := make([]int, len(runes)+1)
	off := runStart
	for i, r := range runes {
		offsets[i] = off
		off += utf8RuneLen(r)
	}
	offsets[len(runes)] = runEnd

	flush := func(end int) {
		if segStart >= 0 && end > segStart {
			out = append(out, [2]int{offsets[segStart], offsets[end]})
		}
		segStart = -1
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush(i)
		case unicode.IsUpper(r) && i > 0 && segStart >= 0 && !unicode.IsUpper(runes[i-1]):
			flush(i)
			segStart = i
		default:
			if segStart < 0 {
				segStart = i
			}
		}
	}
	flush(len(runes))
	return out
}

func utf8RuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

func (SubwordMode) findRunAndPieces(ctx *Context, pos int) (pieces [][2]int, ok bool) {
	text := ctx.Buf.Text()
	runStart, runEnd, found := findRunAt(text, pos, isTokenRune)
	if !found {
		return nil, false
	}
	return subwordSplit(text, runStart, runEnd), true
}

func (m SubwordMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	pieces, ok := m.findRunAndPieces(ctx, int(pos))
	if !ok {
		return Sel{}, false
	}
	for _, p := range pieces {
		if int(pos) >= p[0] && int(pos) < p[1] {
			return selection.NewRangeSelection(Range{Start: ByteOffset(p[0]), End: ByteOffset(p[1])}, false), true
		}
	}
	if len(pieces) > 0 {
		last := pieces[len(pieces)-1]
		return selection.NewRangeSelection(Range{Start: ByteOffset(last[0]), End: ByteOffset(last[1])}, false), true
	}
	return Sel{}, false
}

func (m SubwordMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	pieces, ok := m.findRunAndPieces(ctx, int(sel.End()))
	if ok {
		for _, p := range pieces {
			if p[0] >= int(sel.End()) {
				return selection.NewRangeSelection(Range{Start: ByteOffset(p[0]), End: ByteOffset(p[1])}, false), true
			}
		}
	}
	// fall through to the next token run's first subword piece.
	start, end, found := nextRunFrom(ctx.Buf.Text(), int(sel.End()), isTokenRune)
	if !found {
		return Sel{}, false
	}
	first := subwordSplit(ctx.Buf.Text(), start, end)
	if len(first) == 0 {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(first[0][0]), End: ByteOffset(first[0][1])}, false), true
}

func (m SubwordMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	pieces, ok := m.findRunAndPieces(ctx, int(sel.Start())-1)
	if ok {
		for i := len(pieces) - 1; i >= 0; i-- {
			if pieces[i][1] <= int(sel.Start()) {
				return selection.NewRangeSelection(Range{Start: ByteOffset(pieces[i][0]), End: ByteOffset(pieces[i][1])}, false), true
			}
		}
	}
	start, end, found := prevRunBefore(ctx.Buf.Text(), int(sel.Start()), isTokenRune)
	if !found {
		return Sel{}, false
	}
	last := subwordSplit(ctx.Buf.Text(), start, end)
	if len(last) == 0 {
		return Sel{}, false
	}
	l := last[len(last)-1]
	return selection.NewRangeSelection(Range{Start: ByteOffset(l[0]), End: ByteOffset(l[1])}, false), true
}

func (SubwordMode) First(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := firstRun(ctx.Buf.Text(), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	pieces := subwordSplit(ctx.Buf.Text(), start, end)
	if len(pieces) == 0 {
		return Sel{}, false
	}
	return selection.NewRangeSelection(Range{Start: ByteOffset(pieces[0][0]), End: ByteOffset(pieces[0][1])}, false), true
}

func (SubwordMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	start, end, ok := lastRun(ctx.Buf.Text(), isTokenRune)
	if !ok {
		return Sel{}, false
	}
	pieces := subwordSplit(ctx.Buf.Text(), start, end)
	if len(pieces) == 0 {
		return Sel{}, false
	}
	last := pieces[len(pieces)-1]
	return selection.NewRangeSelection(Range{Start: ByteOffset(last[0]), End: ByteOffset(last[1])}, false), true
}

func (m SubwordMode) Up(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, -1)
}

func (m SubwordMode) Down(ctx *Context, sel Sel) (Sel, bool) {
	return MoveVisualLine(ctx, m, sel, 1)
}

func (m SubwordMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (SubwordMode) All(ctx *Context, rng Range) []Sel {
	runs := allRuns(ctx.Buf.Text(), int(rng.Start), int(rng.End), isTokenRune)
	var out []Sel
	for _, r := range runs {
		for _, p := range subwordSplit(ctx.Buf.Text(), r[0], r[1]) {
			out = append(out, selection.NewRangeSelection(Range{Start: ByteOffset(p[0]), End: ByteOffset(p[1])}, false))
		}
	}
	return out
}
