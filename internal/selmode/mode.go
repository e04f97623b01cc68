// Package selmode is the editing core's Selection Mode engine (spec
// §4.5), the "algebraic core": a closed family of pluggable modes, each
// a function family of current/next/prev/first/last/up/down/jump_targets
// /all/is_contiguous over the active buffer (plus, for structural modes,
// the Syntax Service; for externally-fed modes, App-scoped lists).
//
// Modeled on the teacher's own dispatcher/handlers/cursor package, which
// dispatches one flat handler over many motion kinds; here each motion
// *kind* is its own Mode value instead, since the spec's contract is a
// closed tagged variant rather than a namespace of independent actions.
package selmode

import (
	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/syntax"
)

// ByteOffset, Range and Sel are local aliases for convenience.
type (
	ByteOffset = selection.ByteOffset
	Range      = selection.Range
	Sel        = selection.Selection
	ModeTag    = selection.ModeTag
)

// Context carries everything a Mode needs to resolve a query: the
// buffer, an optional syntax tree (nil means "no grammar, fall back"),
// and the externally-fed selection lists non-contiguous modes draw from
// (diagnostics, LSP references, git hunks, marks, quickfix).
type Context struct {
	Buf    *buffer.Buffer
	Tree   syntax.Tree // nil if no grammar configured for the buffer's language
	Search *SearchConfig

	// External holds the externally-supplied candidate ranges for
	// Diagnostic/LspReference/GitHunk/Mark/Quickfix/LocalQuickfix modes,
	// keyed by selection.ModeTag. The App populates this (spec §4.10);
	// selmode only consumes it.
	External map[selection.ModeTag][]Sel

	// Custom resolves Custom{id} selection mode queries to a scripting
	// engine (internal/scripts' Lua bridge implements this); nil means
	// no custom modes are registered.
	Custom CustomEngine
}

// CustomEngine is the extension point Custom{id} selection modes are
// dispatched through, kept as a narrow interface here so selmode never
// imports the Lua bridge directly (spec §9's "polymorphism over
// selection modes ... compile-time addition" — Custom is the one
// runtime-registered exception, deliberately isolated behind this seam).
type CustomEngine interface {
	Current(id string, buf *buffer.Buffer, pos ByteOffset) (Sel, bool)
	Next(id string, buf *buffer.Buffer, sel Sel) (Sel, bool)
	Prev(id string, buf *buffer.Buffer, sel Sel) (Sel, bool)
	All(id string, buf *buffer.Buffer, rng Range) []Sel
}

// Mode is the function family spec §4.5 requires of every selection
// mode. All methods must tolerate sel/pos values slightly outside the
// buffer's current bounds (e.g. after a concurrent edit rebased them to
// an edge) by clamping rather than panicking.
type Mode interface {
	// Tag identifies the mode for SelectionSet's shared-mode invariant.
	Tag() selection.ModeTag

	// IsContiguous reports whether successive selections touch or share
	// only a separator-only gap; governs deletion/paste absorption
	// (edittx.AbsorbSeparatorGap) and smart-paste placement.
	IsContiguous() bool

	// Current returns the canonical selection for pos. Must be
	// idempotent: Current(Current(pos).range.start) == Current(pos).
	Current(ctx *Context, pos ByteOffset) (Sel, bool)

	Next(ctx *Context, sel Sel) (Sel, bool)
	Prev(ctx *Context, sel Sel) (Sel, bool)

	// First/Last take a reference selection because several modes'
	// contracts are relative to "the current line" (spec §4.5's
	// Character contract); buffer-global modes simply ignore ref.
	First(ctx *Context, ref Sel) (Sel, bool)
	Last(ctx *Context, ref Sel) (Sel, bool)

	Up(ctx *Context, sel Sel) (Sel, bool)
	Down(ctx *Context, sel Sel) (Sel, bool)

	// JumpTargets lists candidate selections for two-key jump within
	// viewport.
	JumpTargets(ctx *Context, viewport Range) []Sel

	// All enumerates every candidate selection overlapping rng, used by
	// AddCursor{All} (multi-cursor "select all").
	All(ctx *Context, rng Range) []Sel
}

// MoveVisualLine is the shared Up/Down implementation for contiguous
// textual modes (Character, Word, Token): it holds the grapheme column
// steady, steps to the line above/below, then re-snaps through the
// mode's own Current so the result is a valid selection for that mode
// rather than a raw cursor — this is what spec §4.8 calls running "the
// mode's current(active) to refresh the selection to canonical form."
func MoveVisualLine(ctx *Context, m Mode, sel Sel, lineDelta int) (Sel, bool) {
	gp := ctx.Buf.OffsetToGraphemePosition(buffer.ByteOffset(sel.Active()))
	newLine := int(gp.Line) + lineDelta
	if newLine < 0 || uint32(newLine) >= ctx.Buf.LineCount() {
		return Sel{}, false
	}
	target := ctx.Buf.GraphemePositionToOffset(buffer.GraphemePosition{Line: uint32(newLine), Column: gp.Column})
	return m.Current(ctx, ByteOffset(target))
}

// TieBreak picks the best of several candidate selections relative to
// ref using spec §4.5/§4.6's fallback rule: same line over different
// line, then minimal absolute column distance, then earlier document
// order. Returns false if candidates is empty.
func TieBreak(buf *buffer.Buffer, ref ByteOffset, candidates []Sel) (Sel, bool) {
	if len(candidates) == 0 {
		return Sel{}, false
	}
	refPos := buf.OffsetToGraphemePosition(buffer.ByteOffset(ref))
	best := candidates[0]
	bestPos := buf.OffsetToGraphemePosition(buffer.ByteOffset(best.Range.Start))
	for _, c := range candidates[1:] {
		cPos := buf.OffsetToGraphemePosition(buffer.ByteOffset(c.Range.Start))
		if better(refPos, cPos, bestPos) {
			best, bestPos = c, cPos
		}
	}
	return best, true
}

func better(ref, a, b buffer.GraphemePosition) bool {
	aSameLine := a.Line == ref.Line
	bSameLine := b.Line == ref.Line
	if aSameLine != bSameLine {
		return aSameLine
	}
	aDist := colDist(ref.Column, a.Column)
	bDist := colDist(ref.Column, b.Column)
	if aDist != bDist {
		return aDist < bDist
	}
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

func colDist(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
