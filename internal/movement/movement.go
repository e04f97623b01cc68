// Package movement is the Movement Engine (spec §4.6): it resolves a
// movement verb against the active selection mode and composes the
// result with a sub-mode (Normal/Extend/MultiCursor/Swap) to produce a
// new selection set — or, for Swap, a new selection set plus the edit
// transaction that performed the swap.
//
// Modeled on the teacher's dispatcher/handlers/cursor package: one flat
// resolver dispatching over a closed verb enum, the way the teacher
// dispatches over motion kinds, generalized here to run through a
// selmode.Mode rather than hard-coded per-motion logic.
package movement

import (
	"fmt"

	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// Verb is a movement verb (spec §4.6).
type Verb uint8

const (
	VerbCurrent Verb = iota
	VerbNext
	VerbPrevious
	VerbUp
	VerbDown
	VerbFirst
	VerbLast
	VerbJump
	VerbParent
	VerbFirstChild
	VerbToIndex
	VerbExpand
	VerbShrink
)

// SubMode composes with a movement verb's raw resolution (spec §4.6).
type SubMode uint8

const (
	SubNormal SubMode = iota
	SubExtend
	SubMultiCursor
	SubSwap
)

// Request names one movement to perform.
type Request struct {
	Verb     Verb
	Sub      SubMode
	Jump     selmode.Sel   // target for VerbJump
	Index    int           // target for VerbToIndex
	Viewport selmode.Range // for VerbJump candidate gathering
}

// Result is the outcome of resolving a Request against one selection
// (SubNormal/SubExtend/SubMultiCursor) — or, for SubSwap, also the
// transaction that performed the underlying text swap.
type Result struct {
	Sel         selmode.Sel
	Transaction *edittx.Transaction // non-nil only for SubSwap
}

// Resolve dispatches verb against mode for selection sel (spec §4.6).
// VerbExpand/VerbShrink and VerbParent/VerbFirstChild are thin aliases:
// they resolve through mode.Up and mode.Down, the same calls as
// VerbUp/VerbDown, for every mode; no verb is rejected by mode kind.
func Resolve(ctx *selmode.Context, mode selmode.Mode, sel selmode.Sel, req Request) (Result, error) {
	switch req.Sub {
	case SubSwap:
		return resolveSwap(ctx, mode, sel, req)
	default:
		newSel, ok := resolveRaw(ctx, mode, sel, req)
		if !ok {
			return Result{}, fmt.Errorf("movement: verb %d: %w", req.Verb, kierrors.ErrNoMoreSelection)
		}
		return Result{Sel: applySub(req.Sub, sel, newSel)}, nil
	}
}

// applySub composes a freshly resolved selection with the requested
// sub-mode. SubMultiCursor is handled by the caller (it adds a cursor to
// the active SelectionSet rather than replacing one), so here it behaves
// like SubNormal — the distinction lives in how the caller folds Result
// into the set, not in this selection's own shape.
func applySub(sub SubMode, prior, fresh selmode.Sel) selmode.Sel {
	switch sub {
	case SubExtend:
		return prior.ExtendTo(fresh.Active())
	default:
		return fresh
	}
}

func resolveRaw(ctx *selmode.Context, mode selmode.Mode, sel selmode.Sel, req Request) (selmode.Sel, bool) {
	switch req.Verb {
	case VerbCurrent:
		return mode.Current(ctx, sel.Active())
	case VerbNext:
		return mode.Next(ctx, sel)
	case VerbPrevious:
		return mode.Prev(ctx, sel)
	case VerbUp, VerbParent:
		return mode.Up(ctx, sel)
	case VerbDown, VerbFirstChild:
		return mode.Down(ctx, sel)
	case VerbExpand:
		return mode.Up(ctx, sel)
	case VerbShrink:
		return mode.Down(ctx, sel)
	case VerbFirst:
		return mode.First(ctx, sel)
	case VerbLast:
		return mode.Last(ctx, sel)
	case VerbJump:
		return selmode.TieBreak(ctx.Buf, req.Jump.Active(), mode.JumpTargets(ctx, req.Viewport))
	case VerbToIndex:
		all := mode.All(ctx, selmode.Range{Start: 0, End: selmode.ByteOffset(len(ctx.Buf.Text()))})
		if req.Index < 0 || req.Index >= len(all) {
			return selmode.Sel{}, false
		}
		return all[req.Index], true
	default:
		return selmode.Sel{}, false
	}
}

// resolveSwap performs Next/Previous by exchanging the current node's
// text with its neighbor in the parent's child list (spec §4.6: "Swap:
// perform Next/Previous by swapping the current node with its neighbor
// ... and leaving the selection on the swapped node"). Only Next/Previous
// are meaningful under Swap; any other verb falls back to plain
// resolution without producing a transaction.
func resolveSwap(ctx *selmode.Context, mode selmode.Mode, sel selmode.Sel, req Request) (Result, error) {
	if req.Verb != VerbNext && req.Verb != VerbPrevious {
		newSel, ok := resolveRaw(ctx, mode, sel, req)
		if !ok {
			return Result{}, fmt.Errorf("movement: swap verb %d: %w", req.Verb, kierrors.ErrNoMoreSelection)
		}
		return Result{Sel: newSel}, nil
	}

	var neighbor selmode.Sel
	var ok bool
	if req.Verb == VerbNext {
		neighbor, ok = mode.Next(ctx, sel)
	} else {
		neighbor, ok = mode.Prev(ctx, sel)
	}
	if !ok {
		return Result{}, fmt.Errorf("movement: swap has no neighbor: %w", kierrors.ErrNoMoreSelection)
	}

	text := ctx.Buf.Text()
	a, b := sel.Range, neighbor.Range
	if a.Start > b.Start {
		a, b = b, a
	}
	if a.End > b.Start {
		return Result{}, fmt.Errorf("movement: swap: overlapping nodes: %w", kierrors.ErrInvalidSelectionSet)
	}

	aText, bText := text[a.Start:a.End], text[b.Start:b.End]
	tx, err := edittx.Compose([]edittx.Edit{
		{Range: a, NewText: bText},
		{Range: b, NewText: aText},
	})
	if err != nil {
		return Result{}, fmt.Errorf("movement: swap: %w", err)
	}

	newBStart := a.Start + selmode.ByteOffset(len(bText)) + (b.Start - a.End)
	var resultRange selmode.Range
	if a == sel.Range {
		resultRange = selmode.Range{Start: newBStart, End: newBStart + selmode.ByteOffset(len(aText))}
	} else {
		resultRange = selmode.Range{Start: a.Start, End: a.Start + selmode.ByteOffset(len(bText))}
	}

	return Result{
		Sel:         selection.NewRangeSelection(resultRange, false),
		Transaction: tx,
	}, nil
}
