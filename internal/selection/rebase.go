package selection

import (
	"sort"

	"github.com/ki-editor/ki/internal/buffer"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// RebasePosition implements the 4.4 rebasing rule for a single endpoint
// under one applied edit: for pre-edit range [a,b) replaced by text of
// byte-length L,
//
//	p <= a:  unchanged
//	a < p < b: clamped to a + min(L, p-a)  (projected into the replacement)
//	p >= b:  shifted by L - (b-a)
func RebasePosition(p ByteOffset, edit Edit) ByteOffset {
	a, b := edit.Range.Start, edit.Range.End
	l := ByteOffset(len(edit.NewText))

	if p <= a {
		return p
	}
	if p < b {
		proj := p - a
		if proj > l {
			proj = l
		}
		return a + proj
	}
	return p + (l - (b - a))
}

// RebaseSelection rebases a single selection under one applied edit. Both
// endpoints are transformed independently and Start/End are restored if
// the transform inverted them (possible when an edit entirely replaces a
// selection with shorter text).
func RebaseSelection(sel Selection, edit Edit) Selection {
	start := RebasePosition(sel.Range.Start, edit)
	end := RebasePosition(sel.Range.End, edit)
	if start > end {
		start, end = end, start
	}
	sel.Range = Range{Start: start, End: end}
	return sel
}

// EditsInDescendingOrder reports whether edits are sorted by descending
// start position, the order apply_edits and Rebase both require.
func EditsInDescendingOrder(edits []Edit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.Start >= edits[i-1].Range.Start {
			return false
		}
	}
	return true
}

// SortEditsDescending sorts edits by descending start position in place.
func SortEditsDescending(edits []Edit) {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Range.Start > edits[j].Range.Start
	})
}

// CollapsePolicy decides what happens to a selection that rebased to an
// empty (or was already empty) range. A policy that re-runs the owning
// selection mode's Current movement from the resulting position would
// coalesce them; this package has no notion of selection modes, so such a
// policy has to come from the caller. Passing a nil CollapsePolicy leaves
// empty selections as bare cursors, Insert mode's behavior. Every caller
// in the module passes nil, so Normal mode does not coalesce them either.
type CollapsePolicy func(pos ByteOffset) Selection

// Rebase applies edits (an applied transaction's forward edits, in
// whatever order they were produced) to every selection in the set. Edits
// are processed in descending start order per 4.4's "Edits are processed
// in descending start order to make the rule composable." collapse, if
// non-nil, is invoked on any selection that ends up empty after rebasing,
// letting the caller re-run Current movement to coalesce it per the
// active selection mode; nil leaves the bare cursor as-is.
func (ss *SelectionSet) Rebase(edits []Edit, collapse CollapsePolicy) {
	if len(edits) == 0 {
		return
	}
	ordered := edits
	if !EditsInDescendingOrder(edits) {
		ordered = make([]Edit, len(edits))
		copy(ordered, edits)
		SortEditsDescending(ordered)
	}

	sels := make([]Selection, len(ss.selections))
	copy(sels, ss.selections)
	for _, edit := range ordered {
		for i, sel := range sels {
			sels[i] = RebaseSelection(sel, edit)
		}
	}
	if collapse != nil {
		for i, sel := range sels {
			if sel.IsEmpty() {
				sels[i] = collapse(sel.Range.Start)
			}
		}
	}

	primaryActive := ByteOffset(-1)
	if ss.primary < len(sels) {
		primaryActive = sels[ss.primary].Active()
	}
	ss.SetAll(sels, primaryActive)
}
