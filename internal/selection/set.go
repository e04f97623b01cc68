package selection

import (
	"fmt"
	"sort"
)

// ModeTag names the selection mode a SelectionSet currently belongs to
// (Character, Word, SyntaxNode, Find, ...). The concrete mode machinery
// lives in the selmode package; SelectionSet only needs the tag to uphold
// invariant (e): every selection in a set shares one selection mode.
type ModeTag string

// SelectionSet is an ordered, non-overlapping sequence of Selections with a
// primary_index, all tagged with one ModeTag.
//
// Invariants maintained by every method on this type:
//   - selections are sorted by start position;
//   - no two selections overlap except possibly at a shared endpoint;
//   - 0 <= primary < len(selections);
//   - len(selections) >= 1.
//
// SelectionSet is not safe for concurrent use.
type SelectionSet struct {
	selections []Selection
	primary    int
	mode       ModeTag
}

// NewSelectionSet creates a set from the given selections, tagged with
// mode. The selections are normalized (sorted, overlap-merged); primary
// tracks whichever input selection (by slice position) was at index 0.
func NewSelectionSet(mode ModeTag, sels ...Selection) *SelectionSet {
	if len(sels) == 0 {
		sels = []Selection{NewCursorSelection(0)}
	}
	ss := &SelectionSet{mode: mode}
	ss.replaceAll(sels, 0)
	return ss
}

// NewSelectionSetAt creates a single-cursor set at offset.
func NewSelectionSetAt(mode ModeTag, offset ByteOffset) *SelectionSet {
	return NewSelectionSet(mode, NewCursorSelection(offset))
}

// Mode returns the set's selection mode tag.
func (ss *SelectionSet) Mode() ModeTag { return ss.mode }

// WithMode returns a shallow copy of the set retagged to mode. Changing
// mode does not itself alter any selection's range; a mode switch in the
// editor typically follows this with a Current-movement re-run per
// selection to snap ranges to the new mode's boundaries.
func (ss *SelectionSet) WithMode(mode ModeTag) *SelectionSet {
	clone := ss.Clone()
	clone.mode = mode
	return clone
}

// Primary returns the primary selection.
func (ss *SelectionSet) Primary() Selection {
	return ss.selections[ss.primary]
}

// PrimaryIndex returns the index of the primary selection.
func (ss *SelectionSet) PrimaryIndex() int { return ss.primary }

// PrimaryCursor returns the active offset of the primary selection — the
// position at which the next keystroke would act.
func (ss *SelectionSet) PrimaryCursor() ByteOffset {
	return ss.Primary().Active()
}

// SetPrimaryIndex sets which selection is primary. Out-of-range indices are
// clamped into bounds.
func (ss *SelectionSet) SetPrimaryIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(ss.selections) {
		i = len(ss.selections) - 1
	}
	ss.primary = i
}

// All returns a copy of every selection, in order.
func (ss *SelectionSet) All() []Selection {
	out := make([]Selection, len(ss.selections))
	copy(out, ss.selections)
	return out
}

// Count returns the number of selections in the set.
func (ss *SelectionSet) Count() int { return len(ss.selections) }

// IsMulti returns true if the set holds more than one selection.
func (ss *SelectionSet) IsMulti() bool { return len(ss.selections) > 1 }

// Get returns the selection at index, or the zero Selection if out of
// range.
func (ss *SelectionSet) Get(index int) Selection {
	if index < 0 || index >= len(ss.selections) {
		return Selection{}
	}
	return ss.selections[index]
}

// Insert adds sel to the set, merging it with any selection whose range it
// overlaps or touches, and preserving order (4.4's insert(sel)). The
// merged selection's Info is inherited from whichever of the contributing
// selections contains the resulting active caret; sel is preferred on a
// tie, since it represents the most recent user action. The selection sel
// was merged into becomes primary, matching the common AddCursor behavior
// of the new cursor taking focus.
func (ss *SelectionSet) Insert(sel Selection) {
	all := append(ss.All(), sel)
	ss.replaceAll(all, len(all)-1)
}

// replaceAll sorts, merges, and installs sels as the set's selections.
// primaryHint names an index into the pre-merge sels slice whose
// post-merge home should become primary.
func (ss *SelectionSet) replaceAll(sels []Selection, primaryHint int) {
	type entry struct {
		sel     Selection
		primary bool
	}
	entries := make([]entry, len(sels))
	for i, s := range sels {
		entries[i] = entry{sel: s, primary: i == primaryHint}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].sel.Range.Start, entries[j].sel.Range.Start
		if si != sj {
			return si < sj
		}
		return entries[i].sel.Range.End < entries[j].sel.Range.End
	})

	merged := entries[:1]
	for _, e := range entries[1:] {
		last := &merged[len(merged)-1]
		if e.sel.Range.Start <= last.sel.Range.End {
			last.sel = mergeSelections(last.sel, e.sel, e.primary)
			last.primary = last.primary || e.primary
		} else {
			merged = append(merged, e)
		}
	}
	entries = merged

	ss.selections = make([]Selection, len(entries))
	primary := 0
	for i, e := range entries {
		ss.selections[i] = e.sel
		if e.primary {
			primary = i
		}
	}
	ss.primary = primary
}

// mergeSelections unions a's and b's ranges, carrying Info from whichever
// selection's active caret falls within the union (4.4's merge policy). If
// both qualify, preferB breaks the tie in b's favor — used when b is the
// more recently touched selection.
func mergeSelections(a, b Selection, preferB bool) Selection {
	start := a.Range.Start
	if b.Range.Start < start {
		start = b.Range.Start
	}
	end := a.Range.End
	if b.Range.End > end {
		end = b.Range.End
	}
	aIn := a.Active() >= start && a.Active() <= end
	bIn := b.Active() >= start && b.Active() <= end

	useB := bIn && (preferB || !aIn)
	if useB {
		return Selection{Range: Range{Start: start, End: end}, CursorEnd: b.CursorEnd, Info: b.Info}
	}
	return Selection{Range: Range{Start: start, End: end}, CursorEnd: a.CursorEnd, Info: a.Info}
}

// RemoveAt removes the selection at index. If it is the last remaining
// selection it is instead replaced with a cursor at its own start, since a
// SelectionSet may never be empty.
func (ss *SelectionSet) RemoveAt(index int) {
	if index < 0 || index >= len(ss.selections) {
		return
	}
	if len(ss.selections) == 1 {
		ss.selections[0] = NewCursorSelection(ss.selections[0].Range.Start)
		return
	}
	ss.selections = append(ss.selections[:index], ss.selections[index+1:]...)
	if ss.primary >= len(ss.selections) {
		ss.primary = len(ss.selections) - 1
	} else if ss.primary > index {
		ss.primary--
	}
}

// MapRanges applies f to every selection's range, producing a new slice of
// selections with ranges replaced but CursorEnd/Info preserved. The result
// is NOT installed back into ss; callers combine it with SetAll.
func (ss *SelectionSet) MapRanges(f func(Range) Range) []Selection {
	out := make([]Selection, len(ss.selections))
	for i, s := range ss.selections {
		s.Range = f(s.Range)
		out[i] = s
	}
	return out
}

// Map applies f to every selection and returns the resulting slice without
// installing it. Combine with SetAll to commit.
func (ss *SelectionSet) Map(f func(Selection) Selection) []Selection {
	out := make([]Selection, len(ss.selections))
	for i, s := range ss.selections {
		out[i] = f(s)
	}
	return out
}

// SetAll replaces every selection in the set, re-normalizing and keeping
// the current mode tag. primaryActive, if non-negative, names the active
// offset of the selection that should become primary post-merge; pass -1
// to default to index 0.
func (ss *SelectionSet) SetAll(sels []Selection, primaryActive ByteOffset) {
	if len(sels) == 0 {
		sels = []Selection{NewCursorSelection(0)}
	}
	ss.replaceAll(sels, -1)
	if primaryActive >= 0 {
		for i, s := range ss.selections {
			if s.ContainsInclusive(primaryActive) {
				ss.primary = i
				break
			}
		}
	}
}

// CollapseAll collapses every selection to a cursor at its active end.
func (ss *SelectionSet) CollapseAll() {
	for i, s := range ss.selections {
		ss.selections[i] = s.Collapse()
	}
}

// Clamp clamps every selection into [0, maxOffset].
func (ss *SelectionSet) Clamp(maxOffset ByteOffset) {
	sels := make([]Selection, len(ss.selections))
	for i, s := range ss.selections {
		sels[i] = s.Clamp(maxOffset)
	}
	ss.replaceAll(sels, ss.primary)
}

// Clone returns a deep copy of the set.
func (ss *SelectionSet) Clone() *SelectionSet {
	clone := &SelectionSet{
		selections: make([]Selection, len(ss.selections)),
		primary:    ss.primary,
		mode:       ss.mode,
	}
	copy(clone.selections, ss.selections)
	return clone
}

// Ranges returns every selection's range.
func (ss *SelectionSet) Ranges() []Range {
	out := make([]Range, len(ss.selections))
	for i, s := range ss.selections {
		out[i] = s.Range
	}
	return out
}

// Equals returns true if two sets have identical selections, primary
// index, and mode tag.
func (ss *SelectionSet) Equals(other *SelectionSet) bool {
	if other == nil || ss.mode != other.mode || ss.primary != other.primary {
		return false
	}
	if len(ss.selections) != len(other.selections) {
		return false
	}
	for i, s := range ss.selections {
		if !s.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}

// String returns a human-readable representation of the set.
func (ss *SelectionSet) String() string {
	return fmt.Sprintf("SelectionSet(mode=%s, primary=%d, n=%d)", ss.mode, ss.primary, len(ss.selections))
}
