package selection

import (
	"fmt"

	"github.com/ki-editor/ki/internal/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience. A Range is half-open
// [start, end) over byte offsets, with Start <= End always.
type Range = buffer.Range

// Info carries mode-specific metadata attached to a Selection: the
// tree-sitter node id for a SyntaxNode selection, the search match id for a
// Find selection, and so on. It is opaque to everything except the
// selection mode that produced it.
type Info = any

// CursorEnd identifies which physical endpoint of a Selection's Range
// currently holds the caret. The other endpoint is the anchor. Toggling
// CursorEnd swaps which end is which without moving either endpoint.
type CursorEnd uint8

const (
	// CursorEndActive places the caret at Range.End (a forward selection;
	// the common case after Extend-ing rightward).
	CursorEndActive CursorEnd = iota
	// CursorEndAnchor places the caret at Range.Start (a backward
	// selection, or the result of swapping ends on a forward one).
	CursorEndAnchor
)

// String returns "anchor" or "active".
func (c CursorEnd) String() string {
	if c == CursorEndAnchor {
		return "anchor"
	}
	return "active"
}

// Selection is `{ range, cursor_end, info }`: a half-open byte range plus a
// marker for which endpoint is the caret. When Range is empty the
// selection is a plain cursor; Anchor() and Active() coincide.
//
// Selection is an immutable value type.
type Selection struct {
	Range     Range
	CursorEnd CursorEnd
	Info      Info
}

// NewCursorSelection creates an empty (no-extent) selection at offset.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Range: Range{Start: offset, End: offset}, CursorEnd: CursorEndActive}
}

// NewRangeSelection creates a selection covering r, with the caret at end
// (CursorEndActive) unless backward is true, in which case the caret sits
// at r.Start (CursorEndAnchor).
func NewRangeSelection(r Range, backward bool) Selection {
	end := CursorEndActive
	if backward {
		end = CursorEndAnchor
	}
	return Selection{Range: r, CursorEnd: end}
}

// IsEmpty returns true if the selection has no extent (a bare cursor).
func (s Selection) IsEmpty() bool {
	return s.Range.Start == s.Range.End
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	return s.Range.End - s.Range.Start
}

// Start returns the lower bound of the selection's range.
func (s Selection) Start() ByteOffset { return s.Range.Start }

// End returns the upper bound of the selection's range.
func (s Selection) End() ByteOffset { return s.Range.End }

// Active returns the offset of the endpoint currently holding the caret —
// the position at which typing, deleting, or the next movement occurs.
func (s Selection) Active() ByteOffset {
	if s.CursorEnd == CursorEndAnchor {
		return s.Range.Start
	}
	return s.Range.End
}

// Anchor returns the offset of the endpoint opposite the caret — the
// position a selection is extended from.
func (s Selection) Anchor() ByteOffset {
	if s.CursorEnd == CursorEndAnchor {
		return s.Range.End
	}
	return s.Range.Start
}

// IsForward returns true if the caret sits at the range's upper bound.
func (s Selection) IsForward() bool {
	return s.CursorEnd == CursorEndActive
}

// SwapCursorEnd returns a selection with anchor and active swapped. The
// range itself is unchanged.
func (s Selection) SwapCursorEnd() Selection {
	if s.CursorEnd == CursorEndAnchor {
		s.CursorEnd = CursorEndActive
	} else {
		s.CursorEnd = CursorEndAnchor
	}
	return s
}

// ExtendTo returns a new selection with the anchor held fixed and the
// active end moved to pos. This is the Extend submode's primitive.
func (s Selection) ExtendTo(pos ByteOffset) Selection {
	anchor := s.Anchor()
	if pos >= anchor {
		return Selection{Range: Range{Start: anchor, End: pos}, CursorEnd: CursorEndActive, Info: s.Info}
	}
	return Selection{Range: Range{Start: pos, End: anchor}, CursorEnd: CursorEndAnchor, Info: s.Info}
}

// MoveTo returns a new collapsed selection (cursor) at offset. Info is
// dropped: a bare move leaves whatever mode-specific metadata behind.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return NewCursorSelection(offset)
}

// Collapse collapses the selection to a cursor at the active end.
func (s Selection) Collapse() Selection {
	p := s.Active()
	return Selection{Range: Range{Start: p, End: p}, CursorEnd: CursorEndActive, Info: s.Info}
}

// CollapseToAnchor collapses the selection to a cursor at the anchor end.
func (s Selection) CollapseToAnchor() Selection {
	p := s.Anchor()
	return Selection{Range: Range{Start: p, End: p}, CursorEnd: CursorEndActive, Info: s.Info}
}

// Contains returns true if offset lies within [Start, End).
func (s Selection) Contains(offset ByteOffset) bool {
	return offset >= s.Range.Start && offset < s.Range.End
}

// ContainsInclusive returns true if offset lies within [Start, End].
func (s Selection) ContainsInclusive(offset ByteOffset) bool {
	return offset >= s.Range.Start && offset <= s.Range.End
}

// Overlaps returns true if this selection's range overlaps other's.
func (s Selection) Overlaps(other Selection) bool {
	return s.Range.Start < other.Range.End && other.Range.Start < s.Range.End
}

// Touches returns true if the two selections overlap or share an endpoint.
func (s Selection) Touches(other Selection) bool {
	return s.Range.Start <= other.Range.End && other.Range.Start <= s.Range.End
}

// Clamp returns a selection with both endpoints clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	r := s.Range
	if r.Start < 0 {
		r.Start = 0
	} else if r.Start > maxOffset {
		r.Start = maxOffset
	}
	if r.End < 0 {
		r.End = 0
	} else if r.End > maxOffset {
		r.End = maxOffset
	}
	s.Range = r
	return s
}

// Equals returns true if two selections have the same range and cursor end.
// Info is not compared: it is opaque metadata, not selection identity.
func (s Selection) Equals(other Selection) bool {
	return s.Range == other.Range && s.CursorEnd == other.CursorEnd
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Range.Start)
	}
	dir := "anchor->active"
	if s.CursorEnd == CursorEndAnchor {
		dir = "active<-anchor"
	}
	return fmt.Sprintf("Selection[%d,%d)/%s", s.Range.Start, s.Range.End, dir)
}
