// Package selection implements the editing core's Selection and Selection
// Set: a half-open byte range plus a marker for which endpoint holds the
// caret, and an ordered, mode-tagged, non-overlapping collection of them.
//
// Selection Model:
//
// A Selection is `{ range, cursor_end, info }`. cursor_end names which
// physical endpoint of range — Start or End — currently holds the caret;
// the other endpoint is the anchor. Toggling cursor_end (SwapCursorEnd)
// swaps anchor and active without moving either endpoint. info is an
// opaque payload a selection mode may attach (a syntax node id, a search
// match id) and that everything else treats as inert.
//
// Selection Set:
//
// A SelectionSet holds one or more Selections, always sorted by start
// position, always overlap-free except at shared endpoints, always
// carrying a primary index and a single ModeTag shared by every member.
// Insert merges the new selection into any it overlaps, inheriting Info
// from whichever side's active caret survives into the union.
//
// Rebasing:
//
// After an EditTransaction is applied to the buffer, Rebase projects every
// selection's endpoints through the transaction's edits (processed in
// descending start order) per the rule in rebase.go: positions before an
// edit are untouched, positions inside an edit's pre-range keep their
// offset from the edit's start, clamped to the replacement's length, and
// positions after are shifted by the edit's length delta.
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// SelectionSet is not: callers must synchronize concurrent access.
package selection
