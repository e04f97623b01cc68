package selection

import "testing"

func TestSelectionActiveAnchor(t *testing.T) {
	fwd := Selection{Range: Range{Start: 3, End: 8}, CursorEnd: CursorEndActive}
	if fwd.Active() != 8 || fwd.Anchor() != 3 {
		t.Fatalf("forward selection: got active=%d anchor=%d", fwd.Active(), fwd.Anchor())
	}

	back := fwd.SwapCursorEnd()
	if back.Range != fwd.Range {
		t.Fatalf("SwapCursorEnd must not change the range: got %v, want %v", back.Range, fwd.Range)
	}
	if back.Active() != 3 || back.Anchor() != 8 {
		t.Fatalf("swapped selection: got active=%d anchor=%d", back.Active(), back.Anchor())
	}
}

func TestSelectionExtendTo(t *testing.T) {
	cur := NewCursorSelection(10)

	forward := cur.ExtendTo(15)
	if forward.Range != (Range{Start: 10, End: 15}) || forward.Active() != 15 {
		t.Fatalf("extend forward: got %v active=%d", forward.Range, forward.Active())
	}

	backward := cur.ExtendTo(4)
	if backward.Range != (Range{Start: 4, End: 10}) || backward.Active() != 4 {
		t.Fatalf("extend backward: got %v active=%d", backward.Range, backward.Active())
	}
}

func TestSelectionEmptyInvariant(t *testing.T) {
	c := NewCursorSelection(5)
	if !c.IsEmpty() {
		t.Fatal("cursor selection must be empty")
	}
	if c.Active() != c.Anchor() {
		t.Fatal("empty selection must have active == anchor")
	}

	ext := c.ExtendTo(9)
	if ext.Active() == ext.Anchor() {
		t.Fatal("extended selection must have active != anchor")
	}
}

func TestSelectionSetInvariants(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Character"),
		NewCursorSelection(20),
		NewCursorSelection(5),
		NewCursorSelection(12),
	)

	sels := ss.All()
	for i := 1; i < len(sels); i++ {
		if sels[i-1].Range.Start > sels[i].Range.Start {
			t.Fatalf("selections not sorted by start: %v", sels)
		}
	}
	if ss.PrimaryIndex() < 0 || ss.PrimaryIndex() >= ss.Count() {
		t.Fatalf("primary index %d out of bounds for %d selections", ss.PrimaryIndex(), ss.Count())
	}
	if ss.Count() < 1 {
		t.Fatal("selection set must never be empty")
	}
}

func TestSelectionSetInsertMergesOverlaps(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Word"), NewRangeSelection(Range{Start: 0, End: 10}, false))
	ss.Insert(NewRangeSelection(Range{Start: 5, End: 15}, false))

	if ss.Count() != 1 {
		t.Fatalf("overlapping selections must merge into one, got %d", ss.Count())
	}
	got := ss.Get(0)
	if got.Range != (Range{Start: 0, End: 15}) {
		t.Fatalf("merged range = %v, want [0,15)", got.Range)
	}
}

func TestSelectionSetInsertNonOverlappingPreservesOrder(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Word"), NewCursorSelection(50))
	ss.Insert(NewCursorSelection(10))
	ss.Insert(NewCursorSelection(30))

	sels := ss.All()
	if len(sels) != 3 {
		t.Fatalf("expected 3 distinct selections, got %d", len(sels))
	}
	wantStarts := []ByteOffset{10, 30, 50}
	for i, w := range wantStarts {
		if sels[i].Range.Start != w {
			t.Fatalf("selection[%d].Start = %d, want %d", i, sels[i].Range.Start, w)
		}
	}
}

func TestSelectionSetMergeInheritsActiveCaretInfo(t *testing.T) {
	ss := NewSelectionSet(ModeTag("SyntaxNode"),
		Selection{Range: Range{Start: 0, End: 10}, CursorEnd: CursorEndActive, Info: "outer"})

	// The inserted selection's active caret (its End, 12) falls inside the
	// union [0,12); by policy the merged selection's Info comes from
	// whichever side's active caret survives into the union, and ties
	// favor the newly inserted selection.
	ss.Insert(Selection{Range: Range{Start: 8, End: 12}, CursorEnd: CursorEndActive, Info: "inner"})

	merged := ss.Get(0)
	if merged.Info != "inner" {
		t.Fatalf("merged selection Info = %v, want %q", merged.Info, "inner")
	}
}

func TestSelectionSetRebaseProjectsIntoReplacement(t *testing.T) {
	// A selection entirely inside an edited range must keep its offset from
	// the edit's start inside the replacement text, not simply snap to its end.
	ss := NewSelectionSet(ModeTag("Character"), NewRangeSelection(Range{Start: 5, End: 7}, false))
	edit := Edit{Range: Range{Start: 0, End: 10}, NewText: "0123456789012345"} // len 16, was len 10

	ss.Rebase([]Edit{edit}, nil)

	got := ss.Get(0).Range
	want := Range{Start: 5, End: 7} // min(L, p-a) never exceeds p-a here since L=16 > 10
	if got != want {
		t.Fatalf("rebased range = %v, want %v", got, want)
	}
}

func TestSelectionSetRebaseClampsWhenReplacementShorter(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Character"), NewRangeSelection(Range{Start: 5, End: 9}, false))
	edit := Edit{Range: Range{Start: 0, End: 10}, NewText: "ab"} // len 2, was len 10

	ss.Rebase([]Edit{edit}, nil)

	got := ss.Get(0).Range
	// p=5 -> a + min(L, p-a) = 0 + min(2,5) = 2; p=9 -> 0 + min(2,9) = 2
	want := Range{Start: 2, End: 2}
	if got != want {
		t.Fatalf("rebased range = %v, want %v", got, want)
	}
}

func TestSelectionSetRebaseShiftsPositionsAfterEdit(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Character"), NewCursorSelection(20))
	edit := Edit{Range: Range{Start: 0, End: 5}, NewText: "abc"} // delta = -2

	ss.Rebase([]Edit{edit}, nil)

	if got := ss.Get(0).Range.Start; got != 18 {
		t.Fatalf("shifted position = %d, want 18", got)
	}
}

func TestSelectionSetRebaseMultipleEditsDescendingOrder(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Character"), NewCursorSelection(30))
	edits := []Edit{
		{Range: Range{Start: 20, End: 20}, NewText: "XX"}, // +2 at 20
		{Range: Range{Start: 0, End: 0}, NewText: "Y"},     // +1 at 0
	}

	ss.Rebase(edits, nil)

	if got := ss.Get(0).Range.Start; got != 33 {
		t.Fatalf("position after two inserts = %d, want 33", got)
	}
}

func TestSelectionSetRebaseCollapsePolicyCoalescesEmpty(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Word"), NewRangeSelection(Range{Start: 2, End: 6}, false))
	edit := Edit{Range: Range{Start: 0, End: 8}, NewText: ""} // deletes the whole span

	called := false
	ss.Rebase([]Edit{edit}, func(pos ByteOffset) Selection {
		called = true
		return NewRangeSelection(Range{Start: pos, End: pos + 1}, false)
	})

	if !called {
		t.Fatal("collapse policy was not invoked for an empty post-rebase selection")
	}
	if ss.Get(0).IsEmpty() {
		t.Fatal("collapse policy result should have been installed")
	}
}

func TestSelectionSetEquals(t *testing.T) {
	a := NewSelectionSet(ModeTag("Character"), NewCursorSelection(1), NewCursorSelection(2))
	b := NewSelectionSet(ModeTag("Character"), NewCursorSelection(1), NewCursorSelection(2))
	c := NewSelectionSet(ModeTag("Word"), NewCursorSelection(1), NewCursorSelection(2))

	if !a.Equals(b) {
		t.Fatal("identical sets should be equal")
	}
	if a.Equals(c) {
		t.Fatal("sets with different mode tags should not be equal")
	}
}

func TestSelectionSetRemoveAtNeverEmpties(t *testing.T) {
	ss := NewSelectionSet(ModeTag("Character"), NewCursorSelection(5))
	ss.RemoveAt(0)
	if ss.Count() != 1 {
		t.Fatalf("removing the last selection must leave exactly one cursor, got %d", ss.Count())
	}
}
