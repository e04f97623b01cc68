package edittx

import (
	"fmt"
	"sort"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/selection"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Transaction is an ordered, disjoint list of Edits applied to one buffer
// as a unit (spec §4.7). Edits are always stored sorted by descending
// start offset, since applying right-to-left is the only order under
// which no edit invalidates the pre-edit range of a later one.
type Transaction struct {
	edits []Edit
}

// Compose validates that edits operate on disjoint pre-edit ranges and
// returns a Transaction holding them sorted descending by start.
func Compose(edits []Edit) (*Transaction, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start > sorted[j].Range.Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Range.End > sorted[i-1].Range.Start {
			return nil, fmt.Errorf("edittx: overlapping edits %s and %s: %w",
				sorted[i].Range, sorted[i-1].Range, kierrors.ErrInvalidSelectionSet)
		}
	}

	return &Transaction{edits: sorted}, nil
}

// Edits returns the transaction's edits, descending by start offset.
func (t *Transaction) Edits() []Edit {
	out := make([]Edit, len(t.edits))
	copy(out, t.edits)
	return out
}

// IsEmpty returns true if the transaction carries no edits.
func (t *Transaction) IsEmpty() bool { return len(t.edits) == 0 }

// Applied is the result of applying a Transaction: the inverse
// transaction (the edits that would undo it) and the post-edit ranges
// each input edit's replacement text now occupies.
type Applied struct {
	Inverse    *Transaction
	NewRanges  []Range // parallel to t.Edits(), post-edit range of each replacement
}

// Apply applies the transaction to buf right-to-left (so no edit in the
// transaction invalidates a later one's pre-edit range per spec §4.7),
// then rebases sels across every edit. collapse governs what an edit
// that empties a selection becomes (nil leaves a bare cursor, the Insert
// mode default — see selection.CollapsePolicy).
//
// On any out-of-range edit, no mutation is applied: every edit's range is
// validated against the buffer's current length before any Replace runs.
func (t *Transaction) Apply(buf *buffer.Buffer, sels *selection.SelectionSet, collapse selection.CollapsePolicy) (*Applied, error) {
	bufLen := buf.Len()
	for _, e := range t.edits {
		if e.Range.Start < 0 || e.Range.Start > e.Range.End || e.Range.End > bufLen {
			return nil, fmt.Errorf("edittx: edit %s exceeds buffer length %d: %w", e.Range, bufLen, kierrors.ErrEditOutOfRange)
		}
	}

	inverseEdits := make([]Edit, len(t.edits))
	newRanges := make([]Range, len(t.edits))
	for i, e := range t.edits {
		result, err := buf.ApplyEdit(e)
		if err != nil {
			return nil, fmt.Errorf("edittx: applying %s: %w", e.Range, err)
		}
		inverseEdits[i] = Edit{Range: result.NewRange, NewText: result.OldText}
		newRanges[i] = result.NewRange
	}

	// Lower-start edits apply after the ones above them and shift them;
	// move each recorded range by the length change of the edits before it.
	var shift buffer.ByteOffset
	for i := len(t.edits) - 1; i >= 0; i-- {
		newRanges[i].Start += shift
		newRanges[i].End += shift
		inverseEdits[i].Range = newRanges[i]
		shift += buffer.ByteOffset(len(t.edits[i].NewText)) - (t.edits[i].Range.End - t.edits[i].Range.Start)
	}

	inverse, err := Compose(inverseEdits)
	if err != nil {
		return nil, fmt.Errorf("edittx: composing inverse: %w", err)
	}

	if sels != nil {
		sels.Rebase(t.edits, collapse)
	}

	return &Applied{Inverse: inverse, NewRanges: newRanges}, nil
}

// Invert computes the transaction that would undo t against buf's
// *current* (pre-application) content, without applying anything.
// Nothing in the module calls it; TransactionCommand takes its inverse
// from Apply's result.
func (t *Transaction) Invert(buf *buffer.Buffer) (*Transaction, error) {
	bufLen := buf.Len()
	inverseEdits := make([]Edit, len(t.edits))
	// Walk from the lowest start up: each inverse range is shifted by the
	// length change of the edits before it.
	var shift buffer.ByteOffset
	for i := len(t.edits) - 1; i >= 0; i-- {
		e := t.edits[i]
		if e.Range.Start < 0 || e.Range.Start > e.Range.End || e.Range.End > bufLen {
			return nil, fmt.Errorf("edittx: edit %s exceeds buffer length %d: %w", e.Range, bufLen, kierrors.ErrEditOutOfRange)
		}
		oldText := buf.TextRange(e.Range.Start, e.Range.End)
		start := e.Range.Start + shift
		inverseEdits[i] = Edit{Range: Range{Start: start, End: start + buffer.ByteOffset(len(e.NewText))}, NewText: oldText}
		shift += buffer.ByteOffset(len(e.NewText)) - (e.Range.End - e.Range.Start)
	}
	return Compose(inverseEdits)
}

// String returns a human-readable representation of the transaction.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction(%d edits)", len(t.edits))
}
