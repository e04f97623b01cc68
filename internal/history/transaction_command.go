package history

import (
	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/selection"
)

// TransactionCommand adapts an edittx.Transaction into the Command
// interface the stack/grouping machinery in stack.go and group.go
// already implements, so internal/editor drives undo/redo through the
// teacher's own History rather than a second, parallel stack. This is
// the Editor's per-action History Entry (spec §3:
// "{inverse_transaction, pre_selection_set, post_selection_set}"):
// Execute/Undo here always operate the SAME recorded Transaction pair
// (forward tx + its inverse) rather than recomputing one from current
// buffer state, since the whole point of recording the inverse at apply
// time is to make undo exact even if later edits would make a fresh
// diff ambiguous.
type TransactionCommand struct {
	desc    string
	forward *edittx.Transaction
	inverse *edittx.Transaction

	// PreSelections/PostSelections are the selection sets immediately
	// before and after the transaction applied. Undo restores
	// PreSelections verbatim rather than re-deriving it from the rebased
	// ranges (a mode's `current` may canonicalize differently on replay);
	// Execute records PostSelections and leaves the cursors as the forward
	// transaction rebases them.
	PreSelections  *selection.SelectionSet
	PostSelections *selection.SelectionSet
}

// NewTransactionCommand wraps tx for the history stack. desc is the
// description shown by UndoInfo/RedoInfo (spec §4.8 doesn't surface this
// to the user directly yet, but the teacher's History.UndoInfo already
// expects every Command to report one).
func NewTransactionCommand(desc string, tx *edittx.Transaction) *TransactionCommand {
	return &TransactionCommand{desc: desc, forward: tx}
}

// Execute applies the forward transaction. On first Execute it also
// computes and caches the inverse (Undo needs it); subsequent calls
// (redo, after an Undo/Execute cycle) reuse the same forward/inverse
// pair since an exact undo restores the byte ranges the forward
// transaction was composed against.
func (c *TransactionCommand) Execute(buf *buffer.Buffer, cursors *selection.SelectionSet) error {
	applied, err := c.forward.Apply(buf, cursors, nil)
	if err != nil {
		return err
	}
	if c.inverse == nil {
		c.inverse = applied.Inverse
	}
	c.PostSelections = cursors.Clone()
	return nil
}

// Undo applies the cached inverse transaction, then restores
// PreSelections, when set, as the selection set.
func (c *TransactionCommand) Undo(buf *buffer.Buffer, cursors *selection.SelectionSet) error {
	if c.inverse == nil {
		return nil
	}
	if _, err := c.inverse.Apply(buf, cursors, nil); err != nil {
		return err
	}
	if c.PreSelections != nil {
		cursors.SetAll(c.PreSelections.All(), c.PreSelections.PrimaryCursor())
	}
	return nil
}

func (c *TransactionCommand) Description() string {
	if c.desc != "" {
		return c.desc
	}
	return "Transaction"
}

var _ Command = (*TransactionCommand)(nil)
