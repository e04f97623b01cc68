// Package history implements undo/redo as a stack of reversible
// commands, each capable of re-applying or inverting itself against a
// buffer and cursor set.
//
// # Operations and commands
//
// An Operation pairs a modified Range with its old/new text and the
// cursor positions immediately before and after, which is enough state
// to replay an edit in either direction. A Command wraps one or more
// Operations behind Execute/Undo; TransactionCommand (see
// transaction_command.go) is the one every Editor mutation actually
// goes through, wrapping an edittx.Transaction's recorded ops rather
// than the engine's own insert/delete/replace command constructors
// directly.
//
// # Stack and grouping
//
//	h := history.NewHistory(1000) // cap on undo entries
//	h.Execute(cmd, buf, cursors)
//	h.Undo(buf, cursors)
//	h.Redo(buf, cursors)
//
// Commands issued between BeginGroup/EndGroup collapse into one undo
// step, so a multi-cursor edit or a find-and-replace sweep undoes as a
// single unit rather than one step per cursor.
package history
