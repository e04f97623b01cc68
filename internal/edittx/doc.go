// Package edittx implements the atomic, invertible, rebase-driving edit
// transaction that every structural mutation in the editing core goes
// through (spec §4.7). A Transaction is an ordered list of disjoint
// pre-edit-range Edits; applying one to a Buffer yields the Transaction
// that would undo it and rebases a caller-supplied SelectionSet across
// the edit.
//
// Grounded on the teacher's internal/engine/history package, which
// already carries the "operation + inverse" shape this package
// generalizes into a multi-edit, rebase-aware transaction rather than a
// single-range undo Operation.
package edittx
