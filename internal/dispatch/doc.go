// Package dispatch is the closed tagged-value algebra the Editor
// consumes as its single choke point (spec §4.9): every user-facing
// action — from the keymap, a macro replay, a mouse event, or an
// external bridge — becomes one Dispatch value before the Editor ever
// sees it.
//
// Grounded on the teacher's internal/dispatcher package shape (a
// Router/Registry dispatching named actions to handlers), adapted from
// an open string-keyed action namespace to one closed Go tagged union,
// since spec §4.9 requires the family to be closed and enumerable, not
// extensible by string key the way the teacher's handler registry is.
package dispatch
