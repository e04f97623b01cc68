// Package app is the App / Component Tree (spec §4.10): the process-wide
// owner of every live component (editors, prompts, the file explorer,
// completion popup, hover panel, info panel, quickfix list), each of
// which wraps its own internal/editor.Editor over some buffer so the
// same movement/selection-mode semantics apply everywhere. The App
// tracks focus, routes dispatches to the focused component, and owns
// the process-scoped state spec §4.10/§5 scope to it rather than to any
// one editor: the editor clipboard ring, marks, quickfix lists, and
// search configuration.
//
// Grounded on the teacher's own top-level wiring (internal/engine.Engine
// as the facade combining buffer/cursor/history/mode-manager, consulted
// through a dispatcher) generalized here into a tree of such facades
// with an explicit focus pointer, since the teacher models one editor
// instance where spec §4.10 requires many.
package app
