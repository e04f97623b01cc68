// Package editor is the per-buffer state machine (spec §4.8): Normal and
// Insert modes, Normal's transient sub-modes, undo/redo, the
// align-viewport cycle, and save-with-format.
//
// Modeled on the teacher's internal/engine.Engine facade: one
// mutex-guarded struct combining buffer, selections, and history behind
// a small method surface, generalized here to also carry the active
// selection mode and sub-mode stack the teacher's engine never needed
// (it had no selection-mode or sub-mode concept at all).
package editor
