// Package tui is a reference terminal frontend over the editing core.
//
// It is one possible host, not a dependency of any other package in
// this module: everything it does funnels through *app.App.Dispatch,
// the same entry point a VS Code/JetBrains embedding would call over
// internal/hostbridge (spec §1: "TUI/host embeddings drive the core by
// submitting the same dispatch values"). Deleting this package would
// not change the editing core's behavior at all.
//
// It is deliberately thin next to the teacher's internal/renderer tree
// (layout, highlight, overlay, gutter, viewport and dirty-tracking all
// live there, dozens of files deep): a screen wrapper, a keymap that
// turns key events into dispatch.Dispatch values using the Editor's
// Mode/SubMode to decide how a raw key composes, and a render pass that
// draws buffer text and selection highlights. It proves out the host
// contract; it does not attempt to be a production editor UI.
package tui
