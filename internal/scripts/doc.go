// Package scripts is the Lua scripting bridge spec §9 carves out as the
// one runtime-registered exception to selmode's otherwise closed,
// compile-time family of selection modes: Custom{id} dispatches through
// an Engine here, and RunCommand{name,args} commands can be backed by a
// registered Lua script instead of a Go CommandFunc.
//
// Grounded on the teacher's internal/plugin/lua package (State/Bridge/
// Executor) and internal/plugin/api's per-module registration pattern,
// scoped down from a full plugin host (hooks, manifests, capability
// security, LSP/UI modules) to exactly the two extension points the
// editing core exposes: a selection-mode query family and a command
// namespace.
package scripts
