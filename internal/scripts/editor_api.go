package scripts

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/ki-editor/ki/internal/dispatch"
)

// installKiModule registers the `ki` global table a RunCommand script
// sees, grounded on the teacher's internal/plugin/api.BufferModule
// pattern (one Lua-callable closure per Go method, registered under a
// module table) but routed through internal/dispatch.Execute instead of
// calling buffer/editor methods directly, so a scripted command composes
// with undo/redo and smart-edit absorption exactly like any other
// Dispatch the editor receives.
func installKiModule(st *state, cs *commandScript) {
	st.registerModule("ki", map[string]lua.LGFunction{
		"insert":          kiInsert(cs),
		"delete":          kiDelete(cs),
		"buffer_text":     kiBufferText(cs),
		"selection_text":  kiSelectionText(cs),
		"selection_count": kiSelectionCount(cs),
	})
}

func kiInsert(cs *commandScript) lua.LGFunction {
	return func(L *lua.LState) int {
		if cs.cur == nil {
			L.RaiseError("ki.insert: no active editor")
			return 0
		}
		text := L.CheckString(1)
		if err := dispatch.Execute(cs.cur, nil, dispatch.Dispatch{Kind: dispatch.KindInsert, Text: text}); err != nil {
			L.RaiseError("ki.insert: %v", err)
			return 0
		}
		return 0
	}
}

func kiDelete(cs *commandScript) lua.LGFunction {
	return func(L *lua.LState) int {
		if cs.cur == nil {
			L.RaiseError("ki.delete: no active editor")
			return 0
		}
		if err := dispatch.Execute(cs.cur, nil, dispatch.Dispatch{Kind: dispatch.KindDelete, Direction: dispatch.DirNext}); err != nil {
			L.RaiseError("ki.delete: %v", err)
			return 0
		}
		return 0
	}
}

func kiBufferText(cs *commandScript) lua.LGFunction {
	return func(L *lua.LState) int {
		if cs.cur == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(cs.cur.Buffer().Text()))
		return 1
	}
}

func kiSelectionText(cs *commandScript) lua.LGFunction {
	return func(L *lua.LState) int {
		if cs.cur == nil {
			L.Push(lua.LString(""))
			return 1
		}
		sel := cs.cur.Selections().Primary()
		L.Push(lua.LString(cs.cur.Buffer().TextRange(sel.Start(), sel.End())))
		return 1
	}
}

func kiSelectionCount(cs *commandScript) lua.LGFunction {
	return func(L *lua.LState) int {
		if cs.cur == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(cs.cur.Selections().Count()))
		return 1
	}
}
