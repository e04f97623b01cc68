package scripts

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// Engine backs Custom{id} selection modes (selmode.CustomEngine) and
// RunCommand{name,args} commands with Lua scripts, each isolated in its
// own sandboxed state (internal/plugin/lua kept one State per loaded
// plugin in the teacher; a Custom mode script and a command script here
// get the same one-state-per-registration isolation).
//
// A Custom mode script defines up to four globals:
//
//	current(text, pos)              -> {start=, finish=, backward=} | nil
//	next(text, start, finish)        -> {start=, finish=, backward=} | nil
//	prev(text, start, finish)        -> {start=, finish=, backward=} | nil
//	all(text, range_start, range_end) -> { {start=,finish=,backward=}, ... }
//
// A command script defines one global:
//
//	run(args) -> nil
//
// and sees a `ki` module (editor_api.go) for mutating the buffer the
// command was invoked against.
type Engine struct {
	mu       sync.Mutex
	modes    map[string]*state
	commands map[string]*commandScript
	closed   bool
}

// NewEngine creates an empty scripting engine.
func NewEngine() *Engine {
	return &Engine{
		modes:    make(map[string]*state),
		commands: make(map[string]*commandScript),
	}
}

// RegisterMode compiles source as a Custom{id} selection mode. source
// must define current/next/prev/all as described on Engine.
func (e *Engine) RegisterMode(id, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	st := newState()
	if err := st.doString(source); err != nil {
		st.close()
		return fmt.Errorf("scripts: registering mode %q: %w", id, err)
	}
	if old, ok := e.modes[id]; ok {
		old.close()
	}
	e.modes[id] = st
	return nil
}

// RegisterCommand compiles source as a RunCommand{name,args} backend,
// and returns a dispatch.CommandFunc a dispatch.Registry can register
// under name. source must define a `run(args)` global.
func (e *Engine) RegisterCommand(name, source string) (dispatch.CommandFunc, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	st := newState()
	cs := &commandScript{st: st}
	installKiModule(st, cs)
	if err := st.doString(source); err != nil {
		st.close()
		return nil, fmt.Errorf("scripts: registering command %q: %w", name, err)
	}
	if old, ok := e.commands[name]; ok {
		old.st.close()
	}
	e.commands[name] = cs
	return cs.run, nil
}

// Close releases every registered script's Lua state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for _, st := range e.modes {
		st.close()
	}
	for _, cs := range e.commands {
		cs.st.close()
	}
	e.closed = true
}

var _ selmode.CustomEngine = (*Engine)(nil)

func (e *Engine) lookup(id string) (*state, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.modes[id]
	return st, ok
}

// Current implements selmode.CustomEngine.
func (e *Engine) Current(id string, buf *buffer.Buffer, pos selmode.ByteOffset) (selmode.Sel, bool) {
	st, ok := e.lookup(id)
	if !ok {
		return selmode.Sel{}, false
	}
	return callSelFunc(st, "current", buf.Text(), int(pos), 0, false)
}

// Next implements selmode.CustomEngine.
func (e *Engine) Next(id string, buf *buffer.Buffer, sel selmode.Sel) (selmode.Sel, bool) {
	st, ok := e.lookup(id)
	if !ok {
		return selmode.Sel{}, false
	}
	return callSelFunc(st, "next", buf.Text(), int(sel.Start()), int(sel.End()), !sel.IsForward())
}

// Prev implements selmode.CustomEngine.
func (e *Engine) Prev(id string, buf *buffer.Buffer, sel selmode.Sel) (selmode.Sel, bool) {
	st, ok := e.lookup(id)
	if !ok {
		return selmode.Sel{}, false
	}
	return callSelFunc(st, "prev", buf.Text(), int(sel.Start()), int(sel.End()), !sel.IsForward())
}

// All implements selmode.CustomEngine.
func (e *Engine) All(id string, buf *buffer.Buffer, rng selmode.Range) []selmode.Sel {
	st, ok := e.lookup(id)
	if !ok {
		return nil
	}
	rets, err := st.call("all", lua.LString(buf.Text()), lua.LNumber(rng.Start), lua.LNumber(rng.End))
	if err != nil || len(rets) == 0 {
		return nil
	}
	tbl, ok := rets[0].(*lua.LTable)
	if !ok {
		return nil
	}
	arr, ok := tableToGo(tbl).([]any)
	if !ok {
		return nil
	}
	out := make([]selmode.Sel, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if sel, ok := selFromMap(m); ok {
			out = append(out, sel)
		}
	}
	return out
}

// callSelFunc calls fn(text, a, b, backward) and decodes a single
// {start=,finish=,backward=} table return into a Selection.
func callSelFunc(st *state, fn, text string, a, b int, backward bool) (selmode.Sel, bool) {
	rets, err := st.call(fn, lua.LString(text), lua.LNumber(a), lua.LNumber(b), lua.LBool(backward))
	if err != nil || len(rets) == 0 {
		return selmode.Sel{}, false
	}
	tbl, ok := rets[0].(*lua.LTable)
	if !ok {
		return selmode.Sel{}, false
	}
	m, ok := tableToGo(tbl).(map[string]any)
	if !ok {
		return selmode.Sel{}, false
	}
	return selFromMap(m)
}

func selFromMap(m map[string]any) (selmode.Sel, bool) {
	start, ok := tableInt(m, "start")
	if !ok {
		return selmode.Sel{}, false
	}
	finish, ok := tableInt(m, "finish")
	if !ok {
		return selmode.Sel{}, false
	}
	backward := tableBool(m, "backward")
	return selection.NewRangeSelection(selmode.Range{
		Start: selmode.ByteOffset(start),
		End:   selmode.ByteOffset(finish),
	}, backward), true
}

// commandScript pairs a RunCommand backend's Lua state with the editor
// it's currently bound to — set immediately before each run() call,
// since gopher-lua's single-threaded execution means the `ki` module's
// closures can safely read a shared pointer this way.
type commandScript struct {
	st  *state
	cur *editor.Editor
}

func (cs *commandScript) run(ed *editor.Editor, args []string) error {
	cs.cur = ed
	defer func() { cs.cur = nil }()

	argsTable := cs.st.L.NewTable()
	for i, a := range args {
		argsTable.RawSetInt(i+1, lua.LString(a))
	}

	_, err := cs.st.call("run", argsTable)
	return err
}
