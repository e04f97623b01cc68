package scripts

import (
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a Lua state, grounded on the teacher's own defaults
// (internal/plugin/lua.State) — advisory only, since gopher-lua has no
// hard memory-limiting mechanism and an instruction-count check can only
// run between the VM's own bytecode dispatch steps.
const (
	DefaultInstructionLimit = 10_000_000
	DefaultExecutionTimeout = 5 * time.Second
)

// state wraps a single gopher-lua LState with the mutex and sandboxing
// the teacher's internal/plugin/lua.State uses: LState is not
// goroutine-safe, so every call into it is serialized here rather than
// behind the teacher's separate channel-based Executor, since a Custom
// mode query is always a short synchronous call with no need for a
// dedicated worker goroutine.
type state struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

func newState() *state {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	return &state{L: L}
}

// openSafeLibraries opens only the Lua standard libraries that can't
// reach outside the process (no io, os, debug, or package — identical
// exclusion list to the teacher's internal/plugin/lua.openSafeLibraries,
// since a Custom selection mode or RunCommand script has no legitimate
// reason to touch the filesystem or load arbitrary modules).
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func (s *state) doString(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrEngineClosed
	}
	return s.withRecover(func() error { return s.L.DoString(source) })
}

// call invokes the global Lua function fn with args, returning its
// return values as Go values via toGoValue. Mirrors the teacher's
// State.Call, trimmed to gopher-lua's LValue inputs since scripts.Engine
// always converts Go values to LValue before calling.
func (s *state) call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrEngineClosed
	}

	fnVal := s.L.GetGlobal(fn)
	if fnVal == lua.LNil {
		return nil, nil
	}
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("scripts: global %q: %w", fn, ErrNotAFunction)
	}

	top := s.L.GetTop()
	s.L.Push(fnVal)
	for _, a := range args {
		s.L.Push(a)
	}

	var callErr error
	if err := s.withRecover(func() error {
		return s.L.PCall(len(args), lua.MultRet, nil)
	}); err != nil {
		callErr = err
	}
	if callErr != nil {
		return nil, callErr
	}

	n := s.L.GetTop() - top
	if n <= 0 {
		return nil, nil
	}
	out := make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		out[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return out, nil
}

func (s *state) withRecover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scripts: lua panic: %v", r)
		}
	}()
	return fn()
}

func (s *state) registerModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

func (s *state) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
