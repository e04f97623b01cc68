package scripts

import lua "github.com/yuin/gopher-lua"

// toGoValue converts a Lua value into a plain Go value (bool, int64,
// float64, string, []any, or map[string]any), grounded on the teacher's
// internal/plugin/lua.Bridge.ToGoValue. Trimmed to drop userdata and
// reflection-based struct conversion, which Custom mode scripts and
// RunCommand handlers never need — every value crossing this boundary
// is a selection range, a byte offset, buffer text, or a command's
// string arguments.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a Go slice (if it's a contiguous
// 1-based array) or a map[string]any otherwise.
func tableToGo(t *lua.LTable) any {
	maxN := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		n, ok := k.(lua.LNumber)
		if !ok || float64(int(n)) != float64(n) || int(n) <= 0 {
			isArray = false
			return
		}
		if int(n) > maxN {
			maxN = int(n)
		}
	})
	if isArray && maxN > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == maxN {
			out := make([]any, maxN)
			for i := 1; i <= maxN; i++ {
				out[i-1] = toGoValue(t.RawGetInt(i))
			}
			return out
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoValue(v)
	})
	return m
}

// toLuaValue converts a Go value into a Lua value, grounded on the
// teacher's Bridge.ToLuaValue and trimmed to the scalar/slice/map cases
// this package's call sites actually produce.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	default:
		return lua.LNil
	}
}

// tableInt reads an integer field from a Lua table return value.
func tableInt(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func tableBool(m map[string]any, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}
