package scripts

import (
	"testing"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// vowelMode is a minimal Custom{id} script: current/next/prev select the
// nearest vowel run; all returns every vowel run in the buffer.
const vowelMode = `
local function is_vowel(c)
  return c == "a" or c == "e" or c == "i" or c == "o" or c == "u"
end

local function run_at(text, pos)
  if pos >= #text then pos = #text - 1 end
  if pos < 0 then return nil end
  local c = text:sub(pos+1, pos+1)
  if not is_vowel(c) then return nil end
  local s, f = pos, pos
  while s > 0 and is_vowel(text:sub(s, s)) do s = s - 1 end
  if not is_vowel(text:sub(s+1, s+1)) then s = s + 1 end
  while f < #text - 1 and is_vowel(text:sub(f+2, f+2)) do f = f + 1 end
  return {start = s, finish = f + 1, backward = false}
end

function current(text, pos)
  return run_at(text, pos)
end

function next(text, start, finish)
  for i = finish, #text - 1 do
    local r = run_at(text, i)
    if r then return r end
  end
  return nil
end

function all(text, range_start, range_end)
  local out = {}
  local i = range_start
  while i < range_end do
    local r = run_at(text, i)
    if r and (#out == 0 or out[#out].finish <= r.start) then
      table.insert(out, r)
      i = r.finish
    else
      i = i + 1
    end
  end
  return out
end
`

const greetCommand = `
function run(args)
  ki.insert(args[1] or "hi")
end
`

func TestRegisterModeCurrentResolvesVowelRun(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	if err := e.RegisterMode("vowels", vowelMode); err != nil {
		t.Fatalf("register mode: %v", err)
	}

	buf := buffer.NewBufferFromString("sky")
	sel, ok := e.Current("vowels", buf, 0)
	if ok {
		t.Fatalf("expected no vowel at offset 0 in %q, got %+v", "sky", sel)
	}

	buf2 := buffer.NewBufferFromString("boat")
	sel2, ok := e.Current("vowels", buf2, 1)
	if !ok {
		t.Fatal("expected a vowel run at offset 1 in 'boat'")
	}
	if sel2.Start() != 1 || sel2.End() != 3 {
		t.Fatalf("expected range [1,3), got [%d,%d)", sel2.Start(), sel2.End())
	}
}

func TestRegisterModeAllFindsEveryRun(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	if err := e.RegisterMode("vowels", vowelMode); err != nil {
		t.Fatalf("register mode: %v", err)
	}

	buf := buffer.NewBufferFromString("boat race")
	all := e.All("vowels", buf, selmode.Range{Start: 0, End: selmode.ByteOffset(buf.Len())})
	if len(all) != 3 {
		t.Fatalf("expected 3 vowel runs (oa, a, e), got %d: %+v", len(all), all)
	}
}

func TestRegisterModeUnknownIDReturnsFalse(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	buf := buffer.NewBufferFromString("x")
	if _, ok := e.Current("nope", buf, 0); ok {
		t.Fatal("expected unregistered id to resolve to nothing")
	}
}

func TestRegisterCommandInvokesKiModule(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	cmd, err := e.RegisterCommand("greet", greetCommand)
	if err != nil {
		t.Fatalf("register command: %v", err)
	}

	buf := buffer.NewBufferFromString("")
	ed, err := editor.New(buf, selection.ModeTag("Token"), 100)
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}

	if err := cmd(ed, []string{"hello"}); err != nil {
		t.Fatalf("run greet: %v", err)
	}
	if got := ed.Buffer().Text(); got != "hello" {
		t.Fatalf("expected 'hello' inserted, got %q", got)
	}
}

func TestRegisterCommandWiresIntoDispatchRegistry(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	cmd, err := e.RegisterCommand("greet", greetCommand)
	if err != nil {
		t.Fatalf("register command: %v", err)
	}

	reg := dispatch.NewRegistry()
	reg.Register("greet", cmd)

	buf := buffer.NewBufferFromString("")
	ed, err := editor.New(buf, selection.ModeTag("Token"), 100)
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}

	d := dispatch.Dispatch{Kind: dispatch.KindRunCommand, CommandLine: `greet world`}
	if err := dispatch.Execute(ed, reg, d); err != nil {
		t.Fatalf("execute run command: %v", err)
	}
	if got := ed.Buffer().Text(); got != "world" {
		t.Fatalf("expected 'world' inserted via dispatch, got %q", got)
	}
}
