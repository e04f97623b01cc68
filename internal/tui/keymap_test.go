package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/movement"
)

func newTestEditor(t *testing.T, text string) *editor.Editor {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	ed, err := editor.New(buf, "Character", 100)
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}
	return ed
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTranslateNormalMoveKeys(t *testing.T) {
	ed := newTestEditor(t, "hello")
	a, ok := Keymap{}.Translate(ed, runeKey('l'))
	if !ok || !a.HasDispatch || a.Dispatch.Kind != dispatch.KindMove || a.Dispatch.Verb != movement.VerbNext {
		t.Fatalf("expected a Move(Next) dispatch, got %+v ok=%v", a, ok)
	}
}

func TestTranslateNormalIEntersInsertDirectly(t *testing.T) {
	ed := newTestEditor(t, "hello")
	a, ok := Keymap{}.Translate(ed, runeKey('i'))
	if !ok || !a.HasEnterInsert || !a.EnterInsertBefore {
		t.Fatalf("expected a before-cursor EnterInsert action, got %+v ok=%v", a, ok)
	}
}

func TestTranslateInsertModeRuneBecomesInsertDispatch(t *testing.T) {
	ed := newTestEditor(t, "")
	ed.EnterInsert(true)
	a, ok := Keymap{}.Translate(ed, runeKey('x'))
	if !ok || !a.HasDispatch || a.Dispatch.Kind != dispatch.KindInsert || a.Dispatch.Text != "x" {
		t.Fatalf("expected Insert(\"x\"), got %+v ok=%v", a, ok)
	}
}

func TestTranslateInsertEscapeExits(t *testing.T) {
	ed := newTestEditor(t, "")
	ed.EnterInsert(true)
	a, ok := Keymap{}.Translate(ed, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !ok || !a.ExitInsert {
		t.Fatalf("expected ExitInsert action, got %+v ok=%v", a, ok)
	}
}

func TestTranslateUnknownKeyIsIgnored(t *testing.T) {
	ed := newTestEditor(t, "hello")
	_, ok := Keymap{}.Translate(ed, runeKey('$'))
	if ok {
		t.Fatal("expected no binding for '$'")
	}
}
