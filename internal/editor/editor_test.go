package editor

import (
	"testing"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/edittx"
)

func newTestEditor(t *testing.T, text string) *Editor {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	e, err := New(buf, "Character", 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestApplyTransactionUndoRedo(t *testing.T) {
	e := newTestEditor(t, "hello world")
	tx, err := edittx.Compose([]edittx.Edit{{Range: buffer.Range{Start: 0, End: 5}, NewText: "howdy"}})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if err := e.ApplyTransaction("replace", tx); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := e.Buffer().Text(); got != "howdy world" {
		t.Fatalf("expected 'howdy world', got %q", got)
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Buffer().Text(); got != "hello world" {
		t.Fatalf("expected undo to restore 'hello world', got %q", got)
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := e.Buffer().Text(); got != "howdy world" {
		t.Fatalf("expected redo to restore 'howdy world', got %q", got)
	}
}

func TestEnterInsertAnchorsBeforeAndAfter(t *testing.T) {
	e := newTestEditor(t, "hello")
	if err := e.SetSelectionMode("Word"); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	e.EnterInsert(true)
	if e.Mode() != ModeInsert {
		t.Fatal("expected Insert mode")
	}
	if e.Selections().Primary().Start() != 0 {
		t.Fatalf("expected cursor anchored at selection start, got %d", e.Selections().Primary().Start())
	}
}

func TestExitInsertShrinksCharacterSelection(t *testing.T) {
	e := newTestEditor(t, "hello")
	e.EnterInsert(false)
	e.ExitInsert()
	if e.Mode() != ModeNormal {
		t.Fatal("expected Normal mode")
	}
}

func TestAlignViewportCyclesStably(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc\n")
	a1, _ := e.CycleAlignViewport()
	a2, _ := e.CycleAlignViewport()
	a3, _ := e.CycleAlignViewport()
	a4, _ := e.CycleAlignViewport()
	if a1 != AlignCenter || a2 != AlignBottom || a3 != AlignTop || a4 != AlignCenter {
		t.Fatalf("unexpected align cycle: %v %v %v %v", a1, a2, a3, a4)
	}
}

func TestSaveAppliesFormatterAndStabilizesSelection(t *testing.T) {
	e := newTestEditor(t, "foo(  )")
	err := e.Save(func(text string) (string, error) {
		return "foo()", nil
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := e.Buffer().Text(); got != "foo()" {
		t.Fatalf("expected formatted text, got %q", got)
	}
}

func TestClipboardYankAndPasteRotation(t *testing.T) {
	c := NewClipboardRing()
	c.Yank('a', []string{"one", "two"})
	if got := EntryFor(c.Get('a'), 0, 2); got != "one" {
		t.Fatalf("expected 'one', got %q", got)
	}
	if got := EntryFor(c.Get('0'), 1, 2); got != "two" {
		t.Fatalf("expected yank register entry 'two', got %q", got)
	}
}

func TestMacroRecordAndPlayback(t *testing.T) {
	r := NewMacroRecorder[string]()
	if err := r.StartRecording('a'); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Record("Move(Next)")
	r.Record("Delete")
	if got := r.StopRecording(); len(got) != 2 {
		t.Fatalf("expected 2 recorded events, got %d", len(got))
	}
	seq, err := r.Playback('a')
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if len(seq) != 2 || seq[0] != "Move(Next)" {
		t.Fatalf("unexpected playback sequence: %+v", seq)
	}
}
