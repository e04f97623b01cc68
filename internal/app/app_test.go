package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/scripts"
	"github.com/ki-editor/ki/internal/selection"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	a, err := New(filepath.Join(dir, "marks.bolt"))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpenBufferIsIdempotentByURI(t *testing.T) {
	a := newTestApp(t)
	id1 := a.OpenBuffer("file:///a.go", "go", "package a")
	id2 := a.OpenBuffer("file:///a.go", "go", "package a")
	if id1 != id2 {
		t.Fatalf("expected re-opening the same uri to return the same BufferId, got %q and %q", id1, id2)
	}
}

func TestDispatchRoutesToFocusedComponent(t *testing.T) {
	a := newTestApp(t)
	buf := a.OpenBuffer("file:///a.go", "go", "hello world")
	comp, err := a.NewComponent(ComponentEditor, buf, "", "Character", 100)
	if err != nil {
		t.Fatalf("new component: %v", err)
	}
	if a.Focus() != comp {
		t.Fatalf("expected new component to receive focus by default")
	}

	ed, _ := a.Editor(comp)
	ed.Selections().SetAll([]selection.Selection{selection.NewRangeSelection(selection.Range{Start: 0, End: 5}, false)}, 5)

	if err := a.Dispatch(dispatch.Dispatch{Kind: dispatch.KindDelete, Direction: dispatch.DirNext}); err != nil {
		t.Fatalf("dispatch delete: %v", err)
	}
	if got := ed.Buffer().Text(); got != " world" {
		t.Fatalf("expected delete to apply to the focused editor, got %q", got)
	}
}

func TestCloseComponentTransfersFocusToParent(t *testing.T) {
	a := newTestApp(t)
	buf := a.OpenBuffer("file:///a.go", "go", "x")
	parent, err := a.NewComponent(ComponentEditor, buf, "", "Character", 10)
	if err != nil {
		t.Fatalf("new parent: %v", err)
	}
	child, err := a.NewComponent(ComponentPrompt, buf, parent, "Character", 10)
	if err != nil {
		t.Fatalf("new child: %v", err)
	}
	if err := a.SetFocus(child); err != nil {
		t.Fatalf("set focus: %v", err)
	}
	if err := a.CloseComponent(child); err != nil {
		t.Fatalf("close child: %v", err)
	}
	if a.Focus() != parent {
		t.Fatalf("expected focus to transfer to parent %q, got %q", parent, a.Focus())
	}
	if _, ok := a.Editor(child); ok {
		t.Fatal("expected closed child's editor to be gone")
	}
}

func TestCloseComponentPropagatesToChildren(t *testing.T) {
	a := newTestApp(t)
	buf := a.OpenBuffer("file:///a.go", "go", "x")
	parent, _ := a.NewComponent(ComponentEditor, buf, "", "Character", 10)
	child, _ := a.NewComponent(ComponentHoverPanel, buf, parent, "Character", 10)

	if err := a.CloseComponent(parent); err != nil {
		t.Fatalf("close parent: %v", err)
	}
	if _, ok := a.Editor(child); ok {
		t.Fatal("expected child to be closed along with its parent")
	}
}

func TestMarkStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.bolt")
	s1, err := OpenMarkStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Put(PersistedMark{ID: "m1", BufferURI: "file:///a.go"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := OpenMarkStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	marks, err := s2.ForBuffer("file:///a.go")
	if err != nil {
		t.Fatalf("for buffer: %v", err)
	}
	if len(marks) != 1 || marks[0].ID != "m1" {
		t.Fatalf("expected persisted mark to survive reopen, got %+v", marks)
	}
}

func TestListProjectFilesMatchesGlob(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.go"), "")
	mustWrite(t, filepath.Join(dir, "b.txt"), "")
	os.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	mustWrite(t, filepath.Join(dir, "sub", "c.go"), "")

	files, err := ListProjectFiles(dir, "**/*.go", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 .go files, got %v", files)
	}
}

func TestLanguageForMatchesFilenameGlob(t *testing.T) {
	assocs := []LanguageAssociation{{Glob: "*.rs", LanguageID: "rust"}, {Glob: "*.go", LanguageID: "go"}}
	lang, ok := LanguageFor("main.rs", assocs)
	if !ok || lang != "rust" {
		t.Fatalf("expected rust, got %q ok=%v", lang, ok)
	}
}

func TestSetScriptingPropagatesToExistingAndNewEditors(t *testing.T) {
	a := newTestApp(t)
	buf := a.OpenBuffer("file:///a.go", "go", "hello")
	existing, err := a.NewComponent(ComponentEditor, buf, "", "Character", 100)
	if err != nil {
		t.Fatalf("new component: %v", err)
	}

	engine := scripts.NewEngine()
	t.Cleanup(engine.Close)
	a.SetScripting(engine)

	ed, ok := a.Editor(existing)
	if !ok || ed.Context().Custom == nil {
		t.Fatal("expected SetScripting to populate the already-live editor's Context.Custom")
	}

	fresh, err := a.NewComponent(ComponentEditor, buf, "", "Character", 100)
	if err != nil {
		t.Fatalf("new component after SetScripting: %v", err)
	}
	ed2, ok := a.Editor(fresh)
	if !ok || ed2.Context().Custom == nil {
		t.Fatal("expected a component created after SetScripting to start with Context.Custom populated")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
