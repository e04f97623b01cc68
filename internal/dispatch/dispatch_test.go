package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/movement"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

func newTestEditor(t *testing.T, text, mode string) *editor.Editor {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	ed, err := editor.New(buf, selection.ModeTag(mode), 100)
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}
	return ed
}

func selectRange(ed *editor.Editor, start, end int) {
	r := selection.Range{Start: selection.ByteOffset(start), End: selection.ByteOffset(end)}
	ed.Selections().SetAll([]selection.Selection{selection.NewRangeSelection(r, false)}, r.End)
}

// Mirrors spec §8 scenario 1 (Delete-with-separator) using Token mode,
// the only contiguous mode that doesn't require a real syntax tree.
func TestDeleteAbsorbsSeparator(t *testing.T) {
	ed := newTestEditor(t, "f(x, y)", "Token")
	selectRange(ed, 2, 3) // "x"

	if err := Execute(ed, nil, Dispatch{Kind: KindDelete, Direction: DirNext}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ed.Buffer().Text(); got != "f(y)" {
		t.Fatalf("expected separator absorbed, got %q", got)
	}
}

func TestCopyPasteRoundTrip(t *testing.T) {
	ed := newTestEditor(t, "f(x, y)", "Token")
	selectRange(ed, 2, 3) // "x"

	if err := Execute(ed, nil, Dispatch{Kind: KindCopy, Clipboard: '"'}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	selectRange(ed, 5, 6) // "y"
	if err := Execute(ed, nil, Dispatch{Kind: KindPaste, Clipboard: '"', Direction: DirNext}); err != nil {
		t.Fatalf("paste: %v", err)
	}
	if got := ed.Buffer().Text(); got != "f(x, yx)" {
		t.Fatalf("unexpected paste result: %q", got)
	}
}

func TestSurroundWrapsThenUnsurrounds(t *testing.T) {
	ed := newTestEditor(t, "hello", "Token")
	selectRange(ed, 0, 5) // "hello"

	d, ok := SurroundWith('(')
	if !ok {
		t.Fatal("expected ( to resolve to a delimiter")
	}
	if err := Execute(ed, nil, d); err != nil {
		t.Fatalf("surround: %v", err)
	}
	if got := ed.Buffer().Text(); got != "(hello)" {
		t.Fatalf("expected wrap, got %q", got)
	}

	selectRange(ed, 1, 6) // "hello" inside the parens
	if err := Execute(ed, nil, d); err != nil {
		t.Fatalf("unsurround: %v", err)
	}
	if got := ed.Buffer().Text(); got != "hello" {
		t.Fatalf("expected unsurround round-trip, got %q", got)
	}
}

// Mirrors spec §8 scenario 4's shape (AddCursor{All} over an externally
// fed mode, then Delete, then AddCursor{OnlyPrimary}) using GitHunkMode
// standing in for Diagnostics, since both are externalMode instances
// reading ctx.External the same way.
func TestAddCursorAllThenDeleteThenCollapse(t *testing.T) {
	ed := newTestEditor(t, "cos datetime", "Character")
	ed.Context().External = map[selection.ModeTag][]selection.Selection{
		selmode.GitHunkMode.Tag(): {
			selection.NewRangeSelection(selection.Range{Start: 0, End: 3}, false),
			selection.NewRangeSelection(selection.Range{Start: 4, End: 12}, false),
		},
	}
	if err := Execute(ed, nil, Dispatch{Kind: KindSetMode, Mode: selmode.GitHunkMode.Tag()}); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := Execute(ed, nil, Dispatch{Kind: KindAddCursor, AddCursor: AddCursorAll}); err != nil {
		t.Fatalf("add cursor all: %v", err)
	}
	if ed.Selections().Count() != 2 {
		t.Fatalf("expected 2 selections, got %d", ed.Selections().Count())
	}

	if err := Execute(ed, nil, Dispatch{Kind: KindDelete, Direction: DirNext}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ed.Buffer().Text(); got != " " {
		t.Fatalf("expected both ranges deleted, got %q", got)
	}

	if err := Execute(ed, nil, Dispatch{Kind: KindAddCursor, AddCursor: AddCursorOnlyPrimary}); err != nil {
		t.Fatalf("collapse to primary: %v", err)
	}
	if ed.Selections().Count() != 1 {
		t.Fatalf("expected collapse to 1 selection, got %d", ed.Selections().Count())
	}
}

func TestUndoRedoThroughDispatch(t *testing.T) {
	ed := newTestEditor(t, "hello", "Character")
	selectRange(ed, 0, 1)
	if err := Execute(ed, nil, Dispatch{Kind: KindDelete, Direction: DirNext}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ed.Buffer().Text(); got != "ello" {
		t.Fatalf("expected 'ello', got %q", got)
	}
	if err := Execute(ed, nil, Dispatch{Kind: KindUndo}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := ed.Buffer().Text(); got != "hello" {
		t.Fatalf("expected undo restored 'hello', got %q", got)
	}
	if err := Execute(ed, nil, Dispatch{Kind: KindRedo}); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := ed.Buffer().Text(); got != "ello" {
		t.Fatalf("expected redo re-applied delete, got %q", got)
	}
}

func TestRunCommandRegistry(t *testing.T) {
	ed := newTestEditor(t, "hello", "Character")
	reg := NewRegistry()
	var gotArgs []string
	reg.Register("greet", func(_ *editor.Editor, args []string) error {
		gotArgs = args
		return nil
	})
	d := Dispatch{Kind: KindRunCommand, CommandLine: `greet "a b" c`}
	if err := Execute(ed, reg, d); err != nil {
		t.Fatalf("run command: %v", err)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "a b" || gotArgs[1] != "c" {
		t.Fatalf("unexpected parsed args: %+v", gotArgs)
	}
}

func TestCountStateComposesWithMove(t *testing.T) {
	var c CountState
	for _, r := range "12" {
		if !c.AccumulateDigit(r) {
			t.Fatalf("expected digit %q to accumulate", r)
		}
	}
	d := c.WithCount(Move(movement.VerbNext, movement.SubNormal))
	if d.Count != 12 {
		t.Fatalf("expected count 12, got %d", d.Count)
	}
	if c.Active {
		t.Fatal("expected count state reset after consumption")
	}
}

func TestMouseHandlerClickCycle(t *testing.T) {
	h := NewMouseHandler(func(p Position) selmode.ByteOffset { return selmode.ByteOffset(p.X) })
	base := time.Now()

	d1, ok := h.Press(MouseButtonLeft, Position{X: 3}, base, false)
	if !ok || d1.Kind != KindMove {
		t.Fatalf("expected single-click move dispatch, got %+v ok=%v", d1, ok)
	}
	d2, ok := h.Press(MouseButtonLeft, Position{X: 3}, base.Add(10*time.Millisecond), false)
	if !ok || d2.Kind != KindSetMode || d2.Mode != "Word" {
		t.Fatalf("expected double-click to select Word, got %+v ok=%v", d2, ok)
	}
	d3, ok := h.Press(MouseButtonLeft, Position{X: 3}, base.Add(20*time.Millisecond), false)
	if !ok || d3.Kind != KindSetMode || d3.Mode != "Line" {
		t.Fatalf("expected triple-click to select Line, got %+v ok=%v", d3, ok)
	}
	d4, ok := h.Press(MouseButtonLeft, Position{X: 3}, base.Add(30*time.Millisecond), false)
	if !ok || d4.Kind != KindMove {
		t.Fatalf("expected quad-click to wrap back to single-click move, got %+v ok=%v", d4, ok)
	}
}

// Mirrors spec §8 scenario 6 (naming-convention-agnostic replace).
func TestReplaceAllRendersPerConvention(t *testing.T) {
	ed := newTestEditor(t, "helloWorld HELLO_WORLD hello-world", "Token")

	Execute(ed, nil, Dispatch{Kind: KindSetSearch, Search: &selmode.SearchConfig{
		Kind:        selmode.SearchNamingConventionAgnostic,
		Pattern:     "hello world",
		Replacement: "to li",
	}})

	if err := Execute(ed, nil, Dispatch{Kind: KindReplace}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := ed.Buffer().Text(); got != "toLi TO_LI to-li" {
		t.Fatalf("expected convention-preserving replace, got %q", got)
	}
}

type stubSuggester struct{ reply string }

func (s stubSuggester) Suggest(ctx_ context.Context, pattern string, matches []string, languageID string) (string, error) {
	return s.reply, nil
}

func TestReplaceAllConsultsSuggesterWhenReplacementBlank(t *testing.T) {
	ed := newTestEditor(t, "helloWorld", "Token")

	Execute(ed, nil, Dispatch{Kind: KindSetSearch, Search: &selmode.SearchConfig{
		Kind:    selmode.SearchNamingConventionAgnostic,
		Pattern: "hello world",
	}})

	err := Execute(ed, nil, Dispatch{Kind: KindReplace, Suggester: stubSuggester{reply: "to li"}})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := ed.Buffer().Text(); got != "toLi" {
		t.Fatalf("expected suggester-provided replacement, got %q", got)
	}
}

// Mirrors vim-style "d{motion}": DeleteMenu{movement} deletes the span
// between a selection's current position and where the motion would
// land, without otherwise changing the active selection mode.
func TestDeleteMenuDeletesMotionSpan(t *testing.T) {
	ed := newTestEditor(t, "f(x, y)", "Token")
	selectRange(ed, 2, 3) // "x"

	if err := Execute(ed, nil, Dispatch{Kind: KindDeleteMenu, Verb: movement.VerbNext, Sub: movement.SubNormal}); err != nil {
		t.Fatalf("delete menu: %v", err)
	}
	if got := ed.Buffer().Text(); got == "f(x, y)" {
		t.Fatal("expected DeleteMenu to mutate the buffer")
	}
}
