package editor

import (
	"fmt"
	"sync"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/history"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// Mode is the Editor's top-level mode (spec §4.8: "Normal, Insert").
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeInsert
)

// SubMode is one of Normal's transient layers (spec §4.8).
type SubMode uint8

const (
	SubNone SubMode = iota
	SubExtend
	SubMultiCursor
	SubSwap
	SubDeleteMenu
	SubReplace
	SubFindOneChar
	SubSurround
)

// SubmodePolicy governs whether a sub-mode ends when one action completes
// (PolicyMenu, menu semantics) or stays active until an explicit ExitSub
// (PolicyMomentary) — spec SPEC_FULL.md Open Question D.1, decided as
// configurable, default menu.
type SubmodePolicy uint8

const (
	PolicyMenu SubmodePolicy = iota
	PolicyMomentary
)

// modeRegistry maps a selection.ModeTag to its selmode.Mode
// implementation. Editor owns this registry rather than selmode itself,
// since selmode's package-level Mode values are plain structs with no
// shared lookup table (spec §9's "selection modes are closed at compile
// time" — the registry enumerates that closed set once, here).
var modeRegistry = map[selection.ModeTag]selmode.Mode{
	"Character":           selmode.CharacterMode{},
	"Word":                selmode.WordMode{},
	"Subword":              selmode.SubwordMode{},
	"Line":                selmode.LineMode{},
	"LineFull":             selmode.LineFullMode{},
	"Token":                selmode.TokenMode{},
	"SyntaxNode{coarse}":   selmode.SyntaxNodeMode{Variant: selmode.SyntaxCoarse},
	"SyntaxNode{fine}":     selmode.SyntaxNodeMode{Variant: selmode.SyntaxFine},
	"Find":                 selmode.FindMode{},
	selmode.DiagnosticMode.Tag():   selmode.DiagnosticMode,
	selmode.LspReferenceMode.Tag(): selmode.LspReferenceMode,
	selmode.GitHunkMode.Tag():      selmode.GitHunkMode,
	selmode.MarkMode.Tag():         selmode.MarkMode,
	selmode.QuickfixMode.Tag():     selmode.QuickfixMode,
	selmode.LocalQuickfixMode.Tag(): selmode.LocalQuickfixMode,
}

// RegisterCustomMode installs a Custom{id} mode into the shared registry
// (the one runtime-registered exception per spec §9).
func RegisterCustomMode(id string) {
	m := selmode.CustomMode{ID: id}
	modeRegistry[m.Tag()] = m
}

func lookupMode(tag selection.ModeTag) (selmode.Mode, bool) {
	m, ok := modeRegistry[tag]
	return m, ok
}

// LookupMode exposes the closed mode registry to collaborators outside
// this package (internal/dispatch's executor resolves the active mode
// the same way the Editor itself does, rather than keeping a second
// copy of the registry).
func LookupMode(tag selection.ModeTag) (selmode.Mode, bool) {
	return lookupMode(tag)
}

// ViewportAlign is the align-viewport cycle's current phase (spec §4.8:
// "Top -> Center -> Bottom, seeded by the first line of the primary
// selection; cycles stably regardless of buffer content").
type ViewportAlign uint8

const (
	AlignTop ViewportAlign = iota
	AlignCenter
	AlignBottom
)

func (a ViewportAlign) next() ViewportAlign {
	switch a {
	case AlignTop:
		return AlignCenter
	case AlignCenter:
		return AlignBottom
	default:
		return AlignTop
	}
}

// Editor is one buffer's state machine: buffer + selections + active
// selection mode + history, all behind one mutex-guarded facade
// (grounded on the teacher's engine.Engine, which combines the same
// concerns behind sync.RWMutex).
type Editor struct {
	mu sync.RWMutex

	buf  *buffer.Buffer
	sels *selection.SelectionSet
	ctx  *selmode.Context

	mode    Mode
	subMode SubMode
	policy  SubmodePolicy

	history   *history.History
	clipboard *ClipboardRing

	align ViewportAlign
}

// New creates an Editor over buf, with selections starting in mode
// modeTag at offset 0.
func New(buf *buffer.Buffer, modeTag selection.ModeTag, maxUndo int) (*Editor, error) {
	if _, ok := lookupMode(modeTag); !ok {
		return nil, fmt.Errorf("editor: unknown selection mode %q: %w", modeTag, kierrors.ErrInvalidSelectionSet)
	}
	return &Editor{
		buf:       buf,
		sels:      selection.NewSelectionSetAt(modeTag, 0),
		ctx:       &selmode.Context{Buf: buf},
		history:   history.NewHistory(maxUndo),
		clipboard: NewClipboardRing(),
	}, nil
}

// Context returns the selmode.Context modes are resolved against; callers
// populate Tree/Search/External/Custom on it as those collaborators
// become available.
func (e *Editor) Context() *selmode.Context { return e.ctx }

func (e *Editor) Buffer() *buffer.Buffer            { return e.buf }
func (e *Editor) Selections() *selection.SelectionSet { return e.sels }
func (e *Editor) Mode() Mode                        { return e.mode }
func (e *Editor) SubMode() SubMode                  { return e.subMode }
func (e *Editor) History() *history.History         { return e.history }

func (e *Editor) activeMode() selmode.Mode {
	m, _ := lookupMode(e.sels.Mode())
	return m
}

// SetSelectionMode switches the active selection mode and immediately
// refreshes every selection to that mode's canonical current() form.
func (e *Editor) SetSelectionMode(tag selection.ModeTag) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := lookupMode(tag)
	if !ok {
		return fmt.Errorf("editor: unknown selection mode %q: %w", tag, kierrors.ErrInvalidSelectionSet)
	}
	e.sels = e.sels.WithMode(tag)
	e.refreshLocked(m)
	return nil
}

// refreshLocked runs mode's current(active) over every selection, per
// spec §4.8: "On every selection-affecting action, the Editor runs the
// mode's current(active) to refresh the selection to canonical form."
func (e *Editor) refreshLocked(m selmode.Mode) {
	if m == nil {
		return
	}
	refreshed := e.sels.Map(func(s selection.Selection) selection.Selection {
		if canon, ok := m.Current(e.ctx, s.Active()); ok {
			return canon
		}
		return s
	})
	e.sels.SetAll(refreshed, e.sels.PrimaryCursor())
}

// EnterSub enters sub as the current sub-mode. Sub-modes are only
// entered from Normal (spec §4.8: "Sub-modes are entered from Normal only").
func (e *Editor) EnterSub(sub SubMode, policy SubmodePolicy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeNormal {
		return fmt.Errorf("editor: sub-modes only enter from Normal: %w", kierrors.ErrInvalidSelectionSet)
	}
	e.subMode = sub
	e.policy = policy
	return nil
}

// ExitSub returns to no sub-mode (explicit escape, or automatic
// "menu"-policy completion after one action — see NoteActionComplete).
func (e *Editor) ExitSub() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subMode = SubNone
}

// NoteActionComplete is called after a sub-mode-scoped action finishes;
// under PolicyMenu the sub-mode exits (menu semantics), under
// PolicyMomentary it stays active until ExitSub.
func (e *Editor) NoteActionComplete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subMode != SubNone && e.policy == PolicyMenu {
		e.subMode = SubNone
	}
}

// EnterInsert transitions Normal -> Insert, anchoring insertion before or
// after each current selection (spec §4.8: "Normal i/a -> Insert (anchor
// before/after each selection)").
func (e *Editor) EnterInsert(before bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = ModeInsert
	e.subMode = SubNone
	anchored := e.sels.Map(func(s selection.Selection) selection.Selection {
		if before {
			return selection.NewCursorSelection(s.Start())
		}
		return selection.NewCursorSelection(s.End())
	})
	e.sels.SetAll(anchored, e.sels.PrimaryCursor())
}

// ExitInsert transitions Insert -> Normal (spec §4.8: "Insert esc ->
// Normal; selection shrinks to one grapheme immediately before the caret
// (except Line/LineFull/Token/Word modes, which retain the selection
// before the caret)").
func (e *Editor) ExitInsert() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = ModeNormal

	switch e.sels.Mode() {
	case "Line", "LineFull", "Token", "Word":
		// retain the selection as-is
	default:
		char := selmode.CharacterMode{}
		shrunk := e.sels.Map(func(s selection.Selection) selection.Selection {
			if sel, ok := char.Prev(e.ctx, selection.NewCursorSelection(s.Active())); ok {
				return sel
			}
			return selection.NewCursorSelection(s.Active())
		})
		e.sels.SetAll(shrunk, e.sels.PrimaryCursor())
	}
}

// ApplyTransaction runs tx through history (so it becomes one undo
// entry), refreshes selections to the active mode's canonical form, and
// applies the configured sub-mode completion policy.
func (e *Editor) ApplyTransaction(desc string, tx *edittx.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := history.NewTransactionCommand(desc, tx)
	cmd.PreSelections = e.sels.Clone()
	if err := e.history.Execute(cmd, e.buf, e.sels); err != nil {
		return err
	}
	e.refreshLocked(e.activeMode())
	if e.subMode != SubNone && e.policy == PolicyMenu {
		e.subMode = SubNone
	}
	return nil
}

// Undo applies the inverse of the last transaction and restores its
// pre-action selection set.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.history.Undo(e.buf, e.sels); err != nil {
		return err
	}
	e.refreshLocked(e.activeMode())
	return nil
}

// Redo re-applies the last undone transaction.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.history.Redo(e.buf, e.sels); err != nil {
		return err
	}
	e.refreshLocked(e.activeMode())
	return nil
}

// CycleAlignViewport advances the align-viewport cycle and returns the
// new phase plus the line it should be seeded from (spec §4.8).
func (e *Editor) CycleAlignViewport() (ViewportAlign, uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.align = e.align.next()
	line := e.buf.OffsetToGraphemePosition(buffer.ByteOffset(e.sels.Primary().Active())).Line
	return e.align, line
}

// Formatter requests formatted text for the buffer's full content from
// an external collaborator (an LSP/formatter bridge; spec §4.8 "Save:
// requests formatting from the collaborator").
type Formatter func(text string) (string, error)

// Save runs fmt over the buffer's content, applies the result as one
// transaction if it differs, and re-runs the active mode's current() to
// stabilize selections on the new content (spec §4.8: "if applied, runs
// current again to stabilize selection on the new content").
func (e *Editor) Save(fmtFn Formatter) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if fmtFn == nil {
		return nil
	}
	before := e.buf.Text()
	after, err := fmtFn(before)
	if err != nil {
		return fmt.Errorf("editor: format failed: %w", err)
	}
	if after == before {
		return nil
	}

	tx, err := edittx.Compose([]edittx.Edit{{
		Range:   buffer.Range{Start: 0, End: buffer.ByteOffset(len(before))},
		NewText: after,
	}})
	if err != nil {
		return err
	}
	cmd := history.NewTransactionCommand("format on save", tx)
	cmd.PreSelections = e.sels.Clone()
	if err := e.history.Execute(cmd, e.buf, e.sels); err != nil {
		return err
	}
	e.refreshLocked(e.activeMode())
	return nil
}

// Clipboard exposes the Editor's named-register clipboard ring.
func (e *Editor) Clipboard() *ClipboardRing { return e.clipboard }
