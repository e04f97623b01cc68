package app

import (
	"fmt"
	"sync"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// BufferId identifies one open buffer by its normalized host-supplied
// URI (spec §6: "Buffer identity on wire: host-supplied URIs. The core
// stores a normalized path/URI per buffer").
type BufferId string

// bufferEntry is a buffer plus the identity/metadata the App tracks
// about it; the Buffer itself has no notion of path or language id
// (spec §1: "Buffer: Rope + tree-sitter tree handle + language id +
// dirty flag ..." — ownership is exclusively the Editor's, so App keeps
// the URI/language association alongside the Editor that owns the Buffer).
type bufferEntry struct {
	buf        *buffer.Buffer
	uri        string
	languageID string
}

// App is the process-wide owner of every live component (spec §4.10).
// Exactly one component is focused at a time; dispatches route to it.
type App struct {
	mu sync.Mutex

	buffers    map[BufferId]*bufferEntry
	editors    map[ComponentId]*editor.Editor
	components map[ComponentId]*Component
	focus      ComponentId
	root       ComponentId

	clipboard *editor.ClipboardRing
	marks     *MarkStore
	quickfix  []selection.Selection
	search    *selmode.SearchConfig
	scripting selmode.CustomEngine

	commands *dispatch.Registry
}

// New creates an App with no open buffers or components, backed by a
// marks/jump-list store persisted at marksDBPath (pass "" for a
// store file named after the current time in the working directory).
func New(marksDBPath string) (*App, error) {
	marks, err := OpenMarkStore(marksDBPath)
	if err != nil {
		return nil, fmt.Errorf("app: opening mark store: %w", err)
	}
	return &App{
		buffers:    make(map[BufferId]*bufferEntry),
		editors:    make(map[ComponentId]*editor.Editor),
		components: make(map[ComponentId]*Component),
		clipboard:  editor.NewClipboardRing(),
		marks:      marks,
		commands:   dispatch.NewRegistry(),
	}, nil
}

// Close releases the App's persisted resources.
func (a *App) Close() error {
	return a.marks.Close()
}

// Commands exposes the App-wide RunCommand registry every Editor's
// dispatches share.
func (a *App) Commands() *dispatch.Registry { return a.commands }

// Clipboard exposes the App-scoped editor clipboard ring (spec §4.10:
// "The App owns a process-wide editor clipboard").
func (a *App) Clipboard() *editor.ClipboardRing { return a.clipboard }

// OpenBuffer registers a buffer under uri (host identity) with initial
// content and language id, returning its BufferId. Re-opening an
// already-known uri returns the existing id without creating a second
// buffer (spec §1: "to view the same file twice, open two editors over
// the same underlying file identity").
func (a *App) OpenBuffer(uri, languageID, content string) BufferId {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := BufferId(uri)
	if _, ok := a.buffers[id]; !ok {
		a.buffers[id] = &bufferEntry{
			buf:        buffer.NewBufferFromString(content),
			uri:        uri,
			languageID: languageID,
		}
	}
	return id
}

// BufferURI returns the host URI a BufferId was opened under.
func (a *App) BufferURI(id BufferId) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.buffers[id]
	if !ok {
		return "", false
	}
	return e.uri, true
}

// NewComponent creates a component of kind over bufferID, parented under
// parent (pass "" for a root component), with its own Editor starting in
// modeTag. The new component receives focus only when no component is
// focused yet.
func (a *App) NewComponent(kind ComponentKind, bufferID BufferId, parent ComponentId, modeTag selection.ModeTag, maxUndo int) (ComponentId, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	be, ok := a.buffers[bufferID]
	if !ok {
		return "", fmt.Errorf("app: new component: %w", kierrors.ErrBufferNotFound)
	}
	ed, err := editor.New(be.buf, modeTag, maxUndo)
	if err != nil {
		return "", fmt.Errorf("app: new component: %w", err)
	}
	if a.scripting != nil {
		ed.Context().Custom = a.scripting
	}

	id := NewComponentId()
	c := &Component{ID: id, Kind: kind, BufferID: bufferID, Parent: parent}
	a.components[id] = c
	a.editors[id] = ed
	if parent != "" {
		if p, ok := a.components[parent]; ok {
			p.Children = append(p.Children, id)
		}
	} else if a.root == "" {
		a.root = id
	}
	if a.focus == "" {
		a.focus = id
	}
	return id, nil
}

// Editor returns the Editor backing component id.
func (a *App) Editor(id ComponentId) (*editor.Editor, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ed, ok := a.editors[id]
	return ed, ok
}

// Focus returns the currently focused component id.
func (a *App) Focus() ComponentId {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focus
}

// SetFocus moves focus to id.
func (a *App) SetFocus(id ComponentId) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.components[id]; !ok {
		return fmt.Errorf("app: set focus: unknown component %q", id)
	}
	a.focus = id
	return nil
}

// CloseComponent closes component id: focus transfers to its configured parent
// (or is cleared if it has none), and closing propagates to its
// children (spec §4.10: "Closing a component unfocuses and transfers
// focus to its configured parent; closing propagates to children").
func (a *App) CloseComponent(id ComponentId) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked(id)
}

func (a *App) closeLocked(id ComponentId) error {
	c, ok := a.components[id]
	if !ok {
		return fmt.Errorf("app: close: unknown component %q", id)
	}
	for _, child := range c.Children {
		if err := a.closeLocked(child); err != nil {
			return err
		}
	}
	delete(a.components, id)
	delete(a.editors, id)
	if p, ok := a.components[c.Parent]; ok {
		p.Children = removeID(p.Children, id)
	}
	if a.focus == id {
		if c.Parent != "" {
			a.focus = c.Parent
		} else {
			a.focus = ""
		}
	}
	return nil
}

func removeID(ids []ComponentId, target ComponentId) []ComponentId {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// SetSearch installs cfg as the App-scoped search configuration every
// Editor's Find mode reads from (spec §4.10/§5: search config is App-
// scoped, not per-editor), propagating it to every live Editor's Context.
func (a *App) SetSearch(cfg *selmode.SearchConfig) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search = cfg
	for _, ed := range a.editors {
		ed.Context().Search = cfg
	}
}

// SetScripting installs engine as the Custom{id} selection-mode backend
// every Editor's Context resolves scripted modes through (spec §9),
// propagating it to every live Editor the way SetSearch propagates a
// search config. internal/scripts.Engine satisfies this interface;
// passing nil disables scripted Custom modes for every future and
// existing component.
func (a *App) SetScripting(engine selmode.CustomEngine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scripting = engine
	for _, ed := range a.editors {
		ed.Context().Custom = engine
	}
}

// Quickfix returns the App-scoped quickfix list.
func (a *App) Quickfix() []selection.Selection {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]selection.Selection(nil), a.quickfix...)
}

// SetQuickfix replaces the App-scoped quickfix list and feeds it into
// every live Editor's Context.External so QuickfixMode can select it.
func (a *App) SetQuickfix(entries []selection.Selection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quickfix = entries
	for _, ed := range a.editors {
		if ed.Context().External == nil {
			ed.Context().External = make(map[selection.ModeTag][]selection.Selection)
		}
		ed.Context().External[selmode.QuickfixMode.Tag()] = entries
	}
}

// Dispatch routes d to the focused component's Editor, the choke point
// spec §4.9/§4.10 together describe: "user input -> keymap resolves to
// a Dispatch -> App routes to focused Editor."
func (a *App) Dispatch(d dispatch.Dispatch) error {
	a.mu.Lock()
	focus := a.focus
	reg := a.commands
	a.mu.Unlock()

	if d.Kind == dispatch.KindOpenBuffer {
		a.OpenBuffer(d.Path, "", "")
		return nil
	}

	ed, ok := a.Editor(focus)
	if !ok {
		return fmt.Errorf("app: dispatch: no focused component")
	}
	return dispatch.Execute(ed, reg, d)
}
