package tui

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/ki-editor/ki/internal/app"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/klog"
)

// ErrQuit is returned by Run when the user asked to quit, grounded on
// the teacher's cmd/keystorm/main.go checking errors.Is(err, app.ErrQuit)
// around its own Run call.
var ErrQuit = errors.New("tui: quit")

// Driver owns the terminal screen and pumps tcell events through a
// Keymap into *app.App.Dispatch — the thin loop every frontend over
// this module's editing core is expected to look like.
type Driver struct {
	screen *Screen
	app    *app.App
	keymap Keymap
	log    *klog.Logger
}

// NewDriver opens the terminal and wraps a, ready to Run.
func NewDriver(a *app.App, log *klog.Logger) (*Driver, error) {
	s, err := NewScreen(log)
	if err != nil {
		return nil, err
	}
	return &Driver{screen: s, app: a, log: log}, nil
}

// Close releases the terminal.
func (d *Driver) Close() {
	d.screen.Close()
}

// Run drives the focused component until the user quits. It returns
// ErrQuit on a normal quit gesture.
func (d *Driver) Run() error {
	for {
		ed, ok := d.app.Editor(d.app.Focus())
		if !ok {
			return errors.New("tui: no focused component")
		}
		Render(d.screen, ed)

		ev := d.screen.PollEvent()
		switch tev := ev.(type) {
		case *tcell.EventResize:
			d.screen.Sync()
		case *tcell.EventKey:
			if err := d.handleKey(ed, tev); err != nil {
				if errors.Is(err, ErrQuit) {
					return err
				}
				d.log.Warn("tui: dispatch error: %v", err)
			}
		}
	}
}

func (d *Driver) handleKey(ed *editor.Editor, ev *tcell.EventKey) error {
	action, ok := d.keymap.Translate(ed, ev)
	if !ok {
		return nil
	}

	switch {
	case action.Quit:
		return ErrQuit
	case action.HasEnterInsert:
		ed.EnterInsert(action.EnterInsertBefore)
		return nil
	case action.ExitInsert:
		ed.ExitInsert()
		return nil
	case action.ExitSub:
		ed.ExitSub()
		return nil
	case action.HasDispatch:
		return d.app.Dispatch(action.Dispatch)
	default:
		return nil
	}
}
