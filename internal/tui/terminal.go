package tui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/ki-editor/ki/internal/klog"
)

// Screen wraps a tcell.Screen, grounded on the teacher's
// internal/renderer/backend.Terminal but trimmed to direct tcell use:
// this package has no Backend abstraction to satisfy, since it is the
// only frontend in this module.
type Screen struct {
	screen tcell.Screen
	log    *klog.Logger
}

// NewScreen opens the controlling terminal as a tcell.Screen.
func NewScreen(log *klog.Logger) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tui: new screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("tui: init screen: %w", err)
	}
	s.EnableMouse()
	s.EnablePaste()
	return &Screen{screen: s, log: log}, nil
}

// Close restores the terminal to its pre-init state.
func (s *Screen) Close() {
	s.screen.Fini()
}

// Size returns the current terminal dimensions in cells.
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// PollEvent blocks for the next tcell event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// SetCell draws a single cell.
func (s *Screen) SetCell(x, y int, ch rune, style tcell.Style) {
	s.screen.SetContent(x, y, ch, nil, style)
}

// ShowCursor places the terminal cursor at (x, y); a negative y hides it.
func (s *Screen) ShowCursor(x, y int) {
	if y < 0 {
		s.screen.HideCursor()
		return
	}
	s.screen.ShowCursor(x, y)
}

// Clear blanks the screen.
func (s *Screen) Clear() { s.screen.Clear() }

// Sync forces a full repaint, for use after a resize event.
func (s *Screen) Sync() { s.screen.Sync() }

// Show flushes pending draws to the terminal.
func (s *Screen) Show() { s.screen.Show() }

// ProbeStdoutSize reports the controlling terminal's size without going
// through tcell, for diagnostics printed before the screen takes over
// (cmd/ki's --print-size flag). It tries golang.org/x/term first, since
// that is the conventional path, and falls back to a direct
// golang.org/x/sys/unix TIOCGWINSZ ioctl against stdout's fd when
// x/term reports stdout isn't a terminal (e.g. it's been wrapped by
// something that only answers the raw ioctl).
func ProbeStdoutSize() (cols, rows int, err error) {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		return term.GetSize(fd)
	}
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("tui: probe stdout size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}
