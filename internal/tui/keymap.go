package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ki-editor/ki/internal/dispatch"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/movement"
)

// Action is what a key event resolves to: either a Dispatch the App
// should route to the focused Editor, or a direct mode transition
// (EnterInsert/ExitInsert/EnterSub/ExitSub are Editor methods, not
// Dispatch values composed with edittx.Transaction — dispatch.Execute
// calls them directly for KindChange too, so the keymap is consistent
// with the core's own treatment of mode transitions).
type Action struct {
	Dispatch          dispatch.Dispatch
	HasDispatch       bool
	EnterInsertBefore bool
	HasEnterInsert    bool
	ExitInsert        bool
	ExitSub           bool
	Quit              bool
}

// Keymap translates tcell key events into Actions, consulting the
// Editor's Mode/SubMode the way spec §4.8 describes Normal's transient
// sub-mode layers composing with the Move verb algebra.
type Keymap struct{}

// Translate resolves ev against ed's current mode. ok is false for keys
// the keymap has no binding for (left for the caller to ignore).
func (Keymap) Translate(ed *editor.Editor, ev *tcell.EventKey) (Action, bool) {
	if ed.Mode() == editor.ModeInsert {
		return translateInsert(ev)
	}
	return translateNormal(ed, ev)
}

func translateInsert(ev *tcell.EventKey) (Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return Action{ExitInsert: true}, true
	case tcell.KeyEnter:
		return insertText("\n"), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindDelete, Direction: dispatch.DirPrevious}, HasDispatch: true}, true
	case tcell.KeyTab:
		return insertText("\t"), true
	case tcell.KeyRune:
		return insertText(string(ev.Rune())), true
	default:
		return Action{}, false
	}
}

func insertText(s string) Action {
	return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindInsert, Text: s}, HasDispatch: true}
}

func translateNormal(ed *editor.Editor, ev *tcell.EventKey) (Action, bool) {
	if ev.Key() == tcell.KeyEscape {
		if ed.SubMode() != editor.SubNone {
			return Action{ExitSub: true}, true
		}
		return Action{}, false
	}
	if ev.Key() == tcell.KeyCtrlC {
		return Action{Quit: true}, true
	}
	if ev.Key() != tcell.KeyRune {
		return Action{}, false
	}

	sub := movementSubFor(ed)
	switch ev.Rune() {
	case 'i':
		return Action{HasEnterInsert: true, EnterInsertBefore: true}, true
	case 'a':
		return Action{HasEnterInsert: true, EnterInsertBefore: false}, true
	case 'h':
		return moveAction(movement.VerbPrevious, sub), true
	case 'l':
		return moveAction(movement.VerbNext, sub), true
	case 'j':
		return moveAction(movement.VerbDown, sub), true
	case 'k':
		return moveAction(movement.VerbUp, sub), true
	case 'x':
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindDelete, Direction: dispatch.DirNext}, HasDispatch: true}, true
	case 'c':
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindChange}, HasDispatch: true}, true
	case 'u':
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindUndo}, HasDispatch: true}, true
	case 'U':
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindRedo}, HasDispatch: true}, true
	case 'v':
		return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindEnterSub, EnterSubMode: editor.SubExtend, SubPolicy: editor.PolicyMenu}, HasDispatch: true}, true
	case 'q':
		return Action{Quit: true}, true
	default:
		return Action{}, false
	}
}

func moveAction(verb movement.Verb, sub movement.SubMode) Action {
	return Action{Dispatch: dispatch.Dispatch{Kind: dispatch.KindMove, Verb: verb, Sub: sub, Count: 1}, HasDispatch: true}
}

// movementSubFor maps the Editor's current transient sub-mode onto the
// four-case movement.SubMode the motion resolver composes with; only
// SubExtend has a Move-composable counterpart here (SubMultiCursor and
// SubSwap are entered through their own Dispatch gestures, not folded
// into an ordinary hjkl motion by this minimal keymap).
func movementSubFor(ed *editor.Editor) movement.SubMode {
	if ed.SubMode() == editor.SubExtend {
		return movement.SubExtend
	}
	return movement.SubNormal
}
