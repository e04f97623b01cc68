package dispatch

import (
	"context"

	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/movement"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// Kind is the closed tag of a Dispatch value (spec §4.9).
type Kind uint8

const (
	KindMove Kind = iota
	KindSetMode
	KindEnterSub
	KindExitSub
	KindInsert
	KindDelete
	KindDeleteMenu
	KindChange
	KindCopy
	KindPaste
	KindReplace
	KindRaise
	KindSurround
	KindJoin
	KindBreak
	KindTransform
	KindUndo
	KindRedo
	KindAddCursor
	KindSetSearch
	KindRunCommand
	KindOpenBuffer
	KindSave
	KindRevealLayout
)

// Direction parameterizes Delete{direction} and Paste{before|after}.
type Direction uint8

const (
	DirNext Direction = iota
	DirPrevious
)

// AddCursorKind parameterizes AddCursor{direction|all|only_primary}.
type AddCursorKind uint8

const (
	AddCursorDirection AddCursorKind = iota
	AddCursorAll
	AddCursorOnlyPrimary
)

// TransformKind is Transform{kind}'s closed set of text transforms.
type TransformKind uint8

const (
	TransformUppercase TransformKind = iota
	TransformLowercase
	TransformTitleCase
	TransformToggleCase
)

// RevealLayoutKind parameterizes RevealLayout{selections|cursors|marks}.
type RevealLayoutKind uint8

const (
	RevealSelections RevealLayoutKind = iota
	RevealCursors
	RevealMarks
)

// Dispatch is the closed tagged-value algebra spec §4.9 requires: every
// user-facing action, from whatever source (keymap, macro replay, mouse,
// host bridge), normalizes into exactly one of these before the Editor
// ever sees it.
type Dispatch struct {
	Kind Kind

	// Move
	Verb movement.Verb
	Sub  movement.SubMode
	Jump selmode.Sel

	// SetMode
	Mode selection.ModeTag

	// EnterSub: the Normal sub-mode to enter (Extend/MultiCursor/Swap/
	// DeleteMenu/Replace/FindOneChar/Surround — editor.SubMode's full set,
	// a strict superset of movement.SubMode's four Move-composition cases).
	EnterSubMode editor.SubMode
	SubPolicy    editor.SubmodePolicy

	// Insert
	Text string

	// Delete / Paste
	Direction Direction

	// Copy / Paste
	Clipboard rune

	// Surround
	Delimiter edittx.Delimiter

	// Transform
	Transform TransformKind

	// AddCursor
	AddCursor AddCursorKind

	// SetSearch
	Search *selmode.SearchConfig

	// Replace (KindReplace, "ReplaceAll" in spec §8 scenario 6): Ctx
	// bounds a Suggester call, Suggester is consulted only when the
	// active search's Replacement is left blank — every explicit-
	// replacement scenario never touches it.
	Ctx       context.Context
	Suggester RewriteSuggester

	// RunCommand
	Command     string
	CommandArgs []string
	CommandLine string // raw text, tokenized with shlex if CommandArgs is nil

	// OpenBuffer
	Path string

	// RevealLayout
	Layout RevealLayoutKind

	// Count is the repeat-count prefix (spec SPEC_FULL.md §C: "Count
	// prefixes (5j, 3dw) composing with the movement verb algebra").
	Count int
}

// Move builds a Move(verb) dispatch.
func Move(verb movement.Verb, sub movement.SubMode) Dispatch {
	return Dispatch{Kind: KindMove, Verb: verb, Sub: sub, Count: 1}
}

// SurroundWith builds a Surround{delim} dispatch from a trigger
// character, resolving it through edittx.CommonDelimiters the way a
// keymap would (typing `(` after entering the Surround sub-mode).
func SurroundWith(trigger rune) (Dispatch, bool) {
	d, ok := edittx.CommonDelimiters[trigger]
	if !ok {
		return Dispatch{}, false
	}
	return Dispatch{Kind: KindSurround, Delimiter: d}, true
}
