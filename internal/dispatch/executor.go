package dispatch

import (
	"fmt"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/movement"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

// modeFor resolves the active selection mode through the Editor's own
// closed registry (spec §9): the executor needs the concrete selmode.Mode
// to run movement.Resolve, but the registry itself lives in
// internal/editor and is unexported, so this goes through editor.LookupMode.
func modeFor(ed *editor.Editor) (selmode.Mode, error) {
	tag := ed.Selections().Mode()
	m, ok := editor.LookupMode(tag)
	if !ok {
		return nil, fmt.Errorf("dispatch: unknown selection mode %q: %w", tag, kierrors.ErrInvalidSelectionSet)
	}
	return m, nil
}

// Execute drives ed through d, the single choke point spec §4.9
// describes: every dispatched action reaches the Editor, Movement
// Engine and edittx smart-edit helpers only through this function. reg
// resolves KindRunCommand dispatches; it may be nil if the caller never
// issues RunCommand.
func Execute(ed *editor.Editor, reg *Registry, d Dispatch) error {
	count := d.Count
	if count < 1 {
		count = 1
	}

	switch d.Kind {
	case KindMove:
		return executeMove(ed, d, count)
	case KindSetMode:
		return ed.SetSelectionMode(d.Mode)
	case KindEnterSub:
		return ed.EnterSub(d.EnterSubMode, d.SubPolicy)
	case KindExitSub:
		ed.ExitSub()
		return nil
	case KindInsert:
		return executeInsert(ed, d)
	case KindDelete:
		return executeDelete(ed, d)
	case KindDeleteMenu:
		return executeDeleteMenu(ed, d, count)
	case KindChange:
		if err := executeDelete(ed, d); err != nil {
			return err
		}
		ed.EnterInsert(true)
		return nil
	case KindCopy:
		return executeCopy(ed, d)
	case KindPaste:
		return executePaste(ed, d)
	case KindReplace:
		return executeReplaceAll(ed, d)
	case KindRaise:
		return executeRaise(ed)
	case KindSurround:
		return executeSurround(ed, d)
	case KindJoin:
		return executeJoin(ed)
	case KindBreak:
		return executeBreak(ed)
	case KindTransform:
		return executeTransform(ed, d)
	case KindUndo:
		return ed.Undo()
	case KindRedo:
		return ed.Redo()
	case KindSave:
		return ed.Save(nil)
	case KindAddCursor:
		return executeAddCursor(ed, d)
	case KindSetSearch:
		ed.Context().Search = d.Search
		return nil
	case KindRunCommand:
		if reg == nil {
			return fmt.Errorf("dispatch: RunCommand: no registry configured")
		}
		return executeRunCommand(ed, reg, d)
	case KindOpenBuffer:
		return fmt.Errorf("dispatch: OpenBuffer is handled by internal/app, not the per-buffer Editor")
	case KindRevealLayout:
		// Pure query over current selections/cursors/marks; has no
		// buffer-mutating effect, so there is nothing for the Editor to
		// apply. A tui frontend reads Editor.Selections() directly to
		// render this instead of consuming an Execute side effect.
		return nil
	default:
		return fmt.Errorf("dispatch: unimplemented dispatch kind %d", d.Kind)
	}
}

// executeAddCursor implements AddCursor{direction|all|only_primary}
// (spec §4.9): Direction adds one cursor at the mode's Next/Prev of the
// primary selection, All replaces the set with every candidate the
// active mode reports over the whole buffer, OnlyPrimary collapses back
// to just the primary selection.
func executeAddCursor(ed *editor.Editor, d Dispatch) error {
	sels := ed.Selections()
	switch d.AddCursor {
	case AddCursorOnlyPrimary:
		primary := sels.Primary()
		sels.SetAll([]selection.Selection{primary}, primary.Active())
		return nil
	case AddCursorAll:
		mode, err := modeFor(ed)
		if err != nil {
			return err
		}
		all := mode.All(ed.Context(), selmode.Range{Start: 0, End: selmode.ByteOffset(len(ed.Buffer().Text()))})
		if len(all) == 0 {
			return fmt.Errorf("dispatch: AddCursor{all}: mode has no candidates")
		}
		sels.SetAll(all, all[0].Active())
		return nil
	default:
		mode, err := modeFor(ed)
		if err != nil {
			return err
		}
		primary := sels.Primary()
		var next selection.Selection
		var ok bool
		if d.Direction == DirPrevious {
			next, ok = mode.Prev(ed.Context(), primary)
		} else {
			next, ok = mode.Next(ed.Context(), primary)
		}
		if !ok {
			return fmt.Errorf("dispatch: AddCursor: %w", kierrors.ErrNoMoreSelection)
		}
		sels.Insert(next)
		return nil
	}
}

func executeMove(ed *editor.Editor, d Dispatch, count int) error {
	mode, err := modeFor(ed)
	if err != nil {
		return err
	}
	ctx := ed.Context()
	sels := ed.Selections()

	if d.Verb == movement.VerbJump {
		res, err := movement.Resolve(ctx, mode, selection.NewCursorSelection(sels.Primary().Active()), movement.Request{
			Verb: movement.VerbJump, Sub: d.Sub, Jump: d.Jump,
		})
		if err != nil {
			return err
		}
		sels.SetAll([]selection.Selection{res.Sel}, res.Sel.Active())
		return nil
	}

	// MultiCursor adds a cursor at the primary's resolved target instead of
	// moving any existing selection; Insert makes the new one primary.
	if d.Sub == movement.SubMultiCursor {
		res, err := movement.Resolve(ctx, mode, sels.Primary(), movement.Request{Verb: d.Verb, Sub: d.Sub})
		if err != nil {
			return err
		}
		sels.Insert(res.Sel)
		return nil
	}

	updated := make([]selection.Selection, sels.Count())
	var lastTx *edittx.Transaction
	var primaryActive selection.ByteOffset
	for i := 0; i < sels.Count(); i++ {
		cur := sels.Get(i)
		for n := 0; n < count; n++ {
			res, err := movement.Resolve(ctx, mode, cur, movement.Request{Verb: d.Verb, Sub: d.Sub})
			if err != nil {
				if n > 0 {
					break // partial count progress keeps what it already resolved
				}
				return err
			}
			cur = res.Sel
			if res.Transaction != nil {
				lastTx = res.Transaction
			}
		}
		updated[i] = cur
		if i == sels.PrimaryIndex() {
			primaryActive = cur.Active()
		}
	}

	if lastTx != nil {
		return ed.ApplyTransaction("swap", lastTx)
	}
	sels.SetAll(updated, primaryActive)
	return nil
}

func executeInsert(ed *editor.Editor, d Dispatch) error {
	sels := ed.Selections()
	edits := make([]edittx.Edit, 0, sels.Count())
	for _, s := range sels.All() {
		edits = append(edits, edittx.Edit{Range: buffer.Range{Start: s.Active(), End: s.Active()}, NewText: d.Text})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("insert", tx)
}

func executeDelete(ed *editor.Editor, d Dispatch) error {
	sels := ed.Selections()
	mode, err := modeFor(ed)
	if err != nil {
		return err
	}
	text := ed.Buffer().Text()
	all := sels.All()
	edits := make([]edittx.Edit, 0, len(all))
	for _, s := range all {
		r := s.Range
		if mode.IsContiguous() {
			if nbr, ok := mode.Next(ed.Context(), s); ok {
				r = edittx.AbsorbSeparatorGap(text, r, nbr.Range, true)
			} else if prv, ok := mode.Prev(ed.Context(), s); ok {
				r = edittx.AbsorbSeparatorGap(text, r, prv.Range, false)
			}
		}
		edits = append(edits, edittx.Edit{Range: r, NewText: ""})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("delete", tx)
}

// executeDeleteMenu implements DeleteMenu{movement} (spec §4.9): unlike
// Delete{direction}, which deletes the mode's own current range, this
// deletes the span between each selection's current position and where
// d.Verb/d.Sub would move it — the DeleteMenu sub-mode's "d{motion}"
// gesture — without changing the active selection mode.
func executeDeleteMenu(ed *editor.Editor, d Dispatch, count int) error {
	mode, err := modeFor(ed)
	if err != nil {
		return err
	}
	ctx := ed.Context()
	sels := ed.Selections().All()
	edits := make([]edittx.Edit, 0, len(sels))
	for _, s := range sels {
		anchor := s.Active()
		cur := s
		for n := 0; n < count; n++ {
			res, err := movement.Resolve(ctx, mode, cur, movement.Request{Verb: d.Verb, Sub: d.Sub})
			if err != nil {
				if n > 0 {
					break
				}
				return err
			}
			cur = res.Sel
		}
		start, end := anchor, cur.Active()
		if start > end {
			start, end = end, start
		}
		edits = append(edits, edittx.Edit{Range: buffer.Range{Start: start, End: end}, NewText: ""})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("delete-menu", tx)
}

func executeCopy(ed *editor.Editor, d Dispatch) error {
	reg := d.Clipboard
	if reg == 0 {
		reg = '"'
	}
	text := ed.Buffer().Text()
	entries := make([]string, 0, ed.Selections().Count())
	for _, s := range ed.Selections().All() {
		entries = append(entries, text[s.Start():s.End()])
	}
	ed.Clipboard().Yank(reg, entries)
	return nil
}

func executePaste(ed *editor.Editor, d Dispatch) error {
	reg := d.Clipboard
	if reg == 0 {
		reg = '"'
	}
	entries := ed.Clipboard().Get(reg)
	if len(entries) == 0 {
		return fmt.Errorf("dispatch: paste: register %c is empty", reg)
	}
	sels := ed.Selections().All()
	edits := make([]edittx.Edit, 0, len(sels))
	for i, s := range sels {
		text := editor.EntryFor(entries, i, len(sels))
		pos := s.Start()
		if d.Direction == DirNext {
			pos = s.End()
		}
		edits = append(edits, edittx.Edit{Range: buffer.Range{Start: pos, End: pos}, NewText: text})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("paste", tx)
}

func executeRaise(ed *editor.Editor) error {
	ctx := ed.Context()
	if ctx.Tree == nil {
		return fmt.Errorf("dispatch: raise: %w", kierrors.ErrNoMatchingNode)
	}
	sel := ed.Selections().Primary()
	node, ok := ctx.Tree.SmallestNodeContaining(sel.Range)
	if !ok {
		return fmt.Errorf("dispatch: raise: %w", kierrors.ErrNoMatchingNode)
	}
	tx, err := edittx.Raise(ed.Buffer().Text(), node)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("raise", tx)
}

// executeSurround implements Surround{delim} (spec §4.7): if the primary
// selection is already immediately enclosed by d.Delimiter, the gesture
// un-surrounds (removing the matching pair); otherwise it wraps every
// selection in d.Delimiter.
func executeSurround(ed *editor.Editor, d Dispatch) error {
	text := ed.Buffer().Text()
	primary := ed.Selections().Primary()
	enclosing := buffer.Range{Start: primary.Start() - selection.ByteOffset(len(d.Delimiter.Open)), End: primary.End() + selection.ByteOffset(len(d.Delimiter.Close))}
	if enclosing.Start >= 0 && int(enclosing.End) <= len(text) &&
		text[enclosing.Start:primary.Start()] == d.Delimiter.Open &&
		text[primary.End():enclosing.End] == d.Delimiter.Close {
		tx, err := edittx.Unsurround(text, enclosing)
		if err != nil {
			return err
		}
		return ed.ApplyTransaction("unsurround", tx)
	}

	tx, err := edittx.Surround(ed.Selections().Ranges(), d.Delimiter)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("surround", tx)
}

func executeJoin(ed *editor.Editor) error {
	text := ed.Buffer().Text()
	sels := ed.Selections().All()
	edits := make([]edittx.Edit, 0, len(sels))
	for _, s := range sels {
		lineMode := selmode.LineMode{}
		cur, ok := lineMode.Current(ed.Context(), s.Active())
		if !ok {
			continue
		}
		end := cur.End()
		if int(end) >= len(text) {
			continue
		}
		nlEnd := end
		for int(nlEnd) < len(text) && (text[nlEnd] == '\n' || text[nlEnd] == '\r' || text[nlEnd] == ' ' || text[nlEnd] == '\t') {
			nlEnd++
		}
		edits = append(edits, edittx.Edit{Range: buffer.Range{Start: end, End: nlEnd}, NewText: " "})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("join", tx)
}

func executeBreak(ed *editor.Editor) error {
	sels := ed.Selections().All()
	edits := make([]edittx.Edit, 0, len(sels))
	for _, s := range sels {
		edits = append(edits, edittx.Edit{Range: buffer.Range{Start: s.Active(), End: s.Active()}, NewText: "\n"})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("break", tx)
}

func executeTransform(ed *editor.Editor, d Dispatch) error {
	text := ed.Buffer().Text()
	sels := ed.Selections().All()
	edits := make([]edittx.Edit, 0, len(sels))
	for _, s := range sels {
		edits = append(edits, edittx.Edit{Range: s.Range, NewText: applyTransform(text[s.Start():s.End()], d.Transform)})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("transform", tx)
}
