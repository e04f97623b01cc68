package selmode

import "github.com/ki-editor/ki/internal/selection"

// CustomMode dispatches every query to ctx.Custom, the CustomEngine seam
// (spec §4.5 Custom{id}; spec §9's one runtime-registered exception to
// "polymorphism over selection modes is closed at compile time"). With
// no engine configured, every method reports false/empty rather than
// panicking, matching the rest of the family's "degenerate when the
// collaborator is absent" convention (see syntaxnode.go).
type CustomMode struct {
	ID string
}

var _ Mode = CustomMode{}

func (m CustomMode) Tag() selection.ModeTag { return selection.ModeTag("Custom{" + m.ID + "}") }
func (CustomMode) IsContiguous() bool       { return false }

func (m CustomMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	if ctx.Custom == nil {
		return Sel{}, false
	}
	return ctx.Custom.Current(m.ID, ctx.Buf, pos)
}

func (m CustomMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Custom == nil {
		return Sel{}, false
	}
	return ctx.Custom.Next(m.ID, ctx.Buf, sel)
}

func (m CustomMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	if ctx.Custom == nil {
		return Sel{}, false
	}
	return ctx.Custom.Prev(m.ID, ctx.Buf, sel)
}

func (m CustomMode) First(ctx *Context, _ Sel) (Sel, bool) {
	all := m.All(ctx, Range{Start: 0, End: ByteOffset(len(ctx.Buf.Text()))})
	if len(all) == 0 {
		return Sel{}, false
	}
	return all[0], true
}

func (m CustomMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	all := m.All(ctx, Range{Start: 0, End: ByteOffset(len(ctx.Buf.Text()))})
	if len(all) == 0 {
		return Sel{}, false
	}
	return all[len(all)-1], true
}

func (CustomMode) Up(ctx *Context, sel Sel) (Sel, bool)   { return Sel{}, false }
func (CustomMode) Down(ctx *Context, sel Sel) (Sel, bool) { return Sel{}, false }

func (m CustomMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m CustomMode) All(ctx *Context, rng Range) []Sel {
	if ctx.Custom == nil {
		return nil
	}
	return ctx.Custom.All(m.ID, ctx.Buf, rng)
}
