package selmode

import (
	"sort"

	"github.com/ki-editor/ki/internal/selection"
)

// externalMode is the shared implementation for every selection mode
// backed by an App-supplied candidate list rather than buffer structure
// (spec §4.5: Diagnostic, LspReference, GitHunk, Mark, Quickfix,
// LocalQuickfix). The App populates ctx.External[tag] (spec §4.10); here
// we only walk that list in document order. None of these are
// contiguous — their members are scattered, unrelated buffer positions.
type externalMode struct {
	tag selection.ModeTag
}

var (
	_ Mode = externalMode{}

	// DiagnosticMode selects compiler/linter diagnostic ranges.
	DiagnosticMode = externalMode{tag: "Diagnostic"}
	// LspReferenceMode selects LSP reference-search result ranges.
	LspReferenceMode = externalMode{tag: "LspReference"}
	// GitHunkMode selects version-control diff hunk ranges.
	GitHunkMode = externalMode{tag: "GitHunk"}
	// MarkMode selects user-placed marks.
	MarkMode = externalMode{tag: "Mark"}
	// QuickfixMode selects project-wide quickfix entries.
	QuickfixMode = externalMode{tag: "Quickfix"}
	// LocalQuickfixMode selects quickfix entries scoped to one buffer.
	LocalQuickfixMode = externalMode{tag: "LocalQuickfix"}
)

func (m externalMode) Tag() selection.ModeTag { return m.tag }
func (externalMode) IsContiguous() bool       { return false }

func (m externalMode) sorted(ctx *Context) []Sel {
	list := append([]Sel(nil), ctx.External[m.tag]...)
	sort.Slice(list, func(i, j int) bool { return list[i].Start() < list[j].Start() })
	return list
}

func (m externalMode) Current(ctx *Context, pos ByteOffset) (Sel, bool) {
	list := m.sorted(ctx)
	for _, s := range list {
		if s.ContainsInclusive(pos) {
			return s, true
		}
	}
	for _, s := range list {
		if s.Start() >= pos {
			return s, true
		}
	}
	if len(list) > 0 {
		return list[len(list)-1], true
	}
	return Sel{}, false
}

func (m externalMode) Next(ctx *Context, sel Sel) (Sel, bool) {
	for _, s := range m.sorted(ctx) {
		if s.Start() > sel.Start() {
			return s, true
		}
	}
	return Sel{}, false
}

func (m externalMode) Prev(ctx *Context, sel Sel) (Sel, bool) {
	list := m.sorted(ctx)
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Start() < sel.Start() {
			return list[i], true
		}
	}
	return Sel{}, false
}

func (m externalMode) First(ctx *Context, _ Sel) (Sel, bool) {
	list := m.sorted(ctx)
	if len(list) == 0 {
		return Sel{}, false
	}
	return list[0], true
}

func (m externalMode) Last(ctx *Context, _ Sel) (Sel, bool) {
	list := m.sorted(ctx)
	if len(list) == 0 {
		return Sel{}, false
	}
	return list[len(list)-1], true
}

// Up/Down are undefined: the candidate list has no visual-line relation.
func (externalMode) Up(ctx *Context, sel Sel) (Sel, bool)   { return Sel{}, false }
func (externalMode) Down(ctx *Context, sel Sel) (Sel, bool) { return Sel{}, false }

func (m externalMode) JumpTargets(ctx *Context, viewport Range) []Sel {
	return m.All(ctx, viewport)
}

func (m externalMode) All(ctx *Context, rng Range) []Sel {
	var out []Sel
	for _, s := range m.sorted(ctx) {
		if s.Start() >= rng.Start && s.End() <= rng.End {
			out = append(out, s)
		}
	}
	return out
}
