package movement

import (
	"testing"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/selection"
	"github.com/ki-editor/ki/internal/selmode"
)

func ctxFor(text string) *selmode.Context {
	return &selmode.Context{Buf: buffer.NewBufferFromString(text)}
}

func TestResolveNextMovesWord(t *testing.T) {
	ctx := ctxFor("foo bar baz")
	mode := selmode.WordMode{}
	sel, ok := mode.Current(ctx, 0)
	if !ok {
		t.Fatal("expected initial selection")
	}
	res, err := Resolve(ctx, mode, sel, Request{Verb: VerbNext})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ctx.Buf.Text()[res.Sel.Start():res.Sel.End()]; got != "bar" {
		t.Fatalf("expected 'bar', got %q", got)
	}
}

func TestResolveExtendPinsAnchor(t *testing.T) {
	ctx := ctxFor("foo bar baz")
	mode := selmode.WordMode{}
	sel, _ := mode.Current(ctx, 0)
	res, err := Resolve(ctx, mode, sel, Request{Verb: VerbNext, Sub: SubExtend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sel.Anchor() != sel.Anchor() {
		t.Fatalf("expected anchor pinned at %d, got %d", sel.Anchor(), res.Sel.Anchor())
	}
	if got := ctx.Buf.Text()[res.Sel.Start():res.Sel.End()]; got != "foo bar" {
		t.Fatalf("expected extended range 'foo bar', got %q", got)
	}
}

func TestResolveSwapExchangesSiblingText(t *testing.T) {
	ctx := ctxFor("f(x, 1 + 1)")
	// Select "x" directly; word mode's neighbor resolution stands in for
	// syntax-node sibling resolution here since no tree is configured.
	mode := selmode.WordMode{}
	sel, ok := mode.Current(ctx, 2)
	if !ok || ctx.Buf.Text()[sel.Start():sel.End()] != "x" {
		t.Fatalf("expected 'x' selected, got %+v ok=%v", sel, ok)
	}
	res, err := Resolve(ctx, mode, sel, Request{Verb: VerbNext, Sub: SubSwap})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Transaction == nil {
		t.Fatal("expected a transaction from swap")
	}
	applied, err := res.Transaction.Apply(ctx.Buf, selection.NewSelectionSetAt(mode.Tag(), sel.Active()), nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := ctx.Buf.Text(); got != "f(1, x + 1)" {
		t.Fatalf("expected 'f(1, x + 1)', got %q", got)
	}
	_ = applied
}

func TestResolveNoMoreSelectionFails(t *testing.T) {
	ctx := ctxFor("foo")
	mode := selmode.WordMode{}
	sel, _ := mode.Current(ctx, 0)
	if _, err := Resolve(ctx, mode, sel, Request{Verb: VerbNext}); err == nil {
		t.Fatal("expected ErrNoMoreSelection at end of buffer")
	}
}
