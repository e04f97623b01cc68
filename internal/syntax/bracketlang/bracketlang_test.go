package bracketlang

import (
	"testing"

	"github.com/ki-editor/ki/internal/buffer"
)

func TestLargestNodeStartingAtReturnsCallNode(t *testing.T) {
	text := "outer(middle(inner(a, b)), c)"
	tr, err := Service{}.Parse(text, "")
	if err != nil {
		t.Fatal(err)
	}

	innerPos := buffer.ByteOffset(len("outer(middle("))
	n, ok := tr.LargestNodeStartingAt(innerPos)
	if !ok {
		t.Fatal("expected a node starting at 'inner'")
	}
	if n.Kind() != "call" {
		t.Fatalf("kind = %q, want call", n.Kind())
	}
	if got := text[n.Range().Start:n.Range().End]; got != "inner(a, b)" {
		t.Fatalf("range text = %q, want %q", got, "inner(a, b)")
	}

	parent, ok := n.Parent()
	if !ok {
		t.Fatal("expected inner(...) to have a parent")
	}
	if got := text[parent.Range().Start:parent.Range().End]; got != "middle(inner(a, b))" {
		t.Fatalf("parent range text = %q, want %q", got, "middle(inner(a, b))")
	}
}

func TestArgSiblingsAndGapForDeleteWithSeparator(t *testing.T) {
	text := "hello(x, y);"
	tr, err := Service{}.Parse(text, "")
	if err != nil {
		t.Fatal(err)
	}

	xPos := buffer.ByteOffset(len("hello("))
	x, ok := tr.LargestNodeStartingAt(xPos)
	if !ok || x.Kind() != "arg" {
		t.Fatalf("expected arg node at x, got %v ok=%v", x, ok)
	}
	y, ok := x.NextNamedSibling()
	if !ok {
		t.Fatal("expected a following named sibling y")
	}
	if got := text[y.Range().Start:y.Range().End]; got != "y" {
		t.Fatalf("next named sibling = %q, want %q", got, "y")
	}
	gap := text[x.Range().End:y.Range().Start]
	if gap != ", " {
		t.Fatalf("gap between x and y = %q, want %q", gap, ", ")
	}
}

func TestSwapSiblingsArgOrder(t *testing.T) {
	text := "f(x, 1 + 1)"
	tr, err := Service{}.Parse(text, "")
	if err != nil {
		t.Fatal(err)
	}

	xPos := buffer.ByteOffset(len("f("))
	x, ok := tr.LargestNodeStartingAt(xPos)
	if !ok {
		t.Fatal("expected arg node at x")
	}
	siblings := tr.AllSiblings(x)
	var named []string
	for _, s := range siblings {
		if s.IsNamed() {
			named = append(named, text[s.Range().Start:s.Range().End])
		}
	}
	if len(named) != 2 || named[0] != "x" || named[1] != "1 + 1" {
		t.Fatalf("named siblings = %v, want [x, 1 + 1]", named)
	}
}

func TestIdempotentCurrent(t *testing.T) {
	text := "outer(inner(a, b), c)"
	tr, err := Service{}.Parse(text, "")
	if err != nil {
		t.Fatal(err)
	}
	pos := buffer.ByteOffset(len("outer("))
	n1, ok1 := tr.LargestNodeStartingAt(pos)
	n2, ok2 := tr.LargestNodeStartingAt(buffer.ByteOffset(n1.Range().Start))
	if !ok1 || !ok2 || n1.Range() != n2.Range() {
		t.Fatalf("current() not idempotent: %v vs %v", n1, n2)
	}
}
