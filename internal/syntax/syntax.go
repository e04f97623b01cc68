// Package syntax is the editing core's Syntax Service collaborator (spec
// §4.2): given buffer text it maintains a parse tree and answers the
// structural queries SyntaxNode selection modes and Raise/Surround need.
//
// Real grammar-backed parsing (tree-sitter) is explicitly a collaborator
// the core only consumes through this interface (spec §1's "Deliberately
// out of scope"); no example repo in the retrieved pack vendors a
// tree-sitter Go binding, so the one concrete Service shipped here
// (bracketlang) is a hand-rolled bracket/statement-aware parser. It is
// intentionally degenerate compared to a real grammar, which is exactly
// the fallback behavior spec §4.2 describes: "grammar absent -> a
// degenerate service returns None from all structural queries."
package syntax

import "github.com/ki-editor/ki/internal/buffer"

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Span is a highlighted region of source tagged with a highlight-query
// capture name (e.g. "keyword", "string", "function.call").
type Span struct {
	Range Range
	Kind  string
}

// Node is one node of a Tree. Coarse SyntaxNode mode only traverses named
// nodes; Fine SyntaxNode mode also sees anonymous nodes (punctuation,
// keywords) via the *Sibling/*Child variants without the "Named" prefix.
type Node interface {
	Kind() string
	Range() Range
	IsNamed() bool

	Parent() (Node, bool)
	NextSibling() (Node, bool)
	PrevSibling() (Node, bool)
	NextNamedSibling() (Node, bool)
	PrevNamedSibling() (Node, bool)
	FirstChild() (Node, bool)
	FirstNamedChild() (Node, bool)

	// Children returns every direct child, named and anonymous, in
	// document order — the "parent's child list" Swap reorders.
	Children() []Node
}

// Tree is an immutable parse of one buffer revision.
type Tree interface {
	Root() Node

	// LargestNodeStartingAt returns the named node with the largest range
	// whose start equals pos (SyntaxNode Coarse's current()).
	LargestNodeStartingAt(pos buffer.ByteOffset) (Node, bool)

	// SmallestNodeContaining returns the smallest node (named or not)
	// whose range contains r (SyntaxNode Fine's current()).
	SmallestNodeContaining(r Range) (Node, bool)

	// AllSiblings returns n's parent's full child list, n included, in
	// document order. Used by Swap and by `all()` over SyntaxNode modes.
	AllSiblings(n Node) []Node

	HighlightSpans(r Range) []Span
}

// Service parses buffer text for a language id into a Tree and
// incrementally reparses a Tree after edits are applied.
type Service interface {
	// LanguageSupported reports whether this service has a grammar for
	// languageID at all; false means the editor should fall back to
	// Word/Line selection modes transparently (spec §4.2).
	LanguageSupported(languageID string) bool

	Parse(text string, languageID string) (Tree, error)

	// Reparse re-derives a Tree for the buffer's new text after edits
	// were applied to the buffer the prior tree described. Implementations
	// that cannot parse incrementally may reparse from scratch; the
	// interface only promises the *result* is fresh, not that the
	// traversal is sublinear.
	Reparse(prior Tree, text string, edits []buffer.Edit) (Tree, error)
}
