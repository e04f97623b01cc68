package syntax

import "github.com/ki-editor/ki/internal/buffer"

// NullService is the degenerate Service spec §4.2 requires when no
// grammar is available for a buffer's language id: every structural
// query returns "no node," letting SyntaxNode selection modes fall back
// to Word/Line transparently.
type NullService struct{}

var _ Service = NullService{}

func (NullService) LanguageSupported(string) bool { return false }

func (NullService) Parse(text string, _ string) (Tree, error) {
	return nullTree{}, nil
}

func (NullService) Reparse(_ Tree, _ string, _ []buffer.Edit) (Tree, error) {
	return nullTree{}, nil
}

type nullTree struct{}

var _ Tree = nullTree{}

func (nullTree) Root() Node                                         { return nil }
func (nullTree) LargestNodeStartingAt(buffer.ByteOffset) (Node, bool) { return nil, false }
func (nullTree) SmallestNodeContaining(Range) (Node, bool)            { return nil, false }
func (nullTree) AllSiblings(Node) []Node                              { return nil }
func (nullTree) HighlightSpans(Range) []Span                          { return nil }
