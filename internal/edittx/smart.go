package edittx

import (
	"fmt"
	"strings"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/syntax"
)

// AbsorbSeparatorGap extends sel's range to include the contiguous
// separator-only text between it and a neighboring sibling range (spec
// §4.7 "smart edits"): deleting `x` out of `hello(x, y)` also removes
// the trailing ", " so the result is `hello(y)` rather than
// `hello(, y)`. The gap is absorbed only if every byte in it is
// whitespace or a punctuation separator (`,` `;`) — a non-separator
// byte in the gap means the two ranges are not actually adjacent in the
// mode's sense, and the range is returned unchanged.
func AbsorbSeparatorGap(text string, sel, neighbor Range, towardNeighbor bool) Range {
	var gapStart, gapEnd buffer.ByteOffset
	if towardNeighbor {
		gapStart, gapEnd = sel.End, neighbor.Start
	} else {
		gapStart, gapEnd = neighbor.End, sel.Start
	}
	if gapStart > gapEnd || int(gapEnd) > len(text) {
		return sel
	}
	gap := text[gapStart:gapEnd]
	if !isSeparatorOnly(gap) {
		return sel
	}
	if towardNeighbor {
		return Range{Start: sel.Start, End: gapEnd}
	}
	return Range{Start: gapStart, End: sel.End}
}

func isSeparatorOnly(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', ',', ';':
		default:
			return false
		}
	}
	return true
}

// Raise replaces node's parent with node's own text (spec §4.7). It
// refuses with kierrors.ErrRaiseWouldBreakSyntax when node has no
// parent, since "raise the root" has nothing to replace.
//
// The precondition spec §4.7 describes — "the resulting tree must not
// introduce a parse error at the raised site" — is approximated here as
// a bracket-balance check on the raised text alone (the surrounding
// text is not examined); a real grammar-backed Service could
// reparse and compare error nodes instead, which is why this takes the
// raised text rather than reaching into a concrete Tree implementation.
func Raise(text string, node syntax.Node) (*Transaction, error) {
	parent, ok := node.Parent()
	if !ok {
		return nil, fmt.Errorf("edittx: raise: node has no parent: %w", kierrors.ErrRaiseWouldBreakSyntax)
	}
	raised := text[node.Range().Start:node.Range().End]
	if !balancedBrackets(raised) {
		return nil, fmt.Errorf("edittx: raise: %q is not bracket-balanced: %w", raised, kierrors.ErrRaiseWouldBreakSyntax)
	}
	return Compose([]Edit{{Range: parent.Range(), NewText: raised}})
}

func balancedBrackets(s string) bool {
	var stack []byte
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && inString {
			i++
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && !inString
}

// Delimiter is a matched pair of surround characters (spec §4.7
// Surround).
type Delimiter struct {
	Open  string
	Close string
}

// CommonDelimiters are the delimiter pairs the Surround dispatch
// recognizes by a single trigger character.
var CommonDelimiters = map[rune]Delimiter{
	'(': {Open: "(", Close: ")"},
	')': {Open: "(", Close: ")"},
	'[': {Open: "[", Close: "]"},
	']': {Open: "[", Close: "]"},
	'{': {Open: "{", Close: "}"},
	'}': {Open: "{", Close: "}"},
	'"': {Open: `"`, Close: `"`},
	'\'': {Open: "'", Close: "'"},
}

// Surround wraps each selection range in d, producing one insert edit at
// each endpoint per selection. Ranges must already be sorted and
// disjoint (a normalized SelectionSet guarantees this).
func Surround(ranges []Range, d Delimiter) (*Transaction, error) {
	edits := make([]Edit, 0, len(ranges)*2)
	for _, r := range ranges {
		edits = append(edits,
			Edit{Range: Range{Start: r.Start, End: r.Start}, NewText: d.Open},
			Edit{Range: Range{Start: r.End, End: r.End}, NewText: d.Close},
		)
	}
	return Compose(edits)
}

// Unsurround removes the first and last byte of enclosing, which callers
// pass as the range spanning a delimiter pair and its contents. Only the
// last byte is checked (it must be a recognized closing delimiter); the
// first byte is removed unchecked.
func Unsurround(text string, enclosing Range) (*Transaction, error) {
	if enclosing.End-enclosing.Start < 2 {
		return nil, fmt.Errorf("edittx: unsurround: range %s too short to enclose a pair", enclosing)
	}
	closeCh := text[enclosing.End-1]
	if !strings.ContainsRune(")]}\"'", rune(closeCh)) {
		return nil, fmt.Errorf("edittx: unsurround: %q is not a recognized closing delimiter: %w", string(closeCh), kierrors.ErrNoMatchingNode)
	}
	return Compose([]Edit{
		{Range: Range{Start: enclosing.Start, End: enclosing.Start + 1}, NewText: ""},
		{Range: Range{Start: enclosing.End - 1, End: enclosing.End}, NewText: ""},
	})
}
