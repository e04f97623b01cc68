package bracketlang

type parser struct {
	text string
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// skipString advances past a double-quoted string literal starting at i
// (text[i] == '"'), honoring backslash escapes, and returns the index
// just past the closing quote (or len(text) if unterminated).
func (p *parser) skipString(i int) int {
	n := len(p.text)
	i++
	for i < n {
		if p.text[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		if p.text[i] == '"' {
			return i + 1
		}
		i++
	}
	return n
}

// findMatchingClose returns the index of the close bracket matching the
// open bracket at openIdx, skipping string literals and nested brackets
// of the same kind. Falls back to the last byte if unterminated, so a
// malformed buffer degrades rather than panics — matching spec §4.2's
// "grammar absent" tolerance.
func (p *parser) findMatchingClose(openIdx int, openCh, closeCh byte) int {
	depth := 1
	i := openIdx + 1
	n := len(p.text)
	for i < n {
		c := p.text[i]
		switch {
		case c == '"':
			i = p.skipString(i)
			continue
		case c == openCh:
			depth++
		case c == closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return n - 1
}

func trimRange(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseChildren scans [lo, hi) for call/bracket groups and cuts the
// remaining top-level text into namedKind children at sep boundaries,
// returning the full interleaved child list (named leaves/groups plus
// anonymous separator tokens) in document order. A segment collapses to
// the single group node it wholly contains (so `println!("x")` stays a
// "call" node rather than being wrapped in an opaque "stmt" leaf); a
// segment mixing plain text and nested groups becomes one opaque
// namedKind leaf spanning its trimmed range, which is the degenerate
// fallback bracketlang explicitly accepts for constructs deeper than
// bracket/call nesting.
func (p *parser) parseChildren(lo, hi int, sep func(byte) bool, namedKind string) []*node {
	var children []*node
	segStart := lo
	var segGroups []*node

	flush := func(end int) {
		start, trimmedEnd := trimRange(p.text, segStart, end)
		if start >= trimmedEnd {
			return
		}
		if len(segGroups) == 1 && segGroups[0].start == start && segGroups[0].end == trimmedEnd {
			children = append(children, segGroups[0])
		} else {
			children = append(children, &node{kind: namedKind, start: start, end: trimmedEnd, named: true})
		}
	}

	i := lo
	for i < hi {
		c := p.text[i]
		switch {
		case c == '"':
			i = p.skipString(i)
		case isIdentStart(c):
			j := i
			for j < hi && isIdentChar(p.text[j]) {
				j++
			}
			openIdx := -1
			if j < hi && p.text[j] == '!' && j+1 < hi && p.text[j+1] == '(' {
				openIdx = j + 1
			} else if j < hi && p.text[j] == '(' {
				openIdx = j
			}
			if openIdx >= 0 {
				close := p.findMatchingClose(openIdx, '(', ')')
				inner := p.parseChildren(openIdx+1, close, isComma, "arg")
				g := &node{kind: "call", start: i, end: close + 1, named: true, children: inner}
				for _, c := range inner {
					c.parent = g
				}
				segGroups = append(segGroups, g)
				i = close + 1
			} else {
				i = j
			}
		case c == '(' || c == '[' || c == '{':
			var closeCh byte
			var kind, childKind string
			sepFn := isComma
			switch c {
			case '(':
				closeCh, kind, childKind = ')', "paren", "arg"
			case '[':
				closeCh, kind, childKind = ']', "bracket", "arg"
			default:
				closeCh, kind, childKind = '}', "block", "stmt"
				sepFn = isStmtSep
			}
			close := p.findMatchingClose(i, c, closeCh)
			inner := p.parseChildren(i+1, close, sepFn, childKind)
			g := &node{kind: kind, start: i, end: close + 1, named: true, children: inner}
			for _, cc := range inner {
				cc.parent = g
			}
			segGroups = append(segGroups, g)
			i = close + 1
		case sep(c):
			flush(i)
			if c == ',' || c == ';' {
				children = append(children, &node{kind: "sep", start: i, end: i + 1, named: false})
			}
			i++
			segStart = i
			segGroups = nil
		default:
			i++
		}
	}
	flush(hi)
	return children
}

func isComma(c byte) bool   { return c == ',' }
func isStmtSep(c byte) bool { return c == ';' || c == '\n' }

// parseBlockLike parses the top-level content of a buffer (or the inside
// of a `{ ... }` block) into "stmt" children split on top-level `;` and
// newlines.
func (p *parser) parseBlockLike(kind string, lo, hi int) *node {
	children := p.parseChildren(lo, hi, isStmtSep, "stmt")
	n := &node{kind: kind, start: lo, end: hi, named: true, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}
