package editor

import "sync"

// ClipboardRing is the App-scoped registers/clipboard collaborator (spec
// §4.10, supplemented from the teacher's internal/input/vim/register.go).
// Scoped down to what Copy{clipboard}/Paste{before|after, clipboard}
// actually need: named registers "a"-"z", the default unnamed register
// `"`, and the yank register "0" that always receives the most recent
// yank regardless of which named register (if any) was also targeted.
type ClipboardRing struct {
	mu        sync.Mutex
	named     map[rune][]string // register -> one entry per cursor, in selection order
	unnamed   []string
	yank      []string
}

// NewClipboardRing creates an empty ClipboardRing.
func NewClipboardRing() *ClipboardRing {
	return &ClipboardRing{named: make(map[rune][]string)}
}

// IsValidRegister reports whether r is the unnamed register (0 or '"')
// or a named register 'a'-'z'. The yank register '0' is readable through
// Get but is not accepted here.
func IsValidRegister(r rune) bool {
	return r == 0 || r == '"' || (r >= 'a' && r <= 'z')
}

// Yank stores entries (one per cursor, multi-cursor copy) into register
// r, the unnamed register, and the yank register "0" — matching the
// teacher's convention that every yank updates "0" regardless of target.
func (c *ClipboardRing) Yank(r rune, entries []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := append([]string(nil), entries...)
	if r != 0 && r != '"' {
		c.named[r] = append([]string(nil), cp...)
	}
	c.unnamed = cp
	c.yank = append([]string(nil), cp...)
}

// Get returns the stored entries for register r (0 or '"' means
// unnamed), or nil if empty.
func (c *ClipboardRing) Get(r rune) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case r == 0 || r == '"':
		return append([]string(nil), c.unnamed...)
	case r == '0':
		return append([]string(nil), c.yank...)
	default:
		return append([]string(nil), c.named[r]...)
	}
}

// EntryFor returns the paste text for cursor index i out of n cursors:
// when the register holds exactly one entry, every cursor pastes it;
// when it holds one entry per cursor, each cursor gets its own (the
// multi-cursor "each selection copied its own text, each pastes its
// own" behavior).
func EntryFor(entries []string, i, n int) string {
	if len(entries) == 0 {
		return ""
	}
	if len(entries) == n {
		return entries[i]
	}
	return entries[0]
}
