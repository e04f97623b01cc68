package dispatch

import "math"

// CountState accumulates a repeat-count prefix (e.g. the "5" in "5j")
// before it composes with a movement verb into one Dispatch.
//
// Grounded on the teacher's internal/input/vim.CountState: same
// active/value shape and the same "leading 0 is a motion, not a count"
// rule, carried over unchanged since it is pure digit-accumulation logic
// with no vim-specific behavior in it.
type CountState struct {
	Value  int
	Active bool
}

// Reset clears the count state after it has been consumed by a dispatch.
func (c *CountState) Reset() {
	c.Value = 0
	c.Active = false
}

// AccumulateDigit folds one digit rune into the count. Returns false
// (rejecting the rune) for non-digits and for a leading '0', which is a
// motion (line start) rather than a count prefix.
func (c *CountState) AccumulateDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	digit := int(r - '0')
	if !c.Active && digit == 0 {
		return false
	}
	c.Active = true
	if c.Value > (math.MaxInt-digit)/10 {
		c.Value = math.MaxInt / 10
		return true
	}
	c.Value = c.Value*10 + digit
	return true
}

// Get returns the effective count, defaulting to 1 when none was typed.
func (c *CountState) Get() int {
	if c.Value <= 0 {
		return 1
	}
	return c.Value
}

// WithCount returns a copy of d with Count set from the accumulated
// state, then resets c so the next keystroke starts a fresh count.
func (c *CountState) WithCount(d Dispatch) Dispatch {
	d.Count = c.Get()
	c.Reset()
	return d
}
