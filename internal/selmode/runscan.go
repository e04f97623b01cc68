package selmode

import "unicode/utf8"

// charClass classifies a rune as belonging to a contiguous "word" run;
// Word and Token modes differ only in which runes they consider part of
// a run (see word.go / token.go), so the run-scanning itself is shared
// here rather than duplicated per mode — mirroring how the teacher's
// own cursor.go/motion.go factor word-class checks out of each motion.
type charClass func(r rune) bool

func runeAt(text string, pos int) (rune, int) {
	if pos < 0 || pos >= len(text) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(text[pos:])
	return r, size
}

func runeBefore(text string, pos int) (rune, int) {
	if pos <= 0 || pos > len(text) {
		return 0, 0
	}
	r, size := utf8.DecodeLastRuneInString(text[:pos])
	return r, size
}

// findRunAt returns the full extent of the run containing byte offset
// pos, if pos lies on a rune satisfying isWord.
func findRunAt(text string, pos int, isWord charClass) (start, end int, ok bool) {
	r, size := runeAt(text, pos)
	if size == 0 || !isWord(r) {
		return 0, 0, false
	}
	start, end = pos, pos+size
	for {
		pr, psize := runeBefore(text, start)
		if psize == 0 || !isWord(pr) {
			break
		}
		start -= psize
	}
	for {
		nr, nsize := runeAt(text, end)
		if nsize == 0 || !isWord(nr) {
			break
		}
		end += nsize
	}
	return start, end, true
}

// nextRunFrom scans forward from (not including) `from`, skipping any
// non-word runes, and returns the first run found.
func nextRunFrom(text string, from int, isWord charClass) (start, end int, ok bool) {
	i := from
	for {
		r, size := runeAt(text, i)
		if size == 0 {
			return 0, 0, false
		}
		if isWord(r) {
			return findRunAt(text, i, isWord)
		}
		i += size
	}
}

// prevRunBefore scans backward from (not including) `upto`, skipping any
// non-word runes, and returns the nearest run found.
func prevRunBefore(text string, upto int, isWord charClass) (start, end int, ok bool) {
	i := upto
	for {
		r, size := runeBefore(text, i)
		if size == 0 {
			return 0, 0, false
		}
		if isWord(r) {
			return findRunAt(text, i-size, isWord)
		}
		i -= size
	}
}

// allRuns returns every run wholly or partially inside [lo, hi).
func allRuns(text string, lo, hi int, isWord charClass) [][2]int {
	var out [][2]int
	i := lo
	for i < hi {
		r, size := runeAt(text, i)
		if size == 0 {
			break
		}
		if isWord(r) {
			s, e, _ := findRunAt(text, i, isWord)
			if s < hi {
				out = append(out, [2]int{s, e})
			}
			i = e
		} else {
			i += size
		}
	}
	return out
}

// firstRun/lastRun scan the whole buffer text for the first/last run.
func firstRun(text string, isWord charClass) (int, int, bool) {
	for i := 0; i < len(text); {
		r, size := runeAt(text, i)
		if size == 0 {
			break
		}
		if isWord(r) {
			return findRunAt(text, i, isWord)
		}
		i += size
	}
	return 0, 0, false
}

func lastRun(text string, isWord charClass) (int, int, bool) {
	return prevRunBefore(text, len(text), isWord)
}
