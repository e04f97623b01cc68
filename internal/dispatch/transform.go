package dispatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// applyTransform implements Transform{kind} (spec §4.9's closed
// transform set). Title/upper/lower casing goes through x/text/cases
// rather than strings.ToUpper/ToLower so multi-rune case folding (e.g.
// Turkish dotless i, German ß) follows Unicode's real casing tables
// instead of the ASCII-biased stdlib mapping.
func applyTransform(s string, kind TransformKind) string {
	switch kind {
	case TransformUppercase:
		return cases.Upper(language.Und).String(s)
	case TransformLowercase:
		return cases.Lower(language.Und).String(s)
	case TransformTitleCase:
		return cases.Title(language.Und).String(s)
	case TransformToggleCase:
		return toggleCase(s)
	default:
		return s
	}
}

func toggleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
