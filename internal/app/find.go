package app

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/match"
)

// ListProjectFiles walks root and returns every file whose path (relative
// to root, using forward slashes) matches include and does not match any
// of exclude — the candidate list behind Find{scope: project} (spec §4.5
// Find mode's project-wide search).
//
// Grounded on the pack's inclusion of bmatcuk/doublestar for ** glob
// matching over a directory tree, which gobwas/glob (a single-pattern,
// non-recursive matcher) cannot express on its own.
func ListProjectFiles(root string, include string, exclude []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if include != "" {
			ok, err := doublestar.Match(include, rel)
			if err != nil || !ok {
				return nil
			}
		}
		for _, ex := range exclude {
			if ok, _ := doublestar.Match(ex, rel); ok {
				return nil
			}
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LanguageAssociation maps a filename glob to a tree-sitter grammar /
// language id (spec §6 "Configuration inputs: ... tree-sitter grammar
// selection").
type LanguageAssociation struct {
	Glob       string
	LanguageID string
}

// LanguageFor resolves filename's language id from the first matching
// association, using tidwall/match's single-pattern glob matcher —
// simpler and a better fit than doublestar here since filename
// associations are one flat pattern ("*.rs"), never a recursive "**" tree
// walk.
func LanguageFor(filename string, associations []LanguageAssociation) (string, bool) {
	base := filepath.Base(filename)
	for _, a := range associations {
		if match.Match(base, a.Glob) {
			return a.LanguageID, true
		}
	}
	return "", false
}
