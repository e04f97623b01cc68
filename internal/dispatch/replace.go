package dispatch

import (
	"context"
	"fmt"

	"github.com/ki-editor/ki/internal/buffer"
	"github.com/ki-editor/ki/internal/edittx"
	"github.com/ki-editor/ki/internal/editor"
	"github.com/ki-editor/ki/internal/kierrors"
	"github.com/ki-editor/ki/internal/selection"
)

// RewriteSuggester is the optional naming-convention-agnostic rewrite
// backend spec §8 scenario 6 describes. It mirrors
// internal/lspclient.RewriteSuggester's contract structurally rather
// than importing that package directly, so internal/dispatch never
// pulls in any AI SDK: a caller that wants real suggestions adapts an
// lspclient.RewriteSuggester into this shape. No package in this module
// provides that adapter.
type RewriteSuggester interface {
	Suggest(ctx context.Context, pattern string, matches []string, languageID string) (string, error)
}

// executeReplaceAll implements KindReplace ("ReplaceAll" in spec §8
// scenario 6): every match of the Editor's active search is replaced,
// using the search's own Replacement when set, or a Suggester's
// proposal when the caller left Replacement blank.
func executeReplaceAll(ed *editor.Editor, d Dispatch) error {
	cfg := ed.Context().Search
	if cfg == nil {
		return fmt.Errorf("dispatch: replace: no active search: %w", kierrors.ErrSearchCompileError)
	}
	working := *cfg

	cs, err := working.Compile()
	if err != nil {
		return err
	}
	text := ed.Buffer().Text()
	matchRanges := cs.Matches(text)
	if len(matchRanges) == 0 {
		return nil
	}

	if working.Replacement == "" {
		if d.Suggester == nil {
			return fmt.Errorf("dispatch: replace: no replacement text and no suggester configured")
		}
		matched := make([]string, len(matchRanges))
		for i, m := range matchRanges {
			matched[i] = text[m[0]:m[1]]
		}
		ctx := d.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		suggestion, err := d.Suggester.Suggest(ctx, working.Pattern, matched, "")
		if err != nil {
			return fmt.Errorf("dispatch: replace: suggester: %w", err)
		}
		working.Replacement = suggestion
		cs, err = working.Compile()
		if err != nil {
			return err
		}
	}

	edits := make([]edittx.Edit, 0, len(matchRanges))
	for _, m := range matchRanges {
		matched := text[m[0]:m[1]]
		edits = append(edits, edittx.Edit{
			Range:   buffer.Range{Start: selection.ByteOffset(m[0]), End: selection.ByteOffset(m[1])},
			NewText: cs.Replacement(matched),
		})
	}
	tx, err := edittx.Compose(edits)
	if err != nil {
		return err
	}
	return ed.ApplyTransaction("replace", tx)
}
