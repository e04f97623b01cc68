package lspclient

import (
	"context"
	"strings"
	"testing"
)

// fakeSuggester is a deterministic stand-in used by tests so the real
// network-backed suggesters (Anthropic/OpenAI/GenAI) never need to run
// under test — exactly the scenario spec §8's replace-all tests avoid
// by always supplying an explicit replacement.
type fakeSuggester struct {
	reply string
	err   error
}

func (f fakeSuggester) Suggest(ctx context.Context, req RewriteRequest) (string, error) {
	if req.Pattern == "" {
		return "", ErrNoSuggestion
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestRewriteSuggesterInterface(t *testing.T) {
	var s RewriteSuggester = fakeSuggester{reply: "to li"}
	got, err := s.Suggest(context.Background(), RewriteRequest{
		Pattern:    "hello world",
		Matches:    []string{"helloWorld", "HELLO_WORLD"},
		LanguageID: "go",
	})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got != "to li" {
		t.Fatalf("expected 'to li', got %q", got)
	}
}

func TestRewriteSuggesterEmptyPattern(t *testing.T) {
	var s RewriteSuggester = fakeSuggester{reply: "x"}
	if _, err := s.Suggest(context.Background(), RewriteRequest{}); err != ErrNoSuggestion {
		t.Fatalf("expected ErrNoSuggestion for empty pattern, got %v", err)
	}
}

func TestRewritePromptIncludesContext(t *testing.T) {
	p := rewritePrompt(RewriteRequest{Pattern: "hello world", LanguageID: "go", Matches: []string{"helloWorld"}})
	if !strings.Contains(p, "hello world") || !strings.Contains(p, "go") || !strings.Contains(p, "helloWorld") {
		t.Fatalf("expected prompt to reference pattern/language/matches, got %q", p)
	}
}
