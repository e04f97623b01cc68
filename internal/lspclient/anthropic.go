package lspclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicSuggester is a RewriteSuggester backed by the Claude
// messages API.
type AnthropicSuggester struct {
	client anthropic.Client
	model  anthropic.Model
}

// AnthropicOption configures an AnthropicSuggester.
type AnthropicOption func(*AnthropicSuggester)

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model anthropic.Model) AnthropicOption {
	return func(s *AnthropicSuggester) { s.model = model }
}

// NewAnthropicSuggester builds a suggester using apiKey.
func NewAnthropicSuggester(apiKey string, opts ...AnthropicOption) *AnthropicSuggester {
	s := &AnthropicSuggester{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.ModelClaude3_5HaikuLatest,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnthropicSuggester) Suggest(ctx context.Context, req RewriteRequest) (string, error) {
	if req.Pattern == "" {
		return "", ErrNoSuggestion
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	prompt := rewritePrompt(req)
	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("lspclient: anthropic suggest: %w", err)
	}
	for _, block := range msg.Content {
		if text := block.Text; text != "" {
			return strings.TrimSpace(text), nil
		}
	}
	return "", ErrNoSuggestion
}

// rewritePrompt is shared across backends so the three suggesters are
// interchangeable drop-ins rather than producing divergent behavior
// depending on which one is configured.
func rewritePrompt(req RewriteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Propose a single naming-convention-agnostic replacement base word for %q", req.Pattern)
	if req.LanguageID != "" {
		fmt.Fprintf(&b, " in %s code", req.LanguageID)
	}
	if len(req.Matches) > 0 {
		fmt.Fprintf(&b, ". Observed matches: %s", strings.Join(req.Matches, ", "))
	}
	b.WriteString(". Reply with only the base words, space separated, no casing applied.")
	return b.String()
}
