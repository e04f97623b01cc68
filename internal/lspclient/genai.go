package lspclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenAISuggester is a RewriteSuggester backed by Google's Gemini API.
type GenAISuggester struct {
	client *genai.Client
	model  string
}

// GenAIOption configures a GenAISuggester.
type GenAIOption func(*GenAISuggester)

// WithGenAIModel overrides the default model.
func WithGenAIModel(model string) GenAIOption {
	return func(s *GenAISuggester) { s.model = model }
}

// NewGenAISuggester builds a suggester using apiKey. The returned
// client owns a background connection; call Close when done.
func NewGenAISuggester(ctx context.Context, apiKey string, opts ...GenAIOption) (*GenAISuggester, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("lspclient: genai client: %w", err)
	}
	s := &GenAISuggester{client: client, model: "gemini-1.5-flash"}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying client connection.
func (s *GenAISuggester) Close() error {
	return s.client.Close()
}

func (s *GenAISuggester) Suggest(ctx context.Context, req RewriteRequest) (string, error) {
	if req.Pattern == "" {
		return "", ErrNoSuggestion
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(rewritePrompt(req)))
	if err != nil {
		return "", fmt.Errorf("lspclient: genai suggest: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoSuggestion
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrNoSuggestion
	}
	return strings.TrimSpace(b.String()), nil
}
