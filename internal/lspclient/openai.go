package lspclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAISuggester is a RewriteSuggester backed by the Chat Completions API.
type OpenAISuggester struct {
	client openai.Client
	model  openai.ChatModel
}

// OpenAIOption configures an OpenAISuggester.
type OpenAIOption func(*OpenAISuggester)

// WithOpenAIModel overrides the default model.
func WithOpenAIModel(model openai.ChatModel) OpenAIOption {
	return func(s *OpenAISuggester) { s.model = model }
}

// NewOpenAISuggester builds a suggester using apiKey.
func NewOpenAISuggester(apiKey string, opts ...OpenAIOption) *OpenAISuggester {
	s := &OpenAISuggester{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OpenAISuggester) Suggest(ctx context.Context, req RewriteRequest) (string, error) {
	if req.Pattern == "" {
		return "", ErrNoSuggestion
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(rewritePrompt(req)),
		},
		MaxCompletionTokens: openai.Int(64),
	})
	if err != nil {
		return "", fmt.Errorf("lspclient: openai suggest: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoSuggestion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
