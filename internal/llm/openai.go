package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI generates text with the OpenAI chat completions API or any server
// that implements it.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates a client. baseURL is optional; when it points at a
// compatible server the API key may be empty.
func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}, nil
}

// Name returns "openai".
func (o *OpenAI) Name() string {
	return BackendOpenAI
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   int(params.MaxTokens),
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", params.Model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Generator.
func (o *OpenAI) Close() error {
	return nil
}
