package copywriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("no response from API")

func missingKey(provider string) error {
	return fmt.Errorf("%s API key not provided", provider)
}

// OpenAI talks to the chat completions API. Qwen reuses it through its
// compatible endpoint.
type OpenAI struct {
	client openai.Client
	name   string
}

func NewOpenAI(_ context.Context, cfg config.ProviderConfig, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, missingKey("OpenAI")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...), name: "openai"}, nil
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Generate(ctx context.Context, p Params) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, chatParams(p))
	if err != nil {
		return "", fmt.Errorf("chat completion API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// chatParams builds the request. Reasoning families only accept
// max_completion_tokens and their fixed default temperature.
func chatParams(p Params) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
	}
	if usesCompletionTokens(p.Model) {
		params.MaxCompletionTokens = openai.Int(int64(p.MaxTokens))
		return params
	}
	params.MaxTokens = openai.Int(int64(p.MaxTokens))
	params.Temperature = openai.Float(p.Temperature)
	return params
}

func usesCompletionTokens(model string) bool {
	return strings.HasPrefix(model, "gpt-5") || isOSeries(model)
}
