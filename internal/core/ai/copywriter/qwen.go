package copywriter

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// QwenDefaultBaseURL is the OpenAI-compatible endpoint for Qwen.
const QwenDefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// NewQwen creates a generator for Alibaba Qwen through its OpenAI-compatible
// API. The apiKey parameter is the DashScope API key.
func NewQwen(_ context.Context, cfg config.ProviderConfig, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, missingKey("Qwen")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = QwenDefaultBaseURL
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &OpenAI{client: client, name: "qwen"}, nil
}
