package copywriter

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// Gemini implements Generator using the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini generator backed by the Gemini API.
func NewGemini(ctx context.Context, cfg config.ProviderConfig, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, missingKey("Gemini")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return "gemini"
}

// Generate calls GenerateContent with the persona as system instruction.
func (g *Gemini) Generate(ctx context.Context, p Params) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: p.User}},
	}}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		},
		Temperature:     genai.Ptr(float32(p.Temperature)),
		MaxOutputTokens: int32(p.MaxTokens),
	}

	result, err := g.client.Models.GenerateContent(ctx, p.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
