package copywriter

import (
	"context"
	"fmt"
	"sync"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

// Params is a single completion call.
type Params struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Generator sends one prompt to an LLM provider and returns its text.
type Generator interface {
	// Generate makes exactly one call. It never retries.
	Generate(ctx context.Context, p Params) (string, error)

	// Name returns the provider name.
	Name() string
}

// KeySource supplies provider API keys.
type KeySource interface {
	Get(provider string) (string, error)
}

// Factory builds a generator for a provider from its settings and key.
type Factory func(ctx context.Context, cfg config.ProviderConfig, apiKey string) (Generator, error)

// Factories holds the built-in provider constructors.
var Factories = map[string]Factory{
	"openai":    NewOpenAI,
	"anthropic": NewAnthropic,
	"gemini":    NewGemini,
	"qwen":      NewQwen,
}

// Router hands out one generator per provider, creating clients lazily so
// that only the providers actually used need a key.
type Router struct {
	mu        sync.Mutex
	cfg       *config.Config
	keys      KeySource
	factories map[string]Factory
	gens      map[string]Generator
}

// NewRouter returns a router over the built-in providers.
func NewRouter(cfg *config.Config, keys KeySource) *Router {
	return &Router{
		cfg:       cfg,
		keys:      keys,
		factories: Factories,
		gens:      make(map[string]Generator),
	}
}

// Register pins a generator for provider, replacing any lazily built one.
func (r *Router) Register(provider string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[provider] = g
}

// For returns the generator serving modelID. A missing key surfaces as a
// *config.ConfigError, an unroutable model as a *ValidationError.
func (r *Router) For(ctx context.Context, modelID string) (Generator, error) {
	provider, ok := ProviderFor(modelID)
	if !ok {
		return nil, &ValidationError{Field: "model", Reason: fmt.Sprintf("unknown model %q", modelID)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gens[provider]; ok {
		return g, nil
	}
	factory, ok := r.factories[provider]
	if !ok {
		return nil, &config.ConfigError{Key: "providers." + provider, Reason: "provider not supported"}
	}
	key, err := r.keys.Get(provider)
	if err != nil {
		return nil, err
	}
	g, err := factory(ctx, r.cfg.Provider(provider), key)
	if err != nil {
		return nil, &config.ConfigError{Key: "providers." + provider, Reason: "cannot create client", Err: err}
	}
	r.gens[provider] = g
	return g, nil
}
