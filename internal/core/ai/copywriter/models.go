package copywriter

import "strings"

// Model describes an LLM offered in the model picker.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
	Tier        string `json:"tier"` // "flagship", "standard", "fast", "economy", "legacy"
}

// Models lists chat models that write good short-form copy. gpt-5.1 is a
// reasoning model and runs without a temperature.
var Models = []Model{
	// OpenAI
	{ID: "gpt-5.1", Name: "GPT-5.1", Provider: "openai", Description: "Most capable, slower", Tier: "flagship"},
	{ID: "gpt-4.1", Name: "GPT-4.1", Provider: "openai", Description: "Smartest non-reasoning model", Tier: "standard"},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai", Description: "Fast, creative, the default", Tier: "standard"},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Provider: "openai", Description: "Faster version of GPT-4.1", Tier: "fast"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Provider: "openai", Description: "Fast and affordable", Tier: "fast"},
	{ID: "gpt-4.1-nano", Name: "GPT-4.1 Nano", Provider: "openai", Description: "Cheapest OpenAI option", Tier: "economy"},
	{ID: "gpt-4", Name: "GPT-4", Provider: "openai", Description: "Original GPT-4", Tier: "legacy"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: "openai", Description: "Oldest and cheapest", Tier: "legacy"},

	// Anthropic
	{ID: "claude-sonnet-4-5", Name: "Claude Sonnet 4.5", Provider: "anthropic", Description: "Strong writer, natural tone", Tier: "flagship"},
	{ID: "claude-haiku-4-5", Name: "Claude Haiku 4.5", Provider: "anthropic", Description: "Quick drafts", Tier: "fast"},

	// Google
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: "gemini", Description: "Long context, careful output", Tier: "flagship"},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "gemini", Description: "Fast and inexpensive", Tier: "fast"},

	// Alibaba
	{ID: "qwen-plus", Name: "Qwen Plus", Provider: "qwen", Description: "Good balance of cost and quality", Tier: "standard"},
	{ID: "qwen-turbo", Name: "Qwen Turbo", Provider: "qwen", Description: "Cheap and fast", Tier: "economy"},
}

// GetModel returns catalogue info by ID, or nil if the model is not listed.
func GetModel(id string) *Model {
	for _, m := range Models {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// ModelsByProvider returns every listed model of a provider.
func ModelsByProvider(provider string) []Model {
	var result []Model
	for _, m := range Models {
		if m.Provider == provider {
			result = append(result, m)
		}
	}
	return result
}

// ProviderFor routes a model ID to its provider. Unlisted IDs are routed by
// prefix so newly released models work without a catalogue update.
func ProviderFor(modelID string) (string, bool) {
	if m := GetModel(modelID); m != nil {
		return m.Provider, true
	}
	id := strings.ToLower(modelID)
	switch {
	case strings.HasPrefix(id, "gpt-"), strings.HasPrefix(id, "chatgpt-"), isOSeries(id):
		return "openai", true
	case strings.HasPrefix(id, "claude-"):
		return "anthropic", true
	case strings.HasPrefix(id, "gemini-"):
		return "gemini", true
	case strings.HasPrefix(id, "qwen"):
		return "qwen", true
	}
	return "", false
}

// isOSeries matches OpenAI reasoning model IDs such as o3 or o4-mini.
func isOSeries(id string) bool {
	return len(id) >= 2 && id[0] == 'o' && id[1] >= '1' && id[1] <= '9'
}
