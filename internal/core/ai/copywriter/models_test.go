package copywriter

import "testing"

func TestProviderFor(t *testing.T) {
	tests := []struct {
		model string
		want  string
		ok    bool
	}{
		{"gpt-4o", "openai", true},
		{"gpt-6-preview", "openai", true},
		{"o4-mini", "openai", true},
		{"claude-opus-4-1", "anthropic", true},
		{"gemini-2.5-flash", "gemini", true},
		{"qwen-max", "qwen", true},
		{"ollama", "", false},
		{"llama-3", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ProviderFor(tt.model)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ProviderFor(%q) = %q, %v; want %q, %v", tt.model, got, ok, tt.want, tt.ok)
		}
	}
}

func TestModelsCatalogue(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Models {
		if seen[m.ID] {
			t.Errorf("duplicate model %q", m.ID)
		}
		seen[m.ID] = true
		if _, ok := Factories[m.Provider]; !ok {
			t.Errorf("model %q has unknown provider %q", m.ID, m.Provider)
		}
	}
	for _, id := range []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o"} {
		if GetModel(id) == nil {
			t.Errorf("model %q missing from catalogue", id)
		}
	}
	if len(ModelsByProvider("anthropic")) == 0 {
		t.Error("no anthropic models listed")
	}
}
