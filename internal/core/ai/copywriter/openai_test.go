package copywriter

import "testing"

func TestChatParams(t *testing.T) {
	tests := []struct {
		model          string
		wantCompletion bool
	}{
		{"gpt-4o", false},
		{"gpt-4.1-mini", false},
		{"qwen-plus", false},
		{"gpt-5.1", true},
		{"o4-mini", true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p := chatParams(Params{Model: tt.model, System: "s", User: "u", Temperature: 0.8, MaxTokens: 1200})

			if len(p.Messages) != 2 {
				t.Fatalf("len(Messages) = %d; want 2", len(p.Messages))
			}
			if tt.wantCompletion {
				if !p.MaxCompletionTokens.Valid() || p.MaxCompletionTokens.Value != 1200 {
					t.Errorf("MaxCompletionTokens = %+v; want 1200", p.MaxCompletionTokens)
				}
				if p.MaxTokens.Valid() || p.Temperature.Valid() {
					t.Error("reasoning models must not get max_tokens or temperature")
				}
				return
			}
			if !p.MaxTokens.Valid() || p.MaxTokens.Value != 1200 {
				t.Errorf("MaxTokens = %+v; want 1200", p.MaxTokens)
			}
			if !p.Temperature.Valid() || p.Temperature.Value != 0.8 {
				t.Errorf("Temperature = %+v; want 0.8", p.Temperature)
			}
		})
	}
}
