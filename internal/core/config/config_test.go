package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dianajengpr/copywritingassistant/internal/core/crypto"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty path",
			input:    "",
			expected: "",
		},
		{
			name:     "Absolute path",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "Relative path",
			input:    "relative/path",
			expected: "relative/path",
		},
		{
			name:     "Home directory only",
			input:    "~",
			expected: home,
		},
		{
			name:     "Home directory with forward slash",
			input:    "~/Documents",
			expected: filepath.Join(home, "Documents"),
		},
		{
			name:     "Home directory with backslash (simulated)",
			input:    `~\Documents`,
			expected: filepath.Join(home, "Documents"),
		},
		{
			name:     "Invalid tilde use (middle)",
			input:    "/path/~/test",
			expected: "/path/~/test",
		},
		{
			name:     "Invalid tilde use (no separator)",
			input:    "~user",
			expected: "~user", // We don't support ~user expansion currently
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.expected {
				t.Errorf("expandPath(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("COPYWRITER_MODEL", "")
	t.Setenv("COPYWRITER_TEMPERATURE", "")
	t.Setenv("COPYWRITER_ON_REFERENCE_FAILURE", "")

	cfg, err := Parse([]byte("generation:\n  default_model: gpt-4\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Generation.DefaultModel != "gpt-4" {
		t.Errorf("DefaultModel = %q; want %q", cfg.Generation.DefaultModel, "gpt-4")
	}
	if cfg.Generation.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v; want %v", cfg.Generation.Temperature, DefaultTemperature)
	}
	if cfg.Generation.TokensPerItem != DefaultTokensPerItem {
		t.Errorf("TokensPerItem = %d; want %d", cfg.Generation.TokensPerItem, DefaultTokensPerItem)
	}
	if cfg.Reference.OnFailure != OnFailureProceed {
		t.Errorf("OnFailure = %q; want %q", cfg.Reference.OnFailure, OnFailureProceed)
	}
	if len(cfg.Reference.Denylist) != len(DefaultDenylist) {
		t.Errorf("Denylist has %d entries; want %d", len(cfg.Reference.Denylist), len(DefaultDenylist))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v; want nil", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("COPYWRITER_ON_REFERENCE_FAILURE", OnFailureAbort)
	t.Setenv("COPYWRITER_TEMPERATURE", "0.7")

	cfg, err := Parse([]byte("reference:\n  on_reference_failure: proceed_without_reference\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Reference.OnFailure != OnFailureAbort {
		t.Errorf("OnFailure = %q; want %q", cfg.Reference.OnFailure, OnFailureAbort)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Errorf("Temperature = %v; want 0.7", cfg.Generation.Temperature)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "temperature too low", mutate: func(c *Config) { c.Generation.Temperature = 0.2 }, wantKey: "generation.temperature"},
		{name: "temperature too high", mutate: func(c *Config) { c.Generation.Temperature = 1.2 }, wantKey: "generation.temperature"},
		{name: "tokens per item", mutate: func(c *Config) { c.Generation.TokensPerItem = -1 }, wantKey: "generation.tokens_per_item"},
		{name: "unknown policy", mutate: func(c *Config) { c.Reference.OnFailure = "retry" }, wantKey: "reference.on_reference_failure"},
		{name: "unknown transcriber", mutate: func(c *Config) { c.Transcription.Provider = "azure" }, wantKey: "transcription.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("Validate() = %v; want nil", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v; want *ConfigError", err)
			}
			if ce.Key != tt.wantKey {
				t.Errorf("ConfigError.Key = %q; want %q", ce.Key, tt.wantKey)
			}
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	creds := NewCredentials(DefaultConfig(), nil)
	key, err := creds.Get("openai")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if key != "sk-env" {
		t.Errorf("Get() = %q; want %q", key, "sk-env")
	}
}

func TestCredentialsMissingIsConfigError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	creds := NewCredentials(DefaultConfig(), nil)
	err := creds.Require("openai")
	if !IsConfigError(err) {
		t.Fatalf("Require() = %v; want ConfigError", err)
	}
}

func TestCredentialsFromEncryptedConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("COPYWRITER_PIN", "")

	enc, err := crypto.Encrypt("sk-ant-stored", "4321")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.SetProvider("anthropic", ProviderConfig{APIKeyEncrypted: enc})

	prompts := 0
	creds := NewCredentials(cfg, func() (string, error) {
		prompts++
		return "4321", nil
	})

	for i := 0; i < 2; i++ {
		key, err := creds.Get("anthropic")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if key != "sk-ant-stored" {
			t.Errorf("Get() = %q; want %q", key, "sk-ant-stored")
		}
	}
	if prompts != 1 {
		t.Errorf("PIN prompted %d times; want 1", prompts)
	}
}

func TestCredentialsWrongPIN(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("COPYWRITER_PIN", "0000")

	enc, err := crypto.Encrypt("gm-key", "1111")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.SetProvider("gemini", ProviderConfig{APIKeyEncrypted: enc})

	_, err = NewCredentials(cfg, nil).Get("gemini")
	if !IsConfigError(err) {
		t.Fatalf("Get() = %v; want ConfigError", err)
	}
	if !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Errorf("Get() = %v; want wrapped ErrDecryptionFailed", err)
	}
}
