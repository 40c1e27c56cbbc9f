package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dianajengpr/copywritingassistant/internal/core/crypto"
)

// ConfigError reports a missing credential or an invalid setting. A
// ConfigError at startup is fatal.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s: %s", e.Key, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ProviderEnvVars maps an LLM provider to the variable holding its key.
var ProviderEnvVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"qwen":      "DASHSCOPE_API_KEY",
}

// PINFunc supplies the PIN used to decrypt stored keys, e.g. by prompting.
type PINFunc func() (string, error)

// Credentials resolves provider API keys from the environment first and
// then from PIN-encrypted entries in config.yml.
type Credentials struct {
	mu    sync.Mutex
	cfg   *Config
	pinFn PINFunc
	pin   string
	cache map[string]string
}

// NewCredentials returns a resolver. pinFn may be nil; COPYWRITER_PIN is
// consulted before it.
func NewCredentials(cfg *Config, pinFn PINFunc) *Credentials {
	return &Credentials{cfg: cfg, pinFn: pinFn, cache: make(map[string]string)}
}

// Has reports whether a key for provider can be found without error.
func (c *Credentials) Has(provider string) bool {
	_, err := c.Get(provider)
	return err == nil
}

// Get returns the API key for provider or a ConfigError.
func (c *Credentials) Get(provider string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.cache[provider]; ok {
		return key, nil
	}

	envVar, known := ProviderEnvVars[provider]
	if !known {
		return "", &ConfigError{Key: "providers." + provider, Reason: "unknown provider"}
	}
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		c.cache[provider] = key
		return key, nil
	}

	enc := c.cfg.Provider(provider).APIKeyEncrypted
	if enc == "" {
		return "", &ConfigError{
			Key:    envVar,
			Reason: fmt.Sprintf("no API key for %s; set %s or run 'copywriter config set-key %s'", provider, envVar, provider),
		}
	}

	pin, err := c.resolvePIN()
	if err != nil {
		return "", &ConfigError{Key: "COPYWRITER_PIN", Reason: "PIN required to unlock stored API key", Err: err}
	}
	key, err := crypto.Decrypt(enc, pin)
	if err != nil {
		return "", &ConfigError{Key: "providers." + provider + ".api_key_encrypted", Reason: "cannot decrypt stored API key", Err: err}
	}
	c.cache[provider] = key
	return key, nil
}

// Require fails with a ConfigError unless the default model's provider has
// a credential. Callers treat the error as fatal at startup.
func (c *Credentials) Require(provider string) error {
	_, err := c.Get(provider)
	return err
}

func (c *Credentials) resolvePIN() (string, error) {
	if c.pin != "" {
		return c.pin, nil
	}
	pin := strings.TrimSpace(os.Getenv("COPYWRITER_PIN"))
	if pin == "" && c.pinFn != nil {
		var err error
		pin, err = c.pinFn()
		if err != nil {
			return "", err
		}
	}
	if err := crypto.ValidatePIN(pin); err != nil {
		return "", err
	}
	c.pin = pin
	return pin, nil
}
