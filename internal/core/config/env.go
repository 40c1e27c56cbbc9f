package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the process environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(paths...)
}

// applyEnv overlays environment variables on top of file values.
func applyEnv(cfg *Config) {
	cfg.Environment = getEnv("COPYWRITER_ENV", cfg.Environment)
	cfg.Language = getEnv("COPYWRITER_LANGUAGE", cfg.Language)
	cfg.OutputDir = expandPath(getEnv("COPYWRITER_OUTPUT_DIR", cfg.OutputDir))

	cfg.Generation.DefaultModel = getEnv("COPYWRITER_MODEL", cfg.Generation.DefaultModel)
	cfg.Generation.Temperature = getEnvFloat("COPYWRITER_TEMPERATURE", cfg.Generation.Temperature)
	cfg.Generation.TokensPerItem = getEnvInt("COPYWRITER_TOKENS_PER_ITEM", cfg.Generation.TokensPerItem)
	cfg.Reference.OnFailure = getEnv("COPYWRITER_ON_REFERENCE_FAILURE", cfg.Reference.OnFailure)
	cfg.Transcription.Provider = getEnv("COPYWRITER_TRANSCRIPTION_PROVIDER", cfg.Transcription.Provider)

	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Server.APIKey = getEnv("COPYWRITER_SERVER_API_KEY", cfg.Server.APIKey)

	cfg.SentryDSN = getEnv("SENTRY_DSN", cfg.SentryDSN)
	cfg.Langfuse = LangfuseConfig{
		Enabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		PublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		SecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		Host:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
	}
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return defaultValue
}
