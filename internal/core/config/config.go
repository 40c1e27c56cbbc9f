package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "copywriter"
)

// Reference failure policies.
const (
	OnFailureAbort   = "abort"
	OnFailureProceed = "proceed_without_reference"
)

// Generation defaults.
const (
	DefaultModel            = "gpt-4o"
	DefaultTemperature      = 0.9
	MinTemperature          = 0.7
	MaxTemperature          = 0.9
	DefaultTokensPerItem    = 400
	DefaultCTA              = "mau promo [kategori produk]!"
	DefaultTranscriptBudget = 6000
	DefaultMaxUploadMB      = 200
	DefaultFormat           = "bv*+ba/b"
	DefaultPort             = 8080
)

// DefaultDenylist is the set of marker phrases that usually mean the
// speech-to-text output is song lyrics rather than spoken copy.
var DefaultDenylist = []string{
	"♪", "♫", "[music]", "[musik]", "(music)", "(musik)",
	"lyrics", "lirik", "reff", "chorus",
}

// ConfigDir returns the standard config directory.
// Windows: %APPDATA%\copywriter\
// macOS/Linux: ~/.config/copywriter/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// COPYWRITER_CONFIG overrides the default location.
func ConfigPath() (string, error) {
	if p := os.Getenv("COPYWRITER_CONFIG"); p != "" {
		return expandPath(p), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// UI language for CLI and web form strings ("id", "ms", "en")
	Language string `yaml:"language,omitempty"`

	// Where exported copy and transcripts are written
	OutputDir string `yaml:"output_dir,omitempty"`

	// Environment name reported to Sentry ("development", "production")
	Environment string `yaml:"environment,omitempty"`

	Generation    GenerationConfig          `yaml:"generation"`
	Reference     ReferenceConfig           `yaml:"reference"`
	Transcription TranscriptionConfig       `yaml:"transcription"`
	Providers     map[string]ProviderConfig `yaml:"providers,omitempty"`
	Server        ServerConfig              `yaml:"server,omitempty"`

	// WebDAV servers usable as reference sources ("name:/path/video.mp4")
	WebDAVServers map[string]WebDAVServer `yaml:"webdav_servers,omitempty"`

	// Observability, normally supplied through the environment
	SentryDSN string         `yaml:"-"`
	Langfuse  LangfuseConfig `yaml:"-"`
}

// GenerationConfig controls prompt compilation and the LLM call.
type GenerationConfig struct {
	DefaultModel     string  `yaml:"default_model,omitempty"`
	Temperature      float64 `yaml:"temperature,omitempty"`
	TokensPerItem    int     `yaml:"tokens_per_item,omitempty"`
	CTA              string  `yaml:"cta,omitempty"`
	Strict           bool    `yaml:"strict,omitempty"`
	TranscriptBudget int     `yaml:"transcript_budget,omitempty"`
}

// ReferenceConfig controls how reference videos are fetched and filtered.
type ReferenceConfig struct {
	// OnFailure is "abort" or "proceed_without_reference"
	OnFailure   string   `yaml:"on_reference_failure,omitempty"`
	Denylist    []string `yaml:"denylist,omitempty"`
	MaxUploadMB int64    `yaml:"max_upload_mb,omitempty"`

	// Format is the yt-dlp format selector, or a container like "mp4"
	Format    string `yaml:"format,omitempty"`
	YtdlpPath     string `yaml:"ytdlp_path,omitempty"`
	YoutubeDLPath string `yaml:"youtubedl_path,omitempty"`
}

// TranscriptionConfig selects the speech-to-text backend.
type TranscriptionConfig struct {
	// Provider is "openai", "gcp" or "local"
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`

	// Language hint, e.g. "id" or "id-ID". Empty means auto-detect.
	Language  string `yaml:"language,omitempty"`
	ModelsDir string `yaml:"models_dir,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// ProviderConfig holds per-LLM-provider settings.
type ProviderConfig struct {
	// APIKeyEncrypted is the API key encrypted with the user's PIN
	APIKeyEncrypted string `yaml:"api_key_encrypted,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
}

// ServerConfig holds HTTP server settings for `copywriter serve`
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port,omitempty"`

	// APIKey for authentication (optional, if set API requests must include X-API-Key header)
	APIKey string `yaml:"api_key,omitempty"`

	// CORSOrigins lists allowed browser origins; empty allows all
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// WebDAVServer represents a WebDAV server configuration
type WebDAVServer struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// LangfuseConfig toggles LLM call tracing.
type LangfuseConfig struct {
	Enabled   bool
	PublicKey string
	SecretKey string
	Host      string
}

// GetWebDAVServer returns a WebDAV server by name, or nil if not found
func (c *Config) GetWebDAVServer(name string) *WebDAVServer {
	if c.WebDAVServers == nil {
		return nil
	}
	if s, ok := c.WebDAVServers[name]; ok {
		return &s
	}
	return nil
}

// SetWebDAVServer adds or updates a WebDAV server
func (c *Config) SetWebDAVServer(name string, server WebDAVServer) {
	if c.WebDAVServers == nil {
		c.WebDAVServers = make(map[string]WebDAVServer)
	}
	c.WebDAVServers[name] = server
}

// Provider returns the settings for an LLM provider (zero value if unset).
func (c *Config) Provider(name string) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[name]
}

// SetProvider stores settings for an LLM provider.
func (c *Config) SetProvider(name string, p ProviderConfig) {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	c.Providers[name] = p
}

// DefaultOutputDir returns where exported copy lands by default.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./copywriting"
	}
	switch runtime.GOOS {
	case "darwin", "windows":
		return filepath.Join(home, "Documents", "copywriting")
	default:
		return filepath.Join(home, "copywriting")
	}
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Language:    "id",
		OutputDir:   DefaultOutputDir(),
		Environment: "development",
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero values so a partial config.yml is usable.
func (c *Config) applyDefaults() {
	g := &c.Generation
	if g.DefaultModel == "" {
		g.DefaultModel = DefaultModel
	}
	if g.Temperature == 0 {
		g.Temperature = DefaultTemperature
	}
	if g.TokensPerItem == 0 {
		g.TokensPerItem = DefaultTokensPerItem
	}
	if g.CTA == "" {
		g.CTA = DefaultCTA
	}
	if g.TranscriptBudget == 0 {
		g.TranscriptBudget = DefaultTranscriptBudget
	}

	r := &c.Reference
	if r.OnFailure == "" {
		r.OnFailure = OnFailureProceed
	}
	if r.Denylist == nil {
		r.Denylist = append([]string(nil), DefaultDenylist...)
	}
	if r.MaxUploadMB == 0 {
		r.MaxUploadMB = DefaultMaxUploadMB
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "openai"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Language == "" {
		c.Language = "id"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate checks values that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	g := c.Generation
	if g.Temperature < MinTemperature || g.Temperature > MaxTemperature {
		return &ConfigError{Key: "generation.temperature", Reason: fmt.Sprintf("must be between %.1f and %.1f, got %g", MinTemperature, MaxTemperature, g.Temperature)}
	}
	if g.TokensPerItem <= 0 {
		return &ConfigError{Key: "generation.tokens_per_item", Reason: "must be positive"}
	}
	switch c.Reference.OnFailure {
	case OnFailureAbort, OnFailureProceed:
	default:
		return &ConfigError{Key: "reference.on_reference_failure", Reason: fmt.Sprintf("must be %q or %q, got %q", OnFailureAbort, OnFailureProceed, c.Reference.OnFailure)}
	}
	switch c.Transcription.Provider {
	case "openai", "gcp", "local":
	default:
		return &ConfigError{Key: "transcription.provider", Reason: fmt.Sprintf("unsupported provider %q", c.Transcription.Provider)}
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Reference.MaxUploadMB * 1024 * 1024
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file, fills defaults and applies environment
// overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config.yml contents.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.OutputDir = expandPath(cfg.OutputDir)
	cfg.Transcription.ModelsDir = expandPath(cfg.Transcription.ModelsDir)
	cfg.applyDefaults()
	applyEnv(cfg)
	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes so config files are portable.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// ExpandPath is expandPath for callers outside the package (CLI flags).
func ExpandPath(path string) string {
	return expandPath(path)
}

// Save writes the config file.
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# copywriter configuration file\n# Run 'copywriter config init' to regenerate with defaults\n\n"
	content := header + string(data)

	// The file may hold encrypted keys and WebDAV passwords.
	return os.WriteFile(configPath, []byte(content), 0600)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return ConfigFileName
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// Environment overrides apply in both cases.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
		applyEnv(cfg)
	}
	return cfg
}
