package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/crypto"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage copywriter configuration",
	Long:  "View and modify copywriter settings, API keys and WebDAV remotes",
}

// copywriter config init - write config.yml with defaults
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config.yml with default values",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Init(); err != nil {
			fail(err)
		}
		fmt.Printf("Created %s\n", config.SavePath())
		fmt.Println("Next: copywriter config set-key openai")
	},
}

// copywriter config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()

		fmt.Println("Current configuration:")
		fmt.Printf("  Config:     %s\n", config.SavePath())
		fmt.Printf("  Language:   %s\n", cfg.Language)
		fmt.Printf("  OutputDir:  %s\n", cfg.OutputDir)

		fmt.Println("\nGeneration:")
		for _, key := range []string{"generation.default_model", "generation.temperature", "generation.tokens_per_item", "generation.cta", "generation.strict"} {
			v, _ := getConfigValue(cfg, key)
			fmt.Printf("  %-28s %s\n", key, v)
		}

		fmt.Println("\nReferences:")
		for _, key := range []string{"reference.on_reference_failure", "reference.max_upload_mb", "transcription.provider", "transcription.model", "transcription.language"} {
			v, _ := getConfigValue(cfg, key)
			fmt.Printf("  %-28s %s\n", key, v)
		}
		fmt.Printf("  %-28s %s\n", "reference.denylist", strings.Join(cfg.Reference.Denylist, ", "))

		fmt.Println("\nAPI keys:")
		providers := make([]string, 0, len(config.ProviderEnvVars))
		for p := range config.ProviderEnvVars {
			providers = append(providers, p)
		}
		sort.Strings(providers)
		for _, p := range providers {
			env := config.ProviderEnvVars[p]
			switch {
			case os.Getenv(env) != "":
				fmt.Printf("  %-10s %s (from %s)\n", p, crypto.Mask(os.Getenv(env)), env)
			case cfg.Provider(p).APIKeyEncrypted != "":
				fmt.Printf("  %-10s stored, PIN protected\n", p)
			default:
				fmt.Printf("  %-10s %s\n", p, hintStyle.Render("not set"))
			}
		}

		fmt.Println("\nServer:")
		fmt.Printf("  port:    %d\n", cfg.Server.Port)
		if cfg.Server.APIKey != "" {
			fmt.Printf("  api_key: %s\n", crypto.Mask(cfg.Server.APIKey))
		}

		if len(cfg.WebDAVServers) > 0 {
			fmt.Println("\nWebDAV servers:")
			for name, server := range cfg.WebDAVServers {
				fmt.Printf("  %s: %s\n", name, server.URL)
			}
		}
	},
}

// copywriter config path - show config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.SavePath())
	},
}

// copywriter config set KEY VALUE - set a config value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in config.yml.

Supported keys:
  language                        UI language (id, ms, en)
  output_dir                      Where .txt files are saved
  generation.default_model        Model used when a request names none
  generation.temperature          Sampling temperature (0.7-0.9)
  generation.tokens_per_item      Token budget per copy
  generation.cta                  Closing call to action
  generation.strict               Reject output that breaks the format (true/false)
  reference.on_reference_failure  abort or proceed_without_reference
  reference.max_upload_mb         Upload size limit in MB
  reference.ytdlp_path            Path to yt-dlp
  reference.youtubedl_path        Path to youtube-dl, used when yt-dlp fails
  transcription.provider          openai, gcp or local
  transcription.model             Speech-to-text model
  transcription.language          Language hint, e.g. id
  server.port                     Server listen port
  server.api_key                  Server API key

Examples:
  copywriter config set generation.default_model claude-sonnet-4-5
  copywriter config set reference.on_reference_failure abort
  copywriter config set transcription.provider local`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]
		cfg := config.LoadOrDefault()

		if err := setConfigValue(cfg, key, value); err != nil {
			fail(err)
		}
		if err := cfg.Validate(); err != nil {
			fail(err)
		}
		if err := config.Save(cfg); err != nil {
			fail(fmt.Errorf("failed to save config: %w", err))
		}
		fmt.Printf("Set %s = %s\n", key, value)
	},
}

// copywriter config get KEY - get a config value
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, err := getConfigValue(config.LoadOrDefault(), args[0])
		if err != nil {
			fail(err)
		}
		fmt.Println(value)
	},
}

// copywriter config set-key PROVIDER - store an encrypted API key
var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an LLM provider API key encrypted with a PIN",
	Long: `Store an API key in config.yml, encrypted with a 4-digit PIN.

The PIN is asked for whenever the key is needed. Set COPYWRITER_PIN to
skip the prompt, or set the provider's environment variable instead of
storing the key at all.

Providers: openai, anthropic, gemini, qwen`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		provider := strings.ToLower(args[0])
		if _, ok := config.ProviderEnvVars[provider]; !ok {
			fail(fmt.Errorf("unknown provider %q", provider))
		}
		cfg := config.LoadOrDefault()
		t := i18n.T(cfg.Language)

		key, err := readSecret(fmt.Sprintf("%s API key: ", provider))
		if err != nil {
			fail(err)
		}
		if key == "" {
			fail(fmt.Errorf("API key is required"))
		}
		pin, err := readSecret(t.CLI.EnterPIN + ": ")
		if err != nil {
			fail(err)
		}

		enc, err := crypto.Encrypt(key, pin)
		if err != nil {
			fail(err)
		}
		p := cfg.Provider(provider)
		p.APIKeyEncrypted = enc
		cfg.SetProvider(provider, p)

		if err := config.Save(cfg); err != nil {
			fail(fmt.Errorf("failed to save config: %w", err))
		}
		color.Green(t.CLI.KeySaved, provider)
	},
}

// setConfigValue sets a config value by key
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "language":
		cfg.Language = i18n.Match(value)
	case "output_dir":
		cfg.OutputDir = value
	case "generation.default_model":
		if _, ok := copywriter.ProviderFor(value); !ok {
			return fmt.Errorf("unknown model: %s\nRun 'copywriter models' to list models", value)
		}
		cfg.Generation.DefaultModel = value
	case "generation.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature: %s", value)
		}
		cfg.Generation.Temperature = f
	case "generation.tokens_per_item":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number: %s", value)
		}
		cfg.Generation.TokensPerItem = n
	case "generation.cta":
		cfg.Generation.CTA = value
	case "generation.strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Generation.Strict = b
	case "reference.on_reference_failure":
		cfg.Reference.OnFailure = value
	case "reference.max_upload_mb":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid size: %s", value)
		}
		cfg.Reference.MaxUploadMB = n
	case "reference.ytdlp_path":
		cfg.Reference.YtdlpPath = value
	case "reference.youtubedl_path":
		cfg.Reference.YoutubeDLPath = value
	case "transcription.provider":
		cfg.Transcription.Provider = value
	case "transcription.model":
		cfg.Transcription.Model = value
	case "transcription.language":
		cfg.Transcription.Language = value
	case "server.port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port number: %s", value)
		}
		cfg.Server.Port = port
	case "server.api_key":
		cfg.Server.APIKey = value
	default:
		return fmt.Errorf("unknown config key: %s\nRun 'copywriter config set --help' to see supported keys", key)
	}
	return nil
}

// getConfigValue gets a config value by key
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "language":
		return cfg.Language, nil
	case "output_dir":
		return cfg.OutputDir, nil
	case "generation.default_model":
		return cfg.Generation.DefaultModel, nil
	case "generation.temperature":
		return strconv.FormatFloat(cfg.Generation.Temperature, 'g', -1, 64), nil
	case "generation.tokens_per_item":
		return strconv.Itoa(cfg.Generation.TokensPerItem), nil
	case "generation.cta":
		return cfg.Generation.CTA, nil
	case "generation.strict":
		return strconv.FormatBool(cfg.Generation.Strict), nil
	case "reference.on_reference_failure":
		return cfg.Reference.OnFailure, nil
	case "reference.max_upload_mb":
		return strconv.FormatInt(cfg.Reference.MaxUploadMB, 10), nil
	case "reference.ytdlp_path":
		return cfg.Reference.YtdlpPath, nil
	case "reference.youtubedl_path":
		return cfg.Reference.YoutubeDLPath, nil
	case "transcription.provider":
		return cfg.Transcription.Provider, nil
	case "transcription.model":
		return cfg.Transcription.Model, nil
	case "transcription.language":
		return cfg.Transcription.Language, nil
	case "server.port":
		return strconv.Itoa(cfg.Server.Port), nil
	case "server.api_key":
		return cfg.Server.APIKey, nil
	default:
		return "", fmt.Errorf("unknown config key: %s\nRun 'copywriter config set --help' to see supported keys", key)
	}
}

// --- WebDAV remote management ---

var configWebdavCmd = &cobra.Command{
	Use:     "webdav",
	Short:   "Manage WebDAV remotes used as reference sources",
	Aliases: []string{"remote"},
}

var configWebdavListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List configured WebDAV servers",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()
		if len(cfg.WebDAVServers) == 0 {
			fmt.Println("No WebDAV servers configured.")
			fmt.Println("Add one with: copywriter config webdav add <name>")
			return
		}
		names := make([]string, 0, len(cfg.WebDAVServers))
		for name := range cfg.WebDAVServers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := cfg.WebDAVServers[name]
			if s.Username != "" {
				fmt.Printf("  %s: %s (user: %s)\n", name, s.URL, s.Username)
				continue
			}
			fmt.Printf("  %s: %s\n", name, s.URL)
		}
	},
}

var configWebdavAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a WebDAV server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		cfg := config.LoadOrDefault()

		if cfg.GetWebDAVServer(name) != nil {
			fail(fmt.Errorf("WebDAV server '%s' already exists; delete it first: copywriter config webdav delete %s", name, name))
		}

		reader := bufio.NewReader(os.Stdin)
		urlStr := readLine(reader, "WebDAV URL: ")
		if urlStr == "" {
			fail(fmt.Errorf("URL is required"))
		}
		username := readLine(reader, "Username (enter to skip): ")

		var password string
		if username != "" {
			var err error
			if password, err = readSecret("Password: "); err != nil {
				fail(fmt.Errorf("failed to read password: %w", err))
			}
		}

		cfg.SetWebDAVServer(name, config.WebDAVServer{
			URL:      urlStr,
			Username: username,
			Password: password,
		})
		if err := config.Save(cfg); err != nil {
			fail(fmt.Errorf("failed to save config: %w", err))
		}

		fmt.Printf("\nWebDAV server '%s' added.\n", name)
		fmt.Printf("Usage: copywriter generate \"Produk\" --ref %s:/path/to/video.mp4\n", name)
	},
}

var configWebdavDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a WebDAV server",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		cfg := config.LoadOrDefault()
		if cfg.GetWebDAVServer(name) == nil {
			fail(fmt.Errorf("WebDAV server '%s' not found", name))
		}
		delete(cfg.WebDAVServers, name)
		if err := config.Save(cfg); err != nil {
			fail(fmt.Errorf("failed to save config: %w", err))
		}
		fmt.Printf("WebDAV server '%s' deleted.\n", name)
	},
}

func init() {
	configWebdavCmd.AddCommand(configWebdavListCmd, configWebdavAddCmd, configWebdavDeleteCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd, configSetCmd, configGetCmd, configSetKeyCmd, configWebdavCmd)
	rootCmd.AddCommand(configCmd)
}
