// Package cli implements the copywriter command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/logger"
	"github.com/dianajengpr/copywritingassistant/internal/core/version"
)

var (
	verbose bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:     "copywriter",
	Short:   "Generate TikTok promotional copy from a product name and reference videos",
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			if err := config.LoadDotEnv(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		_ = config.LoadDotEnv()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug logs")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file (default: .env if present)")
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// loadConfig reads config.yml and warns once when it is missing.
func loadConfig() *config.Config {
	cfg := config.LoadOrDefault()
	if !config.Exists() {
		t := i18n.T(cfg.Language)
		color.New(color.FgYellow).Fprintf(os.Stderr, "%s. %s\n", t.Server.NoConfigWarning, t.Server.RunInitHint)
	}
	return cfg
}

// newLogger returns a logger that stays quiet unless --verbose is set, so
// log lines do not interleave with the spinner.
func newLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.Nop()
	}
	return log
}

// fail prints err and exits with status 1.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
	os.Exit(1)
}
