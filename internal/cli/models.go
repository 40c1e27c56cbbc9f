package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
)

var (
	modelsProvider   string
	modelsConfigured bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Width(20)
	nameStyle   = lipgloss.NewStyle().Width(20)
	tierStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(10)
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the chat models copy can be generated with",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()
		fmt.Print(renderModels(copywriter.Models, modelsProvider, cfg.Generation.DefaultModel, func(p string) bool {
			return !modelsConfigured || os.Getenv(config.ProviderEnvVars[p]) != "" || cfg.Provider(p).APIKeyEncrypted != ""
		}))
	},
}

var modelsLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "List whisper.cpp models for local transcription",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()
		dir := config.ExpandPath(cfg.Transcription.ModelsDir)
		for _, m := range transcriber.LocalModels {
			mark := "  "
			if transcriber.IsDownloaded(m.Name, dir) {
				mark = doneStyle.Render("✓ ")
			}
			fmt.Printf("%s%s %s %s\n", mark, idStyle.Render(m.Name), tierStyle.Render(m.Size), m.Description)
		}
		fmt.Printf("\n%s\n", hintStyle.Render("Download one with: copywriter models download <name>"))
	},
}

var modelsDownloadCmd = &cobra.Command{
	Use:   "download <name>",
	Short: "Download a whisper.cpp model",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()
		m := transcriber.GetLocalModel(args[0])
		if m == nil {
			fail(fmt.Errorf("unknown model %q, run 'copywriter models local'", args[0]))
		}

		state := newTaskState(fmt.Sprintf("Downloading %s (%s)", m.Name, m.Size))
		var path string
		err := runWithSpinner(cmd.Context(), state, func(ctx context.Context) error {
			var err error
			path, err = transcriber.DownloadModel(ctx, m.Name, config.ExpandPath(cfg.Transcription.ModelsDir), func(done, total int64) {
				state.setDetail(progressDetail(done, total))
			})
			return err
		})
		if err != nil {
			fail(err)
		}
		color.Green("Saved %s", path)
	},
}

func init() {
	modelsCmd.Flags().StringVarP(&modelsProvider, "provider", "p", "", "only list models of this provider")
	modelsCmd.Flags().BoolVarP(&modelsConfigured, "configured", "c", false, "only list providers that have an API key")
	modelsCmd.AddCommand(modelsLocalCmd)
	modelsCmd.AddCommand(modelsDownloadCmd)
	rootCmd.AddCommand(modelsCmd)
}

// renderModels groups the catalogue by provider. Providers for which
// available returns false are left out.
func renderModels(models []copywriter.Model, provider, defaultModel string, available func(string) bool) string {
	var b strings.Builder
	current := ""
	for _, m := range models {
		if provider != "" && m.Provider != provider {
			continue
		}
		if !available(m.Provider) {
			continue
		}
		if m.Provider != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = m.Provider
			b.WriteString(headerStyle.Render(m.Provider) + "\n")
		}
		line := "  " + idStyle.Render(m.ID) + nameStyle.Render(m.Name) + tierStyle.Render(m.Tier) + m.Description
		if m.ID == defaultModel {
			line += " " + doneStyle.Render("(default)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
