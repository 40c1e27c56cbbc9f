package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/output"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/transcriber"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

var (
	transcribeOutput    string
	transcribeProvider  string
	transcribeTimestamp bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <link or file>",
	Short: "Transcribe one reference video",
	Long: `Fetch one reference video, transcribe its speech and print the text.

Use it to check what a reference contributes before generating. A
reference that is silent or looks like song lyrics prints nothing.

Examples:
  copywriter transcribe https://www.tiktok.com/@user/video/123
  copywriter transcribe ./contoh.mp4 -o contoh.md
  copywriter transcribe ./contoh.mp4 --provider local`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTranscribe(cmd.Context(), args[0]); err != nil {
			fail(err)
		}
	},
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeOutput, "output", "o", "", "write a markdown transcript to this file")
	transcribeCmd.Flags().StringVar(&transcribeProvider, "provider", "", "speech-to-text provider: openai, gcp or local")
	transcribeCmd.Flags().BoolVarP(&transcribeTimestamp, "timestamps", "t", false, "print segment timestamps")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(ctx context.Context, target string) error {
	cfg := loadConfig()
	t := i18n.T(cfg.Language)
	log := newLogger()
	defer log.Sync()

	if transcribeProvider != "" {
		cfg.Transcription.Provider = transcribeProvider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	refs, closeRefs, err := openReferences([]string{target})
	if err != nil {
		return err
	}
	defer closeRefs()
	if len(refs) == 0 {
		return fmt.Errorf("nothing to transcribe")
	}

	state := newTaskState(fmt.Sprintf(t.CLI.Resolving, 1))
	creds := config.NewCredentials(cfg, promptPIN(cfg.Language))
	resolver, err := ai.NewResolver(ctx, cfg, creds, log, ai.BuildOptions{
		Progress: func(downloaded, total int64) {
			state.setDetail(progressDetail(downloaded, total))
		},
	})
	if err != nil {
		return err
	}

	var tr *reference.Transcript
	err = runWithSpinner(ctx, state, func(ctx context.Context) error {
		var err error
		tr, err = resolver.Resolve(ctx, refs[0])
		return err
	})
	if err != nil {
		return err
	}

	if tr == nil {
		fmt.Fprintln(os.Stderr, hintStyle.Render(fmt.Sprintf(t.CLI.ReferenceEmpty, 1)))
		return nil
	}

	if transcribeTimestamp && len(tr.Segments) > 0 {
		fmt.Print((&transcriber.Result{Segments: tr.Segments}).FormattedText())
	} else {
		fmt.Println(tr.Text)
	}

	if transcribeOutput == "" {
		return nil
	}
	path := config.ExpandPath(transcribeOutput)
	if filepath.Ext(path) == "" {
		path += ".md"
	}
	if err := output.WriteTranscript(path, tr); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n", doneStyle.Render("✓"), fmt.Sprintf(t.CLI.Saved, path))
	return nil
}
