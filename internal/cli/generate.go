package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dianajengpr/copywritingassistant/internal/core/ai"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/copywriter"
	"github.com/dianajengpr/copywritingassistant/internal/core/ai/output"
	"github.com/dianajengpr/copywritingassistant/internal/core/config"
	"github.com/dianajengpr/copywritingassistant/internal/core/i18n"
	"github.com/dianajengpr/copywritingassistant/internal/core/reference"
)

var (
	genName      string
	genFeatures  string
	genExtra     string
	genLanguage  string
	genCount     int
	genModel     string
	genRefs      []string
	genOutputDir string
	genNoSave    bool
	genStrict    bool
	genOnFailure string
)

var generateCmd = &cobra.Command{
	Use:     "generate [product name]",
	Aliases: []string{"gen", "g"},
	Short:   "Generate TikTok copy for a product",
	Long: `Generate promotional TikTok copy for a product.

Up to three reference videos can be given with --ref, each either a link
(TikTok, Instagram, YouTube, a direct media URL, a WebDAV path) or a local
video file. Their transcripts steer the style of the generated copy.

Examples:
  copywriter generate "Silikon Keran Air" -f "anti bocor, mudah dipasang" -n 5
  copywriter generate "Sabun Cuci" --ref https://www.tiktok.com/@user/video/123
  copywriter generate "Sabun Cuci" --ref ./contoh.mp4 -l english -m claude-sonnet-4-5`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 && genName == "" {
			genName = args[0]
		}
		if err := runGenerate(cmd.Context()); err != nil {
			fail(err)
		}
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genName, "name", "", "product name (required)")
	f.StringVarP(&genFeatures, "features", "f", "", "product features to mention")
	f.StringVarP(&genExtra, "extra", "e", "", "extra instructions for the writer")
	f.StringVarP(&genLanguage, "language", "l", "", "output language: indonesia, malaysia or inggris (default indonesia)")
	f.IntVarP(&genCount, "count", "n", copywriter.DefaultCount, fmt.Sprintf("number of copies (%d-%d)", copywriter.MinCount, copywriter.MaxCount))
	f.StringVarP(&genModel, "model", "m", "", "model ID (see 'copywriter models')")
	f.StringArrayVarP(&genRefs, "ref", "r", nil, "reference video link or file, repeatable up to 3 times")
	f.StringVarP(&genOutputDir, "output", "o", "", "directory for the .txt file (default: output_dir from config)")
	f.BoolVar(&genNoSave, "no-save", false, "print the copy without writing a file")
	f.BoolVar(&genStrict, "strict", false, "fail when the copy breaks the formatting rules")
	f.StringVar(&genOnFailure, "on-reference-failure", "", "abort or proceed_without_reference (default from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context) error {
	cfg := loadConfig()
	t := i18n.T(cfg.Language)
	log := newLogger()
	defer log.Sync()

	if genStrict {
		cfg.Generation.Strict = true
	}
	if genOnFailure != "" {
		cfg.Reference.OnFailure = genOnFailure
	}

	// invalid input never reaches the network or the PIN prompt
	req, err := copywriter.NewRequest(copywriter.RequestInput{
		ProductName:       genName,
		Features:          genFeatures,
		ExtraInstructions: genExtra,
		Language:          genLanguage,
		Count:             genCount,
		Model:             genModel,
	}, cfg.Generation.DefaultModel)
	if err != nil {
		return err
	}
	if len(genRefs) > ai.MaxReferences {
		return &copywriter.ValidationError{Field: "references", Reason: fmt.Sprintf("at most %d references are allowed, got %d", ai.MaxReferences, len(genRefs))}
	}

	refs, closeRefs, err := openReferences(genRefs)
	if err != nil {
		return err
	}
	defer closeRefs()

	creds := config.NewCredentials(cfg, promptPIN(cfg.Language))
	if provider, ok := copywriter.ProviderFor(req.ModelID()); ok {
		if err := creds.Require(provider); err != nil {
			return err
		}
	}

	label := fmt.Sprintf(t.CLI.Generating, req.Count(), req.ModelID())
	if len(refs) > 0 {
		label = fmt.Sprintf(t.CLI.Resolving, len(refs))
	}
	state := newTaskState(label)

	stack, err := ai.Build(ctx, cfg, creds, log, ai.BuildOptions{
		Progress: func(downloaded, total int64) {
			state.setDetail(progressDetail(downloaded, total))
		},
	})
	if err != nil {
		return err
	}
	defer stack.Tracer.Flush(context.Background())

	var outcome *ai.Outcome
	err = runWithSpinner(ctx, state, func(ctx context.Context) error {
		var err error
		outcome, err = stack.Pipeline.Run(ctx, ai.Job{Request: req, References: refs})
		if err == nil {
			state.setLabel(fmt.Sprintf(t.CLI.Generating, req.Count(), req.ModelID()))
		}
		return err
	})
	if err != nil {
		return err
	}

	printReferences(t, outcome.References)
	fmt.Println(outcome.Result.Text)
	printIssues(t, outcome.Result.Issues)

	if genNoSave {
		return nil
	}
	dir := genOutputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	path, err := output.WriteText(config.ExpandPath(dir), req.ProductName(), outcome.Result.Text)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n", doneStyle.Render("✓"), fmt.Sprintf(t.CLI.Saved, path))
	return nil
}

// openReferences turns --ref values into reference slots. A value naming
// an existing regular file is uploaded, anything else is a link.
func openReferences(values []string) ([]reference.Input, func(), error) {
	var (
		inputs []reference.Input
		files  []*os.File
	)
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if info, err := os.Stat(v); err == nil && info.Mode().IsRegular() {
			f, err := os.Open(v)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("failed to open reference: %w", err)
			}
			files = append(files, f)
			inputs = append(inputs, reference.Input{FileName: filepath.Base(v), File: f})
			continue
		}
		inputs = append(inputs, reference.Input{URL: v})
	}
	return inputs, closeAll, nil
}

func printReferences(t *i18n.Translations, refs []ai.ReferenceOutcome) {
	for _, r := range refs {
		switch r.Status {
		case ai.StatusUsed:
			fmt.Fprintf(os.Stderr, "%s %s\n", doneStyle.Render("✓"), fmt.Sprintf(t.CLI.ReferenceUsed, r.Slot))
		case ai.StatusEmpty:
			fmt.Fprintf(os.Stderr, "%s %s\n", hintStyle.Render("-"), fmt.Sprintf(t.CLI.ReferenceEmpty, r.Slot))
		case ai.StatusFailed:
			color.New(color.FgYellow).Fprintf(os.Stderr, "! %s: %s\n", fmt.Sprintf(t.CLI.ReferenceSkipped, r.Slot), r.Error)
		}
	}
	if len(refs) > 0 {
		fmt.Fprintln(os.Stderr)
	}
}

func printIssues(t *i18n.Translations, issues []copywriter.Issue) {
	if len(issues) == 0 {
		return
	}
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "\n%s:\n", t.CLI.Issues)
	for _, is := range issues {
		if is.Line > 0 {
			yellow.Fprintf(os.Stderr, "  - [%s] %s (%d)\n", is.Code, is.Message, is.Line)
			continue
		}
		yellow.Fprintf(os.Stderr, "  - [%s] %s\n", is.Code, is.Message)
	}
}
