package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/adapters/cli/tui"
	"github.com/devbush/kortsubs/internal/application"
	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/domain"
)

var (
	// Global flags
	formatFlag   string
	languageFlag string
	providerFlag string
	modelFlag    string
	noCacheFlag  bool
	outputFlag   string
	quietFlag    bool
	previewFlag  bool
	configFlag   string
	logLevelFlag string

	// Segmentation overrides, applied only when set
	maxCharsFlag int
	maxWordsFlag int
	maxDurFlag   float64
	minDurFlag   float64
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kortsubs [media-file]",
		Short: "Generate short-cue subtitles for vertical video",
		Long: `kortsubs transcribes a media file with word timestamps and groups the
words into short, readable subtitle cues (SRT or WebVTT).

Provide a media file to subtitle it, or run without arguments for an
interactive menu.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&formatFlag, "format", "", "Subtitle format: srt, vtt (default from config)")
	pf.StringVarP(&languageFlag, "language", "l", "", "Language code hint (default from config, \"auto\" to detect)")
	pf.StringVar(&providerFlag, "provider", "", "Transcription provider: openai, azure, whisper")
	pf.StringVar(&modelFlag, "model", "", "Model name (azure: deployment name)")
	pf.BoolVar(&noCacheFlag, "no-cache", false, "Always transcribe, ignoring cached transcripts")
	pf.StringVarP(&outputFlag, "output", "o", "", "Output file path, \"-\" for stdout")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	pf.BoolVar(&previewFlag, "preview", false, "Print the cues as a table")
	pf.StringVar(&configFlag, "config", "", "Config file (default ~/.kortsubs/config.yaml)")
	pf.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	pf.IntVar(&maxCharsFlag, "max-chars", domain.DefaultMaxChars, "Max characters per cue")
	pf.IntVar(&maxWordsFlag, "max-words", domain.DefaultMaxWords, "Max words per cue")
	pf.Float64Var(&maxDurFlag, "max-dur", domain.DefaultMaxDur, "Max cue duration in seconds")
	pf.Float64Var(&minDurFlag, "min-dur", domain.DefaultMinDur, "Min cue duration in seconds")

	rootCmd.AddCommand(NewConvertCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if !tui.Interactive() {
			return cmd.Help()
		}
		return runInteractiveMenu(cmd)
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	opts, err := generateOptions(cmd, app)
	if err != nil {
		return err
	}
	return runGenerate(cmd.Context(), app, args[0], []domain.SubtitleFormat{opts.Format}, opts)
}

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Subtitle a media file", Value: "generate"},
		{Label: "Subtitle a folder", Value: "batch"},
		{Label: "Convert a saved transcription response", Value: "convert"},
		{Label: "Manage cache", Value: "cache"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "generate":
		return runGenerateInteractive(cmd)
	case "batch":
		dir, err := tui.RunInput("Folder to subtitle:", ".")
		if err != nil || dir == "" {
			return err
		}
		return runBatchInteractive(cmd, dir)
	case "convert":
		path, err := tui.RunInput("Saved transcription response:", "response.json")
		if err != nil || path == "" {
			return err
		}
		return runConvert(cmd, []string{path})
	case "cache":
		return runCacheStatus(cmd, nil)
	case "":
		fmt.Println("Cancelled")
	}

	return nil
}

func runGenerateInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	opts, err := generateOptions(cmd, app)
	if err != nil {
		return err
	}

	formats, err := tui.RunFormatSelector(opts.Format)
	if err != nil {
		return err
	}
	if formats == nil {
		fmt.Println("Cancelled")
		return nil
	}

	input, err := tui.RunInput("Media file to subtitle:", "clip.mp4")
	if err != nil {
		return err
	}
	if input == "" {
		return errors.New("no media file given")
	}
	return runGenerate(cmd.Context(), app, input, formats, opts)
}

func runGenerate(ctx context.Context, app *App, mediaPath string, formats []domain.SubtitleFormat, opts application.GenerateOptions) error {
	if _, err := os.Stat(mediaPath); err != nil {
		return fmt.Errorf("media file: %w", err)
	}

	steps := []string{"Checking dependencies", "Transcribing", "Writing subtitles"}
	progress := tui.NewProgressDisplay(steps, quietFlag || outputFlag == "-")

	// Step 1: provider readiness
	progress.StartStep(0)
	svc, err := app.SubtitleService()
	if err != nil {
		progress.FailStep(0, err.Error())
		return err
	}
	if err := ensureWhisperReady(ctx, app, opts.Model, progress); err != nil {
		progress.FailStep(0, err.Error())
		return err
	}
	progress.CompleteStep(0)

	// Step 2: transcribe and segment
	spinnerDone := progress.StartSpinner()
	progress.StartStep(1)

	opts.Format = formats[0]
	result, err := svc.Generate(ctx, mediaPath, opts)
	close(spinnerDone)
	if err != nil {
		progress.FailStep(1, err.Error())
		return err
	}
	progress.CompleteStep(1)

	// Step 3: write every requested format
	progress.StartStep(2)
	results := []*application.GenerateResult{result}
	for _, f := range formats[1:] {
		o := opts
		o.Format = f
		extra, err := svc.Convert(result.Transcript.Words, mediaPath, o)
		if err != nil {
			progress.FailStep(2, err.Error())
			return err
		}
		results = append(results, extra)
	}

	var outputs []tui.Output
	for _, r := range results {
		path, err := writeResult(r, mediaPath, len(results) > 1)
		if err != nil {
			progress.FailStep(2, err.Error())
			return err
		}
		if path != "" {
			outputs = append(outputs, tui.Output{Label: strings.ToUpper(string(r.Format)), Path: path})
		}
	}
	progress.CompleteStep(2)

	if previewFlag {
		tui.RenderCueTable(os.Stdout, result.Cues)
	}

	if result.FromCache {
		outputs = append(outputs, tui.Output{Label: "Transcript", Path: "from cache"})
	}
	progress.Complete(outputs)
	return nil
}

// ensureWhisperReady checks the local toolchain and downloads the model on
// first use. Other providers need nothing local.
func ensureWhisperReady(ctx context.Context, app *App, model string, progress *tui.ProgressDisplay) error {
	if app.Config.Provider.Name != config.ProviderWhisper {
		return nil
	}
	if !app.Whisper.IsAvailable() {
		return errors.New("whisper.cpp not found: install it and make whisper-cli available on PATH")
	}
	if !app.Extractor.IsAvailable() {
		return fmt.Errorf("%w\n%s", domain.ErrFFmpegNotFound, app.Extractor.Instructions())
	}
	if app.Whisper.IsModelDownloaded(model) {
		return nil
	}
	return app.Whisper.DownloadModel(ctx, model, func(d, t int64) {
		progress.UpdateProgress(0, d, t)
	})
}

// generateOptions merges config defaults with the flags set on cmd
func generateOptions(cmd *cobra.Command, app *App) (application.GenerateOptions, error) {
	cfg := app.Config
	format := cfg.Defaults.Format
	if formatFlag != "" {
		format = formatFlag
	}
	f, err := domain.ParseFormat(format)
	if err != nil {
		return application.GenerateOptions{}, err
	}

	language := cfg.Defaults.Language
	if languageFlag != "" {
		language = languageFlag
	}

	seg := cfg.Segment
	flags := cmd.Flags()
	if flags.Changed("max-chars") {
		seg.MaxChars = maxCharsFlag
	}
	if flags.Changed("max-words") {
		seg.MaxWords = maxWordsFlag
	}
	if flags.Changed("max-dur") {
		seg.MaxDur = maxDurFlag
	}
	if flags.Changed("min-dur") {
		seg.MinDur = minDurFlag
	}
	if err := seg.Validate(); err != nil {
		return application.GenerateOptions{}, err
	}

	return application.GenerateOptions{
		Format:   f,
		Segment:  seg,
		Model:    app.Model(),
		Language: language,
		NoCache:  noCacheFlag,
	}, nil
}

// applyProviderFlags overrides the configured provider for this run
func applyProviderFlags(app *App) error {
	changed := false
	if providerFlag != "" && providerFlag != app.Config.Provider.Name {
		app.Config.Provider.Name = strings.ToLower(providerFlag)
		changed = true
	}
	if modelFlag != "" && modelFlag != app.Config.Provider.Model {
		app.Config.Provider.Model = modelFlag
		changed = true
	}
	if !changed {
		return nil
	}
	app.transcriber = nil
	return app.Config.Validate()
}

// writeResult writes r according to --output and returns the path written,
// or "" for stdout. With several formats an explicit --output names the
// first file and the rest replace its extension.
func writeResult(r *application.GenerateResult, source string, multi bool) (string, error) {
	switch {
	case outputFlag == "-":
		_, err := fmt.Fprint(os.Stdout, r.Content)
		return "", err
	case outputFlag != "":
		path := outputFlag
		if multi {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + filepath.Ext(r.FileName)
		}
		return path, writeFile(path, r.Content)
	default:
		path := filepath.Join(filepath.Dir(source), r.FileName)
		return path, writeFile(path, r.Content)
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
