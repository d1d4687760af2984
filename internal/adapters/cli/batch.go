package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/adapters/cli/tui"
	"github.com/devbush/kortsubs/internal/application"
)

var (
	batchFileFlag      string
	batchDirFlag       string
	batchOutputDirFlag string
	batchConcurrency   int
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Subtitle many media files",
		Long: `Subtitle many media files concurrently.

Provide media files as arguments, via a list file with --file, and/or a
folder with --dir. Each file gets <name>.kort.<ext> next to it, or in
--output-dir when set.

Example:
  kortsubs batch a.mp4 b.mp4
  kortsubs batch --dir ./clips --format vtt
  kortsubs batch --file clips.txt --concurrency 4 --output-dir subs`,
		RunE: runBatch,
	}

	cmd.Flags().StringVarP(&batchFileFlag, "file", "f", "", "File with media paths (one per line)")
	cmd.Flags().StringVar(&batchDirFlag, "dir", "", "Folder to scan for media files")
	cmd.Flags().StringVar(&batchOutputDirFlag, "output-dir", "", "Directory for subtitle files (default: next to each input)")
	cmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 2, fmt.Sprintf("Max concurrent workers (max %d)", application.MaxBatchConcurrency))

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs, err := CollectInputs(args, batchFileFlag, batchDirFlag)
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}

	if len(inputs) == 0 {
		return fmt.Errorf("no media files provided")
	}

	return processBatch(cmd, inputs)
}

func runBatchInteractive(cmd *cobra.Command, dir string) error {
	paths, err := ScanMediaDir(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No media files in %s\n", dir)
		return nil
	}

	entries := make([]tui.FileEntry, 0, len(paths))
	for _, p := range paths {
		var size int64
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		entries = append(entries, tui.FileEntry{Path: p, Size: size})
	}

	selected, err := tui.RunFileList(entries)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("Cancelled")
		return nil
	}

	return processBatch(cmd, selected)
}

func processBatch(cmd *cobra.Command, inputs []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	opts, err := generateOptions(cmd, app)
	if err != nil {
		return err
	}

	svc, err := app.SubtitleService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ensureWhisperReady(ctx, app, opts.Model, tui.NewProgressDisplay([]string{"Checking dependencies"}, quietFlag)); err != nil {
		return err
	}

	if batchOutputDirFlag != "" {
		if err := os.MkdirAll(batchOutputDirFlag, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	concurrency := batchConcurrency
	if !cmd.Flags().Changed("concurrency") && app.Config.Defaults.Workers > 0 {
		concurrency = app.Config.Defaults.Workers
	}

	progress := tui.NewBatchProgress(len(inputs), quietFlag)
	summary := application.NewBatchRunner(svc).Run(ctx, inputs, application.BatchOptions{
		Generate:    opts,
		OutputDir:   batchOutputDirFlag,
		Concurrency: concurrency,
	}, func(r application.BatchResult) {
		progress.AddResult(tui.BatchResult{
			Name:     filepath.Base(r.Input),
			Success:  r.Success,
			ErrMsg:   r.Error,
			Duration: r.Duration,
			Cues:     r.Cues,
			Cached:   r.Cached,
		})
		if r.Success {
			app.Logger.Debug("batch item written", "input", r.Input, "output", r.OutputPath)
		} else {
			app.Logger.Warn("batch item failed", "input", r.Input, "error", r.Error)
		}
	})

	progress.Complete()

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}
