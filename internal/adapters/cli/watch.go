package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/adapters/cli/tui"
	"github.com/devbush/kortsubs/internal/adapters/watch"
	"github.com/devbush/kortsubs/internal/application"
)

var (
	watchConcurrency int
	watchSettle      time.Duration
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Subtitle media files as they appear in a folder",
		Long: `Watch a folder and subtitle every media file written to it.

A file is processed once it has not changed for --settle. Subtitles are
written next to each file. Stop with Ctrl+C.

Example:
  kortsubs watch ./exports --format vtt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().IntVarP(&watchConcurrency, "concurrency", "c", 1, fmt.Sprintf("Max concurrent workers (max %d)", application.MaxBatchConcurrency))
	cmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "Quiet period before a file is processed")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

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

	w, err := watch.New(dir, watch.Options{
		Accept:        IsMediaFile,
		Settle:        watchSettle,
		MaxConcurrent: watchConcurrency,
		Logger:        app.Logger.With("component", "watch"),
	})
	if err != nil {
		return err
	}
	defer w.Close()

	runner := application.NewBatchRunner(svc)
	if !quietFlag {
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	}

	err = w.Run(ctx, func(ctx context.Context, path string) {
		summary := runner.Run(ctx, []string{path}, application.BatchOptions{Generate: opts, Concurrency: 1}, nil)
		for _, r := range summary.Results {
			reportWatchResult(app, r)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func reportWatchResult(app *App, r application.BatchResult) {
	name := filepath.Base(r.Input)
	if !r.Success {
		app.Logger.Warn("watch item failed", "input", r.Input, "error", r.Error)
		fmt.Printf("✗ %s: %s\n", name, r.Error)
		return
	}
	app.Logger.Debug("watch item written", "input", r.Input, "output", r.OutputPath)
	if !quietFlag {
		fmt.Printf("✓ %s -> %s (%d cues, %.1fs)\n", name, filepath.Base(r.OutputPath), r.Cues, r.Duration.Seconds())
	}
}
