package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/adapters/cli/tui"
	"github.com/devbush/kortsubs/internal/adapters/verbosejson"
)

var convertSourceFlag string

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <response.json>",
		Short: "Render subtitles from a saved transcription response",
		Long: `Render subtitles from a saved verbose_json transcription response
without calling any provider. Useful for tuning segmentation limits.

Example:
  kortsubs convert clip.json --max-chars 32 --format vtt
  kortsubs convert clip.json --source clip.mp4 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	cmd.Flags().StringVar(&convertSourceFlag, "source", "", "Media file name used to name the output (default: the JSON file)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := strings.TrimSpace(args[0])
	if path == "" {
		return fmt.Errorf("no response file given")
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	opts, err := generateOptions(cmd, app)
	if err != nil {
		return err
	}

	parsed, err := verbosejson.ParseFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if opts.Language == "" {
		opts.Language = parsed.Language
	}

	source := convertSourceFlag
	if source == "" {
		source = path
	}

	result, err := app.ConvertService().Convert(parsed.Words, source, opts)
	if err != nil {
		return err
	}

	written, err := writeResult(result, source, false)
	if err != nil {
		return err
	}

	if previewFlag {
		tui.RenderCueTable(os.Stdout, result.Cues)
	}
	if written != "" && !quietFlag {
		fmt.Printf("✓ %d cues written to %s\n", len(result.Cues), written)
	}
	return nil
}
