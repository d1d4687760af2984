package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/adapters/cli/tui"
	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/ports"
)

// NewModelCmd creates the model subcommand
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage local whisper.cpp models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available models",
		RunE:  runModelList,
	}

	downloadCmd := &cobra.Command{
		Use:   "download <model>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDownload,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelRemove,
	}

	cmd.AddCommand(listCmd, downloadCmd, removeCmd)
	return cmd
}

func runModelList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	def := ""
	if app.Config.Provider.Name == config.ProviderWhisper {
		def = app.Model()
	}
	fmt.Println(renderModelTable(app.Whisper.AvailableModels(), def))
	return nil
}

func renderModelTable(models []ports.Model, defaultModel string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Model", "Size", "Status", "Notes"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for _, m := range models {
		status := "not downloaded"
		if m.Downloaded {
			status = "downloaded"
		}
		if m.Name == defaultModel {
			status += " (default)"
		}
		tw.AppendRow(table.Row{m.Name, tui.FormatSize(m.Size), status, m.Description})
	}

	return tw.Render()
}

func runModelDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	model := args[0]

	if app.Whisper.IsModelDownloaded(model) {
		fmt.Printf("Model '%s' is already downloaded\n", model)
		return nil
	}

	fmt.Printf("Downloading model '%s'...\n", model)

	err = app.Whisper.DownloadModel(cmd.Context(), model, func(downloaded, total int64) {
		if total > 0 && !quietFlag {
			pct := float64(downloaded) / float64(total) * 100
			fmt.Fprintf(os.Stdout, "\rProgress: %.1f%% (%s / %s)", pct, tui.FormatSize(downloaded), tui.FormatSize(total))
		}
	})

	if err != nil {
		return err
	}

	fmt.Println("\nModel downloaded successfully")
	return nil
}

func runModelRemove(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	model := args[0]

	if !app.Whisper.IsModelDownloaded(model) {
		fmt.Printf("Model '%s' is not downloaded\n", model)
		return nil
	}

	if err := app.Whisper.DeleteModel(model); err != nil {
		return err
	}

	fmt.Printf("Model '%s' removed\n", model)
	return nil
}
