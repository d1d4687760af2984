package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/kortsubs/internal/config"
)

// NewDepsCmd creates the deps command
func NewDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show provider and tool status",
		RunE:  runDepsStatus,
	}
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	p := app.Config.Provider

	fmt.Println()
	fmt.Println("Dependency Status:")
	fmt.Println()
	fmt.Printf("  provider:  %s (model %s)\n", p.Name, app.Model())

	switch p.Name {
	case config.ProviderOpenAI:
		fmt.Printf("  api key:   %s\n", presence(app.Secrets.OpenAIAPIKey, "OPENAI_API_KEY"))
	case config.ProviderAzure:
		fmt.Printf("  api key:   %s\n", presence(app.Secrets.AzureAPIKey, "AZURE_OPENAI_API_KEY"))
		fmt.Printf("  endpoint:  %s\n", presence(p.AzureEndpoint, "AZURE_OPENAI_ENDPOINT"))
	}

	if app.Extractor.IsAvailable() {
		fmt.Printf("  ffmpeg:    installed (%s)\n", app.Extractor.BinaryPath())
	} else {
		fmt.Println("  ffmpeg:    not found")
	}

	if app.Whisper.IsAvailable() {
		fmt.Println("  whisper:   installed")
	} else {
		fmt.Println("  whisper:   not found")
	}

	models := app.Whisper.AvailableModels()
	downloaded := 0
	for _, m := range models {
		if m.Downloaded {
			downloaded++
		}
	}
	fmt.Printf("  models:    %d/%d downloaded\n", downloaded, len(models))
	fmt.Println()

	if p.Name == config.ProviderWhisper && !app.Extractor.IsAvailable() {
		fmt.Println(app.Extractor.Instructions())
	}

	return nil
}

func presence(value, envVar string) string {
	if value == "" {
		return "missing (set " + envVar + ")"
	}
	return "set"
}
