package tui

import "github.com/devbush/kortsubs/internal/domain"

// RunFormatSelector asks which subtitle formats to write. def is checked
// initially. A nil result means the user cancelled.
func RunFormatSelector(def domain.SubtitleFormat) ([]domain.SubtitleFormat, error) {
	options := []CheckboxOption{
		{Label: "SubRip (.srt)", Value: string(domain.FormatSRT), Checked: def != domain.FormatVTT},
		{Label: "WebVTT (.vtt)", Value: string(domain.FormatVTT), Checked: def == domain.FormatVTT},
	}

	selected, err := RunCheckbox("Which subtitle formats?", options)
	if err != nil || selected == nil {
		return nil, err
	}

	return parseFormats(selected), nil
}

func parseFormats(values []string) []domain.SubtitleFormat {
	formats := make([]domain.SubtitleFormat, 0, len(values))
	for _, v := range values {
		if f, err := domain.ParseFormat(v); err == nil {
			formats = append(formats, f)
		}
	}
	return formats
}
