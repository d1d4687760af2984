package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/devbush/kortsubs/internal/domain"
)

// FormatSize formats a byte count, e.g. 1536 -> "1.5 KB"
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatSeconds formats a duration in seconds with two decimals
func FormatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 2, 64) + "s"
}

// RenderCueTable writes the cues as a table for previewing segmentation
func RenderCueTable(w io.Writer, cues []domain.Cue) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Start", "End", "Dur", "Chars", "Text"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: 50},
	})

	var total float64
	for i, c := range cues {
		t.AppendRow(table.Row{
			i + 1,
			domain.FormatSRTTimestamp(c.Start),
			domain.FormatSRTTimestamp(c.End),
			FormatSeconds(c.Duration()),
			len([]rune(c.Text)),
			c.Text,
		})
		total += c.Duration()
	}

	t.AppendFooter(table.Row{"", "", "", FormatSeconds(total), "", fmt.Sprintf("%d cues", len(cues))})
	t.Render()
}
