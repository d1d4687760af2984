package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// SubtitleFormat identifies a rendered subtitle text format
type SubtitleFormat string

const (
	FormatSRT SubtitleFormat = "srt"
	FormatVTT SubtitleFormat = "vtt"
)

// ParseFormat maps a user supplied format name to a SubtitleFormat.
// Empty input selects SRT.
func ParseFormat(s string) (SubtitleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension without the leading dot
func (f SubtitleFormat) Extension() string {
	return string(f)
}

// MIMEType returns the content type used when delivering the file
func (f SubtitleFormat) MIMEType() string {
	if f == FormatVTT {
		return "text/vtt"
	}
	return "application/x-subrip"
}

// Render renders cues in this format
func (f SubtitleFormat) Render(cues []Cue) string {
	if f == FormatVTT {
		return RenderVTT(cues)
	}
	return RenderSRT(cues)
}

// OutputFileName derives the subtitle file name for a source media file,
// e.g. "clip.mp4" -> "clip.kort.srt".
func OutputFileName(source string, f SubtitleFormat) string {
	base := filepath.Base(source)
	if source == "" || base == "." || base == string(filepath.Separator) {
		base = "audio"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".kort." + f.Extension()
}

// RenderSRT renders cues as SubRip text with 1-based indexes
func RenderSRT(cues []Cue) string {
	var sb strings.Builder
	for i, c := range cues {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")
		sb.WriteString(FormatSRTTimestamp(c.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatSRTTimestamp(c.End))
		sb.WriteString("\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// RenderVTT renders cues as WebVTT text
func RenderVTT(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		sb.WriteString(FormatVTTTimestamp(c.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatVTTTimestamp(c.End))
		sb.WriteString("\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// FormatSRTTimestamp converts seconds to HH:MM:SS,mmm
func FormatSRTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatVTTTimestamp converts seconds to MM:SS.mmm, or HH:MM:SS.mmm from
// one hour on.
func FormatVTTTimestamp(seconds float64) string {
	h, m, s, ms := splitTimestamp(seconds)
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}

// splitTimestamp breaks seconds into clock fields. Non-finite and negative
// input renders as zero. The fractional part is
// rounded half to even; a rounded 1000 ms carries into the seconds.
func splitTimestamp(seconds float64) (h, m, s, ms int64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	whole := math.Floor(seconds)
	ms = int64(math.RoundToEven((seconds - whole) * 1000))
	if ms >= 1000 {
		whole++
		ms -= 1000
	}
	total := int64(whole)
	return total / 3600, (total % 3600) / 60, total % 60, ms
}
