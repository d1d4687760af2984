package domain

import (
	"strings"
	"time"
)

// Transcript is a word-level transcription of one media file
type Transcript struct {
	Text          string    `json:"text"`
	Words         []Word    `json:"words"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	Language      string    `json:"language"`
	TranscribedAt time.Time `json:"transcribed_at"`
}

// ToText returns the full text, falling back to the joined words
func (t *Transcript) ToText() string {
	if t.Text != "" {
		return strings.TrimSpace(t.Text)
	}

	parts := make([]string, 0, len(t.Words))
	for _, w := range t.Words {
		if text := NormalizeText(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Duration returns the end of the last word in seconds
func (t *Transcript) Duration() float64 {
	var end float64
	for _, w := range t.Words {
		if w.End > end {
			end = w.End
		}
	}
	return end
}

// Cues segments the transcript words with seg
func (t *Transcript) Cues(seg *Segmenter) []Cue {
	return seg.Segment(t.Words)
}
