package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Default segmentation limits, tuned for short vertical-video captions
const (
	DefaultMaxChars   = 38
	DefaultMaxWords   = 9
	DefaultMaxDur     = 2.5
	DefaultMinDur     = 0.8
	DefaultGapMerge   = 0.08
	DefaultPunctBonus = 0.2
)

// sentencePunct lists the trailing characters that allow one word of
// duration overrun.
const sentencePunct = ".,;:!?…"

// SegmentConfig holds the limits used when grouping words into cues.
// Durations and gaps are in seconds.
type SegmentConfig struct {
	MaxChars   int     `yaml:"max_chars" json:"max_chars"`
	MaxWords   int     `yaml:"max_words" json:"max_words"`
	MaxDur     float64 `yaml:"max_dur" json:"max_dur"`
	MinDur     float64 `yaml:"min_dur" json:"min_dur"`
	GapMerge   float64 `yaml:"gap_merge" json:"gap_merge"`
	PunctBonus float64 `yaml:"punct_bonus" json:"punct_bonus"`
}

// DefaultSegmentConfig returns the stock segmentation limits
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		MaxChars:   DefaultMaxChars,
		MaxWords:   DefaultMaxWords,
		MaxDur:     DefaultMaxDur,
		MinDur:     DefaultMinDur,
		GapMerge:   DefaultGapMerge,
		PunctBonus: DefaultPunctBonus,
	}
}

// Validate reports the first field that violates its constraint.
// All errors wrap ErrInvalidConfig.
func (c SegmentConfig) Validate() error {
	if c.MaxChars <= 0 {
		return fmt.Errorf("%w: max_chars must be positive, got %d", ErrInvalidConfig, c.MaxChars)
	}
	if c.MaxWords <= 0 {
		return fmt.Errorf("%w: max_words must be positive, got %d", ErrInvalidConfig, c.MaxWords)
	}
	if !(c.MaxDur > 0) {
		return fmt.Errorf("%w: max_dur must be positive, got %v", ErrInvalidConfig, c.MaxDur)
	}
	if !(c.MinDur > 0) {
		return fmt.Errorf("%w: min_dur must be positive, got %v", ErrInvalidConfig, c.MinDur)
	}
	if !(c.GapMerge >= 0) {
		return fmt.Errorf("%w: gap_merge must not be negative, got %v", ErrInvalidConfig, c.GapMerge)
	}
	if !(c.PunctBonus >= 0) {
		return fmt.Errorf("%w: punct_bonus must not be negative, got %v", ErrInvalidConfig, c.PunctBonus)
	}
	return nil
}

// Segmenter groups words into cues with a fixed, validated config.
// It holds no mutable state and is safe for concurrent use.
type Segmenter struct {
	cfg SegmentConfig
}

// NewSegmenter validates cfg and returns a Segmenter for it
func NewSegmenter(cfg SegmentConfig) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{cfg: cfg}, nil
}

// Config returns the limits the segmenter was built with
func (s *Segmenter) Config() SegmentConfig {
	return s.cfg
}

// Segment groups words into cues. The input slice is not modified.
func (s *Segmenter) Segment(words []Word) []Cue {
	return segmentPrepared(prepareWords(words), s.cfg)
}

// Segment validates cfg and groups words into cues.
//
// Each cue starts at the next unconsumed word and greedily takes following
// words while the text, word count and duration stay within limits. A cue
// ending in sentence punctuation may take one extra word if the duration
// overrun is within PunctBonus. A cue shorter than MinDur is then padded with
// closely following words, ignoring MaxDur.
func Segment(words []Word, cfg SegmentConfig) ([]Cue, error) {
	seg, err := NewSegmenter(cfg)
	if err != nil {
		return nil, err
	}
	return seg.Segment(words), nil
}

// prepareWords copies words with normalized text and clamped timing, ordered
// by (start, end).
func prepareWords(words []Word) []Word {
	prepared := make([]Word, len(words))
	for i, w := range words {
		if math.IsNaN(w.Start) || w.Start < 0 {
			w.Start = 0
		}
		if math.IsNaN(w.End) || w.End < w.Start {
			w.End = w.Start
		}
		w.Text = NormalizeText(w.Text)
		prepared[i] = w
	}
	return SortWords(prepared)
}

func segmentPrepared(words []Word, cfg SegmentConfig) []Cue {
	cues := make([]Cue, 0, len(words)/2+1)
	n := len(words)

	for i := 0; i < n; {
		start := words[i].Start
		end := words[i].End
		text := words[i].Text
		count := 1

		j := i + 1
		for ; j < n; j++ {
			next := words[j]
			proposed := joinText(text, next.Text)
			dur := next.End - start

			if textLen(proposed) <= cfg.MaxChars && count+1 <= cfg.MaxWords && dur <= cfg.MaxDur {
				text, end = proposed, next.End
				count++
				continue
			}

			// let the cue run on to a natural sentence boundary
			if endsWithPunct(text) && dur-cfg.MaxDur <= cfg.PunctBonus {
				text, end = proposed, next.End
				count++
				j++
			}
			break
		}

		if end-start < cfg.MinDur {
			for j < n {
				next := words[j]
				proposed := joinText(text, next.Text)
				if next.Start-end > cfg.GapMerge ||
					textLen(proposed) > cfg.MaxChars+5 ||
					j-i+1 > cfg.MaxWords+1 {
					break
				}
				text, end = proposed, next.End
				j++
			}
		}

		cues = append(cues, Cue{Start: start, End: end, Text: text})
		i = j
	}

	return cues
}

func endsWithPunct(text string) bool {
	r, size := utf8.DecodeLastRuneInString(text)
	if size == 0 {
		return false
	}
	return strings.ContainsRune(sentencePunct, r)
}
