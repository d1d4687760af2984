package domain

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Word is a single transcribed token with its timing in seconds
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the word span, never negative
func (w Word) Duration() float64 {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start
}

// NormalizeText collapses all whitespace runs (newlines included) into single
// spaces and trims both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SortWords returns a copy of words ordered by (start, end). Words with
// equal timing keep their relative order.
func SortWords(words []Word) []Word {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	return sorted
}

// joinText appends next to text with a single separating space
func joinText(text, next string) string {
	switch {
	case text == "":
		return next
	case next == "":
		return text
	default:
		return text + " " + next
	}
}

// textLen measures cue text in code points
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}
