// Package verbosejson reads word timestamps out of Whisper-style
// "verbose_json" transcription responses.
package verbosejson

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"

	"github.com/devbush/kortsubs/internal/domain"
)

// Result holds the parts of a verbose_json response the pipeline uses
type Result struct {
	Text     string
	Language string
	Duration float64
	Words    []domain.Word
}

// Parse extracts words from both known layouts: words nested under
// segments[].words and a top-level words array. Words from both are merged
// and sorted by (start, end). Fields of the wrong type are skipped rather
// than failing the whole response; numeric strings are accepted as times.
func Parse(data []byte) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrUnexpectedResponse)
	}
	resp := gjson.ParseBytes(data)
	if !resp.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", domain.ErrUnexpectedResponse)
	}

	var words []domain.Word
	if segments := resp.Get("segments"); segments.IsArray() {
		for _, seg := range segments.Array() {
			words = appendWords(words, seg.Get("words"))
		}
	}
	words = appendWords(words, resp.Get("words"))

	if len(words) == 0 {
		return nil, fmt.Errorf("%w (response keys: %s)", domain.ErrNoWordTimestamps, strings.Join(sortedKeys(resp), ", "))
	}

	var duration float64
	if d, ok := number(resp.Get("duration")); ok {
		duration = d
	}

	return &Result{
		Text:     strings.TrimSpace(str(resp.Get("text"))),
		Language: str(resp.Get("language")),
		Duration: duration,
		Words:    domain.SortWords(words),
	}, nil
}

// ParseFile reads and parses a saved verbose_json response
func ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return Parse(data)
}

func appendWords(dst []domain.Word, raw gjson.Result) []domain.Word {
	if !raw.IsArray() {
		return dst
	}
	for _, w := range raw.Array() {
		if !w.IsObject() {
			continue
		}
		text := domain.NormalizeText(norm.NFC.String(str(w.Get("word"))))
		if text == "" {
			continue
		}

		var start float64
		if v := w.Get("start"); v.Exists() && v.Type != gjson.Null {
			s, ok := number(v)
			if !ok {
				continue
			}
			start = s
		}
		end := start
		if v := w.Get("end"); v.Exists() && v.Type != gjson.Null {
			e, ok := number(v)
			if !ok {
				continue
			}
			end = e
		}

		dst = append(dst, domain.Word{Text: text, Start: start, End: end})
	}
	return dst
}

// number reads a JSON number or a numeric string
func number(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// str reads a JSON string, or the literal text of a number
func str(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

func sortedKeys(obj gjson.Result) []string {
	var keys []string
	obj.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.Str)
		return true
	})
	sort.Strings(keys)
	return keys
}
