package domain

import (
	"errors"
	"math"
	"testing"
)

func TestRenderSRT_SingleCue(t *testing.T) {
	got := RenderSRT([]Cue{{Start: 0.0, End: 1.5, Text: "Hi"}})
	want := "1\n00:00:00,000 --> 00:00:01,500\nHi\n\n"

	if got != want {
		t.Errorf("RenderSRT() = %q, want %q", got, want)
	}
}

func TestRenderVTT_SingleCue(t *testing.T) {
	got := RenderVTT([]Cue{{Start: 0.0, End: 1.5, Text: "Hi"}})
	want := "WEBVTT\n\n00:00.000 --> 00:01.500\nHi\n\n"

	if got != want {
		t.Errorf("RenderVTT() = %q, want %q", got, want)
	}
}

func TestRenderSRT_MultipleCues(t *testing.T) {
	cues := []Cue{
		{Start: 0.0, End: 1.0, Text: "Hello world"},
		{Start: 1.1, End: 2.6, Text: "Hej. Du"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nHello world\n\n" +
		"2\n00:00:01,100 --> 00:00:02,600\nHej. Du\n\n"

	if got := RenderSRT(cues); got != want {
		t.Errorf("RenderSRT() = %q, want %q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := RenderSRT(nil); got != "" {
		t.Errorf("RenderSRT(nil) = %q, want empty", got)
	}
	if got := RenderVTT(nil); got != "WEBVTT\n\n" {
		t.Errorf("RenderVTT(nil) = %q, want header only", got)
	}
}

func TestRender_Idempotent(t *testing.T) {
	cues := []Cue{
		{Start: 0.25, End: 1.75, Text: "En"},
		{Start: 3700.5, End: 3702.125, Text: "Två"},
	}

	if RenderSRT(cues) != RenderSRT(cues) {
		t.Error("RenderSRT() is not stable across calls")
	}
	if RenderVTT(cues) != RenderVTT(cues) {
		t.Error("RenderVTT() is not stable across calls")
	}
}

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.999, "00:00:59,999"},
		{3661.25, "01:01:01,250"},
		{-2, "00:00:00,000"},
		{0.9996, "00:00:01,000"},
		{59.9996, "00:01:00,000"},
		{3599.9996, "01:00:00,000"},
		{0.0005, "00:00:00,000"},
		{36000, "10:00:00,000"},
		{math.Inf(1), "00:00:00,000"},
		{math.Inf(-1), "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSRTTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatSRTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatVTTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00.000"},
		{1.5, "00:01.500"},
		{754.321, "12:34.321"},
		{3661.25, "01:01:01.250"},
		{-0.5, "00:00.000"},
		{3599.9996, "01:00:00.000"},
		{math.Inf(1), "00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatVTTTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatVTTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    SubtitleFormat
		wantErr bool
	}{
		{"", FormatSRT, false},
		{"srt", FormatSRT, false},
		{"VTT", FormatVTT, false},
		{" webvtt ", FormatVTT, false},
		{"ass", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSubtitleFormat_MIMEType(t *testing.T) {
	if got := FormatSRT.MIMEType(); got != "application/x-subrip" {
		t.Errorf("FormatSRT.MIMEType() = %q", got)
	}
	if got := FormatVTT.MIMEType(); got != "text/vtt" {
		t.Errorf("FormatVTT.MIMEType() = %q", got)
	}
}

func TestSubtitleFormat_Render(t *testing.T) {
	cues := []Cue{{Start: 0, End: 1.5, Text: "Hi"}}

	if FormatSRT.Render(cues) != RenderSRT(cues) {
		t.Error("FormatSRT.Render() does not match RenderSRT()")
	}
	if FormatVTT.Render(cues) != RenderVTT(cues) {
		t.Error("FormatVTT.Render() does not match RenderVTT()")
	}
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		source string
		format SubtitleFormat
		want   string
	}{
		{"clip.mp4", FormatSRT, "clip.kort.srt"},
		{"/videos/intervju.final.mov", FormatVTT, "intervju.final.kort.vtt"},
		{"noext", FormatSRT, "noext.kort.srt"},
		{"", FormatVTT, "audio.kort.vtt"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := OutputFileName(tt.source, tt.format); got != tt.want {
				t.Errorf("OutputFileName(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
