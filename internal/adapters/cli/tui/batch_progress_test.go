package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		width          int
		want           string
	}{
		{0, 10, 10, "[          ]"},
		{5, 10, 10, "[=====>    ]"},
		{10, 10, 10, "[==========]"},
		{3, 10, 10, "[==>       ]"},
	}

	for _, tt := range tests {
		got := renderProgressBar(tt.current, tt.total, tt.width)
		if got != tt.want {
			t.Errorf("renderProgressBar(%d, %d, %d) = %q, want %q",
				tt.current, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestBatchProgress_Counts(t *testing.T) {
	var buf bytes.Buffer
	bp := NewBatchProgressTo(&buf, 3, false)

	bp.AddResult(BatchResult{Name: "a.mp4", Success: true, Cues: 4, Duration: 1500 * time.Millisecond})
	bp.AddResult(BatchResult{Name: "b.mp4", ErrMsg: "transcription failed"})
	bp.AddResult(BatchResult{Name: "c.mp4", Success: true, Cached: true})

	if bp.GetSuccessCount() != 2 || bp.GetFailureCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", bp.GetSuccessCount(), bp.GetFailureCount())
	}

	bp.Complete()
	out := buf.String()
	for _, want := range []string{
		"Batch processing 3/3 files [====================] 100%",
		"✓ a.mp4 (4 cues, 1.5s)",
		"✗ b.mp4: transcription failed",
		"[cached]",
		"Batch complete: 2/3 succeeded",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBatchProgress_Quiet(t *testing.T) {
	var buf bytes.Buffer
	bp := NewBatchProgressTo(&buf, 1, true)
	bp.AddResult(BatchResult{Name: "a.mp4", Success: true})
	bp.Complete()

	if buf.Len() != 0 {
		t.Errorf("quiet batch progress wrote %q", buf.String())
	}
}

func TestBatchProgress_RedrawClearsPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	bp := NewBatchProgressTo(&buf, 15, false)

	bp.AddResult(BatchResult{Name: "a.mp4", Success: true})
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("first render should not move the cursor: %q", buf.String())
	}

	buf.Reset()
	bp.AddResult(BatchResult{Name: "b.mp4", Success: true})
	if !strings.HasPrefix(buf.String(), "\033[2A\033[J") {
		t.Errorf("second render should clear 2 lines, got %q", buf.String())
	}

	for i := 0; i < 10; i++ {
		bp.AddResult(BatchResult{Name: "x.mp4", Success: true})
	}

	// the display is capped at the progress line plus 10 results
	buf.Reset()
	bp.AddResult(BatchResult{Name: "y.mp4", Success: true})
	if !strings.HasPrefix(buf.String(), "\033[11A\033[J") {
		t.Errorf("capped render should clear 11 lines, got %q", buf.String())
	}
	if got := strings.Count(buf.String(), "\n"); got != 11 {
		t.Errorf("capped render printed %d lines, want 11", got)
	}
}
