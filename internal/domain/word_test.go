package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{"  hello  ", "hello"},
		{"two\nlines", "two lines"},
		{"tabs\t\tand  spaces", "tabs and spaces"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortWords(t *testing.T) {
	words := []Word{
		{Text: "c", Start: 1.0, End: 1.5},
		{Text: "b", Start: 0.5, End: 0.9},
		{Text: "a2", Start: 0.0, End: 0.4},
		{Text: "a1", Start: 0.0, End: 0.3},
	}

	sorted := SortWords(words)

	want := []string{"a1", "a2", "b", "c"}
	for i, w := range sorted {
		if w.Text != want[i] {
			t.Errorf("SortWords()[%d] = %q, want %q", i, w.Text, want[i])
		}
	}
	if words[0].Text != "c" {
		t.Error("SortWords() modified its input")
	}
}

func TestWord_Duration(t *testing.T) {
	if got := (Word{Start: 1, End: 1.5}).Duration(); got != 0.5 {
		t.Errorf("Duration() = %v, want 0.5", got)
	}
	if got := (Word{Start: 2, End: 1}).Duration(); got != 0 {
		t.Errorf("Duration() of inverted word = %v, want 0", got)
	}
}
