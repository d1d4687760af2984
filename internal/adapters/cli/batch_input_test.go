package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseInputFile(t *testing.T) {
	t.Run("parses file with comments, blank lines, relative and absolute paths", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `# This is a comment
clips/a.mp4
/abs/b.mov

# Another comment
c.wav
`
		filePath := filepath.Join(tmpDir, "input.txt")
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		paths, err := ParseInputFile(filePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{
			filepath.Join(tmpDir, "clips", "a.mp4"),
			filepath.Clean("/abs/b.mov"),
			filepath.Join(tmpDir, "c.wav"),
		}
		if len(paths) != len(expected) {
			t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
		}

		for i, p := range paths {
			if p != expected[i] {
				t.Errorf("expected path[%d] = %q, got %q", i, expected[i], p)
			}
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := ParseInputFile("/nonexistent/path/file.txt")
		if err == nil {
			t.Error("expected error for nonexistent file, got nil")
		}
	})
}

func TestScanMediaDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.MP4", "a.wav", "notes.txt", ".hidden.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755); err != nil {
		t.Fatal(err)
	}

	paths, err := ScanMediaDir(dir)
	if err != nil {
		t.Fatalf("ScanMediaDir() error = %v", err)
	}

	expected := []string{filepath.Join(dir, "a.wav"), filepath.Join(dir, "b.MP4")}
	if len(paths) != len(expected) {
		t.Fatalf("ScanMediaDir() = %v, want %v", paths, expected)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], expected[i])
		}
	}
}

func TestCollectInputs(t *testing.T) {
	t.Run("combines args, file and folder with deduplication", func(t *testing.T) {
		tmpDir := t.TempDir()
		clip := filepath.Join(tmpDir, "clip.mp4")
		other := filepath.Join(tmpDir, "other.mp3")
		for _, p := range []string{clip, other} {
			if err := os.WriteFile(p, nil, 0644); err != nil {
				t.Fatal(err)
			}
		}

		listPath := filepath.Join(tmpDir, "list.txt")
		if err := os.WriteFile(listPath, []byte("clip.mp4\nlisted.mov\n"), 0644); err != nil {
			t.Fatal(err)
		}

		paths, err := CollectInputs([]string{clip, " ", "first.wav"}, listPath, tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{clip, "first.wav", filepath.Join(tmpDir, "listed.mov"), other}
		if len(paths) != len(expected) {
			t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
		}
		for i := range expected {
			if paths[i] != expected[i] {
				t.Errorf("path[%d] = %q, want %q", i, paths[i], expected[i])
			}
		}
	})

	t.Run("returns error for missing list file", func(t *testing.T) {
		if _, err := CollectInputs(nil, "/nonexistent/list.txt", ""); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		paths, err := CollectInputs(nil, "", "")
		if err != nil || len(paths) != 0 {
			t.Errorf("CollectInputs() = %v, %v", paths, err)
		}
	})
}

func TestIsMediaFile(t *testing.T) {
	tests := map[string]bool{
		"a.mp4":  true,
		"a.MOV":  true,
		"a.opus": true,
		"a.srt":  false,
		"a":      false,
	}
	for name, want := range tests {
		if got := IsMediaFile(name); got != want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", name, got, want)
		}
	}
}
