package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbush/kortsubs/internal/application"
	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

func resetFlags(t *testing.T) {
	t.Helper()
	saved := []any{formatFlag, languageFlag, outputFlag, noCacheFlag, providerFlag, modelFlag}
	t.Cleanup(func() {
		formatFlag = saved[0].(string)
		languageFlag = saved[1].(string)
		outputFlag = saved[2].(string)
		noCacheFlag = saved[3].(bool)
		providerFlag = saved[4].(string)
		modelFlag = saved[5].(string)
	})
}

func TestGenerateOptions_Defaults(t *testing.T) {
	resetFlags(t)
	cmd := NewRootCmd()
	app := &App{Config: config.DefaultConfig()}

	opts, err := generateOptions(cmd, app)
	if err != nil {
		t.Fatalf("generateOptions() error = %v", err)
	}

	if opts.Format != domain.FormatSRT || opts.Language != "sv" || opts.Model != "whisper-1" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Segment != domain.DefaultSegmentConfig() {
		t.Errorf("Segment = %+v", opts.Segment)
	}
}

func TestGenerateOptions_Flags(t *testing.T) {
	resetFlags(t)
	cmd := NewRootCmd()
	if err := cmd.ParseFlags([]string{"--format", "webvtt", "--language", "en", "--max-chars", "30", "--min-dur", "1.0", "--no-cache"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Segment.MaxWords = 6
	opts, err := generateOptions(cmd, &App{Config: cfg})
	if err != nil {
		t.Fatalf("generateOptions() error = %v", err)
	}

	if opts.Format != domain.FormatVTT || opts.Language != "en" || !opts.NoCache {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Segment.MaxChars != 30 || opts.Segment.MinDur != 1.0 {
		t.Errorf("flag overrides not applied: %+v", opts.Segment)
	}
	if opts.Segment.MaxWords != 6 {
		t.Errorf("config value overwritten by unset flag: MaxWords = %d", opts.Segment.MaxWords)
	}
}

func TestGenerateOptions_Invalid(t *testing.T) {
	resetFlags(t)

	cmd := NewRootCmd()
	if err := cmd.ParseFlags([]string{"--max-words", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := generateOptions(cmd, &App{Config: config.DefaultConfig()}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("generateOptions() error = %v, want ErrInvalidConfig", err)
	}

	cmd = NewRootCmd()
	formatFlag = "ass"
	if _, err := generateOptions(cmd, &App{Config: config.DefaultConfig()}); !errors.Is(err, domain.ErrUnknownFormat) {
		t.Errorf("generateOptions() error = %v, want ErrUnknownFormat", err)
	}
}

func TestAppModel(t *testing.T) {
	cfg := config.DefaultConfig()
	app := &App{Config: cfg}
	if app.Model() != "whisper-1" {
		t.Errorf("Model() = %s, want whisper-1", app.Model())
	}

	cfg.Provider.Name = config.ProviderWhisper
	if app.Model() != defaultWhisperModel {
		t.Errorf("Model() = %s, want %s for whisper", app.Model(), defaultWhisperModel)
	}

	cfg.Provider.Model = "base"
	if app.Model() != "base" {
		t.Errorf("Model() = %s, want base", app.Model())
	}
}

func TestApplyProviderFlags(t *testing.T) {
	resetFlags(t)
	app := &App{Config: config.DefaultConfig(), transcriber: &stubTranscriber{}}

	providerFlag = "Whisper"
	modelFlag = "tiny"
	if err := applyProviderFlags(app); err != nil {
		t.Fatalf("applyProviderFlags() error = %v", err)
	}
	if app.Config.Provider.Name != config.ProviderWhisper || app.Config.Provider.Model != "tiny" {
		t.Errorf("provider = %+v", app.Config.Provider)
	}
	if app.transcriber != nil {
		t.Error("transcriber should be reset after provider change")
	}

	providerFlag = "deepgram"
	if err := applyProviderFlags(app); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Errorf("applyProviderFlags() error = %v, want ErrUnknownProvider", err)
	}
}

func TestWriteResult(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")

	srt := &application.GenerateResult{Format: domain.FormatSRT, Content: "1\n", FileName: "clip.kort.srt"}
	vtt := &application.GenerateResult{Format: domain.FormatVTT, Content: "WEBVTT\n\n", FileName: "clip.kort.vtt"}

	outputFlag = ""
	path, err := writeResult(srt, source, false)
	if err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	if path != filepath.Join(dir, "clip.kort.srt") {
		t.Errorf("path = %s", path)
	}
	assertFile(t, path, "1\n")

	outputFlag = filepath.Join(dir, "out", "subs.srt")
	path, err = writeResult(vtt, source, true)
	if err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	if path != filepath.Join(dir, "out", "subs.vtt") {
		t.Errorf("multi-format path = %s", path)
	}
	assertFile(t, path, "WEBVTT\n\n")
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.srt")
	if err := writeFile(path, "old"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(path, "new"); err != nil {
		t.Fatal(err)
	}
	assertFile(t, path, "new")

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestRenderModelTable(t *testing.T) {
	out := renderModelTable([]ports.Model{
		{Name: "tiny", Size: 75 * 1024 * 1024, Downloaded: true},
		{Name: "small", Size: 462 * 1024 * 1024},
	}, "small")

	for _, want := range []string{"tiny", "75.0 MB", "downloaded", "not downloaded (default)"} {
		if !strings.Contains(out, want) {
			t.Errorf("model table missing %q:\n%s", want, out)
		}
	}
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"convert", "batch", "watch", "cache", "model", "deps", "config"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}

type stubTranscriber struct{}

func (stubTranscriber) Name() string { return "stub" }

func (stubTranscriber) Transcribe(ctx context.Context, mediaPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	return nil, nil
}
