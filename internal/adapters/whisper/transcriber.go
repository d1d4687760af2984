package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// ProviderName identifies local whisper.cpp transcripts
const ProviderName = "whisper"

// Model sizes in bytes (approximate)
var modelSizes = map[string]int64{
	"tiny":   75 * 1024 * 1024,
	"base":   140 * 1024 * 1024,
	"small":  462 * 1024 * 1024,
	"medium": 1500 * 1024 * 1024,
	"large":  3000 * 1024 * 1024,
}

// Transcriber implements ports.Transcriber and ports.ModelManager using
// whisper.cpp, splitting its output into one segment per word.
type Transcriber struct {
	modelsDir string
	extractor ports.AudioExtractor
	logger    *slog.Logger
}

// NewTranscriber creates a new Whisper transcriber. extractor may be nil
// when inputs are already 16 kHz WAV files.
func NewTranscriber(modelsDir string, extractor ports.AudioExtractor, logger *slog.Logger) *Transcriber {
	if modelsDir == "" {
		modelsDir = config.ModelsDir()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transcriber{modelsDir: modelsDir, extractor: extractor, logger: logger}
}

func modelURL(name string) string {
	return fmt.Sprintf("https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-%s.bin", name)
}

func (t *Transcriber) modelPath(name string) string {
	return filepath.Join(t.modelsDir, fmt.Sprintf("ggml-%s.bin", name))
}

func (t *Transcriber) Name() string {
	return ProviderName
}

func (t *Transcriber) AvailableModels() []ports.Model {
	models := []ports.Model{
		{Name: "tiny", Size: modelSizes["tiny"], Description: "~75MB, basic accuracy, very fast"},
		{Name: "base", Size: modelSizes["base"], Description: "~140MB, good accuracy, fast"},
		{Name: "small", Size: modelSizes["small"], Description: "~462MB, better accuracy, moderate speed"},
		{Name: "medium", Size: modelSizes["medium"], Description: "~1.5GB, great accuracy, slower"},
		{Name: "large", Size: modelSizes["large"], Description: "~3GB, best accuracy, slow"},
	}

	for i := range models {
		models[i].Downloaded = t.IsModelDownloaded(models[i].Name)
	}

	return models
}

func (t *Transcriber) IsModelDownloaded(model string) bool {
	_, err := os.Stat(t.modelPath(model))
	return err == nil
}

func (t *Transcriber) DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error {
	if _, ok := modelSizes[model]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
	}

	if err := os.MkdirAll(t.modelsDir, 0755); err != nil {
		return err
	}

	destPath := t.modelPath(model)
	tempPath := destPath + ".tmp"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL(model), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download model: HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	// Track success to clean up partial downloads on failure
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tempPath)
		}
	}()

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	out.Close()
	if err := os.Rename(tempPath, destPath); err != nil {
		return err
	}

	success = true
	return nil
}

func (t *Transcriber) DeleteModel(model string) error {
	return os.Remove(t.modelPath(model))
}

// IsAvailable checks if a whisper.cpp binary can be found
func (t *Transcriber) IsAvailable() bool {
	return t.findWhisperBinary() != ""
}

func (t *Transcriber) Transcribe(ctx context.Context, mediaPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	model := opts.Model
	if model == "" {
		model = "small"
	}

	if !t.IsModelDownloaded(model) {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
	}

	whisperBin := t.findWhisperBinary()
	if whisperBin == "" {
		return nil, fmt.Errorf("whisper binary not found (install whisper.cpp)")
	}

	runID := uuid.NewString()
	outputBase := filepath.Join(os.TempDir(), "kortsubs_"+runID)

	audioPath := mediaPath
	if t.extractor != nil && !strings.EqualFold(filepath.Ext(mediaPath), ".wav") {
		audioPath = outputBase + ".wav"
		if err := t.extractor.ExtractAudio(ctx, mediaPath, audioPath); err != nil {
			return nil, err
		}
		defer os.Remove(audioPath)
	}

	// -ml 1 with -sow yields one word per segment; -oj writes JSON next to
	// outputBase.
	args := []string{
		"-m", t.modelPath(model),
		"-f", audioPath,
		"-of", outputBase,
		"-oj",
		"-ml", "1",
		"-sow",
		"-np",
	}

	if opts.Language != "" {
		args = append(args, "-l", opts.Language)
	}

	t.logger.Debug("running whisper.cpp", slog.String("binary", whisperBin), slog.String("model", model), slog.String("file", audioPath))

	cmd := exec.CommandContext(ctx, whisperBin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", domain.ErrTranscriptionFailed, err, strings.TrimSpace(string(out)))
	}

	jsonPath := outputBase + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}

	transcript, err := parseWhisperJSON(data, model)
	if err != nil {
		return nil, err
	}
	if transcript.Language == "" {
		transcript.Language = opts.Language
	}
	return transcript, nil
}

func (t *Transcriber) findWhisperBinary() string {
	names := []string{"whisper-cli", "whisper", "whisper-cpp", "main"}
	if runtime.GOOS == "windows" {
		names = []string{"whisper-cli.exe", "whisper.exe", "whisper-cpp.exe", "main.exe"}
	}

	// Check bundled location
	for _, name := range names {
		bundled := filepath.Join(config.BinDir(), name)
		if _, err := os.Stat(bundled); err == nil {
			return bundled
		}
	}

	// Check PATH
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Timestamps struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"timestamps"`
		Offsets *struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperJSON turns whisper.cpp JSON output into words. Offsets (ms)
// are preferred; the formatted timestamps are a fallback.
func parseWhisperJSON(data []byte, model string) (*domain.Transcript, error) {
	var output whisperOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedResponse, err)
	}

	var words []domain.Word
	for _, item := range output.Transcription {
		text := domain.NormalizeText(item.Text)
		if text == "" {
			continue
		}

		var start, end float64
		if item.Offsets != nil {
			start = float64(item.Offsets.From) / 1000
			end = float64(item.Offsets.To) / 1000
		} else {
			start = parseTimestamp(item.Timestamps.From)
			end = parseTimestamp(item.Timestamps.To)
		}

		words = append(words, domain.Word{Text: text, Start: start, End: end})
	}

	if len(words) == 0 {
		return nil, domain.ErrNoWordTimestamps
	}

	return &domain.Transcript{
		Words:         domain.SortWords(words),
		Provider:      ProviderName,
		Model:         model,
		Language:      output.Result.Language,
		TranscribedAt: time.Now(),
	}, nil
}

var timestampRegex = regexp.MustCompile(`(\d+):(\d+):(\d+)[,.](\d+)`)

func parseTimestamp(ts string) float64 {
	matches := timestampRegex.FindStringSubmatch(ts)
	if len(matches) != 5 {
		return 0
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	millis, _ := strconv.Atoi(matches[4])

	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}

// Ensure Transcriber implements interfaces
var (
	_ ports.Transcriber  = (*Transcriber)(nil)
	_ ports.ModelManager = (*Transcriber)(nil)
)
