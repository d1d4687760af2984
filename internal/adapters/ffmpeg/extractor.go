package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// Extractor implements AudioExtractor using the ffmpeg binary
type Extractor struct {
	binPath string
}

// NewExtractor creates an extractor. An empty binPath looks the binary up
// in the bundled bin dir and then on PATH.
func NewExtractor(binPath string) *Extractor {
	return &Extractor{binPath: binPath}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (e *Extractor) findBinary() string {
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (e *Extractor) BinaryPath() string {
	if e.binPath != "" {
		return e.binPath
	}
	e.binPath = e.findBinary()
	return e.binPath
}

func (e *Extractor) IsAvailable() bool {
	return e.BinaryPath() != ""
}

// extractArgs converts any input to the 16 kHz mono PCM WAV whisper.cpp reads
func extractArgs(mediaPath, destPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", mediaPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		destPath,
	}
}

func (e *Extractor) ExtractAudio(ctx context.Context, mediaPath string, destPath string) error {
	binPath := e.BinaryPath()
	if binPath == "" {
		return domain.ErrFFmpegNotFound
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, binPath, extractArgs(mediaPath, destPath)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("ffmpeg failed: %s", strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

func (e *Extractor) Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install ffmpeg with: brew install ffmpeg"
	case "windows":
		return "Install ffmpeg with: winget install ffmpeg\nor place ffmpeg.exe in " + config.BinDir()
	default:
		return "Install ffmpeg with your package manager, e.g.: sudo apt install ffmpeg"
	}
}

var _ ports.AudioExtractor = (*Extractor)(nil)
