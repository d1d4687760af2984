package ports

import "context"

// AudioExtractor converts media files to the audio layout a local
// transcriber expects.
type AudioExtractor interface {
	// ExtractAudio writes a 16 kHz mono WAV of mediaPath to destPath.
	ExtractAudio(ctx context.Context, mediaPath string, destPath string) error

	// IsAvailable checks if the extractor binary is installed.
	IsAvailable() bool

	// BinaryPath returns the path to the extractor binary.
	BinaryPath() string

	// Instructions returns platform-specific installation instructions.
	Instructions() string
}
