package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mediaExtensions lists the file types picked up when scanning a folder
var mediaExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true, ".mkv": true, ".webm": true, ".avi": true,
	".mp3": true, ".m4a": true, ".wav": true, ".aac": true, ".flac": true, ".ogg": true, ".opus": true,
}

// IsMediaFile reports whether path has a known audio or video extension
func IsMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

// ParseInputFile reads a file containing media paths, one per line.
// Blank lines and lines starting with # are ignored. Relative paths are
// resolved against the list file's directory.
func ParseInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	base := filepath.Dir(path)

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		paths = append(paths, filepath.Clean(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}

// ScanMediaDir returns the media files directly inside dir, sorted by name
func ScanMediaDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsMediaFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// CollectInputs combines CLI arguments, a list file and a folder scan,
// deduplicating. Args come first, then list file entries, then the folder.
// Returns paths in order of first appearance.
func CollectInputs(args []string, filePath, dir string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			add(arg)
		}
	}

	if filePath != "" {
		filePaths, err := ParseInputFile(filePath)
		if err != nil {
			return nil, err
		}
		for _, p := range filePaths {
			add(p)
		}
	}

	if dir != "" {
		dirPaths, err := ScanMediaDir(dir)
		if err != nil {
			return nil, err
		}
		for _, p := range dirPaths {
			add(p)
		}
	}

	return paths, nil
}
