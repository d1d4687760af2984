package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// FileCache stores one directory per transcript under baseDir. Each entry
// is guarded by a file lock so concurrent runs never read a half-written
// meta file.
type FileCache struct {
	baseDir string
}

func NewFileCache(baseDir string) *FileCache {
	return &FileCache{baseDir: baseDir}
}

type metaFile struct {
	Key        string             `json:"key"`
	SourcePath string             `json:"source_path"`
	Transcript *domain.Transcript `json:"transcript"`
	CreatedAt  time.Time          `json:"created_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// KeyForFile derives a cache key from the content of path and any extra
// parts (provider, model, language) that change the transcript.
func KeyForFile(path string, parts ...string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:32], nil
}

func (c *FileCache) entryDir(key string) string {
	return filepath.Join(c.baseDir, key)
}

func (c *FileCache) metaPath(key string) string {
	return filepath.Join(c.entryDir(key), "meta.json")
}

func (c *FileCache) lockFor(key string) *flock.Flock {
	return flock.New(filepath.Join(c.entryDir(key), ".lock"))
}

func (c *FileCache) Get(ctx context.Context, key string) (*ports.CachedTranscript, error) {
	if _, err := os.Stat(c.entryDir(key)); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	lock := c.lockFor(key)
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock cache entry: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(c.metaPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var meta metaFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	if time.Now().After(meta.ExpiresAt) {
		return nil, domain.ErrCacheExpired
	}

	return &ports.CachedTranscript{
		Key:        key,
		SourcePath: meta.SourcePath,
		Transcript: meta.Transcript,
		CreatedAt:  meta.CreatedAt,
		ExpiresAt:  meta.ExpiresAt,
	}, nil
}

func (c *FileCache) Set(ctx context.Context, key string, item *ports.CachedTranscript) error {
	if err := os.MkdirAll(c.entryDir(key), 0755); err != nil {
		return err
	}

	lock := c.lockFor(key)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache entry: %w", err)
	}
	defer lock.Unlock()

	meta := metaFile{
		Key:        key,
		SourcePath: item.SourcePath,
		Transcript: item.Transcript,
		CreatedAt:  item.CreatedAt,
		ExpiresAt:  item.ExpiresAt,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.metaPath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath(key))
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	return os.RemoveAll(c.entryDir(key))
}

func (c *FileCache) CleanExpired(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		key := entry.Name()
		_, err := c.Get(ctx, key)
		if errors.Is(err, domain.ErrCacheExpired) {
			if err := c.Delete(ctx, key); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			_ = os.RemoveAll(filepath.Join(c.baseDir, entry.Name()))
		}
	}

	return nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		itemCount++

		dirPath := filepath.Join(c.baseDir, entry.Name())
		_ = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				totalSize += info.Size()
			}
			return nil
		})
	}

	return itemCount, totalSize, nil
}

var _ ports.TranscriptCache = (*FileCache)(nil)
