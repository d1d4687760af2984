package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// mockCache implements ports.TranscriptCache in memory
type mockCache struct {
	mu       sync.Mutex
	items    map[string]*ports.CachedTranscript
	getErr   error
	setErr   error
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string]*ports.CachedTranscript)}
}

func (m *mockCache) Get(ctx context.Context, key string) (*ports.CachedTranscript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	item, ok := m.items[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(item.ExpiresAt) {
		return nil, domain.ErrCacheExpired
	}
	return item, nil
}

func (m *mockCache) Set(ctx context.Context, key string, item *ports.CachedTranscript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = item
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *mockCache) CleanExpired(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockCache) Clear(ctx context.Context) error {
	return nil
}

func (m *mockCache) Stats(ctx context.Context) (int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), 0, nil
}

// mockTranscriber returns a fixed word list, or fails for paths listed in
// failFor.
type mockTranscriber struct {
	mu      sync.Mutex
	words   []domain.Word
	failFor map[string]error
	calls   int
	lastOpt ports.TranscribeOpts
}

func helloWords() []domain.Word {
	return []domain.Word{
		{Text: "Hello", Start: 0.0, End: 0.4},
		{Text: "world", Start: 0.5, End: 1.0},
	}
}

func (m *mockTranscriber) Name() string { return "mock" }

func (m *mockTranscriber) Transcribe(ctx context.Context, mediaPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	m.mu.Lock()
	m.calls++
	m.lastOpt = opts
	m.mu.Unlock()

	if err, ok := m.failFor[mediaPath]; ok {
		return nil, err
	}
	words := m.words
	if words == nil {
		words = helloWords()
	}
	return &domain.Transcript{
		Words:         words,
		Provider:      "mock",
		Model:         opts.Model,
		Language:      opts.Language,
		TranscribedAt: time.Now(),
	}, nil
}

func (m *mockTranscriber) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func fakeKey(mediaPath string, parts ...string) (string, error) {
	if strings.HasPrefix(mediaPath, "missing") {
		return "", errors.New("no such file")
	}
	return mediaPath + "|" + strings.Join(parts, "|"), nil
}

func defaultOpts() GenerateOptions {
	return GenerateOptions{
		Format:   domain.FormatSRT,
		Segment:  domain.DefaultSegmentConfig(),
		Model:    "whisper-1",
		Language: "sv",
	}
}
