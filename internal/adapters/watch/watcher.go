package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay unchanged before it is handed
// off. Recorders and copies write in bursts.
const DefaultSettle = 2 * time.Second

// Handler processes one settled file
type Handler func(ctx context.Context, path string)

// Options configures a Watcher
type Options struct {
	Accept        func(path string) bool // nil accepts every file
	Settle        time.Duration
	MaxConcurrent int
	Logger        *slog.Logger
}

// Watcher reports files created or rewritten in a directory once they
// stop changing.
type Watcher struct {
	dir    string
	opts   Options
	fsw    *fsnotify.Watcher
	logger *slog.Logger
}

type settled struct {
	path string
	gen  uint64
}

// New starts watching dir
func New(dir string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{dir: dir, opts: opts, fsw: fsw, logger: logger}, nil
}

// Run delivers settled files to handle until ctx is done, running at most
// MaxConcurrent handlers at once. It waits for running handlers before
// returning ctx.Err().
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	ready := make(chan settled)
	pending := make(map[string]*time.Timer)
	gens := make(map[string]uint64)

	sem := make(chan struct{}, w.opts.MaxConcurrent)
	var wg sync.WaitGroup
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
		wg.Wait()
	}()

	w.logger.Info("watching for media", slog.String("dir", w.dir), slog.Int("max_concurrent", w.opts.MaxConcurrent))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := filepath.Clean(event.Name)
			if w.opts.Accept != nil && !w.opts.Accept(path) {
				w.logger.Debug("ignoring file", slog.String("path", path))
				continue
			}

			if t, ok := pending[path]; ok {
				t.Stop()
			}
			gens[path]++
			s := settled{path: path, gen: gens[path]}
			pending[path] = time.AfterFunc(w.opts.Settle, func() {
				select {
				case ready <- s:
				case <-ctx.Done():
				}
			})

		case s := <-ready:
			// a newer event restarted the timer
			if gens[s.path] != s.gen {
				continue
			}
			delete(pending, s.path)
			delete(gens, s.path)

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(ctx, path)
			}(s.path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
