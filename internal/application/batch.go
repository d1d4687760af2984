package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/devbush/kortsubs/internal/domain"
)

// MaxBatchConcurrency caps the number of concurrent batch workers
const MaxBatchConcurrency = 16

// ErrOutputCollision marks a batch input whose subtitle path is taken by
// another input in the same run
var ErrOutputCollision = errors.New("output path collision")

// BatchResult represents the result of processing a single file in a batch
type BatchResult struct {
	Input      string
	OutputPath string
	Success    bool
	Error      string
	Duration   time.Duration
	Cues       int
	Cached     bool
}

// BatchSummary aggregates results from a batch run
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []BatchResult // in input order
}

// FailedResults returns only the failed results
func (s *BatchSummary) FailedResults() []BatchResult {
	var failed []BatchResult
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// BatchOptions configures a batch run
type BatchOptions struct {
	Generate    GenerateOptions
	OutputDir   string // empty writes next to each input
	Concurrency int
}

// BatchRunner generates subtitles for many files with a bounded worker pool
type BatchRunner struct {
	svc *SubtitleService
}

// NewBatchRunner creates a batch runner backed by svc
func NewBatchRunner(svc *SubtitleService) *BatchRunner {
	return &BatchRunner{svc: svc}
}

// Run processes inputs and calls onResult (if set) as each file finishes.
// onResult may be called from several goroutines but never concurrently.
func (r *BatchRunner) Run(ctx context.Context, inputs []string, opts BatchOptions, onResult func(BatchResult)) *BatchSummary {
	concurrency := clampConcurrency(opts.Concurrency)

	results := make([]BatchResult, len(inputs))
	var resultsMu sync.Mutex

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	outPaths, collisions := planOutputs(inputs, opts)

	for i, input := range inputs {
		if err := collisions[i]; err != nil {
			results[i] = BatchResult{Input: input, Error: err.Error()}
			if onResult != nil {
				resultsMu.Lock()
				onResult(results[i])
				resultsMu.Unlock()
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(i int, input string) {
			defer wg.Done()
			defer func() { <-sem }()

			result := r.processOne(ctx, input, outPaths[i], opts)

			resultsMu.Lock()
			results[i] = result
			if onResult != nil {
				onResult(result)
			}
			resultsMu.Unlock()
		}(i, input)
	}

	wg.Wait()

	summary := &BatchSummary{Total: len(inputs), Results: results}
	for _, res := range results {
		if res.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func (r *BatchRunner) processOne(ctx context.Context, input, outPath string, opts BatchOptions) BatchResult {
	start := time.Now()

	fail := func(err error) BatchResult {
		return BatchResult{Input: input, Error: err.Error(), Duration: time.Since(start)}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	result, err := r.svc.Generate(ctx, input, opts.Generate)
	if err != nil {
		return fail(err)
	}

	if err := os.WriteFile(outPath, []byte(result.Content), 0644); err != nil {
		return fail(fmt.Errorf("failed to write subtitles: %w", err))
	}

	return BatchResult{
		Input:      input,
		OutputPath: outPath,
		Success:    true,
		Duration:   time.Since(start),
		Cues:       len(result.Cues),
		Cached:     result.FromCache,
	}
}

// planOutputs resolves each input's subtitle path. An input whose path was
// already claimed by an earlier input gets an error instead, so two files
// named clip.mp4 in different folders never overwrite each other in a
// shared OutputDir.
func planOutputs(inputs []string, opts BatchOptions) ([]string, []error) {
	format, err := domain.ParseFormat(string(opts.Generate.Format))
	if err != nil {
		format = domain.FormatSRT
	}

	paths := make([]string, len(inputs))
	errs := make([]error, len(inputs))
	claimed := make(map[string]string, len(inputs))
	for i, input := range inputs {
		dir := opts.OutputDir
		if dir == "" {
			dir = filepath.Dir(input)
		}
		path := filepath.Clean(filepath.Join(dir, domain.OutputFileName(input, format)))
		if first, ok := claimed[path]; ok {
			errs[i] = fmt.Errorf("%w: %s is already written for %s", ErrOutputCollision, path, first)
			continue
		}
		claimed[path] = input
		paths[i] = path
	}
	return paths, errs
}

func clampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxBatchConcurrency {
		return MaxBatchConcurrency
	}
	return n
}
