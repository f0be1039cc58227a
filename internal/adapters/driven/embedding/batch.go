package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batching defaults.
const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 5
)

// BatchFunc embeds one sub-batch and returns one vector per text.
type BatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Batcher splits large embedding calls into sub-batches and runs them with
// bounded concurrency. The zero value uses the defaults and no pacing.
type Batcher struct {
	// Size is the maximum number of texts per request.
	Size int

	// Concurrency is the maximum number of requests in flight.
	Concurrency int

	// Limiter paces requests. Nil means unpaced.
	Limiter *RateLimiter
}

// Run embeds texts through fn and returns the vectors in input order.
// The first failing sub-batch cancels the rest and fails the whole call.
func (b Batcher) Run(ctx context.Context, texts []string, fn BatchFunc) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	size := b.Size
	if size <= 0 {
		size = DefaultBatchSize
	}
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		g.Go(func() error {
			if err := b.Limiter.Wait(gctx); err != nil {
				return err
			}
			vectors, err := fn(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embed texts %d-%d: %w", start, end-1, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embed texts %d-%d: got %d vectors for %d texts",
					start, end-1, len(vectors), end-start)
			}
			copy(out[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
