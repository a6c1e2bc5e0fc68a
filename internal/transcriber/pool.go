package transcriber

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrent transcriptions. Transcription is
// CPU-bound work; without the bound, many in-flight jobs would starve the
// goroutines delivering progress events and serving requests.
type Pool struct {
	inner Transcriber
	sem   *semaphore.Weighted
}

// Make sure we conform to Transcriber interface
var _ Transcriber = (*Pool)(nil)

func NewPool(inner Transcriber, workers int64) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		inner: inner,
		sem:   semaphore.NewWeighted(workers),
	}
}

func (p *Pool) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)

	return p.inner.Transcribe(ctx, mediaPath)
}
