package batch

import (
	"context"
	"sync"
	"time"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Processor runs independent units of work on a bounded worker pool.
// A failing unit is counted but never stops its siblings.
type Processor struct {
	workers    int
	statusChan chan models.BatchProgress
	mu         sync.Mutex
}

// NewProcessor creates a new batch processor
func NewProcessor(workers int) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		workers:    workers,
		statusChan: make(chan models.BatchProgress, 1),
	}
}

// ProcessItems calls processFn once for each index in [0, total) with at most
// p.workers calls in flight. It returns ctx.Err() if the context ends before
// every unit was started; units already running are waited for.
func (p *Processor) ProcessItems(ctx context.Context, total int, processFn func(ctx context.Context, index int) error) error {
	if total == 0 {
		return nil
	}

	progress := models.BatchProgress{
		Total:          total,
		StartTime:      time.Now(),
		LastUpdateTime: time.Now(),
	}
	p.updateProgress(progress)

	workerChan := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	var ctxErr error
dispatch:
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case workerChan <- struct{}{}:
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				defer func() { <-workerChan }()

				err := processFn(ctx, index)

				mu.Lock()
				progress.Completed++
				if err != nil {
					progress.Failed++
				}
				progress.LastUpdateTime = time.Now()
				p.updateProgress(progress)
				mu.Unlock()
			}(i)
		}
	}

	wg.Wait()
	return ctxErr
}

// GetProgress returns the current progress channel
func (p *Processor) GetProgress() <-chan models.BatchProgress {
	return p.statusChan
}

// updateProgress replaces the pending progress value with the latest one
func (p *Processor) updateProgress(progress models.BatchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		select {
		case p.statusChan <- progress:
			return
		default:
			select {
			case <-p.statusChan:
			default:
			}
		}
	}
}
