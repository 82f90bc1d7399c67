package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxWorkers = 5

type Progress struct {
	Completed int
	Total     int
	FileName  string
	Status    domain.Status
}

// Runner fans files out to at most maxWorkers concurrent retriers and
// returns outcomes aligned with the input slice.
type Runner struct {
	log        *slog.Logger
	maxWorkers int
	retrier    *Retrier
	observer   ProgressObserver
}

// runProgress counts completions of a single Run call.
type runProgress struct {
	mu        sync.Mutex
	completed int
	total     int
	observer  ProgressObserver
}

func (p *runProgress) fileCompleted(outcome *domain.ExtractionOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++

	if p.observer != nil {
		p.observer.FileCompleted(Progress{
			Completed: p.completed,
			Total:     p.total,
			FileName:  outcome.File.Name,
			Status:    outcome.Status,
		})
	}
}

func NewRunner(log *slog.Logger, maxWorkers int, retrier *Retrier, observer ProgressObserver) *Runner {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &Runner{
		log:        log,
		maxWorkers: maxWorkers,
		retrier:    retrier,
		observer:   observer,
	}
}

func (r *Runner) Run(ctx context.Context, files []*domain.ReceiptFile) []*domain.ExtractionOutcome {
	outcomes := make([]*domain.ExtractionOutcome, len(files))
	progress := &runProgress{total: len(files), observer: r.observer}

	r.log.InfoContext(ctx, "starting extraction",
		slog.Int("files", len(files)),
		slog.Int("max_workers", r.maxWorkers),
		slog.Int("max_attempts", r.retrier.Policy().MaxAttempts),
	)

	var g errgroup.Group
	g.SetLimit(r.maxWorkers)

	for i, file := range files {
		g.Go(func() error {
			outcome := r.extract(ctx, file)
			outcomes[i] = outcome
			progress.fileCompleted(outcome)

			return nil
		})
	}

	// Workers never return errors; failures live in the outcomes.
	_ = g.Wait()

	return outcomes
}

func (r *Runner) extract(ctx context.Context, file *domain.ReceiptFile) (outcome *domain.ExtractionOutcome) {
	defer func() {
		if p := recover(); p != nil {
			r.log.ErrorContext(ctx, "unexpected panic while processing file",
				slog.String("filename", file.Name),
				slog.Any("panic", p),
			)

			outcome = &domain.ExtractionOutcome{
				File:   file,
				Status: domain.StatusFailed,
				Error: &domain.OutcomeError{
					Kind:    domain.ErrorKindUnknown,
					Message: fmt.Sprintf("panic: %v", p),
					Attempt: 1,
				},
				Attempts: 1,
			}
		}
	}()

	return r.retrier.Extract(ctx, file)
}
