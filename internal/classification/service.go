package classification

import (
	"context"
	"log/slog"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
)

type Config struct {
	MaxWorkers int
	Policy     pipeline.RetryPolicy
}

// Service classifies the successful outcomes of an extraction run in
// parallel, with the same retry policy as extraction.
type Service struct {
	log        *slog.Logger
	cfg        Config
	classifier *Classifier
	audit      pipeline.AuditLogger
	observer   pipeline.ProgressObserver
	opts       []pipeline.RetrierOption
}

func NewService(
	log *slog.Logger,
	cfg Config,
	classifier *Classifier,
	audit pipeline.AuditLogger,
	observer pipeline.ProgressObserver,
	opts ...pipeline.RetrierOption,
) *Service {
	return &Service{
		log:        log,
		cfg:        cfg,
		classifier: classifier,
		audit:      audit,
		observer:   observer,
		opts:       opts,
	}
}

// Classify attaches a Classification to every outcome it could classify and
// returns the outcomes of failed classification calls. Failed extractions
// are skipped.
func (s *Service) Classify(ctx context.Context, outcomes []*domain.ExtractionOutcome) []*domain.ExtractionOutcome {
	batch := s.classifier.Batch(outcomes)
	files := batch.Files()
	if len(files) == 0 {
		s.log.InfoContext(ctx, "nothing to classify")
		return nil
	}

	byPath := make(map[string]*domain.ExtractionOutcome, len(files))
	for _, o := range outcomes {
		if o.Succeeded() {
			byPath[o.File.Path] = o
		}
	}

	retrier := pipeline.NewRetrier(s.log, s.cfg.Policy, batch, s.audit, s.opts...)
	results := pipeline.NewRunner(s.log, s.cfg.MaxWorkers, retrier, s.observer).Run(ctx, files)

	var failed []*domain.ExtractionOutcome
	for _, r := range results {
		if !r.Succeeded() {
			failed = append(failed, r)
			continue
		}

		c, err := Parse(r.Payload)
		if err != nil {
			failed = append(failed, r)
			continue
		}

		byPath[r.File.Path].Classification = c
	}

	s.log.InfoContext(ctx, "classification finished",
		slog.Int("classified", len(results)-len(failed)),
		slog.Int("failed", len(failed)),
	)

	return failed
}
