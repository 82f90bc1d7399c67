package pipeline

import (
	"context"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

// FileExtractor performs a single extraction attempt for one file.
// The returned Extraction may be non-nil together with an error.
type FileExtractor interface {
	ExtractFile(ctx context.Context, file *domain.ReceiptFile, attempt int) (*domain.Extraction, error)
}

type AuditLogger interface {
	Record(ctx context.Context, attempt *domain.ExtractionAttempt)
}

type ProgressObserver interface {
	FileCompleted(progress Progress)
}

type RunSaver interface {
	SaveRun(ctx context.Context, run *domain.RunRecord) error
}

type OutcomesSaver interface {
	SaveOutcomes(ctx context.Context, outcomes ...*domain.OutcomeRecord) error
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ReportGenerator interface {
	GenerateReport(outputPath string, summary *domain.RunSummary) error
}
