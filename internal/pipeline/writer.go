package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

// Writer persists a finished run and its outcomes in one transaction.
type Writer struct {
	log           *slog.Logger
	runSaver      RunSaver
	outcomesSaver OutcomesSaver
	transactor    Transactor
}

func NewWriter(
	log *slog.Logger,
	runSaver RunSaver,
	outcomesSaver OutcomesSaver,
	transactor Transactor,
) *Writer {
	return &Writer{
		log:           log,
		runSaver:      runSaver,
		outcomesSaver: outcomesSaver,
		transactor:    transactor,
	}
}

func (w *Writer) Save(ctx context.Context, summary *domain.RunSummary, inputDir string) error {
	log := w.log.With(
		slog.String("run_id", summary.RunID),
		slog.Int("outcomes_count", len(summary.Outcomes)),
	)

	records, err := OutcomeRecords(summary)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "saving run to database")

	err = w.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := w.runSaver.SaveRun(ctx, RunRecord(summary, inputDir)); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		if err := w.outcomesSaver.SaveOutcomes(ctx, records...); err != nil {
			return fmt.Errorf("failed to save outcomes: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "run saved to database")

	return nil
}

func RunRecord(summary *domain.RunSummary, inputDir string) *domain.RunRecord {
	return &domain.RunRecord{
		ID:        summary.RunID,
		Model:     summary.Model,
		InputDir:  inputDir,
		StartedAt: summary.StartedAt,
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		ElapsedMS: summary.Elapsed.Milliseconds(),
	}
}

// OutcomeRecords flattens outcomes into rows numbered from 1 in input order.
func OutcomeRecords(summary *domain.RunSummary) ([]*domain.OutcomeRecord, error) {
	records := make([]*domain.OutcomeRecord, 0, len(summary.Outcomes))
	for i, o := range summary.Outcomes {
		record := &domain.OutcomeRecord{
			RunID:     summary.RunID,
			N:         i + 1,
			FileName:  o.File.Name,
			FilePath:  o.File.Path,
			Status:    o.Status,
			Attempts:  o.Attempts,
			ElapsedMS: o.Elapsed.Milliseconds(),
		}

		if o.Payload != nil {
			payload, err := json.Marshal(o.Payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal payload of %q: %w", o.File.Name, err)
			}
			record.Payload = payload
		}

		if o.Error != nil {
			record.ErrorKind = string(o.Error.Kind)
			record.ErrorMessage = o.Error.Message
		}

		records = append(records, record)
	}

	return records, nil
}
