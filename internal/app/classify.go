package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/classification"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
)

// ClassifyResult is what a classification pass left on disk.
type ClassifyResult struct {
	Summary *classification.Summary
	Paths   *classification.ReportPaths
	Failed  []*domain.ExtractionOutcome
}

// Classify assigns tax categories to the receipts of a finished extraction
// run, read back from its run artifact.
func (a *App) Classify(ctx context.Context, artifactPath string) (*ClassifyResult, error) {
	if a.cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured for provider %q", domain.ErrSetup, a.cfg.LLM.Provider)
	}

	artifact, err := pipeline.ReadRunArtifact(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	if a.cfg.OutputDirectory == "" {
		a.cfg.OutputDirectory = filepath.Dir(artifactPath)
	}
	if err := checkWritable(a.cfg.OutputDirectory); err != nil {
		return nil, fmt.Errorf("%w: output directory: %w", domain.ErrSetup, err)
	}

	auditDir := a.cfg.AuditDirectory
	if auditDir == "" {
		auditDir = filepath.Join(a.cfg.OutputDirectory, auditSubdir)
	}

	client, err := a.newClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	service, err := a.newClassificationService(client, auditDir)
	if err != nil {
		return nil, err
	}

	outcomes := artifact.ExtractionOutcomes()

	a.log.InfoContext(ctx, "starting classification",
		slog.String("run_id", artifact.RunID),
		slog.Int("outcomes", len(outcomes)),
	)

	startedAt := time.Now()
	failed := service.Classify(ctx, outcomes)

	return a.writeClassification(context.WithoutCancel(ctx), outcomes, failed, startedAt)
}

func (a *App) writeClassification(
	ctx context.Context,
	outcomes []*domain.ExtractionOutcome,
	failed []*domain.ExtractionOutcome,
	at time.Time,
) (*ClassifyResult, error) {
	paths, err := classification.NewWriter(a.log, a.cfg.OutputDirectory).Write(ctx, outcomes, at)
	if err != nil {
		return nil, fmt.Errorf("failed to write classification reports: %w", err)
	}

	result := &ClassifyResult{
		Summary: classification.Summarize(outcomes),
		Paths:   paths,
		Failed:  failed,
	}

	printClassifyResult(a.out, result)

	return result, nil
}
