package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
	"github.com/kurochkinivan/receipt_reporter/internal/repository/postgresql"
)

const (
	workbookPattern  = "review_%s.xlsx"
	pdfReportPattern = "extraction_report_%s.pdf"
	auditSubdir      = "llm_logs"
)

type App struct {
	log *slog.Logger
	cfg *config.Config
	out io.Writer
}

// New creates the application. Human-readable progress and summaries go to
// out, structured logs go to log.
func New(log *slog.Logger, cfg *config.Config, out io.Writer) *App {
	return &App{
		log: log,
		cfg: cfg,
		out: out,
	}
}

// ExtractResult is what a finished extraction run left on disk.
type ExtractResult struct {
	Summary      *domain.RunSummary
	ArtifactPath string
	ReportPaths  []string
	AuditDir     string

	Classification *ClassifyResult // nil unless classification was enabled
}

// Extract processes every receipt in the input directory. Per-file failures
// never fail the run; only setup errors (wrapping domain.ErrSetup) and a
// failure to write the run artifact are returned.
func (a *App) Extract(ctx context.Context) (*ExtractResult, error) {
	if err := a.validateExtractSetup(); err != nil {
		return nil, err
	}

	auditDir := a.cfg.AuditDirectory
	if auditDir == "" {
		auditDir = filepath.Join(a.cfg.OutputDirectory, auditSubdir)
	}

	components, err := a.buildExtraction(auditDir)
	if err != nil {
		return nil, err
	}

	var persist *pipeline.Writer
	if a.cfg.PostgreSQL.Enabled() {
		a.log.InfoContext(ctx, "establishing postgresql connection",
			slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
			slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
			slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
		)

		pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create db connection: %w", domain.ErrSetup, err)
		}
		defer pool.Close()

		persist = pipeline.NewWriter(
			a.log,
			postgresql.NewRunsRepository(pool),
			postgresql.NewOutcomesRepository(pool),
			postgresql.NewTxManager(pool),
		)
	}

	files, err := pipeline.NewDiscovery(a.log, a.cfg.InputDirectory).Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	policy := pipeline.RetryPolicy{
		MaxAttempts: a.cfg.MaxAttempts,
		BaseDelay:   a.cfg.BaseDelay,
	}
	retrier := pipeline.NewRetrier(a.log, policy, components.extractor, components.audit)
	runner := pipeline.NewRunner(a.log, a.cfg.MaxWorkers, retrier, pipeline.NewProgressPrinter(a.out))

	startedAt := time.Now()
	outcomes := runner.Run(ctx, files)

	var classificationFailed []*domain.ExtractionOutcome
	if components.classifier != nil {
		classificationFailed = components.classifier.Classify(ctx, outcomes)
	}

	summary := pipeline.Aggregate(outcomes, time.Since(startedAt))
	summary.RunID = uuid.NewString()
	summary.Model = components.model
	summary.StartedAt = startedAt

	a.log.InfoContext(ctx, "extraction finished",
		slog.String("run_id", summary.RunID),
		slog.Int("total", summary.Total),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed),
	)

	artifact := pipeline.NewRunArtifact(&summary, pipeline.RunInfo{
		InputDir:    a.cfg.InputDirectory,
		MaxWorkers:  a.cfg.MaxWorkers,
		MaxAttempts: retrier.Policy().MaxAttempts,
		AuditDir:    auditDir,
	})

	// The run already happened; a cancelled context must not lose its artifact.
	saveCtx := context.WithoutCancel(ctx)

	artifactPath, err := pipeline.NewArtifactWriter(a.log, a.cfg.OutputDirectory).Write(saveCtx, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to write run artifact: %w", err)
	}

	if persist != nil {
		if err := persist.Save(saveCtx, &summary, a.cfg.InputDirectory); err != nil {
			a.log.ErrorContext(ctx, "failed to persist run", slog.String("err", err.Error()))
		}
	}

	reportPaths, err := a.reporter(components).Generate(saveCtx, &summary)
	if err != nil {
		a.log.ErrorContext(ctx, "some reports were not generated", slog.String("err", err.Error()))
	}

	result := &ExtractResult{
		Summary:      &summary,
		ArtifactPath: artifactPath,
		ReportPaths:  reportPaths,
		AuditDir:     auditDir,
	}

	printExtractResult(a.out, result, a.cfg.MaxWorkers)

	if components.classifier != nil {
		result.Classification, err = a.writeClassification(saveCtx, outcomes, classificationFailed, startedAt)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (a *App) reporter(c *extractionComponents) *pipeline.Reporter {
	var generators []pipeline.NamedGenerator

	if a.cfg.Report.Workbook {
		generators = append(generators, pipeline.NamedGenerator{
			Name:      "review workbook",
			Pattern:   workbookPattern,
			Generator: c.workbook,
		})
	}

	if a.cfg.Report.PDF {
		generators = append(generators, pipeline.NamedGenerator{
			Name:      "pdf report",
			Pattern:   pdfReportPattern,
			Generator: c.pdf,
		})
	}

	return pipeline.NewReporter(a.log, a.cfg.OutputDirectory, generators...)
}
