package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kurochkinivan/receipt_reporter/internal/audit"
	"github.com/kurochkinivan/receipt_reporter/internal/classification"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/extraction"
	"github.com/kurochkinivan/receipt_reporter/internal/llm"
	"github.com/kurochkinivan/receipt_reporter/internal/llm/anthropic"
	"github.com/kurochkinivan/receipt_reporter/internal/llm/openai"
	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
	"github.com/kurochkinivan/receipt_reporter/internal/report"
)

const classificationSubdir = "classification"

type extractionComponents struct {
	model      string
	extractor  *extraction.Extractor
	audit      *audit.FileLogger
	classifier *classification.Service // nil unless classification is enabled
	workbook   *report.Workbook
	pdf        *report.PDFGenerator
}

func (a *App) validateExtractSetup() error {
	if err := checkDirectory(a.cfg.InputDirectory); err != nil {
		return fmt.Errorf("%w: input directory: %w", domain.ErrSetup, err)
	}

	if a.cfg.LLM.APIKey == "" {
		return fmt.Errorf("%w: no API key configured for provider %q", domain.ErrSetup, a.cfg.LLM.Provider)
	}

	if err := checkWritable(a.cfg.OutputDirectory); err != nil {
		return fmt.Errorf("%w: output directory: %w", domain.ErrSetup, err)
	}

	return nil
}

func (a *App) buildExtraction(auditDir string) (*extractionComponents, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	prompt, err := extraction.LoadPrompt(a.cfg.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	validator, err := extraction.NewSchemaValidator(a.cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	layout, err := report.LoadLayout(a.cfg.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	auditLogger, err := audit.NewFileLogger(a.log, auditDir, a.cfg.AuditFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	preparer := extraction.NewPreparer(a.log, extraction.PreparerConfig{
		MaxImageSide: a.cfg.MaxImageSide,
		PDFMode:      a.cfg.PDFMode,
		PDFConverter: a.cfg.PDFConverter,
	}, extraction.NewExecRunner(a.log))

	components := &extractionComponents{
		model:     client.Model(),
		extractor: extraction.NewExtractor(a.log, client, preparer, prompt, validator),
		audit:     auditLogger,
		workbook:  report.NewWorkbook(a.log, layout),
		pdf:       report.NewPDFGenerator(a.log),
	}

	if a.cfg.Classify {
		components.classifier, err = a.newClassificationService(client, auditDir)
		if err != nil {
			return nil, err
		}
	}

	return components, nil
}

// newClassificationService logs classification calls next to, not among,
// the extraction calls.
func (a *App) newClassificationService(client llm.Client, auditDir string) (*classification.Service, error) {
	auditLogger, err := audit.NewFileLogger(a.log, filepath.Join(auditDir, classificationSubdir), a.cfg.AuditFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	return classification.NewService(
		a.log,
		classification.Config{
			MaxWorkers: a.cfg.MaxWorkers,
			Policy: pipeline.RetryPolicy{
				MaxAttempts: a.cfg.MaxAttempts,
				BaseDelay:   a.cfg.BaseDelay,
			},
		},
		classification.NewClassifier(a.log, client),
		auditLogger,
		pipeline.NewProgressPrinter(a.out),
	), nil
}

func (a *App) newClient() (llm.Client, error) {
	cfg := a.cfg.LLM

	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		return anthropic.NewClient(a.log, anthropic.Config{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		}), nil
	case config.ProviderOpenAI:
		return openai.NewClient(a.log, openai.Config{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func checkDirectory(dir string) error {
	if dir == "" {
		return errors.New("not set")
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", dir)
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	return nil
}

// checkWritable creates dir if needed and proves it accepts new files.
func checkWritable(dir string) error {
	if dir == "" {
		return errors.New("not set")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("%q is not writable: %w", dir, err)
	}

	name := tmp.Name()

	return errors.Join(tmp.Close(), os.Remove(name))
}
