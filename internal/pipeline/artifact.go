package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const failedPreviewLimit = 200

// RunInfo carries run-level settings that end up in the artifact verbatim.
type RunInfo struct {
	InputDir    string
	MaxWorkers  int
	MaxAttempts int
	AuditDir    string
}

type RunArtifact struct {
	RunID                 string            `json:"run_id"`
	Model                 string            `json:"model"`
	StartedAt             time.Time         `json:"started_at"`
	InputDir              string            `json:"input_dir"`
	ParallelWorkers       int               `json:"parallel_workers"`
	MaxAttempts           int               `json:"max_attempts"`
	AuditDirectory        string            `json:"audit_directory,omitempty"`
	Total                 int               `json:"total"`
	Succeeded             int               `json:"succeeded"`
	Failed                int               `json:"failed"`
	TotalElapsedSeconds   float64           `json:"total_elapsed_seconds"`
	AverageSecondsPerFile float64           `json:"average_seconds_per_file"`
	Outcomes              []ArtifactOutcome `json:"outcomes"`
	FailedFiles           []FailedFile      `json:"failed_files"`
}

type ArtifactOutcome struct {
	FileName       string                 `json:"file_name"`
	FilePath       string                 `json:"file_path"`
	Status         domain.Status          `json:"status"`
	Payload        domain.Payload         `json:"payload,omitempty"`
	Error          *domain.OutcomeError   `json:"error,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
	Attempts       int                    `json:"attempts"`
	ElapsedSeconds float64                `json:"elapsed_seconds"`
	Classification *domain.Classification `json:"classification,omitempty"`
}

type FailedFile struct {
	File               string           `json:"file"`
	Kind               domain.ErrorKind `json:"kind"`
	Error              string           `json:"error"`
	Attempt            int              `json:"attempt"`
	RawResponsePreview string           `json:"raw_response_preview,omitempty"`
}

func NewRunArtifact(summary *domain.RunSummary, info RunInfo) *RunArtifact {
	artifact := &RunArtifact{
		RunID:                 summary.RunID,
		Model:                 summary.Model,
		StartedAt:             summary.StartedAt,
		InputDir:              info.InputDir,
		ParallelWorkers:       info.MaxWorkers,
		MaxAttempts:           info.MaxAttempts,
		AuditDirectory:        info.AuditDir,
		Total:                 summary.Total,
		Succeeded:             summary.Succeeded,
		Failed:                summary.Failed,
		TotalElapsedSeconds:   summary.Elapsed.Seconds(),
		AverageSecondsPerFile: summary.Average.Seconds(),
		Outcomes:              make([]ArtifactOutcome, 0, len(summary.Outcomes)),
		FailedFiles:           []FailedFile{},
	}

	for _, o := range summary.Outcomes {
		artifact.Outcomes = append(artifact.Outcomes, ArtifactOutcome{
			FileName:       o.File.Name,
			FilePath:       o.File.Path,
			Status:         o.Status,
			Payload:        o.Payload,
			Error:          o.Error,
			Warnings:       o.Warnings,
			Attempts:       o.Attempts,
			ElapsedSeconds: o.Elapsed.Seconds(),
			Classification: o.Classification,
		})

		if o.Error != nil {
			artifact.FailedFiles = append(artifact.FailedFiles, FailedFile{
				File:               o.File.Name,
				Kind:               o.Error.Kind,
				Error:              o.Error.Message,
				Attempt:            o.Error.Attempt,
				RawResponsePreview: truncate(o.Error.RawResponse, failedPreviewLimit),
			})
		}
	}

	return artifact
}

type ArtifactWriter struct {
	log       *slog.Logger
	outputDir string
}

func NewArtifactWriter(log *slog.Logger, outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		log:       log,
		outputDir: outputDir,
	}
}

// Write stores the artifact as extraction_run_<timestamp>.json and returns its path.
func (w *ArtifactWriter) Write(ctx context.Context, artifact *RunArtifact) (string, error) {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run artifact: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.outputDir, fmt.Sprintf("extraction_run_%s.json", artifact.StartedAt.Format("20060102_150405")))
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	w.log.InfoContext(ctx, "run artifact saved", slog.String("path", path))

	return path, nil
}

// ReadRunArtifact loads an artifact written by ArtifactWriter.
func ReadRunArtifact(path string) (*RunArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run artifact: %w", err)
	}

	var artifact RunArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse run artifact: %w", err)
	}

	return &artifact, nil
}

// ExtractionOutcomes rebuilds the outcomes recorded in the artifact.
func (a *RunArtifact) ExtractionOutcomes() []*domain.ExtractionOutcome {
	outcomes := make([]*domain.ExtractionOutcome, 0, len(a.Outcomes))
	for _, o := range a.Outcomes {
		file := &domain.ReceiptFile{
			Path: o.FilePath,
			Name: o.FileName,
			Ext:  strings.ToLower(filepath.Ext(o.FileName)),
		}
		file.Kind = domain.KindByExtension(file.Ext)

		outcomes = append(outcomes, &domain.ExtractionOutcome{
			File:           file,
			Status:         o.Status,
			Payload:        o.Payload,
			Error:          o.Error,
			Warnings:       o.Warnings,
			Attempts:       o.Attempts,
			Elapsed:        time.Duration(o.ElapsedSeconds * float64(time.Second)),
			Classification: o.Classification,
		})
	}

	return outcomes
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}

	return string(r[:limit])
}
