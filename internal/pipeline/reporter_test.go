package pipeline_test

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Generate(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	summary := testSummary(t)

	workbook := NewMockReportGenerator(t)
	pdf := NewMockReportGenerator(t)

	workbook.EXPECT().GenerateReport(filepath.Join("/out", "review_20240315_103000.xlsx"), summary).Return(nil).Once()
	pdf.EXPECT().GenerateReport(filepath.Join("/out", "extraction_report_20240315_103000.pdf"), summary).Return(nil).Once()

	reporter := pipeline.NewReporter(log, "/out",
		pipeline.NamedGenerator{Name: "workbook", Pattern: "review_%s.xlsx", Generator: workbook},
		pipeline.NamedGenerator{Name: "pdf", Pattern: "extraction_report_%s.pdf", Generator: pdf},
	)

	paths, err := reporter.Generate(t.Context(), summary)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/out", "review_20240315_103000.xlsx"),
		filepath.Join("/out", "extraction_report_20240315_103000.pdf"),
	}, paths)
}

func TestReporter_Generate_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	summary := testSummary(t)
	expectedErr := errors.New("disk full")

	failing := NewMockReportGenerator(t)
	working := NewMockReportGenerator(t)

	failing.EXPECT().GenerateReport(filepath.Join("/out", "review_20240315_103000.xlsx"), summary).Return(expectedErr).Once()
	working.EXPECT().GenerateReport(filepath.Join("/out", "extraction_report_20240315_103000.pdf"), summary).Return(nil).Once()

	reporter := pipeline.NewReporter(log, "/out",
		pipeline.NamedGenerator{Name: "workbook", Pattern: "review_%s.xlsx", Generator: failing},
		pipeline.NamedGenerator{Name: "pdf", Pattern: "extraction_report_%s.pdf", Generator: working},
	)

	paths, err := reporter.Generate(t.Context(), summary)
	require.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), "workbook")
	assert.Equal(t, []string{filepath.Join("/out", "extraction_report_20240315_103000.pdf")}, paths)
}
