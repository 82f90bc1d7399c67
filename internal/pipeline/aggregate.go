package pipeline

import (
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

// Aggregate computes a RunSummary from outcomes in input order. It does not
// modify or reorder outcomes, so repeated calls yield identical summaries.
func Aggregate(outcomes []*domain.ExtractionOutcome, elapsed time.Duration) domain.RunSummary {
	summary := domain.RunSummary{
		Total:    len(outcomes),
		Elapsed:  elapsed,
		Outcomes: outcomes,
	}

	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusExtracted:
			summary.Succeeded++
		default:
			summary.Failed++
		}

		summary.AttemptTime += o.Elapsed
	}

	if summary.Total > 0 {
		summary.Average = elapsed / time.Duration(summary.Total)
	}

	return summary
}
