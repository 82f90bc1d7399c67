package domain

import "time"

type RunSummary struct {
	RunID       string
	Model       string
	StartedAt   time.Time
	Total       int
	Succeeded   int
	Failed      int
	Elapsed     time.Duration
	AttemptTime time.Duration // sum of per-outcome elapsed times
	Average     time.Duration // Elapsed / Total, zero for an empty run
	Outcomes    []*ExtractionOutcome
}

func (s *RunSummary) FailedOutcomes() []*ExtractionOutcome {
	var failed []*ExtractionOutcome
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}

	return failed
}
