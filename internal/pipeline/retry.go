package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Backoff returns the wait before the attempt that follows attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retrier drives one file through PENDING -> ATTEMPTING -> (SUCCESS | RETRY_WAIT | EXHAUSTED).
type Retrier struct {
	log       *slog.Logger
	policy    RetryPolicy
	extractor FileExtractor
	audit     AuditLogger
	sleep     SleepFunc
}

type RetrierOption func(*Retrier)

func WithSleep(fn SleepFunc) RetrierOption {
	return func(r *Retrier) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

func NewRetrier(
	log *slog.Logger,
	policy RetryPolicy,
	extractor FileExtractor,
	audit AuditLogger,
	opts ...RetrierOption,
) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = 0
	}

	r := &Retrier{
		log:       log,
		policy:    policy,
		extractor: extractor,
		audit:     audit,
		sleep:     sleepContext,
	}
	for _, o := range opts {
		o(r)
	}

	return r
}

func (r *Retrier) Policy() RetryPolicy {
	return r.policy
}

// Extract never returns an error: every failure ends up in the outcome.
func (r *Retrier) Extract(ctx context.Context, file *domain.ReceiptFile) *domain.ExtractionOutcome {
	start := time.Now()
	log := r.log.With(slog.String("filename", file.Name))

	var (
		lastErr error
		attempt int
	)

	for attempt = 1; ; attempt++ {
		log.InfoContext(ctx, "processing file",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.policy.MaxAttempts),
		)

		extraction, err := r.attempt(ctx, file, attempt)
		if err == nil {
			return &domain.ExtractionOutcome{
				File:     file,
				Status:   domain.StatusExtracted,
				Payload:  extraction.Payload,
				Warnings: extraction.Warnings,
				Attempts: attempt,
				Elapsed:  time.Since(start),
			}
		}

		lastErr = err
		log.ErrorContext(ctx, "extraction attempt failed",
			slog.Int("attempt", attempt),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("err", err.Error()),
		)

		if !domain.IsRetryable(err) || attempt >= r.policy.MaxAttempts {
			break
		}

		delay := r.policy.Backoff(attempt)
		log.DebugContext(ctx, "waiting before retry",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
		)

		if err := r.sleep(ctx, delay); err != nil {
			lastErr = fmt.Errorf("%w (retry aborted: %v)", lastErr, err)
			break
		}
	}

	return &domain.ExtractionOutcome{
		File:   file,
		Status: domain.StatusFailed,
		Error: &domain.OutcomeError{
			Kind:        domain.KindOf(lastErr),
			Message:     lastErr.Error(),
			Attempt:     attempt,
			RawResponse: domain.RawResponseOf(lastErr),
		},
		Attempts: attempt,
		Elapsed:  time.Since(start),
	}
}

func (r *Retrier) attempt(ctx context.Context, file *domain.ReceiptFile, n int) (*domain.Extraction, error) {
	record := &domain.ExtractionAttempt{
		File:      file,
		Attempt:   n,
		StartedAt: time.Now(),
	}

	extraction, err := r.extractor.ExtractFile(ctx, file, n)
	if err == nil {
		err = checkPayload(extraction)
	}

	record.FinishedAt = time.Now()
	record.Err = err
	if extraction != nil {
		record.Model = extraction.Model
		record.Request = extraction.Request
		record.Response = extraction.Response
	}

	r.audit.Record(ctx, record)

	return extraction, err
}

// checkPayload enforces the minimal structural contract: an object without a
// top-level error flag.
func checkPayload(extraction *domain.Extraction) error {
	if extraction == nil || extraction.Payload == nil {
		return domain.NewExtractionError(domain.ErrorKindResponseParse, errors.New("empty payload"))
	}

	if flag, ok := extraction.Payload["error"]; ok && flag != nil && flag != false && flag != "" {
		return domain.NewExtractionError(domain.ErrorKindResponseParse, fmt.Errorf("payload flagged as failed: %v", flag))
	}

	return nil
}
