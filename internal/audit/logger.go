package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Record struct {
	Timestamp  time.Time             `json:"timestamp"             yaml:"timestamp"`
	File       string                `json:"file"                  yaml:"file"`
	FilePath   string                `json:"file_path"             yaml:"file_path"`
	Attempt    int                   `json:"attempt"               yaml:"attempt"`
	Model      string                `json:"model"                 yaml:"model"`
	Request    domain.RequestShape   `json:"request"               yaml:"request"`
	Response   *domain.ResponseShape `json:"response,omitempty"    yaml:"response,omitempty"`
	Error      *ErrorDetail          `json:"error,omitempty"       yaml:"error,omitempty"`
	Success    bool                  `json:"success"               yaml:"success"`
	DurationMS int64                 `json:"duration_ms"           yaml:"duration_ms"`
}

type ErrorDetail struct {
	Kind    domain.ErrorKind `json:"kind"    yaml:"kind"`
	Message string           `json:"message" yaml:"message"`
	Chain   []string         `json:"chain"   yaml:"chain"`
}

// FileLogger writes one file per extraction attempt. Records are never read
// back; write failures are logged and swallowed.
type FileLogger struct {
	log    *slog.Logger
	dir    string
	format string
}

func NewFileLogger(log *slog.Logger, dir, format string) (*FileLogger, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unknown audit format %q", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	return &FileLogger{
		log:    log,
		dir:    dir,
		format: format,
	}, nil
}

func NewRecord(attempt *domain.ExtractionAttempt) *Record {
	record := &Record{
		Timestamp:  attempt.StartedAt,
		File:       attempt.File.Name,
		FilePath:   attempt.File.Path,
		Attempt:    attempt.Attempt,
		Model:      attempt.Model,
		Request:    attempt.Request,
		Response:   attempt.Response,
		Success:    attempt.Succeeded(),
		DurationMS: attempt.Elapsed().Milliseconds(),
	}

	if attempt.Err != nil {
		record.Error = &ErrorDetail{
			Kind:    domain.KindOf(attempt.Err),
			Message: attempt.Err.Error(),
			Chain:   domain.ErrorChain(attempt.Err),
		}
	}

	return record
}

func (l *FileLogger) Record(ctx context.Context, attempt *domain.ExtractionAttempt) {
	log := l.log.With(
		slog.String("filename", attempt.File.Name),
		slog.Int("attempt", attempt.Attempt),
	)

	data, err := l.marshal(NewRecord(attempt))
	if err != nil {
		log.ErrorContext(ctx, "failed to marshal audit record", slog.String("err", err.Error()))
		return
	}

	path := filepath.Join(l.dir, l.fileName(attempt))
	if err := writeExclusive(path, data); err != nil {
		log.ErrorContext(ctx, "failed to write audit record", slog.String("err", err.Error()))
		return
	}

	log.DebugContext(ctx, "audit record written", slog.String("path", path))
}

func (l *FileLogger) marshal(record *Record) ([]byte, error) {
	if l.format == FormatYAML {
		return yaml.Marshal(record)
	}

	return json.MarshalIndent(record, "", "  ")
}

func (l *FileLogger) fileName(attempt *domain.ExtractionAttempt) string {
	return fmt.Sprintf("llm_call_%s_attempt%d_%s_%s.%s",
		attempt.File.Stem(),
		attempt.Attempt,
		attempt.StartedAt.Format("20060102_150405"),
		uuid.NewString()[:8],
		l.format,
	)
}

func writeExclusive(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	_, err = f.Write(data)

	return err
}
