package extraction

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner lets external converters be stubbed in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type ExecRunner struct {
	log *slog.Logger
}

func NewExecRunner(log *slog.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	log := r.log.With(
		slog.String("cmd", name),
		slog.String("args", strings.Join(args, " ")),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	if err != nil {
		log.ErrorContext(ctx, "command failed",
			slog.String("err", err.Error()),
			slog.String("stderr", truncate(stderr.String(), 8<<10)),
		)
	} else {
		log.DebugContext(ctx, "command finished", slog.Int("stdout_bytes", stdout.Len()))
	}

	return stdout.Bytes(), stderr.Bytes(), err
}
