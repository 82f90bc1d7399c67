package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

// NamedGenerator binds a report generator to its output file name pattern.
// Pattern receives the run start timestamp via fmt.
type NamedGenerator struct {
	Name      string
	Pattern   string
	Generator ReportGenerator
}

type Reporter struct {
	log        *slog.Logger
	outputDir  string
	generators []NamedGenerator
}

func NewReporter(log *slog.Logger, outputDir string, generators ...NamedGenerator) *Reporter {
	return &Reporter{
		log:        log,
		outputDir:  outputDir,
		generators: generators,
	}
}

// Generate runs every generator. A failing generator does not stop the
// others; all failures are joined into the returned error.
func (r *Reporter) Generate(ctx context.Context, summary *domain.RunSummary) ([]string, error) {
	var (
		paths []string
		errs  []error
	)

	stamp := summary.StartedAt.Format("20060102_150405")
	for _, g := range r.generators {
		path := filepath.Join(r.outputDir, fmt.Sprintf(g.Pattern, stamp))

		log := r.log.With(
			slog.String("report", g.Name),
			slog.String("path", path),
		)

		log.InfoContext(ctx, "generating report")

		if err := g.Generator.GenerateReport(path, summary); err != nil {
			log.ErrorContext(ctx, "failed to generate report", slog.String("err", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", g.Name, err))
			continue
		}

		paths = append(paths, path)
	}

	return paths, errors.Join(errs...)
}
