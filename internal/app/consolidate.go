package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/report"
)

// Consolidate merges reviewed workbooks into an accounting import file.
// Arguments may name workbooks or directories holding them.
func (a *App) Consolidate(ctx context.Context, args []string) (*report.ConsolidationSummary, error) {
	paths := a.workbookPaths(ctx, args)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no valid Excel files found", domain.ErrSetup)
	}

	layout, err := report.LoadLayout(a.cfg.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetup, err)
	}

	outputDir := filepath.Join(a.cfg.OutputDirectory, "consolidation_"+time.Now().Format("20060102_150405"))
	if err := checkWritable(outputDir); err != nil {
		return nil, fmt.Errorf("%w: output directory: %w", domain.ErrSetup, err)
	}

	a.log.InfoContext(ctx, "starting consolidation",
		slog.Int("workbooks", len(paths)),
		slog.String("output_dir", outputDir),
	)

	summary, err := report.NewConsolidator(a.log, layout, outputDir).Consolidate(ctx, paths)
	if err != nil {
		if errors.Is(err, report.ErrNoReceipts) && summary != nil {
			printConsolidationSummary(a.out, summary, outputDir)
		}
		return nil, fmt.Errorf("failed to consolidate: %w", err)
	}

	printConsolidationSummary(a.out, summary, outputDir)

	return summary, nil
}

func (a *App) workbookPaths(ctx context.Context, args []string) []string {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			a.log.WarnContext(ctx, "skipping invalid file",
				slog.String("path", arg),
				slog.String("err", err.Error()),
			)
			continue
		}

		if !info.IsDir() {
			if isWorkbook(arg) {
				paths = append(paths, arg)
			} else {
				a.log.WarnContext(ctx, "skipping invalid file", slog.String("path", arg))
			}
			continue
		}

		matches, err := filepath.Glob(filepath.Join(arg, "*.xlsx"))
		if err != nil {
			a.log.WarnContext(ctx, "failed to list directory",
				slog.String("path", arg),
				slog.String("err", err.Error()),
			)
			continue
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}

	return paths
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
