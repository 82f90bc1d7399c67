package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

type Discovery struct {
	log      *slog.Logger
	inputDir string
}

func NewDiscovery(log *slog.Logger, inputDir string) *Discovery {
	return &Discovery{
		log:      log,
		inputDir: inputDir,
	}
}

// Files lists supported receipt files directly inside the input directory,
// sorted by path. Hidden files and subdirectories are skipped.
func (d *Discovery) Files(ctx context.Context) ([]*domain.ReceiptFile, error) {
	entries, err := os.ReadDir(d.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", d.inputDir, err)
	}

	files := make([]*domain.ReceiptFile, 0, len(entries))
	for _, entry := range entries {
		file, ok, err := d.processEntry(entry)
		if err != nil {
			d.log.WarnContext(ctx, "failed to process entry, skipping file",
				slog.String("filename", entry.Name()),
				slog.String("err", err.Error()),
			)
			continue
		}

		if ok {
			files = append(files, file)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	d.log.InfoContext(ctx, "discovered receipt files",
		slog.String("input_dir", d.inputDir),
		slog.Int("entries", len(entries)),
		slog.Int("files", len(files)),
	)

	return files, nil
}

func (d *Discovery) processEntry(entry os.DirEntry) (*domain.ReceiptFile, bool, error) {
	if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
		return nil, false, nil
	}

	if !entry.Type().IsRegular() {
		info, err := os.Stat(filepath.Join(d.inputDir, entry.Name()))
		if err != nil {
			return nil, false, err
		}

		if !info.Mode().IsRegular() {
			return nil, false, nil
		}
	}

	file, err := domain.NewReceiptFile(filepath.Join(d.inputDir, entry.Name()))
	if err != nil {
		return nil, false, err
	}

	return file, file.Supported(), nil
}
