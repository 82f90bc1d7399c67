package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

var (
	progressOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	progressErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	progressMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ProgressPrinter writes one human-readable line per completed file.
type ProgressPrinter struct {
	out io.Writer
}

func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

func (p *ProgressPrinter) FileCompleted(progress Progress) {
	_, _ = fmt.Fprintln(p.out, FormatProgress(progress))
}

func FormatProgress(progress Progress) string {
	marker := progressOKStyle.Render("✅")
	if progress.Status != domain.StatusExtracted {
		marker = progressErrorStyle.Render("❌")
	}

	counter := progressMutedStyle.Render(fmt.Sprintf("%d/%d", progress.Completed, progress.Total))

	return fmt.Sprintf("%s Completed %s: %s", marker, counter, progress.FileName)
}
