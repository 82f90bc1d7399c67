package report

import (
	"fmt"
	"log/slog"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const errorPreviewLimit = 80

var (
	titleProps  = props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center}
	labelProps  = props.Text{Size: 9, Style: fontstyle.Bold}
	valueProps  = props.Text{Size: 9}
	headerProps = props.Text{Size: 8, Style: fontstyle.Bold}
	cellProps   = props.Text{Size: 8}
)

// PDFGenerator renders the run summary as a printable report.
type PDFGenerator struct {
	log *slog.Logger
}

func NewPDFGenerator(log *slog.Logger) *PDFGenerator {
	return &PDFGenerator{log: log}
}

func (g *PDFGenerator) GenerateReport(outputPath string, summary *domain.RunSummary) error {
	m := maroto.New(config.NewBuilder().Build())

	m.AddRow(12, text.NewCol(12, "Receipt extraction report", titleProps))

	for _, kv := range [][2]string{
		{"Run", summary.RunID},
		{"Model", summary.Model},
		{"Started", summary.StartedAt.Format("2006-01-02 15:04:05")},
		{"Files", fmt.Sprint(summary.Total)},
		{"Succeeded", fmt.Sprint(summary.Succeeded)},
		{"Failed", fmt.Sprint(summary.Failed)},
		{"Elapsed", fmt.Sprintf("%.1fs", summary.Elapsed.Seconds())},
		{"Average per file", fmt.Sprintf("%.1fs", summary.Average.Seconds())},
	} {
		m.AddRow(6,
			text.NewCol(4, kv[0], labelProps),
			text.NewCol(8, kv[1], valueProps),
		)
	}

	m.AddRow(8)
	m.AddRow(7, tableRow(headerProps, "#", "File", "Status", "Attempts", "Seconds", "Error")...)

	for i, o := range summary.Outcomes {
		var errText string
		if o.Error != nil {
			errText = truncateRunes(fmt.Sprintf("%s: %s", o.Error.Kind, o.Error.Message), errorPreviewLimit)
		}

		m.AddRow(6, tableRow(cellProps,
			fmt.Sprint(i+1),
			o.File.Name,
			string(o.Status),
			fmt.Sprint(o.Attempts),
			fmt.Sprintf("%.1f", o.Elapsed.Seconds()),
			errText,
		)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate pdf: %w", err)
	}

	if err := doc.Save(outputPath); err != nil {
		return fmt.Errorf("failed to save pdf: %w", err)
	}

	g.log.Debug("pdf report saved", slog.String("path", outputPath))

	return nil
}

// tableRow lays out the six outcome columns on the 12-column grid.
func tableRow(ps props.Text, values ...string) []core.Col {
	sizes := []int{1, 4, 2, 1, 1, 3}

	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, text.NewCol(sizes[i], v, ps))
	}

	return cols
}
