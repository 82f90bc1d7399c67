package classification

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TaxRow is one line of the tax report CSV.
type TaxRow struct {
	ReceiptNumber         string  `csv:"receipt_number"`
	FileName              string  `csv:"file_name"`
	Date                  string  `csv:"date"`
	VendorName            string  `csv:"vendor_name"`
	VendorTaxID           string  `csv:"vendor_tax_id"`
	Category              string  `csv:"category"`
	CategoryHebrew        string  `csv:"category_hebrew"`
	ExpenseType           string  `csv:"expense_type"`
	BusinessPercentage    float64 `csv:"business_percentage"`
	TotalAmount           float64 `csv:"total_amount"`
	VATAmount             float64 `csv:"vat_amount"`
	Currency              string  `csv:"currency"`
	DeductibleAmount      float64 `csv:"deductible_amount"`
	NonDeductibleAmount   float64 `csv:"non_deductible_amount"`
	UserNotes             string  `csv:"user_notes"`
	AINotes               string  `csv:"ai_notes"`
	RequiresDocumentation bool    `csv:"requires_documentation"`
}

func TaxRows(outcomes []*domain.ExtractionOutcome) []TaxRow {
	var rows []TaxRow
	for _, o := range outcomes {
		c := o.Classification
		if c == nil {
			continue
		}

		date := c.Date
		if date == "" {
			date = str(o.Payload, "date")
		}

		rows = append(rows, TaxRow{
			ReceiptNumber:         str(o.Payload, "receipt_number"),
			FileName:              o.File.Name,
			Date:                  date,
			VendorName:            str(o.Payload, "vendor_name"),
			VendorTaxID:           str(o.Payload, "vendor_tax_id"),
			Category:              c.Category,
			CategoryHebrew:        c.CategoryLabel,
			ExpenseType:           string(c.ExpenseType),
			BusinessPercentage:    c.BusinessPercentage,
			TotalAmount:           c.Amount,
			VATAmount:             c.VATAmount,
			Currency:              c.Currency,
			DeductibleAmount:      c.DeductibleAmount,
			NonDeductibleAmount:   c.NonDeductibleAmount,
			UserNotes:             strings.Join(c.Questions, "; "),
			AINotes:               c.Notes,
			RequiresDocumentation: c.RequiresDocumentation,
		})
	}

	return rows
}

type classifiedReceipt struct {
	FileName       string                 `json:"file_name"`
	FilePath       string                 `json:"file_path"`
	Payload        domain.Payload         `json:"payload"`
	Classification *domain.Classification `json:"classification"`
}

// ReportPaths lists the files written by Writer.Write.
type ReportPaths struct {
	Receipts string
	Summary  string
	TaxCSV   string
}

type Writer struct {
	log       *slog.Logger
	outputDir string
}

func NewWriter(log *slog.Logger, outputDir string) *Writer {
	return &Writer{
		log:       log,
		outputDir: outputDir,
	}
}

// Write stores classified receipts, their summary and the tax report CSV,
// all stamped with the same timestamp.
func (w *Writer) Write(ctx context.Context, outcomes []*domain.ExtractionOutcome, at time.Time) (*ReportPaths, error) {
	stamp := at.Format("20060102_150405")
	paths := &ReportPaths{
		Receipts: filepath.Join(w.outputDir, fmt.Sprintf("classified_receipts_%s.json", stamp)),
		Summary:  filepath.Join(w.outputDir, fmt.Sprintf("classification_summary_%s.json", stamp)),
		TaxCSV:   filepath.Join(w.outputDir, fmt.Sprintf("tax_report_%s.csv", stamp)),
	}

	receipts := []classifiedReceipt{}
	for _, o := range outcomes {
		if o.Classification == nil {
			continue
		}
		receipts = append(receipts, classifiedReceipt{
			FileName:       o.File.Name,
			FilePath:       o.File.Path,
			Payload:        o.Payload,
			Classification: o.Classification,
		})
	}

	if err := writeJSON(paths.Receipts, receipts); err != nil {
		return nil, err
	}

	if err := writeJSON(paths.Summary, Summarize(outcomes)); err != nil {
		return nil, err
	}

	if err := writeTaxCSV(paths.TaxCSV, TaxRows(outcomes)); err != nil {
		return nil, err
	}

	w.log.InfoContext(ctx, "classification reports saved",
		slog.String("receipts", paths.Receipts),
		slog.String("summary", paths.Summary),
		slog.String("tax_report", paths.TaxCSV),
	)

	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	return nil
}

func writeTaxCSV(path string, rows []TaxRow) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)

	if err := enc.EncodeHeader(TaxRow{}); err != nil {
		return fmt.Errorf("failed to encode csv header: %w", err)
	}
	enc.AutoHeader = false

	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write tax report: %w", err)
	}

	return nil
}
