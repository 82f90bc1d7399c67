package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var ErrNoReceipts = errors.New("no receipts found in reviewed workbooks")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02.01.2006", "2.1.2006", "02/01/06"}

type FileError struct {
	File  string `yaml:"file"`
	Error string `yaml:"error"`
}

type SkippedSheet struct {
	File      string `yaml:"file"`
	Worksheet string `yaml:"worksheet"`
	Reason    string `yaml:"reason"`
}

type ConsolidationSummary struct {
	Timestamp         time.Time      `yaml:"timestamp"`
	TotalReceipts     int            `yaml:"total_receipts"`
	TotalRows         int            `yaml:"total_rows"`
	TotalAmount       float64        `yaml:"total_amount"`
	CSVFile           string         `yaml:"csv_file"`
	SummaryFile       string         `yaml:"-"`
	ProcessingSeconds float64        `yaml:"processing_time_seconds"`
	Errors            []FileError    `yaml:"errors"`
	Skipped           []SkippedSheet `yaml:"skipped_sheets,omitempty"`
	CategoryBreakdown map[string]int `yaml:"category_breakdown"`
}

// Consolidator merges reviewed workbooks into one accounting import file.
type Consolidator struct {
	log       *slog.Logger
	layout    *Layout
	outputDir string
	now       func() time.Time
}

func NewConsolidator(log *slog.Logger, layout *Layout, outputDir string) *Consolidator {
	return &Consolidator{
		log:       log,
		layout:    layout,
		outputDir: outputDir,
		now:       time.Now,
	}
}

func (c *Consolidator) Consolidate(ctx context.Context, paths []string) (*ConsolidationSummary, error) {
	start := c.now()

	summary := &ConsolidationSummary{
		Timestamp:         start,
		CategoryBreakdown: make(map[string]int),
	}

	var receipts []domain.ReviewedReceipt
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		got, skipped, err := c.ReadWorkbook(path)
		if err != nil {
			c.log.ErrorContext(ctx, "failed to read workbook",
				slog.String("path", path),
				slog.String("err", err.Error()),
			)
			summary.Errors = append(summary.Errors, FileError{File: path, Error: err.Error()})
			continue
		}

		for _, s := range skipped {
			c.log.WarnContext(ctx, "skipping worksheet",
				slog.String("path", path),
				slog.String("worksheet", s.Worksheet),
				slog.String("reason", s.Reason),
			)
		}

		summary.Skipped = append(summary.Skipped, skipped...)
		receipts = append(receipts, got...)

		c.log.InfoContext(ctx, "workbook read",
			slog.String("path", path),
			slog.Int("receipts", len(got)),
		)
	}

	if len(receipts) == 0 {
		return summary, ErrNoReceipts
	}

	rows := ImportRows(receipts)

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := start.Format("20060102_150405")
	summary.CSVFile = filepath.Join(c.outputDir, fmt.Sprintf("icount_import_%s.csv", stamp))
	if err := writeImportCSV(summary.CSVFile, rows); err != nil {
		return nil, err
	}

	summary.TotalReceipts = len(receipts)
	summary.TotalRows = len(rows)
	for _, r := range receipts {
		summary.TotalAmount += r.TotalInclVAT
		summary.CategoryBreakdown[r.Category]++
	}
	summary.ProcessingSeconds = c.now().Sub(start).Seconds()

	summary.SummaryFile = filepath.Join(c.outputDir, fmt.Sprintf("consolidation_summary_%s.yaml", stamp))
	data, err := yaml.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(summary.SummaryFile, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	c.log.InfoContext(ctx, "consolidation finished",
		slog.Int("receipts", summary.TotalReceipts),
		slog.Int("rows", summary.TotalRows),
		slog.String("csv", summary.CSVFile),
	)

	return summary, nil
}

// ReadWorkbook parses every receipt sheet of a reviewed workbook. Sheets
// missing required fields are reported as skipped.
func (c *Consolidator) ReadWorkbook(path string) (receipts []domain.ReviewedReceipt, skipped []SkippedSheet, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	for _, sheet := range f.GetSheetList() {
		if sheet == c.layout.SummarySheet {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		receipt := c.parseSheet(rows)
		receipt.SourceFile = path
		receipt.Worksheet = sheet

		if err := receipt.Validate(); err != nil {
			skipped = append(skipped, SkippedSheet{File: path, Worksheet: sheet, Reason: err.Error()})
			continue
		}

		receipts = append(receipts, receipt)
	}

	return receipts, skipped, nil
}

func (c *Consolidator) parseSheet(rows [][]string) domain.ReviewedReceipt {
	var receipt domain.ReviewedReceipt

	h := c.layout.Header
	for r := h.StartRow; r < h.StartRow+h.MaxRows; r++ {
		label := strings.TrimSpace(cellAt(rows, r, h.LabelColumn))
		value := strings.TrimSpace(cellAt(rows, r, h.ValueColumn))
		if label == "" || value == "" {
			continue
		}

		field, ok := c.layout.FieldByLabel(label)
		if !ok {
			continue
		}

		switch field {
		case "receipt_number":
			receipt.ReceiptNumber = value
		case "vendor":
			receipt.Vendor = value
		case "date":
			receipt.Date = value
		case "document_type":
			receipt.DocumentType = value
		case "total_excl_vat":
			receipt.TotalExclVAT = ParseAmount(value)
		case "vat_amount":
			receipt.VATAmount = ParseAmount(value)
		case "total_incl_vat":
			receipt.TotalInclVAT = ParseAmount(value)
		case "category":
			receipt.Category = value
		}
	}

	li := c.layout.LineItems
	descCol := c.layout.Column("description")
	for r := li.DataStartRow; r <= len(rows); r++ {
		desc := strings.TrimSpace(cellAt(rows, r, descCol))
		if desc == "" {
			continue
		}

		deductible := true
		if col := c.layout.Column("deductible"); col > 0 {
			deductible = ParseBool(cellAt(rows, r, col))
		}

		receipt.LineItems = append(receipt.LineItems, domain.ReviewedLineItem{
			Description:   desc,
			AmountExclVAT: ParseAmount(cellAt(rows, r, c.layout.Column("amount_excl_vat"))),
			VAT:           ParseAmount(cellAt(rows, r, c.layout.Column("vat"))),
			Total:         ParseAmount(cellAt(rows, r, c.layout.Column("total"))),
			Deductible:    deductible,
		})
	}

	return receipt
}

// ImportRows emits one row per deductible line item, or one row for the
// whole receipt when it has no line items.
func ImportRows(receipts []domain.ReviewedReceipt) []domain.ImportRow {
	var rows []domain.ImportRow
	for _, r := range receipts {
		base := domain.ImportRow{
			Date:          FormatDate(r.Date),
			Vendor:        r.Vendor,
			Category:      r.Category,
			ReceiptNumber: r.ReceiptNumber,
			DocumentType:  r.DocumentType,
			SourceFile:    r.SourceFile,
		}

		if len(r.LineItems) == 0 {
			row := base
			row.Description = "Receipt from " + r.Vendor
			row.Amount = r.TotalInclVAT
			rows = append(rows, row)
			continue
		}

		for _, item := range r.LineItems {
			if !item.Deductible {
				continue
			}

			row := base
			row.Description = item.Description
			row.Amount = item.Total
			rows = append(rows, row)
		}
	}

	return rows
}

func writeImportCSV(path string, rows []domain.ImportRow) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)

	if err := enc.EncodeHeader(domain.ImportRow{}); err != nil {
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
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

// FormatDate normalises a date to DD/MM/YYYY, returning s unchanged when no
// known layout matches.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return s
}

var amountReplacer = strings.NewReplacer(",", "", "₪", "", "ש\"ח", "", " ", "")

// ParseAmount reads a money value, ignoring currency signs and thousands
// separators. Unparseable values count as zero.
func ParseAmount(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

func parseNumber(s string) (float64, bool) {
	s = amountReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParseBool treats an empty cell as true and any unrecognised text as false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "1", "yes", "כן":
		return true
	default:
		return false
	}
}

func cellAt(rows [][]string, row, col int) string {
	if row < 1 || col < 1 || row > len(rows) {
		return ""
	}

	cells := rows[row-1]
	if col > len(cells) {
		return ""
	}

	return cells[col-1]
}

// CategoryNames returns categories in a stable order.
func (s *ConsolidationSummary) CategoryNames() []string {
	names := make([]string, 0, len(s.CategoryBreakdown))
	for name := range s.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
