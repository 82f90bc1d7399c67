package report

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/xuri/excelize/v2"
	_ "golang.org/x/image/bmp"
)

const (
	maxSheetName    = 31
	mismatchNote    = "שגיאה: סכום לא תואם"
	mismatchEpsilon = 0.01
)

var summaryHeaders = []string{"#", "File", "Status", "Vendor", "Date", "Total", "Attempts", "Seconds", "Category", "Error"}

var totalsLabels = []string{"סה\"כ מוכר", "סה\"כ לא מוכר", "מע\"מ מוכר"}

// numericFields are written as numbers when their text parses as one, so
// that check formulas can use them.
var numericFields = map[string]struct{}{
	"total_excl_vat":  {},
	"vat_amount":      {},
	"total_incl_vat":  {},
	"amount_excl_vat": {},
	"vat":             {},
	"total":           {},
	"quantity":        {},
}

// Image formats the workbook can embed. PDFs and WebP are only linked.
var embeddableImages = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
}

// Workbook renders a run as a review workbook: a summary sheet followed by
// one sheet per extracted receipt, laid out for manual correction.
type Workbook struct {
	log      *slog.Logger
	layout   *Layout
	readFile func(string) ([]byte, error)
}

func NewWorkbook(log *slog.Logger, layout *Layout) *Workbook {
	return &Workbook{
		log:      log,
		layout:   layout,
		readFile: os.ReadFile,
	}
}

type workbookStyles struct {
	bold     int
	link     int
	warning  int // conditional
	mismatch int // conditional
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)

	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}

	if s.link, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "0563C1", Underline: "single"}}); err != nil {
		return nil, fmt.Errorf("failed to create link style: %w", err)
	}

	s.warning, err = f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFEB9C"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create warning style: %w", err)
	}

	s.mismatch, err = f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mismatch style: %w", err)
	}

	return &s, nil
}

func (w *Workbook) GenerateReport(outputPath string, summary *domain.RunSummary) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", w.layout.SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	if err := w.writeSummary(f, summary, styles); err != nil {
		return err
	}

	used := map[string]struct{}{w.layout.SummarySheet: {}}
	for i, o := range summary.Outcomes {
		if !o.Succeeded() {
			continue
		}

		sheet := uniqueSheetName(fmt.Sprintf("%d_%s", i+1, o.File.Stem()), used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		if err := w.writeReceipt(f, sheet, o, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.log.Debug("review workbook saved",
		slog.String("path", outputPath),
		slog.Int("sheets", len(used)),
	)

	return nil
}

func (w *Workbook) writeSummary(f *excelize.File, summary *domain.RunSummary, styles *workbookStyles) error {
	sheet := w.layout.SummarySheet

	for i, h := range summaryHeaders {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return err
		}
	}

	if err := styleRow(f, sheet, 1, 1, len(summaryHeaders), styles.bold); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	for i, o := range summary.Outcomes {
		row := i + 2

		var errText string
		if o.Error != nil {
			errText = fmt.Sprintf("%s: %s", o.Error.Kind, o.Error.Message)
		}

		var category string
		if o.Classification != nil {
			category = o.Classification.CategoryLabel
		}

		values := []any{
			i + 1,
			o.File.Name,
			string(o.Status),
			payloadString(o.Payload, "vendor_name"),
			payloadString(o.Payload, "date"),
			payloadString(o.Payload, "total_line"),
			o.Attempts,
			o.Elapsed.Seconds(),
			category,
			errText,
		}
		for col, v := range values {
			if err := setCell(f, sheet, col+1, row, v); err != nil {
				return err
			}
		}
	}

	if err := setColWidths(f, sheet, map[string]float64{"B": 32, "D": 28, "I": 20, "J": 60}); err != nil {
		return err
	}

	return w.setDirection(f, sheet)
}

func (w *Workbook) writeReceipt(f *excelize.File, sheet string, o *domain.ExtractionOutcome, styles *workbookStyles) error {
	if err := w.writeHeader(f, sheet, o, styles); err != nil {
		return err
	}

	if err := w.writeLineItems(f, sheet, o, styles); err != nil {
		return err
	}

	if err := w.writeTotals(f, sheet, styles); err != nil {
		return err
	}

	if err := setColWidths(f, sheet, map[string]float64{"A": 36, "B": 18, "C": 14, "D": 16, "E": 14, "F": 12, "G": 24}); err != nil {
		return err
	}

	w.embedOriginal(f, sheet, o.File)

	return w.setDirection(f, sheet)
}

func (w *Workbook) writeHeader(f *excelize.File, sheet string, o *domain.ExtractionOutcome, styles *workbookStyles) error {
	h := w.layout.Header
	amounts := make(map[string]float64)

	for i, field := range h.Fields {
		row := h.StartRow + i
		if err := setCell(f, sheet, h.LabelColumn, row, field.Label); err != nil {
			return err
		}

		value := cellValue(field.Field, w.headerValue(field, o))
		if value == nil {
			continue
		}
		if n, ok := value.(float64); ok {
			amounts[field.Field] = n
		}

		if err := setCell(f, sheet, h.ValueColumn, row, value); err != nil {
			return err
		}

		if field.Field == "source_file" {
			if err := setLink(f, sheet, h.ValueColumn, row, o.File.Path, styles.link); err != nil {
				return err
			}
		}
	}

	if err := styleColumn(f, sheet, h.LabelColumn, h.StartRow, h.StartRow+len(h.Fields)-1, styles.bold); err != nil {
		return fmt.Errorf("failed to style header labels: %w", err)
	}

	if row := w.layout.HeaderRow("document_type"); row > 0 && len(w.layout.Review.DocumentTypes) > 0 {
		cell, err := excelize.CoordinatesToCellName(h.ValueColumn, row)
		if err != nil {
			return err
		}
		if err := addDropList(f, sheet, cell, w.layout.DocumentTypeValues()); err != nil {
			return err
		}
	}

	if row := w.layout.HeaderRow("category"); row > 0 && len(w.layout.Review.Categories) > 0 {
		cell, err := excelize.CoordinatesToCellName(h.ValueColumn, row)
		if err != nil {
			return err
		}
		if err := addDropList(f, sheet, cell, w.layout.Review.Categories); err != nil {
			return err
		}
	}

	return w.writeTotalCheck(f, sheet, amounts, styles)
}

// writeTotalCheck recomputes the total from its parts next to the extracted
// total and highlights the total when the two disagree.
func (w *Workbook) writeTotalCheck(f *excelize.File, sheet string, amounts map[string]float64, styles *workbookStyles) error {
	exclRow := w.layout.HeaderRow("total_excl_vat")
	vatRow := w.layout.HeaderRow("vat_amount")
	inclRow := w.layout.HeaderRow("total_incl_vat")
	if exclRow == 0 || vatRow == 0 || inclRow == 0 {
		return nil
	}

	valueCol := w.layout.Header.ValueColumn
	checkCol := w.layout.Review.CheckColumn

	excl, err := excelize.CoordinatesToCellName(valueCol, exclRow)
	if err != nil {
		return err
	}
	vat, err := excelize.CoordinatesToCellName(valueCol, vatRow)
	if err != nil {
		return err
	}
	incl, err := excelize.CoordinatesToCellName(valueCol, inclRow)
	if err != nil {
		return err
	}
	check, err := excelize.CoordinatesToCellName(checkCol, inclRow)
	if err != nil {
		return err
	}

	if err := f.SetCellFormula(sheet, check, excl+"+"+vat); err != nil {
		return fmt.Errorf("failed to set total check formula: %w", err)
	}

	err = f.SetConditionalFormat(sheet, incl, []excelize.ConditionalFormatOptions{{
		Type: "formula",
		Criteria: fmt.Sprintf("AND(ISNUMBER(%s),ISNUMBER(%s),ISNUMBER(%s),ABS(%s-%s)>%g)",
			excl, vat, incl, incl, check, mismatchEpsilon),
		Format: &styles.mismatch,
	}})
	if err != nil {
		return fmt.Errorf("failed to set total mismatch format: %w", err)
	}

	e, okE := amounts["total_excl_vat"]
	v, okV := amounts["vat_amount"]
	t, okT := amounts["total_incl_vat"]
	if okE && okV && okT && math.Abs(e+v-t) > mismatchEpsilon {
		return setCell(f, sheet, checkCol+1, inclRow, mismatchNote)
	}

	return nil
}

func (w *Workbook) writeLineItems(f *excelize.File, sheet string, o *domain.ExtractionOutcome, styles *workbookStyles) error {
	li := w.layout.LineItems
	for i, c := range li.Columns {
		if err := setCell(f, sheet, i+1, li.HeaderRow, c.Header); err != nil {
			return err
		}
	}

	if err := styleRow(f, sheet, li.HeaderRow, 1, len(li.Columns), styles.bold); err != nil {
		return fmt.Errorf("failed to style line item header: %w", err)
	}

	items := lineItems(o.Payload)
	if li.MaxRows > 0 && len(items) > li.MaxRows {
		items = items[:li.MaxRows]
	}

	for i, item := range items {
		row := li.DataStartRow + i
		for col, c := range li.Columns {
			if err := w.writeLineItemCell(f, sheet, col+1, row, c, item); err != nil {
				return err
			}
		}
	}

	return w.addLineItemChecks(f, sheet, styles)
}

func (w *Workbook) writeLineItemCell(f *excelize.File, sheet string, col, row int, c LineItemColumn, item map[string]any) error {
	switch c.Field {
	case "vat_percent":
		excl, vat := w.layout.Column("amount_excl_vat"), w.layout.Column("vat")
		if excl == 0 || vat == 0 {
			return nil
		}

		exclCell, err := excelize.CoordinatesToCellName(excl, row)
		if err != nil {
			return err
		}
		vatCell, err := excelize.CoordinatesToCellName(vat, row)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}

		formula := fmt.Sprintf("IF(%s=0,0,%s/%s*100)", exclCell, vatCell, exclCell)
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return fmt.Errorf("failed to set vat percent formula: %w", err)
		}
		return nil
	case "deductible":
		value := c.Default
		if v := payloadString(item, c.Source); v != "" {
			value = v
		}
		return setCell(f, sheet, col, row, ParseBool(value))
	}

	var value any = c.Default
	if v := payloadValue(item, c.Source); v != nil {
		value = v
	}
	if value = cellValue(c.Field, value); value == nil {
		return nil
	}

	return setCell(f, sheet, col, row, value)
}

// addLineItemChecks covers every line item row, filled or not, so rows the
// reviewer adds get the same dropdown and highlighting.
func (w *Workbook) addLineItemChecks(f *excelize.File, sheet string, styles *workbookStyles) error {
	if col := w.layout.Column("deductible"); col > 0 {
		ref, top, err := w.dataRange(col)
		if err != nil {
			return err
		}

		if err := addDropList(f, sheet, ref, []string{"TRUE", "FALSE"}); err != nil {
			return err
		}

		err = f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{{
			Type:     "formula",
			Criteria: fmt.Sprintf("AND(NOT(ISBLANK(%s)),NOT(%s))", top, top),
			Format:   &styles.mismatch,
		}})
		if err != nil {
			return fmt.Errorf("failed to set deductible format: %w", err)
		}
	}

	if col := w.layout.Column("vat_percent"); col > 0 {
		ref, top, err := w.dataRange(col)
		if err != nil {
			return err
		}

		rate := strconv.FormatFloat(w.layout.Review.VATRate, 'f', -1, 64)
		err = f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{{
			Type:     "formula",
			Criteria: fmt.Sprintf("AND(ISNUMBER(%s),ABS(%s)>0.1,ABS(%s-%s)>0.1)", top, top, top, rate),
			Format:   &styles.warning,
		}})
		if err != nil {
			return fmt.Errorf("failed to set vat percent format: %w", err)
		}
	}

	return nil
}

// writeTotals sums deductible and non-deductible line items beside the header.
func (w *Workbook) writeTotals(f *excelize.File, sheet string, styles *workbookStyles) error {
	deductible, total := w.layout.Column("deductible"), w.layout.Column("total")
	if deductible == 0 || total == 0 {
		return nil
	}

	flags, _, err := w.dataRange(deductible)
	if err != nil {
		return err
	}
	totals, _, err := w.dataRange(total)
	if err != nil {
		return err
	}

	formulas := []string{
		fmt.Sprintf("SUMIF(%s,TRUE,%s)", flags, totals),
		fmt.Sprintf("SUMIF(%s,FALSE,%s)", flags, totals),
	}
	if vat := w.layout.Column("vat"); vat > 0 {
		vats, _, err := w.dataRange(vat)
		if err != nil {
			return err
		}
		formulas = append(formulas, fmt.Sprintf("SUMIF(%s,TRUE,%s)", flags, vats))
	}

	labelCol := w.layout.Review.TotalsColumn
	startRow := w.layout.Header.StartRow

	for i, formula := range formulas {
		row := startRow + i
		if err := setCell(f, sheet, labelCol, row, totalsLabels[i]); err != nil {
			return err
		}

		cell, err := excelize.CoordinatesToCellName(labelCol+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return fmt.Errorf("failed to set totals formula: %w", err)
		}
	}

	if err := styleColumn(f, sheet, labelCol, startRow, startRow+len(formulas)-1, styles.bold); err != nil {
		return fmt.Errorf("failed to style totals labels: %w", err)
	}

	return nil
}

// embedOriginal places the receipt image into the merged image range. A
// receipt that cannot be embedded still gets its sheet.
func (w *Workbook) embedOriginal(f *excelize.File, sheet string, file *domain.ReceiptFile) {
	if w.layout.Review.ImageRange == "" {
		return
	}

	ext := strings.ToLower(file.Ext)
	if _, ok := embeddableImages[ext]; !ok {
		return
	}

	log := w.log.With(slog.String("filename", file.Name), slog.String("sheet", sheet))

	if err := w.addPicture(f, sheet, file, ext); err != nil {
		log.Warn("failed to embed receipt image", slog.String("err", err.Error()))
	}
}

func (w *Workbook) addPicture(f *excelize.File, sheet string, file *domain.ReceiptFile, ext string) error {
	data, err := w.readFile(file.Path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	first, last, err := w.layout.Review.ImageCells()
	if err != nil {
		return err
	}

	if err := f.MergeCell(sheet, first, last); err != nil {
		return fmt.Errorf("failed to merge image range: %w", err)
	}

	err = f.AddPictureFromBytes(sheet, first, &excelize.Picture{
		Extension: ext,
		File:      data,
		Format: &excelize.GraphicOptions{
			AltText:         file.Name,
			AutoFit:         true,
			LockAspectRatio: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add picture: %w", err)
	}

	return nil
}

// dataRange returns the line item range of a column and its first cell.
func (w *Workbook) dataRange(col int) (string, string, error) {
	li := w.layout.LineItems

	rows := li.MaxRows
	if rows <= 0 {
		rows = 100
	}

	top, err := excelize.CoordinatesToCellName(col, li.DataStartRow)
	if err != nil {
		return "", "", err
	}
	bottom, err := excelize.CoordinatesToCellName(col, li.DataStartRow+rows-1)
	if err != nil {
		return "", "", err
	}

	return top + ":" + bottom, top, nil
}

func (w *Workbook) headerValue(field HeaderField, o *domain.ExtractionOutcome) any {
	switch field.Field {
	case "document_type":
		if v := payloadString(o.Payload, field.Source); v != "" {
			return w.layout.DocumentType(v)
		}
		return nil
	case "source_file":
		return o.File.Name
	}

	if v := payloadValue(o.Payload, field.Source); v != nil {
		return v
	}

	c := o.Classification
	if c == nil {
		return nil
	}

	switch field.Field {
	case "category":
		return c.CategoryLabel
	case "reasoning":
		return c.Notes
	case "currency":
		return c.Currency
	case "vat_amount":
		if c.VATAmount != 0 {
			return c.VATAmount
		}
	case "total_incl_vat":
		if c.Amount != 0 {
			return c.Amount
		}
	}

	return nil
}

func (w *Workbook) setDirection(f *excelize.File, sheet string) error {
	if !w.layout.RightToLeft {
		return nil
	}

	rtl := true
	if err := f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("failed to set sheet view: %w", err)
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
	}

	return nil
}

func setLink(f *excelize.File, sheet string, col, row int, target string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := f.SetCellHyperLink(sheet, cell, target, "External"); err != nil {
		return fmt.Errorf("failed to link %s!%s: %w", sheet, cell, err)
	}

	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, cell, err)
	}

	return nil
}

func addDropList(f *excelize.File, sheet, ref string, values []string) error {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = ref

	if err := dv.SetDropList(values); err != nil {
		return fmt.Errorf("failed to build drop list for %s: %w", ref, err)
	}

	if err := f.AddDataValidation(sheet, dv); err != nil {
		return fmt.Errorf("failed to add drop list to %s!%s: %w", sheet, ref, err)
	}

	return nil
}

func styleRow(f *excelize.File, sheet string, row, firstCol, lastCol, style int) error {
	first, err := excelize.CoordinatesToCellName(firstCol, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(lastCol, row)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, first, last, style)
}

func styleColumn(f *excelize.File, sheet string, col, firstRow, lastRow, style int) error {
	if lastRow < firstRow {
		return nil
	}

	first, err := excelize.CoordinatesToCellName(col, firstRow)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(col, lastRow)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheet, first, last, style)
}

func setColWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	return nil
}

// cellValue drops empty values and turns numeric text of numeric fields
// into numbers.
func cellValue(field string, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if _, numeric := numericFields[field]; numeric {
		if n, ok := parseNumber(s); ok {
			return n
		}
	}

	return s
}

func payloadValue(payload map[string]any, key string) any {
	if key == "" {
		return nil
	}

	switch v := payload[key].(type) {
	case nil:
		return nil
	case string, float64, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func payloadString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

func lineItems(payload domain.Payload) []map[string]any {
	raw, ok := payload["line_items"].([]any)
	if !ok {
		return nil
	}

	items := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if item, ok := r.(map[string]any); ok {
			items = append(items, item)
		}
	}

	return items
}

// uniqueSheetName makes base a valid, unused worksheet name.
func uniqueSheetName(base string, used map[string]struct{}) string {
	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, base)
	base = truncateRunes(base, maxSheetName)

	name := base
	for n := 2; ; n++ {
		if _, ok := used[name]; !ok {
			break
		}
		suffix := fmt.Sprintf("~%d", n)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}

	used[name] = struct{}{}

	return name
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}

	return string(r[:limit])
}
