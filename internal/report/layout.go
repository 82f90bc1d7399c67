package report

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed default_layout.yaml
var defaultLayout []byte

// Layout describes where fields live in a review worksheet. The same layout
// drives writing review workbooks and reading them back.
type Layout struct {
	SummarySheet string          `yaml:"summary_sheet"`
	RightToLeft  bool            `yaml:"right_to_left"`
	Header       HeaderSection   `yaml:"header"`
	LineItems    LineItemSection `yaml:"line_items"`
	Review       ReviewSection   `yaml:"review"`
}

// ReviewSection configures the aids written next to the extracted values:
// dropdowns, check formulas and the embedded source image.
type ReviewSection struct {
	CheckColumn   int            `yaml:"check_column"`
	TotalsColumn  int            `yaml:"totals_column"`
	VATRate       float64        `yaml:"vat_rate"`
	ImageRange    string         `yaml:"image_range"`
	DocumentTypes []DocumentType `yaml:"document_types"`
	Categories    []string       `yaml:"categories"`
}

// DocumentType is a dropdown value plus the extracted spellings that map to it.
type DocumentType struct {
	Value   string   `yaml:"value"`
	Aliases []string `yaml:"aliases"`
}

type HeaderSection struct {
	StartRow    int           `yaml:"start_row"`
	LabelColumn int           `yaml:"label_column"`
	ValueColumn int           `yaml:"value_column"`
	MaxRows     int           `yaml:"max_rows"`
	Fields      []HeaderField `yaml:"fields"`
}

// HeaderField maps a worksheet label to a reviewed field. Source names the
// payload key that pre-fills the value; empty means the reviewer fills it.
type HeaderField struct {
	Label  string `yaml:"label"`
	Field  string `yaml:"field"`
	Source string `yaml:"source"`
}

type LineItemSection struct {
	HeaderRow    int              `yaml:"header_row"`
	DataStartRow int              `yaml:"data_start_row"`
	MaxRows      int              `yaml:"max_rows"`
	Columns      []LineItemColumn `yaml:"columns"`
}

type LineItemColumn struct {
	Header  string `yaml:"header"`
	Field   string `yaml:"field"`
	Source  string `yaml:"source"`
	Default string `yaml:"default"`
}

// LoadLayout reads a layout file, or returns the embedded default when path
// is empty.
func LoadLayout(path string) (*Layout, error) {
	data := defaultLayout
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read layout file: %w", err)
		}
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	if err := layout.validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	return &layout, nil
}

func (l *Layout) validate() error {
	if l.SummarySheet == "" {
		l.SummarySheet = "Summary"
	}

	h := l.Header
	if h.StartRow < 1 || h.LabelColumn < 1 || h.ValueColumn < 1 {
		return fmt.Errorf("header rows and columns must be positive")
	}
	if h.MaxRows < len(h.Fields) {
		return fmt.Errorf("header max_rows %d is less than %d fields", h.MaxRows, len(h.Fields))
	}

	li := l.LineItems
	if li.HeaderRow < h.StartRow+h.MaxRows || li.DataStartRow <= li.HeaderRow {
		return fmt.Errorf("line items must start below the header section")
	}
	if len(li.Columns) == 0 {
		return fmt.Errorf("line items need at least one column")
	}

	r := &l.Review
	if r.CheckColumn == 0 {
		r.CheckColumn = h.ValueColumn + 1
	}
	if r.TotalsColumn == 0 {
		r.TotalsColumn = h.ValueColumn + 2
	}
	if r.VATRate == 0 {
		r.VATRate = 18
	}
	if r.ImageRange != "" {
		if _, _, err := r.ImageCells(); err != nil {
			return fmt.Errorf("image_range: %w", err)
		}
	}

	if err := checkDropList("document_types", l.DocumentTypeValues()); err != nil {
		return err
	}

	return checkDropList("categories", r.Categories)
}

// checkDropList rejects lists a spreadsheet cannot hold inline.
func checkDropList(name string, values []string) error {
	for _, v := range values {
		if v == "" || strings.Contains(v, ",") {
			return fmt.Errorf("%s: invalid value %q", name, v)
		}
	}

	if n := len(utf16.Encode([]rune(strings.Join(values, ",")))); n > excelize.MaxFieldLength {
		return fmt.Errorf("%s: list is %d characters long, limit is %d", name, n, excelize.MaxFieldLength)
	}

	return nil
}

// ImageCells splits the image range into its corner cells.
func (r *ReviewSection) ImageCells() (string, string, error) {
	first, last, ok := strings.Cut(r.ImageRange, ":")
	if !ok {
		return "", "", fmt.Errorf("%q is not a cell range", r.ImageRange)
	}

	for _, cell := range []string{first, last} {
		if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
			return "", "", err
		}
	}

	return first, last, nil
}

func (l *Layout) DocumentTypeValues() []string {
	values := make([]string, 0, len(l.Review.DocumentTypes))
	for _, d := range l.Review.DocumentTypes {
		values = append(values, d.Value)
	}

	return values
}

// DocumentType maps an extracted document type to its dropdown value.
// Unknown types are returned unchanged.
func (l *Layout) DocumentType(extracted string) string {
	extracted = strings.TrimSpace(extracted)
	for _, d := range l.Review.DocumentTypes {
		if d.Value == extracted {
			return d.Value
		}
		for _, alias := range d.Aliases {
			if strings.EqualFold(alias, extracted) {
				return d.Value
			}
		}
	}

	return extracted
}

// HeaderRow returns the row of a header field, 0 if absent.
func (l *Layout) HeaderRow(field string) int {
	for i, f := range l.Header.Fields {
		if f.Field == field {
			return l.Header.StartRow + i
		}
	}

	return 0
}

// Column returns the 1-based column of a line item field, 0 if absent.
func (l *Layout) Column(field string) int {
	for i, c := range l.LineItems.Columns {
		if c.Field == field {
			return i + 1
		}
	}

	return 0
}

// FieldByLabel maps a header label to its reviewed field name. Labels are
// compared in NFC, spreadsheet editors may store them decomposed.
func (l *Layout) FieldByLabel(label string) (string, bool) {
	label = norm.NFC.String(strings.TrimSpace(label))
	for _, f := range l.Header.Fields {
		if norm.NFC.String(f.Label) == label {
			return f.Field, true
		}
	}

	return "", false
}
