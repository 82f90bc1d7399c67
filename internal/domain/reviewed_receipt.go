package domain

import "fmt"

// ReviewedReceipt is one worksheet of a reviewed workbook after manual corrections.
type ReviewedReceipt struct {
	ReceiptNumber string
	Vendor        string
	Date          string
	DocumentType  string
	TotalExclVAT  float64
	VATAmount     float64
	TotalInclVAT  float64
	Category      string
	LineItems     []ReviewedLineItem
	SourceFile    string
	Worksheet     string
}

type ReviewedLineItem struct {
	Description   string
	AmountExclVAT float64
	VAT           float64
	Total         float64
	Deductible    bool
}

func (r *ReviewedReceipt) Validate() error {
	for _, req := range []struct{ name, value string }{
		{"receipt_number", r.ReceiptNumber},
		{"vendor", r.Vendor},
		{"date", r.Date},
		{"category", r.Category},
	} {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}

	if r.TotalInclVAT == 0 {
		return fmt.Errorf("total_incl_vat is required")
	}

	return nil
}

// ImportRow is one line of the accounting-system import file.
type ImportRow struct {
	Date          string  `csv:"תאריך"`
	Vendor        string  `csv:"ספק"`
	Description   string  `csv:"תיאור"`
	Amount        float64 `csv:"סכום"`
	Category      string  `csv:"קטגוריה"`
	ReceiptNumber string  `csv:"מספר מסמך"`
	DocumentType  string  `csv:"סוג מסמך"`
	SourceFile    string  `csv:"קובץ מקור"`
}
