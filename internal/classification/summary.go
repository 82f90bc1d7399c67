package classification

import (
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const unknownMonth = "unknown"

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02.01.2006", "2.1.2006", "02/01/06"}

type CategoryTotal struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary totals classified receipts. Mixed receipts are split between the
// business and personal totals by their business percentage.
type Summary struct {
	TotalReceipts         int                       `json:"total_receipts"`
	BusinessTotal         float64                   `json:"business_total"`
	PersonalTotal         float64                   `json:"personal_total"`
	MixedTotal            float64                   `json:"mixed_total"`
	TotalVAT              float64                   `json:"total_vat"`
	DeductibleTotal       float64                   `json:"deductible_total"`
	RequiresClarification int                       `json:"requires_clarification"`
	ByCategory            map[string]*CategoryTotal `json:"by_category"`
	ByMonth               map[string]float64        `json:"by_month"`
}

func Summarize(outcomes []*domain.ExtractionOutcome) *Summary {
	s := &Summary{
		ByCategory: make(map[string]*CategoryTotal),
		ByMonth:    make(map[string]float64),
	}

	for _, o := range outcomes {
		c := o.Classification
		if c == nil {
			continue
		}

		s.TotalReceipts++
		s.TotalVAT += c.VATAmount
		s.DeductibleTotal += c.DeductibleAmount

		business := c.BusinessShare(c.Amount)
		s.BusinessTotal += business
		s.PersonalTotal += c.Amount - business
		if c.ExpenseType == domain.ExpenseMixed {
			s.MixedTotal += c.Amount
		}

		if c.RequiresClarification {
			s.RequiresClarification++
		}

		total, ok := s.ByCategory[c.Category]
		if !ok {
			total = &CategoryTotal{Label: c.CategoryLabel}
			s.ByCategory[c.Category] = total
		}
		total.Count++
		total.Amount += c.Amount

		s.ByMonth[month(c.Date)] += c.Amount
	}

	return s
}

func month(date string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01")
		}
	}

	return unknownMonth
}
