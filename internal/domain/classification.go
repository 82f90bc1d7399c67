package domain

type ExpenseType string

const (
	ExpenseBusiness ExpenseType = "business"
	ExpensePersonal ExpenseType = "personal"
	ExpenseMixed    ExpenseType = "mixed"
)

// Classification is the tax treatment suggested for one extracted receipt.
type Classification struct {
	Category              string      `json:"category"`
	CategoryLabel         string      `json:"category_label"`
	ExpenseType           ExpenseType `json:"expense_type"`
	BusinessPercentage    float64     `json:"business_percentage"`
	Confidence            float64     `json:"confidence"`
	RequiresClarification bool        `json:"requires_clarification"`
	Questions             []string    `json:"questions_for_user,omitempty"`
	DeductibleAmount      float64     `json:"deductible_amount"`
	NonDeductibleAmount   float64     `json:"non_deductible_amount"`
	RequiresDocumentation bool        `json:"requires_documentation"`
	Notes                 string      `json:"notes,omitempty"`

	Date      string  `json:"date,omitempty"`
	Amount    float64 `json:"amount"`
	VATAmount float64 `json:"vat_amount"`
	Currency  string  `json:"currency,omitempty"`
}

// BusinessShare returns the part of amount attributable to the business.
func (c *Classification) BusinessShare(amount float64) float64 {
	switch c.ExpenseType {
	case ExpenseBusiness:
		return amount
	case ExpenseMixed:
		return amount * c.BusinessPercentage / 100
	default:
		return 0
	}
}
