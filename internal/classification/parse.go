package classification

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

var ErrNoCategory = errors.New("classification has no primary_category")

// Parse reads a classification response. Unknown categories fall back to
// "other" and unknown expense types to business.
func Parse(payload domain.Payload) (*domain.Classification, error) {
	section := object(payload, "classification")

	name := str(section, "primary_category")
	if name == "" {
		return nil, ErrNoCategory
	}

	category, ok := LookupCategory(name)
	if !ok {
		category, _ = LookupCategory(OtherCategory)
	}

	c := &domain.Classification{
		Category:              category.Key,
		CategoryLabel:         category.Hebrew,
		ExpenseType:           domain.ExpenseType(strings.ToLower(str(section, "expense_type"))),
		Confidence:            number(section, "confidence"),
		RequiresClarification: boolean(section, "requires_clarification"),
		Questions:             questions(payload["questions_for_user"]),
		Notes:                 str(payload, "ai_notes"),
	}

	switch c.ExpenseType {
	case domain.ExpenseBusiness:
		c.BusinessPercentage = 100
	case domain.ExpensePersonal:
		c.BusinessPercentage = 0
	case domain.ExpenseMixed:
		c.BusinessPercentage = min(max(number(section, "business_percentage"), 0), 100)
	default:
		c.ExpenseType = domain.ExpenseBusiness
		c.BusinessPercentage = 100
	}

	tx := object(payload, "transaction_info")
	c.Date = str(tx, "date")
	c.Amount = number(tx, "amount")
	c.VATAmount = number(tx, "vat_amount")
	c.Currency = str(tx, "currency")

	notes := object(payload, "tax_notes")
	c.RequiresDocumentation = boolean(notes, "requires_documentation")

	if _, ok := notes["deductible_amount"]; ok {
		c.DeductibleAmount = number(notes, "deductible_amount")
		c.NonDeductibleAmount = number(notes, "non_deductible_amount")
	} else {
		c.DeductibleAmount = c.BusinessShare(c.Amount)
		c.NonDeductibleAmount = c.Amount - c.DeductibleAmount
	}

	return c, nil
}

func object(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}

	return map[string]any{}
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// number accepts JSON numbers and numeric strings such as "1,234.50".
func number(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func boolean(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// questions accepts plain strings or objects with a "question" key.
func questions(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		switch q := item.(type) {
		case string:
			if q = strings.TrimSpace(q); q != "" {
				out = append(out, q)
			}
		case map[string]any:
			if text := str(q, "question"); text != "" {
				out = append(out, text)
			}
		}
	}

	return out
}
