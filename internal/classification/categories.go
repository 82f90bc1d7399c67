package classification

import "strings"

const OtherCategory = "other"

// Category is one Israeli income tax expense category.
type Category struct {
	Key     string
	Hebrew  string
	English string
}

var Categories = []Category{
	{Key: "meals_entertainment", Hebrew: "ארוחות ואירוח", English: "Meals & Entertainment"},
	{Key: "office_supplies", Hebrew: "ציוד משרדי", English: "Office Supplies"},
	{Key: "travel_transport", Hebrew: "נסיעות ותחבורה", English: "Travel & Transportation"},
	{Key: "accommodation", Hebrew: "לינה", English: "Accommodation"},
	{Key: "professional_services", Hebrew: "שירותים מקצועיים", English: "Professional Services"},
	{Key: "equipment", Hebrew: "ציוד", English: "Equipment"},
	{Key: "utilities", Hebrew: "חשבונות משרד", English: "Office Utilities"},
	{Key: "insurance", Hebrew: "ביטוח", English: "Insurance"},
	{Key: "marketing", Hebrew: "שיווק ופרסום", English: "Marketing & Advertising"},
	{Key: "education", Hebrew: "השתלמויות", English: "Education & Training"},
	{Key: "vehicle", Hebrew: "רכב", English: "Vehicle Expenses"},
	{Key: "communication", Hebrew: "תקשורת", English: "Communication"},
	{Key: OtherCategory, Hebrew: "אחר", English: "Other"},
}

// LookupCategory accepts a key, a Hebrew label or an English label.
func LookupCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(c.Key, name) || c.Hebrew == name || strings.EqualFold(c.English, name) {
			return c, true
		}
	}

	return Category{}, false
}

// Labels returns the Hebrew labels in table order.
func Labels() []string {
	labels := make([]string, 0, len(Categories))
	for _, c := range Categories {
		labels = append(labels, c.Hebrew)
	}

	return labels
}
