package normalization

import "strings"

const (
	ScreenCustomers  = "customers"
	ScreenProducts   = "products"
	ScreenCategories = "categories"
)

// screenAliases maps backend entity names and URL spellings to the canonical screen name.
var screenAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"customer":  ScreenCustomers,
	"customers": ScreenCustomers,

	"product":  ScreenProducts,
	"products": ScreenProducts,

	"productb":       ScreenCategories,
	"product-b":      ScreenCategories,
	"productblist":   ScreenCategories,
	"category":       ScreenCategories,
	"categories":     ScreenCategories,
	"product-bs":     ScreenCategories,
	"product-b-list": ScreenCategories,
}

// NormalizeScreen converts entity names in their various spellings to a screen name.
//
// Example:
//
//	NormalizeScreen("Customer")    => "customers"
//	NormalizeScreen("product_b")   => "categories"
//	NormalizeScreen("productBList") => "categories"
func NormalizeScreen(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := screenAliases[normalized]; found {
		return canonical
	}
	if canonical, found := screenAliases[trimmed]; found {
		return canonical
	}
	return normalized
}

// IsValidScreen reports whether raw names one of the admin screens.
func IsValidScreen(raw string) bool {
	switch NormalizeScreen(raw) {
	case ScreenCustomers, ScreenProducts, ScreenCategories:
		return true
	}
	return false
}

// AllScreens lists the canonical screen names in menu order.
func AllScreens() []string {
	return []string{ScreenCustomers, ScreenProducts, ScreenCategories}
}
