package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon renders an amount with Korean digit grouping, e.g. "12,000 원". Fractions are kept up
// to three digits.
func FormatWon(amount float64) string {
	return wonPrinter.Sprintf("%v 원", number.Decimal(amount, number.MaxFractionDigits(3)))
}
