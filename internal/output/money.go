package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency formats an amount in rupees with Indian digit grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return inPrinter.Sprintf("₹%.2f", amount.Round(2).InexactFloat64())
}

// FormatPercentage formats a fraction (0.05) as a percentage (5.00%).
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
