package output

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as US dollars, rounded half away from
// zero to cents, with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercentage renders a fraction as a percentage with two decimals.
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Shift(2).StringFixed(2) + "%"
}

// FormatRate renders a fraction as a percentage with one decimal.
func FormatRate(fraction decimal.Decimal) string {
	return fraction.Shift(2).StringFixed(1) + "%"
}
