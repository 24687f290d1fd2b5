package advisor

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupee = "₹"

var printer = message.NewPrinter(language.English)

// Money formats the amount in rupees with thousands separators and 2 decimals e.g. ₹9,600,000.00
// The exact binary value is rounded half away from zero, so 2.675 (stored as 2.67499...) gives ₹2.67.
func Money(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return printer.Sprintf("%s%.2f", rupee, amount)
	}
	d := decimal.NewFromFloatWithExponent(amount, -2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	return printer.Sprintf("%s%s%d.%s", rupee, sign, d.IntPart(), fixed[len(fixed)-2:])
}

// Years formats the policy term.
func Years(term int) string {
	return printer.Sprintf("%d years", term)
}

// Percent formats the likelihood with one decimal.
func Percent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}
