package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "GH₵"

// FormatAmount renders d with two decimal places and thousands separators, e.g. "GH₵ 1,250.00".
// Negative amounts carry the sign before the symbol.
func FormatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + CurrencySymbol + " " + b.String() + "." + frac
}
