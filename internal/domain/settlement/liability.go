package settlement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CostScale is the number of decimal places kept on monetary figures
// (currency minor units).
const CostScale = 2

// AmountOrZero parses a decimal string leniently. Empty, malformed, or
// negative input yields zero. Used when ingesting cost estimates from
// inspection payloads, which are free-form.
func AmountOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FinalCost computes the liability figure for a single comparison item:
// the estimated repair cost less depreciation for wear and tear, clamped
// to zero and rounded to currency precision.
func FinalCost(estimatedCost, depreciation decimal.Decimal) decimal.Decimal {
	result := estimatedCost.Sub(depreciation)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return result.Round(CostScale)
}
