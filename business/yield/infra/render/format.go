// Package render formats analysis results for terminal output.
package render

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatUSD renders a dollar value compactly: $1.2B, $45.3M, $900.0K,
// $42. Negative values keep their sign ahead of the dollar sign.
func FormatUSD(v decimal.Decimal) string {
	sign := ""
	abs := v
	if v.IsNegative() {
		sign = "-"
		abs = v.Neg()
	}

	switch {
	case abs.GreaterThanOrEqual(billion):
		f, _ := abs.Div(billion).Float64()
		return fmt.Sprintf("%s$%.1fB", sign, f)
	case abs.GreaterThanOrEqual(million):
		f, _ := abs.Div(million).Float64()
		return fmt.Sprintf("%s$%.1fM", sign, f)
	case abs.GreaterThanOrEqual(thousand):
		f, _ := abs.Div(thousand).Float64()
		return fmt.Sprintf("%s$%.1fK", sign, f)
	default:
		f, _ := abs.Float64()
		return fmt.Sprintf("%s$%.0f", sign, f)
	}
}

// FormatPct renders a percentage with two decimals: 5.23%.
func FormatPct(v decimal.Decimal) string {
	f, _ := v.Float64()
	return fmt.Sprintf("%.2f%%", f)
}

// FormatSignedPP renders an APY difference in percentage points with
// an explicit sign: +3.00 pp.
func FormatSignedPP(v decimal.Decimal) string {
	f, _ := v.Float64()
	return fmt.Sprintf("%+.2f pp", f)
}
