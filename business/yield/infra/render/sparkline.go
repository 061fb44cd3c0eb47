package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Bar glyphs, lightest to heaviest. Index 0 is reserved for padding;
// rendered values map onto indexes 1..8.
var sparkBars = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline renders a series as unicode bars scaled to its own
// min/max range. A constant series renders as a flat line of the
// lowest bar.
func Sparkline(values []decimal.Decimal) string {
	if len(values) == 0 {
		return ""
	}

	lo := values[0]
	hi := values[0]
	for _, v := range values[1:] {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}

	rng := hi.Sub(lo)
	if rng.IsZero() {
		rng = decimal.NewFromInt(1)
	}

	var sb strings.Builder
	seven := decimal.NewFromInt(7)
	for _, v := range values {
		// Multiply before dividing: Div rounds to a fixed precision,
		// and (v/rng)*7 can land just below an integer.
		idx := int(v.Sub(lo).Mul(seven).Div(rng).IntPart()) + 1
		if idx > 8 {
			idx = 8
		}
		sb.WriteRune(sparkBars[idx])
	}
	return sb.String()
}
