package domain

import (
	"github.com/shopspring/decimal"
)

// Verdict is the migration recommendation.
type Verdict string

const (
	VerdictGo    Verdict = "GO"
	VerdictMaybe Verdict = "MAYBE"
	VerdictNoGo  Verdict = "NO-GO"
)

// Verdict bands in days.
var (
	goWithinDays    = decimal.NewFromInt(30)
	maybeWithinDays = decimal.NewFromInt(90)
)

// VerdictForDays maps a breakeven horizon to a recommendation.
// Recovering the cost within 30 days is a GO, within 90 a MAYBE,
// anything longer a NO-GO.
func VerdictForDays(days decimal.Decimal) Verdict {
	if days.LessThanOrEqual(goWithinDays) {
		return VerdictGo
	}
	if days.LessThanOrEqual(maybeWithinDays) {
		return VerdictMaybe
	}
	return VerdictNoGo
}

// BreakevenResult is the outcome of a migration analysis between two
// pools. BreakevenDays is nil when the daily gain is zero or
// negative: the cost is never recovered.
type BreakevenResult struct {
	From          Pool            `json:"from"`
	To            Pool            `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
	SameChain     bool            `json:"sameChain"`
	CostRate      decimal.Decimal `json:"costRate"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	NetGainPct    decimal.Decimal `json:"netGainPct"`
	DailyGain     decimal.Decimal `json:"dailyGain"`
	BreakevenDays *decimal.Decimal `json:"breakevenDays"`
	Verdict       Verdict         `json:"verdict"`
}

// NeverBreaksEven reports whether the move never recovers its cost.
func (r BreakevenResult) NeverBreaksEven() bool {
	return r.BreakevenDays == nil
}
