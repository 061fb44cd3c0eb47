package app

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// BreakevenCalculator computes migration breakeven between two pools.
type BreakevenCalculator struct {
	costs domain.CostPolicy
}

// NewBreakevenCalculator creates a calculator with the given cost policy.
func NewBreakevenCalculator(costs domain.CostPolicy) *BreakevenCalculator {
	return &BreakevenCalculator{costs: costs}
}

// Evaluate computes how long a move from one pool to another takes to
// recover its migration cost, and the resulting verdict.
//
// The daily gain is the APY difference in percentage points applied
// to the amount: (apyTo - apyFrom) / 100 * amount / 365. When the
// gain is zero or negative the cost is never recovered and the
// verdict is NO-GO with no breakeven horizon.
func (c *BreakevenCalculator) Evaluate(from, to domain.Pool, amount decimal.Decimal) (*domain.BreakevenResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.New(
			apperror.CodeInvalidAmount,
			apperror.WithContext(fmt.Sprintf("amount %s must be positive", amount)),
		)
	}

	sameChain := strings.EqualFold(from.Chain, to.Chain)
	costRate := c.costs.FractionFor(from.Chain, to.Chain)
	cost := amount.Mul(costRate)

	netGainPct := to.APY.Sub(from.APY)
	dailyGain := netGainPct.Div(hundred).Mul(amount).Div(daysPerYear)

	result := &domain.BreakevenResult{
		From:          from,
		To:            to,
		Amount:        amount,
		SameChain:     sameChain,
		CostRate:      costRate,
		EstimatedCost: cost,
		NetGainPct:    netGainPct,
		DailyGain:     dailyGain,
	}

	if dailyGain.LessThanOrEqual(decimal.Zero) {
		result.Verdict = domain.VerdictNoGo
		return result, nil
	}

	days := cost.Div(dailyGain)
	result.BreakevenDays = &days
	result.Verdict = domain.VerdictForDays(days)

	return result, nil
}
