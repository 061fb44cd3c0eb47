package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CostPolicy holds the assumed migration cost as a fraction of the
// amount moved. Moving across chains pays bridging on top of swap
// and gas costs.
type CostPolicy struct {
	SameChain  decimal.Decimal
	CrossChain decimal.Decimal
}

// DefaultCostPolicy returns the standard cost assumptions:
// 1% same-chain, 3% cross-chain.
func DefaultCostPolicy() CostPolicy {
	return CostPolicy{
		SameChain:  decimal.RequireFromString("0.01"),
		CrossChain: decimal.RequireFromString("0.03"),
	}
}

// FractionFor returns the cost fraction for a move between the two
// chains. Chain names compare case-insensitively.
func (c CostPolicy) FractionFor(fromChain, toChain string) decimal.Decimal {
	if strings.EqualFold(fromChain, toChain) {
		return c.SameChain
	}
	return c.CrossChain
}
