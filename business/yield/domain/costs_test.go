package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCostPolicy_FractionFor(t *testing.T) {
	policy := DefaultCostPolicy()

	tests := []struct {
		name      string
		fromChain string
		toChain   string
		want      decimal.Decimal
	}{
		{
			name:      "same chain",
			fromChain: "Base",
			toChain:   "Base",
			want:      decimal.RequireFromString("0.01"),
		},
		{
			name:      "same chain different case",
			fromChain: "base",
			toChain:   "Base",
			want:      decimal.RequireFromString("0.01"),
		},
		{
			name:      "cross chain",
			fromChain: "Base",
			toChain:   "Arbitrum",
			want:      decimal.RequireFromString("0.03"),
		},
		{
			name:      "cross chain reversed",
			fromChain: "Arbitrum",
			toChain:   "Base",
			want:      decimal.RequireFromString("0.03"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.FractionFor(tt.fromChain, tt.toChain)
			if !got.Equal(tt.want) {
				t.Errorf("FractionFor(%q, %q) = %s, want %s", tt.fromChain, tt.toChain, got, tt.want)
			}
		})
	}
}

func TestVerdictForDays(t *testing.T) {
	tests := []struct {
		name string
		days string
		want Verdict
	}{
		{name: "well within GO band", days: "12.2", want: VerdictGo},
		{name: "GO boundary", days: "30", want: VerdictGo},
		{name: "just past GO", days: "30.1", want: VerdictMaybe},
		{name: "MAYBE boundary", days: "90", want: VerdictMaybe},
		{name: "just past MAYBE", days: "90.1", want: VerdictNoGo},
		{name: "long horizon", days: "121.7", want: VerdictNoGo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerdictForDays(decimal.RequireFromString(tt.days))
			if got != tt.want {
				t.Errorf("VerdictForDays(%s) = %s, want %s", tt.days, got, tt.want)
			}
		})
	}
}
