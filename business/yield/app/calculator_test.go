package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
)

func poolAt(chain string, apy string) domain.Pool {
	return domain.Pool{
		ID:       "pool-" + chain + "-" + apy,
		Protocol: "aave-v3",
		Chain:    chain,
		Symbol:   "USDC",
		APY:      decimal.RequireFromString(apy),
	}
}

func TestBreakevenCalculator_Evaluate(t *testing.T) {
	calc := NewBreakevenCalculator(domain.DefaultCostPolicy())
	amount := decimal.NewFromInt(10_000)

	tests := []struct {
		name         string
		from         domain.Pool
		to           domain.Pool
		wantCost     string
		wantDaily    string
		wantDays     string // empty means never breaks even
		wantVerdict  domain.Verdict
		wantSame     bool
	}{
		{
			name:        "same-chain move pays 1 percent",
			from:        poolAt("Base", "4.0"),
			to:          poolAt("Base", "7.0"),
			wantCost:    "100",
			wantDaily:   "0.8219178082191781", // 3pp on $10k
			wantDays:    "121.66666666666666",
			wantVerdict: domain.VerdictNoGo,
			wantSame:    true,
		},
		{
			name:        "cross-chain move pays 3 percent",
			from:        poolAt("Base", "2.0"),
			to:          poolAt("Arbitrum", "14.0"),
			wantCost:    "300",
			wantDaily:   "3.2876712328767123",
			wantDays:    "91.25",
			wantVerdict: domain.VerdictNoGo,
			wantSame:    false,
		},
		{
			name:        "large uplift is a GO",
			from:        poolAt("Base", "2.0"),
			to:          poolAt("Base", "18.0"),
			wantCost:    "100",
			wantDaily:   "4.383561643835616",
			wantDays:    "22.8125",
			wantVerdict: domain.VerdictGo,
			wantSame:    true,
		},
		{
			name:        "moderate uplift is a MAYBE",
			from:        poolAt("Base", "4.0"),
			to:          poolAt("Base", "12.0"),
			wantCost:    "100",
			wantDaily:   "2.1917808219178082",
			wantDays:    "45.625",
			wantVerdict: domain.VerdictMaybe,
			wantSame:    true,
		},
		{
			name:        "downgrade never breaks even",
			from:        poolAt("Base", "7.0"),
			to:          poolAt("Base", "4.0"),
			wantCost:    "100",
			wantDaily:   "-0.8219178082191781",
			wantVerdict: domain.VerdictNoGo,
			wantSame:    true,
		},
		{
			name:        "equal APY never breaks even",
			from:        poolAt("Base", "5.0"),
			to:          poolAt("Arbitrum", "5.0"),
			wantCost:    "300",
			wantDaily:   "0",
			wantVerdict: domain.VerdictNoGo,
			wantSame:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Evaluate(tt.from, tt.to, amount)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}

			if result.SameChain != tt.wantSame {
				t.Errorf("SameChain = %v, want %v", result.SameChain, tt.wantSame)
			}
			if !result.EstimatedCost.Equal(decimal.RequireFromString(tt.wantCost)) {
				t.Errorf("EstimatedCost = %s, want %s", result.EstimatedCost, tt.wantCost)
			}

			wantDaily := decimal.RequireFromString(tt.wantDaily)
			if result.DailyGain.Sub(wantDaily).Abs().GreaterThan(decimal.RequireFromString("0.0001")) {
				t.Errorf("DailyGain = %s, want ~%s", result.DailyGain, tt.wantDaily)
			}

			if tt.wantDays == "" {
				if result.BreakevenDays != nil {
					t.Errorf("BreakevenDays = %s, want never", result.BreakevenDays)
				}
				if !result.NeverBreaksEven() {
					t.Error("NeverBreaksEven() = false")
				}
			} else {
				if result.BreakevenDays == nil {
					t.Fatal("BreakevenDays = nil, want a horizon")
				}
				wantDays := decimal.RequireFromString(tt.wantDays)
				if result.BreakevenDays.Sub(wantDays).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
					t.Errorf("BreakevenDays = %s, want ~%s", result.BreakevenDays, tt.wantDays)
				}
			}

			if result.Verdict != tt.wantVerdict {
				t.Errorf("Verdict = %s, want %s", result.Verdict, tt.wantVerdict)
			}
		})
	}
}

func TestBreakevenCalculator_Antisymmetry(t *testing.T) {
	calc := NewBreakevenCalculator(domain.DefaultCostPolicy())
	amount := decimal.NewFromInt(25_000)

	a := poolAt("Base", "3.5")
	b := poolAt("Arbitrum", "9.1")

	forward, err := calc.Evaluate(a, b, amount)
	if err != nil {
		t.Fatalf("forward Evaluate failed: %v", err)
	}
	backward, err := calc.Evaluate(b, a, amount)
	if err != nil {
		t.Fatalf("backward Evaluate failed: %v", err)
	}

	if !forward.NetGainPct.Equal(backward.NetGainPct.Neg()) {
		t.Errorf("net gain not antisymmetric: %s vs %s", forward.NetGainPct, backward.NetGainPct)
	}
	if backward.Verdict != domain.VerdictNoGo {
		t.Errorf("downgrade verdict = %s, want NO-GO", backward.Verdict)
	}
}

func TestBreakevenCalculator_InvalidAmount(t *testing.T) {
	calc := NewBreakevenCalculator(domain.DefaultCostPolicy())

	for _, amount := range []string{"0", "-100"} {
		_, err := calc.Evaluate(poolAt("Base", "4.0"), poolAt("Base", "7.0"), decimal.RequireFromString(amount))
		if err == nil {
			t.Fatalf("expected error for amount %s", amount)
		}
		if !apperror.IsCode(err, apperror.CodeInvalidAmount) {
			t.Errorf("amount %s: unexpected code %s", amount, apperror.GetCode(err))
		}
	}
}
