package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
)

var hundredDec = decimal.NewFromInt(100)

// ConsoleReporter writes analysis results as formatted text.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("━", n))
}

// ReportScan prints the ranked opportunities table.
func (r *ConsoleReporter) ReportScan(pools []domain.Pool, chainLabel string) {
	if len(pools) == 0 {
		fmt.Fprintln(r.out, "No USDC pools found matching your filters.")
		return
	}

	if chainLabel == "" {
		chainLabel = strings.Join(domain.SupportedChains, " + ")
	}

	fmt.Fprintf(r.out, "\nYield Scout — USDC Opportunities (%s)\n", chainLabel)
	rule(r.out, 100)
	fmt.Fprintf(r.out, " %2s  %-20s %-10s %-24s %7s  %9s  %-5s  Pool ID\n",
		"#", "Protocol", "Chain", "Pool", "APY", "TVL", "Risk")
	rule(r.out, 100)

	for i, p := range pools {
		symbol := p.Symbol
		if len(symbol) > 24 {
			symbol = symbol[:24]
		}
		fmt.Fprintf(r.out, " %2d  %-20s %-10s %-24s %7s  %9s  %-5s  %s\n",
			i+1,
			p.Protocol,
			p.Chain,
			symbol,
			FormatPct(p.APY),
			FormatUSD(p.TVLUsd),
			p.Risk,
			p.ShortID(),
		)
	}

	fmt.Fprintf(r.out, "\n%d pools shown. Use pool IDs with 'breakeven' or 'history' commands.\n", len(pools))
}

// ReportBreakeven prints the migration analysis.
func (r *ConsoleReporter) ReportBreakeven(result *domain.BreakevenResult) {
	moveType := "cross-chain"
	if result.SameChain {
		moveType = "same-chain"
	}

	fmt.Fprintln(r.out, "\nYield Scout — Breakeven Analysis")
	rule(r.out, 70)
	fmt.Fprintf(r.out, "  FROM: %s / %s (%s)\n", result.From.Protocol, result.From.Symbol, result.From.Chain)
	fmt.Fprintf(r.out, "        APY: %s\n", FormatPct(result.From.APY))
	fmt.Fprintf(r.out, "  TO:   %s / %s (%s)\n", result.To.Protocol, result.To.Symbol, result.To.Chain)
	fmt.Fprintf(r.out, "        APY: %s\n", FormatPct(result.To.APY))
	rule(r.out, 70)
	fmt.Fprintf(r.out, "  Amount:          %s\n", FormatUSD(result.Amount))
	fmt.Fprintf(r.out, "  Move type:       %s\n", moveType)
	costPct, _ := result.CostRate.Mul(hundredDec).Float64()
	fmt.Fprintf(r.out, "  Est. cost:       %s (%.0f%% of amount)\n", FormatUSD(result.EstimatedCost), costPct)
	fmt.Fprintf(r.out, "  Net APY gain:    %s\n", FormatSignedPP(result.NetGainPct))
	fmt.Fprintf(r.out, "  Daily gain:      %s/day\n", FormatUSD(result.DailyGain))
	if result.NeverBreaksEven() {
		fmt.Fprintln(r.out, "  Breakeven:       NEVER (target APY is not higher)")
	} else {
		days, _ := result.BreakevenDays.Float64()
		fmt.Fprintf(r.out, "  Breakeven:       %.0f days\n", days)
	}
	rule(r.out, 70)
	fmt.Fprintf(r.out, "  Verdict:         %s\n\n", verdictTag(result.Verdict))
}

func verdictTag(v domain.Verdict) string {
	switch v {
	case domain.VerdictGo:
		return "✅ GO"
	case domain.VerdictMaybe:
		return "⚠️  MAYBE"
	default:
		return "❌ NO-GO"
	}
}

// ReportHistory prints the 30-day history summary.
func (r *ConsoleReporter) ReportHistory(summary *domain.HistorySummary) {
	fmt.Fprintln(r.out, "\nYield Scout — 30-Day APY History")
	rule(r.out, 60)
	fmt.Fprintf(r.out, "  Pool:          %s\n", summary.PoolID)
	if len(summary.Points) > 0 {
		first := summary.Points[0].Timestamp.Format("2006-01-02")
		last := summary.Points[len(summary.Points)-1].Timestamp.Format("2006-01-02")
		fmt.Fprintf(r.out, "  Period:        %s → %s\n", first, last)
	}
	fmt.Fprintf(r.out, "  Current APY:   %s\n", FormatPct(summary.CurrentAPY))
	fmt.Fprintf(r.out, "  Average APY:   %s\n", FormatPct(summary.AvgAPY))
	fmt.Fprintf(r.out, "  Min APY:       %s\n", FormatPct(summary.MinAPY))
	fmt.Fprintf(r.out, "  Max APY:       %s\n", FormatPct(summary.MaxAPY))
	fmt.Fprintf(r.out, "  Std Dev:       %s\n", summary.StdDev.StringFixed(4))
	fmt.Fprintf(r.out, "  Stability:     %s (score %s)\n", summary.Stability, summary.StabilityScore.StringFixed(1))
	fmt.Fprintf(r.out, "  TVL Current:   %s\n", FormatUSD(summary.TVLCurrent))
	fmt.Fprintf(r.out, "  TVL Trend:     %s (%s%%)\n", summary.Trend, summary.TVLChangePct.StringFixed(1))
	rule(r.out, 60)

	values := make([]decimal.Decimal, len(summary.Points))
	for i, p := range summary.Points {
		values[i] = p.APY
	}
	fmt.Fprintf(r.out, "  APY Trend:     %s\n\n", Sparkline(values))
}

// ReportProtocols prints the vetted protocol table.
func (r *ConsoleReporter) ReportProtocols(protocols []domain.ProtocolInfo) {
	fmt.Fprintln(r.out, "\nYield Scout — Vetted Protocols")
	rule(r.out, 100)
	fmt.Fprintf(r.out, " %-22s %-20s %-26s %-5s  %-30s\n", "Protocol", "Chains", "Vault Standard", "Risk", "Audits")
	rule(r.out, 100)

	for _, info := range protocols {
		fmt.Fprintf(r.out, " %-22s %-20s %-26s %-5s  %-30s\n",
			info.Name,
			strings.Join(info.Chains, ", "),
			info.VaultStandard,
			info.BaseRisk,
			info.Audits,
		)
	}

	fmt.Fprintf(r.out, "\n%d protocols.\n", len(protocols))
}
