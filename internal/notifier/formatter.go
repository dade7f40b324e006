package notifier

import (
	"fmt"
	"strings"

	"MarketSignal/internal/model"
)

var verdictEmoji = map[model.Signal]string{
	model.Buy:     "🟢",
	model.Sell:    "🔴",
	model.Neutral: "⚪",
}

// formatValue prints n/a for undefined values and tags saturated ones.
func formatValue(v model.Value) string {
	switch v.Status {
	case model.Defined:
		return fmt.Sprintf("%.2f", v.Float)
	case model.Saturated:
		return fmt.Sprintf("%.2f (saturated)", v.Float)
	default:
		return "n/a"
	}
}

// FormatReport renders one analysis run as a plain-text message.
func FormatReport(r *model.Report) string {
	var b strings.Builder
	s := r.Snapshot

	date := "-"
	if !s.Time.IsZero() {
		date = s.Time.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(&b, "📊 MarketSignal | %s | %s\n\n", r.Symbol, date)
	fmt.Fprintf(&b, "Close: %s\n", formatValue(s.Close))
	fmt.Fprintf(&b, "SMA(10): %s | EMA(10): %s\n", formatValue(s.SMA), formatValue(s.EMA))
	fmt.Fprintf(&b, "MACD: %s | signal %s | hist %s\n",
		formatValue(s.MACDLine), formatValue(s.MACDSignal), formatValue(s.MACDHist))
	fmt.Fprintf(&b, "RSI: %s\n", formatValue(s.RSI))
	fmt.Fprintf(&b, "Bollinger: %s / %s / %s\n",
		formatValue(s.BollUpper), formatValue(s.BollMiddle), formatValue(s.BollLower))
	fmt.Fprintf(&b, "Stochastic: %%K %s | %%D %s\n", formatValue(s.StochK), formatValue(s.StochD))
	fmt.Fprintf(&b, "Williams %%R: %s\n\n", formatValue(s.WilliamsR))

	sig := r.Signal
	b.WriteString("📈 Rules:\n")
	for _, v := range sig.Votes {
		fmt.Fprintf(&b, "  %s: %+d", v.Name, v.Vote)
		if v.Weight != 1 {
			fmt.Fprintf(&b, " (x%d = %+d)", v.Weight, v.Weighted)
		}
		fmt.Fprintf(&b, "  %s\n", v.Commentary)
	}
	b.WriteString("  ─────────────────\n")
	fmt.Fprintf(&b, "  Total: %+d\n\n", sig.Total)
	fmt.Fprintf(&b, "%s Verdict: %s\n", verdictEmoji[sig.Verdict], sig.Verdict)
	return b.String()
}
