package strategy

import (
	"fmt"

	"MarketSignal/internal/model"
)

// RSI thresholds for the oversold/overbought rule.
const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0
)

// Rule votes -1, 0 or +1 on a snapshot. A rule abstains (0) when one of its
// inputs is undefined.
type Rule struct {
	Name   string
	Weight int
	Vote   func(s *model.Snapshot) (vote int, commentary string)
}

// DefaultRules are evaluated in this order.
var DefaultRules = []Rule{
	{Name: "MACD vs signal", Weight: 1, Vote: macdCross},
	{Name: "RSI 30/70", Weight: 1, Vote: rsiBands},
	{Name: "%K vs %D", Weight: 1, Vote: stochCross},
	{Name: "SMA vs EMA", Weight: 1, Vote: smaVsEMA},
	{Name: "SMA vs close", Weight: 1, Vote: smaVsClose},
	{Name: "EMA vs close", Weight: 1, Vote: emaVsClose},
}

// above votes +1 when a > b and -1 otherwise.
func above(a, b model.Value, label string) (int, string) {
	if !a.Valid() || !b.Valid() {
		return 0, label + ": n/a"
	}
	if a.Float > b.Float {
		return 1, fmt.Sprintf("%s: %.2f > %.2f", label, a.Float, b.Float)
	}
	return -1, fmt.Sprintf("%s: %.2f <= %.2f", label, a.Float, b.Float)
}

func macdCross(s *model.Snapshot) (int, string) {
	return above(s.MACDLine, s.MACDSignal, "line/signal")
}

func rsiBands(s *model.Snapshot) (int, string) {
	if !s.RSI.Valid() {
		return 0, "RSI: n/a"
	}
	rsi := s.RSI.Float
	switch {
	case rsi < RSIOversold:
		return 1, fmt.Sprintf("RSI=%.1f oversold", rsi)
	case rsi > RSIOverbought:
		return -1, fmt.Sprintf("RSI=%.1f overbought", rsi)
	default:
		return 0, fmt.Sprintf("RSI=%.1f", rsi)
	}
}

func stochCross(s *model.Snapshot) (int, string) {
	return above(s.StochK, s.StochD, "%K/%D")
}

func smaVsEMA(s *model.Snapshot) (int, string) {
	return above(s.SMA, s.EMA, "SMA/EMA")
}

func smaVsClose(s *model.Snapshot) (int, string) {
	return above(s.SMA, s.Close, "SMA/close")
}

func emaVsClose(s *model.Snapshot) (int, string) {
	return above(s.EMA, s.Close, "EMA/close")
}
