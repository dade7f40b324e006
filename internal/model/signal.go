package model

import "time"

// Signal is the discrete verdict of the aggregator.
type Signal string

const (
	Buy     Signal = "BUY"
	Sell    Signal = "SELL"
	Neutral Signal = "NEUTRAL"
)

// Snapshot holds the latest value of every indicator.
type Snapshot struct {
	Time       time.Time
	Close      Value
	SMA        Value
	EMA        Value
	MACDLine   Value
	MACDSignal Value
	MACDHist   Value
	RSI        Value
	BollUpper  Value
	BollMiddle Value
	BollLower  Value
	StochK     Value
	StochD     Value
	WilliamsR  Value
}

// RuleVote is a single comparison rule's contribution to the total.
type RuleVote struct {
	Name       string
	Vote       int // -1, 0 or +1
	Weight     int
	Weighted   int
	Commentary string
}

// TradeSignal is the final output of the strategy engine.
type TradeSignal struct {
	Votes   []RuleVote
	Total   int
	Verdict Signal
}

// Report bundles one analysis run for presentation.
type Report struct {
	Symbol     string
	Indicators *IndicatorSet
	Snapshot   *Snapshot
	Signal     *TradeSignal
}
