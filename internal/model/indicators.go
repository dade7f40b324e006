package model

// MACD holds the three aligned MACD series.
type MACD struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// Bands holds Bollinger bands around a moving average.
type Bands struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// Stochastic holds the raw %K line and its smoothed %D line.
type Stochastic struct {
	K Series
	D Series
}

// IndicatorSet holds every indicator computed over one TimeSeries.
type IndicatorSet struct {
	Source     *TimeSeries
	SMA        Series
	EMA        Series
	MACD       MACD
	RSI        Series
	Bollinger  Bands
	Stochastic Stochastic
	WilliamsR  Series

	// RuleSMA and RuleEMA are the fixed-period averages the signal rules
	// read. Latest falls back to SMA and EMA when they are nil.
	RuleSMA Series
	RuleEMA Series
}

// Latest picks the newest value of every indicator.
func (s *IndicatorSet) Latest() *Snapshot {
	sma, ema := s.RuleSMA, s.RuleEMA
	if sma == nil {
		sma = s.SMA
	}
	if ema == nil {
		ema = s.EMA
	}
	snap := &Snapshot{
		SMA:        sma.Last(),
		EMA:        ema.Last(),
		MACDLine:   s.MACD.Line.Last(),
		MACDSignal: s.MACD.Signal.Last(),
		MACDHist:   s.MACD.Histogram.Last(),
		RSI:        s.RSI.Last(),
		BollUpper:  s.Bollinger.Upper.Last(),
		BollMiddle: s.Bollinger.Middle.Last(),
		BollLower:  s.Bollinger.Lower.Last(),
		StochK:     s.Stochastic.K.Last(),
		StochD:     s.Stochastic.D.Last(),
		WilliamsR:  s.WilliamsR.Last(),
	}
	if s.Source != nil {
		if bar, ok := s.Source.Last(); ok {
			snap.Time = bar.Time
			snap.Close = Float(bar.Close)
		}
	}
	return snap
}
