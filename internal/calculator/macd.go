package calculator

import "MarketSignal/internal/model"

// MACDParams are the three smoothing periods of MACD.
type MACDParams struct {
	Fast   int `yaml:"fast"`
	Slow   int `yaml:"slow"`
	Signal int `yaml:"signal"`
}

// DefaultMACD is the conventional 12/26/9 configuration.
var DefaultMACD = MACDParams{Fast: 12, Slow: 26, Signal: 9}

func (p MACDParams) validate() error {
	if err := checkPeriod("macd fast period", p.Fast); err != nil {
		return err
	}
	if err := checkPeriod("macd slow period", p.Slow); err != nil {
		return err
	}
	return checkPeriod("macd signal period", p.Signal)
}

// MACD computes line = EMA(fast) - EMA(slow), signal = EMA of the line and
// histogram = line - signal.
func MACD(ts *model.TimeSeries, p MACDParams) (model.MACD, error) {
	if err := p.validate(); err != nil {
		return model.MACD{}, err
	}
	closes := ts.Close()
	fast, err := ExpSmooth(closes, p.Fast)
	if err != nil {
		return model.MACD{}, err
	}
	slow, err := ExpSmooth(closes, p.Slow)
	if err != nil {
		return model.MACD{}, err
	}
	line := model.Zip(fast, slow, func(f, s float64) float64 { return f - s })
	signal, err := ExpSmooth(line, p.Signal)
	if err != nil {
		return model.MACD{}, err
	}
	hist := model.Zip(line, signal, func(l, s float64) float64 { return l - s })
	return model.MACD{Line: line, Signal: signal, Histogram: hist}, nil
}
