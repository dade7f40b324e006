package calculator

import "MarketSignal/internal/model"

// RSI computes the relative strength index from simple rolling means of
// close-to-close gains and losses. The first delta has no predecessor, so the
// first period entries are undefined.
//
// A window with no losses saturates at 100, flat windows included.
func RSI(ts *model.TimeSeries, period int) (model.Series, error) {
	if err := checkPeriod("rsi period", period); err != nil {
		return nil, err
	}
	closes := ts.Close()
	gains := model.UndefinedSeries(len(closes))
	losses := model.UndefinedSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		delta := model.Derive(closes[i], closes[i-1], func(c, p float64) float64 { return c - p })
		if !delta.Valid() {
			continue
		}
		if delta.Float > 0 {
			gains[i], losses[i] = delta, model.Float(0)
		} else {
			gains[i], losses[i] = model.Float(0), model.Float(-delta.Float)
		}
	}

	avgGain, err := RollingMean(gains, period)
	if err != nil {
		return nil, err
	}
	avgLoss, err := RollingMean(losses, period)
	if err != nil {
		return nil, err
	}

	out := model.UndefinedSeries(len(closes))
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if !g.Valid() || !l.Valid() {
			continue
		}
		if l.Float == 0 {
			out[i] = model.Saturate(100)
			continue
		}
		rs := g.Float / l.Float
		out[i] = model.Float(100 - 100/(1+rs))
	}
	return out, nil
}
