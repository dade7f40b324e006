package calculator

import "MarketSignal/internal/model"

// Bollinger computes bands numStd sample standard deviations around SMA(period).
func Bollinger(ts *model.TimeSeries, period int, numStd float64) (model.Bands, error) {
	if err := checkPeriod("bollinger period", period); err != nil {
		return model.Bands{}, err
	}
	closes := ts.Close()
	middle, err := RollingMean(closes, period)
	if err != nil {
		return model.Bands{}, err
	}
	sd, err := RollingStdDev(closes, period)
	if err != nil {
		return model.Bands{}, err
	}
	upper := model.Zip(middle, sd, func(m, d float64) float64 { return m + d*numStd })
	lower := model.Zip(middle, sd, func(m, d float64) float64 { return m - d*numStd })
	return model.Bands{Upper: upper, Middle: middle, Lower: lower}, nil
}
