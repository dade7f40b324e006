package calculator

import "MarketSignal/internal/model"

// SMA computes the simple moving average of close prices. The first period-1
// entries are undefined.
func SMA(ts *model.TimeSeries, period int) (model.Series, error) {
	if err := checkPeriod("sma period", period); err != nil {
		return nil, err
	}
	return RollingMean(ts.Close(), period)
}

// EMA computes the exponential moving average of close prices. It is defined
// from index 0, where it equals the first close.
func EMA(ts *model.TimeSeries, period int) (model.Series, error) {
	if err := checkPeriod("ema period", period); err != nil {
		return nil, err
	}
	return ExpSmooth(ts.Close(), period)
}
