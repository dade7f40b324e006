package calculator

import (
	"MarketSignal/internal/model"
)

// StochasticParams configure the stochastic oscillator.
type StochasticParams struct {
	K      int `yaml:"k"`      // high/low lookback
	D      int `yaml:"d"`      // first %D smoothing window
	Smooth int `yaml:"smooth"` // second %D smoothing window
}

// DefaultStochastic is the conventional 14/3/3 configuration.
var DefaultStochastic = StochasticParams{K: 14, D: 3, Smooth: 3}

func (p StochasticParams) validate() error {
	if err := checkPeriod("stochastic k period", p.K); err != nil {
		return err
	}
	if err := checkPeriod("stochastic d period", p.D); err != nil {
		return err
	}
	return checkPeriod("stochastic smoothing period", p.Smooth)
}

// priceRange returns the highest high and lowest low over each trailing window.
func priceRange(ts *model.TimeSeries, period int) (hh, ll model.Series, err error) {
	hh, err = RollingMax(ts.High(), period)
	if err != nil {
		return nil, nil, err
	}
	ll, err = RollingMin(ts.Low(), period)
	if err != nil {
		return nil, nil, err
	}
	return hh, ll, nil
}

// positionInRange maps each close into its trailing high/low range. When the
// range is empty the close sits at the high by construction, and the entry
// saturates to flat.
func positionInRange(ts *model.TimeSeries, period int, f func(hh, ll, c float64) float64, flat float64) (model.Series, error) {
	hh, ll, err := priceRange(ts, period)
	if err != nil {
		return nil, err
	}
	closes := ts.Close()
	out := model.UndefinedSeries(len(closes))
	for i := range out {
		if !hh[i].Valid() || !ll[i].Valid() || !closes[i].Valid() {
			continue
		}
		if hh[i].Float == ll[i].Float {
			out[i] = model.Saturate(flat)
			continue
		}
		out[i] = model.Float(f(hh[i].Float, ll[i].Float, closes[i].Float))
	}
	return out, nil
}

// StochasticOscillator computes %K = 100*(close-LL)/(HH-LL) over p.K bars and
// %D as %K averaged over p.D bars and again over p.Smooth bars.
// An empty range gives %K = 100.
func StochasticOscillator(ts *model.TimeSeries, p StochasticParams) (model.Stochastic, error) {
	if err := p.validate(); err != nil {
		return model.Stochastic{}, err
	}
	k, err := positionInRange(ts, p.K, func(hh, ll, c float64) float64 {
		return 100 * (c - ll) / (hh - ll)
	}, 100)
	if err != nil {
		return model.Stochastic{}, err
	}
	d, err := RollingMean(k, p.D)
	if err != nil {
		return model.Stochastic{}, err
	}
	d, err = RollingMean(d, p.Smooth)
	if err != nil {
		return model.Stochastic{}, err
	}
	return model.Stochastic{K: k, D: d}, nil
}

// WilliamsR computes 100*(HH-close)/(HH-LL). The value is 0 with the close at
// the high and 100 with the close at the low; an empty range gives 0.
func WilliamsR(ts *model.TimeSeries, period int) (model.Series, error) {
	if err := checkPeriod("williams period", period); err != nil {
		return nil, err
	}
	return positionInRange(ts, period, func(hh, ll, c float64) float64 {
		return 100 * (hh - c) / (hh - ll)
	}, 0)
}
