package calculator

import (
	"math"

	"MarketSignal/internal/model"
)

// reducer folds a full window of valid numbers into one value.
type reducer func(window []float64) model.Value

// rolling slides a window of the given length over s. An entry is undefined
// until the window is full and while any value inside it is undefined.
func rolling(s model.Series, period int, reduce reducer) model.Series {
	out := model.UndefinedSeries(len(s))
	buf := make([]float64, period)
	for i := period - 1; i < len(s); i++ {
		saturated := false
		complete := true
		for j := 0; j < period; j++ {
			v := s[i-period+1+j]
			if !v.Valid() {
				complete = false
				break
			}
			if v.Status == model.Saturated {
				saturated = true
			}
			buf[j] = v.Float
		}
		if !complete {
			continue
		}
		res := reduce(buf)
		if saturated && res.Valid() {
			res.Status = model.Saturated
		}
		out[i] = res
	}
	return out
}

func mean(window []float64) float64 {
	sum := 0.0
	for _, x := range window {
		sum += x
	}
	return sum / float64(len(window))
}

// RollingMean computes the arithmetic mean over each trailing window.
func RollingMean(s model.Series, period int) (model.Series, error) {
	if err := checkPeriod("window", period); err != nil {
		return nil, err
	}
	return rolling(s, period, func(w []float64) model.Value {
		return model.Float(mean(w))
	}), nil
}

// RollingMax computes the maximum over each trailing window.
func RollingMax(s model.Series, period int) (model.Series, error) {
	if err := checkPeriod("window", period); err != nil {
		return nil, err
	}
	return rolling(s, period, func(w []float64) model.Value {
		hi := math.Inf(-1)
		for _, x := range w {
			if x > hi {
				hi = x
			}
		}
		return model.Float(hi)
	}), nil
}

// RollingMin computes the minimum over each trailing window.
func RollingMin(s model.Series, period int) (model.Series, error) {
	if err := checkPeriod("window", period); err != nil {
		return nil, err
	}
	return rolling(s, period, func(w []float64) model.Value {
		lo := math.Inf(1)
		for _, x := range w {
			if x < lo {
				lo = x
			}
		}
		return model.Float(lo)
	}), nil
}

// RollingStdDev computes the sample standard deviation (divisor n-1) over
// each trailing window. A one-sample window has no spread and yields a
// saturated zero.
func RollingStdDev(s model.Series, period int) (model.Series, error) {
	if err := checkPeriod("window", period); err != nil {
		return nil, err
	}
	return rolling(s, period, func(w []float64) model.Value {
		if len(w) < 2 {
			return model.Saturate(0)
		}
		m := mean(w)
		ss := 0.0
		for _, x := range w {
			d := x - m
			ss += d * d
		}
		return model.Float(math.Sqrt(ss / float64(len(w)-1)))
	}), nil
}
