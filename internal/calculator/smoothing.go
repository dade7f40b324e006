package calculator

import "MarketSignal/internal/model"

// ExpSmooth runs the exponential moving average recurrence
// out[i] = alpha*s[i] + (1-alpha)*out[i-1] with alpha = 2/(period+1),
// seeded with the first valid input. Unlike RollingMean there is no warm-up
// gap: the seed entry is already defined.
//
// Entries before the seed are undefined. An undefined entry after the seed
// is undefined in the output and does not advance the recurrence.
func ExpSmooth(s model.Series, period int) (model.Series, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	alpha := 2.0 / float64(period+1)
	out := model.UndefinedSeries(len(s))

	start := s.FirstValid()
	if start < 0 {
		return out, nil
	}
	prev := s[start]
	out[start] = prev
	for i := start + 1; i < len(s); i++ {
		if !s[i].Valid() {
			continue
		}
		prev = model.Derive(s[i], prev, func(x, p float64) float64 {
			return alpha*x + (1-alpha)*p
		})
		out[i] = prev
	}
	return out, nil
}
