package calculator

import (
	"math"
	"testing"
	"time"

	"MarketSignal/internal/model"
)

const tol = 1e-6

func closeSeries(t *testing.T, closes ...float64) *model.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	ts, err := model.NewTimeSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return ts
}

// risingOHLC builds closes 1..n with high = close+1 and low = close-1.
func risingOHLC(t *testing.T, n int) *model.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := float64(i + 1)
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	ts, err := model.NewTimeSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return ts
}

// wavySeries is a non-monotonic OHLC series with no flat ranges.
func wavySeries(t *testing.T, n int) *model.TimeSeries {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 10*math.Sin(x/3) + 0.1*x
		bars[i] = model.OHLCV{
			Time:   base.AddDate(0, 0, i),
			Open:   c - 0.5*math.Cos(x),
			High:   c + 1 + math.Abs(math.Cos(x/2)),
			Low:    c - 1 - math.Abs(math.Sin(x/2)),
			Close:  c,
			Volume: model.Float(1000 + 10*x),
		}
	}
	ts, err := model.NewTimeSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return ts
}

func floatSeries(fs []float64) model.Series {
	out := make(model.Series, len(fs))
	for i, f := range fs {
		out[i] = model.Float(f)
	}
	return out
}

func seq(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, float64(i))
	}
	return out
}

func approx(t *testing.T, label string, got model.Value, want float64) {
	t.Helper()
	if !got.Valid() {
		t.Errorf("%s: expected %.6f, got undefined", label, want)
		return
	}
	if math.Abs(got.Float-want) > tol {
		t.Errorf("%s: expected %.6f, got %.6f", label, want, got.Float)
	}
}

func assertUndefinedBefore(t *testing.T, label string, s model.Series, n int) {
	t.Helper()
	for i := 0; i < n && i < len(s); i++ {
		if s[i].Valid() {
			t.Errorf("%s[%d]: expected undefined warm-up entry, got %v", label, i, s[i].Float)
		}
	}
}
