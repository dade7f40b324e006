package calculator

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/pkg/errors"

	"MarketSignal/internal/model"
)

func TestRolling_InvalidPeriod(t *testing.T) {
	s := floatSeries(seq(1, 5))
	fns := map[string]func(model.Series, int) (model.Series, error){
		"mean":   RollingMean,
		"max":    RollingMax,
		"min":    RollingMin,
		"stddev": RollingStdDev,
		"smooth": ExpSmooth,
	}
	for name, fn := range fns {
		for _, p := range []int{0, -1} {
			if _, err := fn(s, p); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("%s(period=%d): expected ErrInvalidParameter, got %v", name, p, err)
			}
		}
	}
}

func TestRolling_WarmupAndValues(t *testing.T) {
	s := floatSeries([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	mean, _ := RollingMean(s, 3)
	max, _ := RollingMax(s, 3)
	min, _ := RollingMin(s, 3)
	assertUndefinedBefore(t, "mean", mean, 2)
	assertUndefinedBefore(t, "max", max, 2)
	assertUndefinedBefore(t, "min", min, 2)

	approx(t, "mean[2]", mean[2], 8.0/3)
	approx(t, "mean[7]", mean[7], 17.0/3)
	approx(t, "max[5]", max[5], 9)
	approx(t, "max[7]", max[7], 9)
	approx(t, "min[4]", min[4], 1)
	approx(t, "min[7]", min[7], 2)
}

func TestRolling_ShorterThanWindow(t *testing.T) {
	s := floatSeries(seq(1, 4))
	out, err := RollingMean(s, 10)
	if err != nil {
		t.Fatalf("insufficient data must not be an error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected aligned length 4, got %d", len(out))
	}
	assertUndefinedBefore(t, "mean", out, 4)
}

func TestRolling_UndefinedInputPoisonsWindow(t *testing.T) {
	s := floatSeries([]float64{1, 2, math.NaN(), 4, 5, 6})
	out, _ := RollingMean(s, 2)
	for _, i := range []int{2, 3} {
		if out[i].Valid() {
			t.Errorf("mean[%d]: window touching an undefined entry must be undefined", i)
		}
	}
	approx(t, "mean[4]", out[4], 4.5)
}

func TestRollingStdDev_Sample(t *testing.T) {
	s := floatSeries(seq(1, 5))
	sd, _ := RollingStdDev(s, 5)
	approx(t, "stddev[4]", sd[4], math.Sqrt(2.5))

	one, _ := RollingStdDev(s, 1)
	if one[0].Status != model.Saturated || one[0].Float != 0 {
		t.Errorf("single-sample window: expected saturated 0, got %+v", one[0])
	}
}

func TestRolling_MatchesTalib(t *testing.T) {
	ts := wavySeries(t, 80)
	closes := ts.Close()
	raw := closes.Floats()
	highs := ts.High().Floats()
	lows := ts.Low().Floats()

	for _, period := range []int{2, 5, 14} {
		mean, _ := RollingMean(closes, period)
		max, _ := RollingMax(ts.High(), period)
		min, _ := RollingMin(ts.Low(), period)
		sd, _ := RollingStdDev(closes, period)

		wantMean := talib.Sma(raw, period)
		wantMax := talib.Max(highs, period)
		wantMin := talib.Min(lows, period)
		wantSD := talib.StdDev(raw, period, 1) // population

		scale := math.Sqrt(float64(period-1) / float64(period))
		for i := period - 1; i < len(raw); i++ {
			if math.Abs(mean[i].Float-wantMean[i]) > 1e-9 {
				t.Errorf("period %d mean[%d]: expected %v, got %v", period, i, wantMean[i], mean[i].Float)
			}
			if max[i].Float != wantMax[i] {
				t.Errorf("period %d max[%d]: expected %v, got %v", period, i, wantMax[i], max[i].Float)
			}
			if min[i].Float != wantMin[i] {
				t.Errorf("period %d min[%d]: expected %v, got %v", period, i, wantMin[i], min[i].Float)
			}
			if math.Abs(sd[i].Float*scale-wantSD[i]) > 1e-6 {
				t.Errorf("period %d stddev[%d]: expected %v, got %v", period, i, wantSD[i], sd[i].Float*scale)
			}
		}
	}
}

func TestExpSmooth_SeedsOnFirstValid(t *testing.T) {
	s := model.Series{{}, {}, model.Float(4), model.Float(8), {}, model.Float(8)}
	out, err := ExpSmooth(s, 3) // alpha = 0.5
	if err != nil {
		t.Fatal(err)
	}
	assertUndefinedBefore(t, "smooth", out, 2)
	approx(t, "smooth[2]", out[2], 4)
	approx(t, "smooth[3]", out[3], 6)
	if out[4].Valid() {
		t.Error("undefined input after the seed must stay undefined")
	}
	approx(t, "smooth[5]", out[5], 7)
}
