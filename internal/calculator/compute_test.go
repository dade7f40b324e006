package calculator

import (
	"reflect"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestCompute_MatchesDirectCalls(t *testing.T) {
	ts := wavySeries(t, 50)
	p := DefaultParams()
	set, err := Compute(ts, p)
	if err != nil {
		t.Fatal(err)
	}

	sma, _ := SMA(ts, p.SMAPeriod)
	rsi, _ := RSI(ts, p.RSIPeriod)
	macd, _ := MACD(ts, p.MACD)
	st, _ := StochasticOscillator(ts, p.Stochastic)
	if !reflect.DeepEqual(set.SMA, sma) {
		t.Error("SMA differs from direct call")
	}
	if !reflect.DeepEqual(set.RSI, rsi) {
		t.Error("RSI differs from direct call")
	}
	if !reflect.DeepEqual(set.MACD, macd) {
		t.Error("MACD differs from direct call")
	}
	if !reflect.DeepEqual(set.Stochastic, st) {
		t.Error("Stochastic differs from direct call")
	}
	for name, s := range map[string]int{
		"ema":       len(set.EMA),
		"bollinger": len(set.Bollinger.Upper),
		"williams":  len(set.WilliamsR),
	} {
		if s != ts.Len() {
			t.Errorf("%s: expected length %d, got %d", name, ts.Len(), s)
		}
	}
}

func TestCompute_RuleAveragesIgnoreParams(t *testing.T) {
	ts := wavySeries(t, 50)
	p := DefaultParams()
	p.SMAPeriod, p.EMAPeriod = 30, 5
	set, err := Compute(ts, p)
	if err != nil {
		t.Fatal(err)
	}

	sma10, _ := SMA(ts, RuleMAPeriod)
	ema10, _ := EMA(ts, RuleMAPeriod)
	if !reflect.DeepEqual(set.RuleSMA, sma10) || !reflect.DeepEqual(set.RuleEMA, ema10) {
		t.Error("rule averages must use the fixed rule period")
	}
	if set.SMA[28].Valid() || !set.SMA[29].Valid() {
		t.Error("displayed SMA must follow the configured period")
	}
	snap := set.Latest()
	if snap.SMA != sma10.Last() || snap.EMA != ema10.Last() {
		t.Errorf("snapshot must carry the rule averages, got SMA %+v EMA %+v", snap.SMA, snap.EMA)
	}
}

func TestCompute_FailsFastOnBadParams(t *testing.T) {
	ts := wavySeries(t, 50)
	p := DefaultParams()
	p.Stochastic.Smooth = 0
	set, err := Compute(ts, p)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if set != nil {
		t.Error("no partial result may be returned")
	}
}

func TestCompute_ConcurrentCallers(t *testing.T) {
	ts := wavySeries(t, 120)
	want, err := Compute(ts, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := Compute(ts, DefaultParams())
			results[i] = err == nil && reflect.DeepEqual(got, want)
		}(i)
	}
	wg.Wait()
	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d: result differs from the sequential run", i)
		}
	}
}

func TestCompute_ShortSeries(t *testing.T) {
	ts := closeSeries(t, 1, 2, 3)
	set, err := Compute(ts, DefaultParams())
	if err != nil {
		t.Fatalf("short series must not fail: %v", err)
	}
	snap := set.Latest()
	if snap.SMA.Valid() || snap.RSI.Valid() || snap.StochD.Valid() {
		t.Error("windowed indicators must be undefined on a short series")
	}
	if !snap.EMA.Valid() || !snap.MACDLine.Valid() {
		t.Error("recurrence-based indicators are defined from the first bar")
	}
	if snap.Close.Float != 3 {
		t.Errorf("expected latest close 3, got %v", snap.Close.Float)
	}
}
