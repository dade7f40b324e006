package model

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// ErrUnordered is returned when bars are not in non-decreasing time order.
var ErrUnordered = errors.New("bars are not in chronological order")

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume Value // Undefined when the source carries no volume
}

// SortBars orders bars oldest first. Bars sharing a timestamp keep their relative order.
func SortBars(bars []OHLCV) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
}

// TimeSeries is an immutable, chronologically ordered run of bars for one symbol.
// Every indicator is aligned 1:1 with its index.
type TimeSeries struct {
	Symbol string
	bars   []OHLCV
}

// NewTimeSeries copies bars into a TimeSeries. It fails with ErrUnordered if
// any bar is older than its predecessor; callers holding reverse-chronological
// data should run SortBars first.
func NewTimeSeries(symbol string, bars []OHLCV) (*TimeSeries, error) {
	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Before(bars[i-1].Time) {
			return nil, errors.Wrapf(ErrUnordered, "bar %d (%s) precedes bar %d (%s)",
				i, bars[i].Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}
	cp := make([]OHLCV, len(bars))
	copy(cp, bars)
	return &TimeSeries{Symbol: symbol, bars: cp}, nil
}

// Len returns the number of bars.
func (ts *TimeSeries) Len() int { return len(ts.bars) }

// Bar returns the i-th bar.
func (ts *TimeSeries) Bar(i int) OHLCV { return ts.bars[i] }

// Bars returns a copy of all bars.
func (ts *TimeSeries) Bars() []OHLCV {
	cp := make([]OHLCV, len(ts.bars))
	copy(cp, ts.bars)
	return cp
}

// Last returns the most recent bar.
func (ts *TimeSeries) Last() (OHLCV, bool) {
	if len(ts.bars) == 0 {
		return OHLCV{}, false
	}
	return ts.bars[len(ts.bars)-1], true
}

// Times returns the bar timestamps.
func (ts *TimeSeries) Times() []time.Time {
	out := make([]time.Time, len(ts.bars))
	for i, b := range ts.bars {
		out[i] = b.Time
	}
	return out
}

func (ts *TimeSeries) Close() Series { return ts.field(func(b OHLCV) float64 { return b.Close }) }
func (ts *TimeSeries) High() Series { return ts.field(func(b OHLCV) float64 { return b.High }) }
func (ts *TimeSeries) Low() Series { return ts.field(func(b OHLCV) float64 { return b.Low }) }

// Volume returns the volume column; bars without volume are Undefined.
func (ts *TimeSeries) Volume() Series {
	out := make(Series, len(ts.bars))
	for i, b := range ts.bars {
		out[i] = b.Volume
	}
	return out
}

func (ts *TimeSeries) field(get func(OHLCV) float64) Series {
	out := make(Series, len(ts.bars))
	for i, b := range ts.bars {
		out[i] = Float(get(b))
	}
	return out
}
