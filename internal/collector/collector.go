package collector

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"MarketSignal/internal/calculator"
	"MarketSignal/internal/logger"
	"MarketSignal/internal/metrics"
	"MarketSignal/internal/model"
	"MarketSignal/internal/strategy"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV // returned as-is when set
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, _ string, limit int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	if limit == 0 {
		limit = 250
	}
	return generateMockBars(m.Price, limit), nil
}

var mockStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// generateMockBars draws a slow uptrend with a sine wobble so every
// oscillator has something to react to.
func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   mockStart.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: model.Float(1000000),
		}
	}
	return bars
}

// Collector orchestrates data fetching, indicator computation and signal evaluation.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Limit   int
	Params  calculator.Params
	Rules   []strategy.Rule // nil means strategy.DefaultRules
	Metrics *metrics.Metrics
}

// NewCollector creates a new Collector with default indicator parameters.
func NewCollector(fetcher Fetcher, symbol string, limit int) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Symbol:  symbol,
		Limit:   limit,
		Params:  calculator.DefaultParams(),
	}
}

// Collect fetches market data, computes all indicators and evaluates the rules.
func (c *Collector) Collect(ctx context.Context) (report *model.Report, err error) {
	defer func() { c.Metrics.ObserveRun(err) }()

	bars, err := c.Fetcher.FetchBars(ctx, c.Symbol, c.Limit)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s bars from %s", c.Symbol, c.Fetcher.Name())
	}
	if len(bars) == 0 {
		return nil, errors.Errorf("no bars returned for %s", c.Symbol)
	}
	ts, err := model.NewTimeSeries(c.Symbol, bars)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	set, err := calculator.Compute(ts, c.Params)
	if err != nil {
		return nil, errors.Wrap(err, "compute indicators")
	}
	c.Metrics.ObserveCompute(time.Since(start))

	snap := set.Latest()
	sig := strategy.Evaluate(snap, c.Rules)
	c.Metrics.ObserveSignal(sig)

	logger.Info("%s: %d bars, total=%d verdict=%s", c.Symbol, ts.Len(), sig.Total, sig.Verdict)
	for _, v := range sig.Votes {
		logger.Debug("rule %q vote=%d (%s)", v.Name, v.Vote, v.Commentary)
	}

	return &model.Report{
		Symbol:     c.Symbol,
		Indicators: set,
		Snapshot:   snap,
		Signal:     sig,
	}, nil
}
