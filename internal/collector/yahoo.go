package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"MarketSignal/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// yahooIntervals maps our interval names onto Yahoo's. Yahoo has no 4-hour bars.
var yahooIntervals = map[string]string{
	"1min":  "1m",
	"5min":  "5m",
	"15min": "15m",
	"30min": "30m",
	"1hour": "60m",
	"day":   "1d",
}

// YahooSupports reports whether Yahoo serves bars at the given interval.
func YahooSupports(interval string) bool {
	_, ok := yahooIntervals[interval]
	return ok
}

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Interval  string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(interval, proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL:  yahooBaseURL,
		Interval: interval,
		Client:   newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Prices are pointers because Yahoo sends null for missing sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

// yahooRange picks the smallest chart range covering limit bars.
func yahooRange(interval string, limit int) string {
	switch interval {
	case "1d":
		switch {
		case limit == 0:
			return "max"
		case limit <= 20:
			return "1mo"
		case limit <= 60:
			return "3mo"
		case limit <= 120:
			return "6mo"
		case limit <= 250:
			return "1y"
		case limit <= 500:
			return "2y"
		case limit <= 1250:
			return "5y"
		default:
			return "max"
		}
	case "1m":
		return "7d"
	default:
		return "60d"
	}
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, limit int) ([]model.OHLCV, error) {
	interval, ok := yahooIntervals[f.Interval]
	if !ok {
		return nil, errors.Errorf("yahoo: unsupported interval %q", f.Interval)
	}
	bars, err := f.fetchChart(ctx, symbol, interval, yahooRange(interval, limit))
	if err != nil {
		return nil, err
	}
	return tail(bars, limit), nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrap(err, "yahoo decode")
	}
	if chart.Chart.Error != nil {
		return nil, errors.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.New("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // skip null bars (holidays etc.)
		}
		vol := model.Value{}
		if v := at(quote.Volume, i); v != nil {
			vol = model.Float(*v)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *c,
			Volume: vol,
		})
	}

	model.SortBars(bars)
	return bars, nil
}
