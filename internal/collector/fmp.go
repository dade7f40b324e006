package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"MarketSignal/internal/model"
)

const fmpBaseURL = "https://financialmodelingprep.com/api"

// FMPFetcher implements Fetcher using the financialmodelingprep REST API.
type FMPFetcher struct {
	BaseURL  string
	APIKey   string
	Interval string
	Client   *http.Client
}

// NewFMPFetcher creates a new fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, interval, proxyURL string) *FMPFetcher {
	if baseURL == "" {
		baseURL = fmpBaseURL
	}
	return &FMPFetcher{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Interval: interval,
		Client:   newHTTPClient(proxyURL),
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

// fmpBar is one row of either the daily or the intraday endpoint.
type fmpBar struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume *float64 `json:"volume"`
}

func (f *FMPFetcher) FetchBars(ctx context.Context, symbol string, limit int) ([]model.OHLCV, error) {
	if !ValidInterval(f.Interval) {
		return nil, errors.Errorf("fmp: invalid interval %q", f.Interval)
	}
	var rows []fmpBar
	if f.Interval == "day" {
		var daily struct {
			Symbol     string   `json:"symbol"`
			Historical []fmpBar `json:"historical"`
		}
		if err := f.get(ctx, "v3/historical-price-full/"+url.PathEscape(symbol), &daily); err != nil {
			return nil, err
		}
		rows = daily.Historical
	} else {
		path := fmt.Sprintf("v3/historical-chart/%s/%s", f.Interval, url.PathEscape(symbol))
		if err := f.get(ctx, path, &rows); err != nil {
			return nil, err
		}
	}

	bars := make([]model.OHLCV, 0, len(rows))
	for _, r := range rows {
		t, err := parseFMPDate(r.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "fmp: bad date %q", r.Date)
		}
		vol := model.Value{}
		if r.Volume != nil {
			vol = model.Float(*r.Volume)
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: vol,
		})
	}
	// FMP returns newest first.
	model.SortBars(bars)
	return tail(bars, limit), nil
}

func (f *FMPFetcher) get(ctx context.Context, path string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s?apikey=%s", f.BaseURL, path, url.QueryEscape(f.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "fmp request")
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fmp fetch")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.Errorf("fmp: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "fmp decode")
	}
	return nil
}

func parseFMPDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
