package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"MarketSignal/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns up to limit bars, oldest first. A limit of zero
	// returns everything the source has.
	FetchBars(ctx context.Context, symbol string, limit int) ([]model.OHLCV, error)
	Name() string
}

// Intervals accepted by the HTTP fetchers.
var Intervals = []string{"1min", "5min", "15min", "30min", "1hour", "4hour", "day"}

// ValidInterval reports whether interval is one of Intervals.
func ValidInterval(interval string) bool {
	for _, iv := range Intervals {
		if iv == interval {
			return true
		}
	}
	return false
}

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// tail keeps the newest limit bars.
func tail(bars []model.OHLCV, limit int) []model.OHLCV {
	if limit > 0 && len(bars) > limit {
		return bars[len(bars)-limit:]
	}
	return bars
}
