package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"MarketSignal/internal/model"
)

func scrape(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Body)
	return rec.Code, string(body)
}

func TestMetrics_ExposedOnServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRun(nil)
	m.ObserveRun(errors.New("boom"))
	m.ObserveCompute(3 * time.Millisecond)
	m.ObserveSignal(&model.TradeSignal{Total: 3, Verdict: model.Buy})

	srv := NewServer(":0", reg, NewHealth())
	code, body := scrape(t, srv.Handler(), "/metrics")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, want := range []string{
		`marketsignal_analysis_runs_total{result="ok"} 1`,
		`marketsignal_analysis_runs_total{result="error"} 1`,
		`marketsignal_verdicts_total{signal="BUY"} 1`,
		`marketsignal_last_total_score 3`,
		`marketsignal_compute_duration_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRun(nil)
	m.ObserveCompute(time.Second)
	m.ObserveSignal(&model.TradeSignal{})
}

func TestHealth(t *testing.T) {
	h := NewHealth()
	srv := NewServer(":0", prometheus.NewRegistry(), h)

	h.Record(&model.Report{Signal: &model.TradeSignal{Verdict: model.Sell}}, nil)
	code, body := scrape(t, srv.Handler(), "/healthz")
	if code != http.StatusOK || !strings.Contains(body, `"verdict":"SELL"`) {
		t.Errorf("unexpected healthy response %d %s", code, body)
	}

	h.Record(nil, errors.New("fetch failed"))
	code, body = scrape(t, srv.Handler(), "/healthz")
	if code != http.StatusServiceUnavailable || !strings.Contains(body, "fetch failed") {
		t.Errorf("unexpected degraded response %d %s", code, body)
	}
}
