package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketSignal/internal/logger"
	"MarketSignal/internal/model"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AnalysisRuns *prometheus.CounterVec // labels: result=ok|error
	ComputeDur   prometheus.Histogram
	Verdicts     *prometheus.CounterVec // labels: signal
	LastScore    prometheus.Gauge
}

// New creates the metrics and registers them with reg. A nil reg means
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		AnalysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsignal_analysis_runs_total",
			Help: "Analysis runs by outcome",
		}, []string{"result"}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketsignal_compute_duration_seconds",
			Help:    "Indicator computation latency per run",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsignal_verdicts_total",
			Help: "Verdicts emitted by the signal aggregator",
		}, []string{"signal"}),
		LastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketsignal_last_total_score",
			Help: "Total rule score of the most recent run",
		}),
	}
	reg.MustRegister(m.AnalysisRuns, m.ComputeDur, m.Verdicts, m.LastScore)
	return m
}

func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.AnalysisRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCompute(d time.Duration) {
	if m == nil {
		return
	}
	m.ComputeDur.Observe(d.Seconds())
}

func (m *Metrics) ObserveSignal(sig *model.TradeSignal) {
	if m == nil || sig == nil {
		return
	}
	m.Verdicts.WithLabelValues(string(sig.Verdict)).Inc()
	m.LastScore.Set(float64(sig.Total))
}

// Health tracks the outcome of the most recent run for /healthz.
type Health struct {
	mu sync.RWMutex

	StartedAt time.Time
	LastRunAt time.Time
	LastError string
	Verdict   model.Signal
}

func NewHealth() *Health { return &Health{StartedAt: time.Now()} }

// Record stores the outcome of a run.
func (h *Health) Record(report *model.Report, err error) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunAt = time.Now()
	h.LastError = ""
	if err != nil {
		h.LastError = err.Error()
		return
	}
	if report != nil && report.Signal != nil {
		h.Verdict = report.Signal.Verdict
	}
}

// ServeHTTP handles the /healthz endpoint. It answers 503 when the last run failed.
func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		LastRunAt string `json:"last_run_at,omitempty"`
		LastError string `json:"last_error,omitempty"`
		Verdict   string `json:"verdict,omitempty"`
	}{
		Status:    "healthy",
		Uptime:    time.Since(h.StartedAt).Round(time.Second).String(),
		LastError: h.LastError,
		Verdict:   string(h.Verdict),
	}
	if !h.LastRunAt.IsZero() {
		status.LastRunAt = h.LastRunAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.LastError != "" {
		status.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server. A nil gatherer means the
// default gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer, health *Health) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		logger.Info("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
