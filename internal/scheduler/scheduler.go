package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"MarketSignal/internal/chart"
	"MarketSignal/internal/collector"
	"MarketSignal/internal/logger"
	"MarketSignal/internal/metrics"
	"MarketSignal/internal/model"
	"MarketSignal/internal/notifier"
)

// Analyzer produces one report per call. *collector.Collector satisfies it.
type Analyzer interface {
	Collect(ctx context.Context) (*model.Report, error)
}

// parser accepts standard 5-field specs, an optional leading seconds field
// and descriptors such as @daily.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs the analysis on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Notifier  notifier.Notifier
	Health    *metrics.Health
	ChartPath string // when set, every successful run rewrites this HTML file
	BarsPath  string // when set, every successful run saves its input bars here
	Ctx       context.Context

	mu   sync.Mutex // one analysis at a time
	last *model.Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a Analyzer, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithParser(parser)),
		Analyzer: a,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register schedules the analysis job.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.job); err != nil {
		return errors.Wrapf(err, "register analysis task %q", spec)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) job() {
	if _, err := s.RunNow(); err != nil {
		logger.Error("scheduled analysis: %v", err)
	}
}

// RunNow executes the analysis immediately and delivers the report.
func (s *Scheduler) RunNow() (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("running analysis")
	report, err := s.Analyzer.Collect(s.Ctx)
	s.Health.Record(report, err)
	if err != nil {
		s.trySend(fmt.Sprintf("❌ analysis failed: %v", err))
		return nil, err
	}
	s.last = report

	if s.ChartPath != "" {
		if err := writeChart(s.ChartPath, report); err != nil {
			logger.Error("write chart: %v", err)
		} else {
			logger.Info("chart written to %s", s.ChartPath)
		}
	}
	if s.BarsPath != "" {
		if err := collector.SaveBars(s.BarsPath, report.Indicators.Source.Bars()); err != nil {
			logger.Error("save bars: %v", err)
		} else {
			logger.Info("bars saved to %s", s.BarsPath)
		}
	}
	s.trySend(notifier.FormatReport(report))
	return report, nil
}

// Last returns the most recent successful report, or nil.
func (s *Scheduler) Last() *model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command, _ string) string {
	switch command {
	case "signal":
		// RunNow delivers the report, or the failure, itself.
		_, _ = s.RunNow()
		return ""
	case "last":
		if r := s.Last(); r != nil {
			return notifier.FormatReport(r)
		}
		return "No analysis has run yet."
	default:
		return "Commands:\n• /signal run the analysis now\n• /last show the latest report"
	}
}

func writeChart(path string, r *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.Render(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		logger.Error("send notification: %v", err)
	}
}
