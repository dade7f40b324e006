package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketSignal/internal/collector"
	"MarketSignal/internal/config"
	"MarketSignal/internal/logger"
	"MarketSignal/internal/metrics"
	"MarketSignal/internal/notifier"
	"MarketSignal/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		_ = logger.Init("info")
		logger.Fatal("load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation: %v", err)
	}
	logger.Info("MarketSignal starting...")

	fetcher := newFetcher(cfg)
	logger.Info("data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Limit)
	col.Params = cfg.Indicators

	health := metrics.NewHealth()
	var srv *metrics.Server
	if cfg.Metrics.ListenAddr != "" {
		col.Metrics = metrics.New(nil)
		srv = metrics.NewServer(cfg.Metrics.ListenAddr, nil, health)
		srv.Start()
	}

	// Console always, Telegram when configured
	notifiers := notifier.Multi{notifier.NewConsoleNotifier(os.Stdout)}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			logger.Error("init telegram, continuing with console only: %v", err)
		} else {
			notifiers = append(notifiers, tn)
		}
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, notifiers)
	sched.Health = health
	sched.ChartPath = cfg.Output.ChartPath
	sched.BarsPath = cfg.Output.BarsPath

	if cfg.Schedule.Cron == "" {
		// One-shot mode
		_, err := sched.RunNow()
		shutdown(srv)
		if err != nil {
			logger.Fatal("analysis: %v", err)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.Fatal("register cron task: %v", err)
	}
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing analysis now")
		go sched.RunNow()
	}

	logger.Info("MarketSignal is running on %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping...")
	sched.Stop()
	shutdown(srv)
	logger.Info("MarketSignal stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "fmp":
		return collector.NewFMPFetcher(ds.BaseURL, ds.APIKey, ds.Interval, cfg.Proxy)
	case "file":
		return collector.NewFileFetcher(ds.Path)
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		f := collector.NewYahooFetcher(ds.Interval, cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f
	}
}

func shutdown(srv *metrics.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Warn("metrics server shutdown: %v", err)
	}
}
