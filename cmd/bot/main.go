package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ForexSentinel/internal/api"
	"ForexSentinel/internal/collector"
	"ForexSentinel/internal/config"
	"ForexSentinel/internal/notifier"
	"ForexSentinel/internal/recorder"
	"ForexSentinel/internal/scheduler"
	"ForexSentinel/internal/snapshot"
)

func newLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

func newRecorder(ctx context.Context, cfg *config.Config, logger zerolog.Logger) recorder.Recorder {
	switch cfg.Database.Driver {
	case "postgres":
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN, recorder.PoolConfigFromEnv(), logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init postgres recorder failed, using noop")
			return recorder.NewNoopRecorder()
		}
		return pr
	case "sqlite":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			return recorder.NewNoopRecorder()
		}
		return sr
	default:
		return recorder.NewNoopRecorder()
	}
}

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootstrap := newLogger("info", false)
		bootstrap.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}
	logger.Info().Int("symbols", len(cfg.Symbols)).Int("jobs", len(cfg.Schedule.Jobs)).Msg("ForexSentinel starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source selected")
	col := collector.NewCollector(fetcher, logger)

	// Init recorder
	rec := newRecorder(ctx, cfg, logger)

	store := snapshot.NewStore(0)

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.NotifierEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		n = tn
	} else {
		logger.Warn().Msg("telegram not configured, notifications disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cfg, col, n, rec, store, logger)
	if err := sched.RegisterAll(); err != nil {
		logger.Fatal().Err(err).Msg("register cron jobs")
	}
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	// Init read API
	srv := api.NewServer(cfg.API.Addr, store, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("api server stopped")
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing all jobs now")
		sched.TriggerRunAll()
	}

	logger.Info().Msg("ForexSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("api shutdown")
	}
	sched.Stop()
	if err := rec.Close(); err != nil {
		logger.Warn().Err(err).Msg("close recorder")
	}
	logger.Info().Msg("ForexSentinel stopped")
}
