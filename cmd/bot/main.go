package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/config"
	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/notifier"
	"PortfolioPulse/internal/pricecache"
	"PortfolioPulse/internal/reconciler"
	"PortfolioPulse/internal/recorder"
	"PortfolioPulse/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PortfolioPulse starting...")

	// .env first so file-based secrets land in the environment
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	start, err := dates.Parse(cfg.Portfolio.StartDate)
	if err != nil {
		log.Fatalf("[FATAL] portfolio.start_date: %v", err)
	}

	store := pricecache.NewStore(cfg.Cache.File)
	fetcher := collector.NewFMPFetcher(cfg.FMP.BaseURL, cfg.FMP.APIKey, cfg.Proxy)
	log.Printf("[INFO] price source: %s", fetcher.Name())

	rec := reconciler.New(store, fetcher, cfg.Portfolio.Tickers, start)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, cfg.Proxy)

	var hist recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			hist = recorder.NewNoopRecorder()
		} else {
			hist = sr
			defer sr.Close()
		}
	} else {
		hist = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, rec, tn, hist, cfg.Portfolio.LedgerFile)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunNow()
	}

	log.Println("[INFO] PortfolioPulse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PortfolioPulse stopped")
}
