package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"watchsync-api/internal/cli"
	"watchsync-api/internal/config"
	"watchsync-api/internal/svc"
)

var (
	configFile = flag.String("f", "etc/watchsync.yaml", "the config file")
	interval   = flag.String("interval", "", "bar interval, defaults to the configured collect interval")
	lookback   = flag.Int("lookback", 0, "bars per symbol, defaults to the configured collect lookback")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting OHLC collection...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcCtx, err := svc.NewServiceContext(*cfg)
	if err != nil {
		log.Fatalf("[main] Failed to build service context: %v", err)
	}
	if svcCtx.Collector == nil {
		log.Fatalf("[main] No providers configured; set Providers.File in %s", *configFile)
	}

	barInterval := cfg.Collect.Interval
	if *interval != "" {
		barInterval = *interval
	}
	bars := cfg.Collect.Lookback
	if *lookback > 0 {
		bars = *lookback
	}

	summary, err := svcCtx.Collector.Run(ctx, barInterval, bars)
	if err != nil {
		log.Fatalf("[main] Collection failed: %v", err)
	}
	log.Printf("[main] Collection finished: symbols=%d stored=%d exhausted=%d skipped=%d failed=%d",
		summary.Symbols, summary.Stored, summary.Exhausted, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
