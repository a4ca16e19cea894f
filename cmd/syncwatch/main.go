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

var configFile = flag.String("f", "etc/watchsync.yaml", "the config file")

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting watch-list sync...")

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

	summary, err := svcCtx.SyncEngine.Run(ctx)
	if err != nil {
		log.Fatalf("[main] Sync failed: %v", err)
	}
	log.Printf("[main] Sync finished: planned=%d applied=%d failed=%d",
		summary.Planned, summary.Applied, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
