package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"yieldscan-api/internal/cli"
	"yieldscan-api/internal/config"
	"yieldscan-api/internal/svc"
	"yieldscan-api/pkg/yields"
)

const shutdownTimeout = 10 * time.Second

var configFile = flag.String("f", "etc/yieldscan.yaml", "the config file")

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting yield refresh loop...")

	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}

	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	serviceCtx := svc.NewServiceContext(*appCfg)

	interval := time.Duration(appCfg.Refresh.IntervalSeconds) * time.Second
	runTimeout := time.Duration(appCfg.Refresh.TimeoutSeconds) * time.Second
	log.Printf("  - Refresh interval: %s, run timeout: %s", interval, runTimeout)
	log.Printf("  - Adapters: %d configured", len(serviceCtx.Engine.Adapters()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runRefreshLoop(ctx, serviceCtx, interval, runTimeout)
	}()

	log.Println("[main] Refresh loop started. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] Stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}
}

// runRefreshLoop runs the aggregation pipeline on a fixed schedule and
// publishes each snapshot. The first run fires immediately so the API has
// data as soon as the process is up.
func runRefreshLoop(ctx context.Context, serviceCtx *svc.ServiceContext, interval, runTimeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refreshOnce(ctx, serviceCtx, runTimeout)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshOnce(ctx, serviceCtx, runTimeout)
		}
	}
}

func refreshOnce(ctx context.Context, serviceCtx *svc.ServiceContext, runTimeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	acquired, err := serviceCtx.Cache.TryRefreshLock(runCtx)
	if err != nil {
		log.Printf("[refresh] lock error: %v", err)
		return
	}
	if !acquired {
		log.Println("[refresh] another refresher holds the lock, skipping run")
		return
	}
	defer serviceCtx.Cache.ReleaseRefreshLock(context.WithoutCancel(runCtx))

	started := time.Now()
	result := serviceCtx.Engine.Aggregate(runCtx)

	classification := yields.Classify(result.Errors)
	log.Printf("[refresh] run complete: %d records, %d critical, %d warnings in %s",
		len(result.Records), len(classification.Critical), len(classification.Warnings),
		time.Since(started).Round(time.Millisecond))

	if err := serviceCtx.Cache.SaveResult(runCtx, result); err != nil {
		log.Printf("[refresh] snapshot write failed: %v", err)
	}

	probeAvailability(runCtx, serviceCtx)
}

// probeAvailability records the advisory availability of every adapter that
// exposes a probe. Failures only affect the published map, never the run.
func probeAvailability(ctx context.Context, serviceCtx *svc.ServiceContext) {
	availability := make(map[string]bool)
	for _, adapter := range serviceCtx.Engine.Adapters() {
		checker, ok := adapter.(yields.HealthChecker)
		if !ok {
			continue
		}
		availability[string(adapter.Provider())] = checker.Available(ctx)
	}
	if len(availability) == 0 {
		return
	}
	if err := serviceCtx.Cache.SaveAvailability(ctx, availability); err != nil {
		log.Printf("[refresh] availability write failed: %v", err)
	}
}
