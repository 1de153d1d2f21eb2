package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ibl-data/courtsync/internal/api/rest"
	"github.com/ibl-data/courtsync/internal/config"
	"github.com/ibl-data/courtsync/internal/logging"
	"github.com/ibl-data/courtsync/internal/pipeline"
	"github.com/ibl-data/courtsync/internal/scheduler"
)

const (
	serviceName    = "courtsync"
	serviceVersion = "1.0.0"
)

func main() {
	once := flag.Bool("once", false, "Run a single synchronization and exit")
	averagesOnly := flag.Bool("averages-only", false, "Recalculate averages from persisted tables and exit (no scraping)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	log.Infof("Starting %s v%s - %s league sync", serviceName, serviceVersion, cfg.LeagueName)

	runner := pipeline.NewRunner(cfg, log)

	if *averagesOnly {
		if err := runner.CalculateAverages(); err != nil {
			log.Fatalf("Averages calculation failed: %v", err)
		}
		return
	}

	if *once {
		if err := runner.Run(context.Background()); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		return
	}

	// Scheduled mode: run immediately on startup, then daily per config,
	// serving the REST API in between.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runSync := func() {
		if err := runner.Run(ctx); err != nil {
			log.Errorf("Sync failed: %v", err)
		}
	}

	sched, err := scheduler.New(cfg.CronSchedule, log, runSync)
	if err != nil {
		log.Fatalf("Invalid cron schedule %q: %v", cfg.CronSchedule, err)
	}

	go runSync()
	sched.Start()
	log.Infof("Next runs scheduled per %q", cfg.CronSchedule)

	restServer := rest.NewServer(cfg, log)
	go func() {
		log.Infof("REST API listening on %s", cfg.ListenAddr)
		if err := restServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infof("Shutting down %s gracefully...", serviceName)
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("REST server shutdown error: %v", err)
	}

	log.Infof("%s stopped", serviceName)
}
