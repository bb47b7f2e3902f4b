package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tellocheck/internal/config"
	"tellocheck/internal/diagnose"
	"tellocheck/internal/monitor"
	"tellocheck/internal/report"
	"tellocheck/internal/server"
	"tellocheck/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		watch      = flag.Bool("watch", false, "re-run the check periodically and serve results over HTTP")
		addr       = flag.String("addr", ":8080", "address for the watch-mode web server")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	runner := diagnose.NewRunner(cfg)

	if !*watch {
		snap := runner.Run(context.Background())
		text, code := report.Render(snap)
		fmt.Print(text)
		os.Exit(code)
	}

	historyPath := filepath.Join(cfg.DataDirectory, "snapshot_history.json")
	store, err := storage.NewSnapshotStorage(historyPath)
	if err != nil {
		log.Fatalf("initialise storage: %v", err)
	}

	mon := monitor.New(time.Duration(cfg.Watch.IntervalSeconds)*time.Second, runner.Run, store)
	mon.Start()
	defer mon.Stop()

	srv := server.New(*addr, mon, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("tellocheck watching on %s (interval %d seconds)", *addr, cfg.Watch.IntervalSeconds)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
