package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evdnx/gomp/archive"
	"github.com/evdnx/gomp/config"
	"github.com/evdnx/gomp/engine"
	"github.com/evdnx/gomp/executor"
	"github.com/evdnx/gomp/feed"
	"github.com/evdnx/gomp/logger"
	"github.com/evdnx/gomp/recorder"
	"github.com/evdnx/gomp/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	lg.Info("gomp_starting", logger.String("config", cfgPath))

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			lg.Warn("sqlite_recorder_unavailable", logger.Err(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var arch *archive.Archiver
	if cfg.Archive.Dir != "" {
		arch, err = archive.NewArchiver(cfg.Archive.Dir)
		if err != nil {
			lg.Warn("archive_unavailable", logger.Err(err))
		}
	}

	src, err := newSource(cfg, lg)
	if err != nil {
		log.Fatalf("init feed: %v", err)
	}
	defer src.Close()

	exec := executor.NewPaperExecutor(cfg.Equity, lg)

	eng, err := engine.New(cfg, src, exec, rec, arch, lg)
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	sched := scheduler.New(eng, lg)
	if err := sched.RegisterAll(cfg.Schedule.ProfileCron, cfg.Schedule.PairCron, cfg.Schedule.ArchiveCron); err != nil {
		log.Fatalf("register cron jobs: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				lg.Error("metrics_server_error", logger.Err(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		lg.Info("shutdown_signal")
		cancel()
	}()

	if err := eng.Run(ctx); err != nil && err != context.Canceled {
		lg.Error("engine_stopped", logger.Err(err))
	}

	// Final snapshots so a replay run leaves its results behind.
	eng.SnapshotProfiles()
	eng.SnapshotPairs()
	eng.FlushArchive()
	lg.Info("gomp_stopped")
}

func newLogger(cfg *config.EngineConfig) (logger.Logger, error) {
	if cfg.Logging.File != "" {
		return logger.NewRotatingLogger(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}
	return logger.NewZapLogger()
}

func newSource(cfg *config.EngineConfig, lg logger.Logger) (feed.Source, error) {
	if cfg.Feed.Kind == "binance" {
		return feed.NewBinanceSource(cfg.Symbols, cfg.Feed.Interval, lg)
	}
	return feed.NewReplaySource(cfg.Feed.ReplayDir, cfg.Symbols)
}
