package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/internal/artifacts"
	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/internal/database"
	"github.com/latencylab/edge-placement-rl/internal/experiment"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (placement.yaml is searched when empty)")
		dbPath     = flag.String("db", "", "Override storage.database_path")
		noUpload   = flag.Bool("no-upload", false, "Skip the S3 upload even when enabled in config")
	)
	flag.Parse()

	boot := hclog.New(&hclog.LoggerOptions{Name: "exp-runner"})
	cfg, err := config.NewLoader(boot).Load(*configPath)
	if err != nil {
		boot.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	if *noUpload {
		cfg.Storage.S3.Enabled = false
	}

	logger := cfg.Log.NewLogger("exp-runner")

	db, err := database.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open results database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	repo := database.NewRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// S3 problems downgrade to a local-only run rather than aborting
	var uploader *artifacts.Uploader
	if cfg.Storage.S3.Enabled {
		uploader, err = artifacts.NewUploader(ctx, cfg.Storage.S3.Bucket, cfg.Storage.S3.Region, logger.Named("s3"))
		if err != nil {
			logger.Warn("s3 client unavailable, run stays local", "error", err)
			uploader = nil
		}
	}

	runner := experiment.NewRunner(cfg, repo, uploader, logger)
	result, err := runner.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run finished",
		"run_id", result.RunID,
		"dir", result.Dir,
		"avg_latency_ms", result.Manifest.AvgLatencyMs,
	)
}
