package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/internal/analysis"
	"github.com/latencylab/edge-placement-rl/internal/artifacts"
	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/pkg/policy"
	"github.com/latencylab/edge-placement-rl/pkg/workload"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (placement.yaml is searched when empty)")
		episodes   = flag.Int("episodes", 0, "Override training.episodes")
		tasks      = flag.Int("tasks", 0, "Override training.tasks_per_episode")
		store      = flag.String("store", "", "Override training.store (qtable or linear)")
		simName    = flag.String("simulator", "", "Override training.simulator (simple, 5g, simu5g)")
		seed       = flag.Int64("seed", 0, "Override training.seed")
		outDir     = flag.String("out", "", "Output directory (default <run.output_dir>/train)")
		upload     = flag.Bool("upload", false, "Push artifacts to the configured S3 bucket after training")
	)
	flag.Parse()

	boot := hclog.New(&hclog.LoggerOptions{Name: "trainer"})
	cfg, err := config.NewLoader(boot).Load(*configPath)
	if err != nil {
		boot.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags set on the command line win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			cfg.Training.Episodes = *episodes
		case "tasks":
			cfg.Training.TasksPerEpisode = *tasks
		case "store":
			cfg.Training.Store = *store
		case "simulator":
			cfg.Training.Simulator = *simName
		case "seed":
			cfg.Training.Seed = *seed
		}
	})

	logger := cfg.Log.NewLogger("trainer")

	dir := *outDir
	if dir == "" {
		dir = filepath.Join(cfg.Run.OutputDir, "train")
	}

	trainer, err := policy.NewTrainer(cfg.Training, workload.NewGenerator(cfg.Training.Seed), logger)
	if err != nil {
		logger.Error("failed to build trainer", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := trainer.Train(ctx)
	if err != nil {
		logger.Error("training aborted", "error", err)
		os.Exit(1)
	}

	if err := result.Store.Save(filepath.Join(dir, artifacts.StoreSnapshotFile)); err != nil {
		logger.Error("failed to snapshot value store", "error", err)
		os.Exit(1)
	}

	smoothed := analysis.NewRewardSmoother(analysis.DefaultSmoothingAlpha).Smooth(result.RewardHistory)
	if err := artifacts.WriteRewardHistory(filepath.Join(dir, artifacts.RewardHistoryFile), result.Episodes, smoothed); err != nil {
		logger.Error("failed to write reward history", "error", err)
		os.Exit(1)
	}

	curve := analysis.AnalyzeCurve(smoothed)

	runID := artifacts.NewRunID()
	avgLatency := artifacts.Round3(result.RecentMeanLatencyMs(10))
	manifest := artifacts.Manifest{
		RunID:        runID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Simulator:    cfg.Training.Simulator,
		Store:        cfg.Training.Store,
		Episodes:     cfg.Training.Episodes,
		Tasks:        cfg.Training.TasksPerEpisode,
		AvgLatencyMs: avgLatency,
		Region:       artifacts.ResolveRegion(cfg.Storage.S3.Region),
		S3Bucket:     cfg.Storage.S3.Bucket,
		S3Prefix:     path.Join(cfg.Storage.S3.Prefix, runID),
		Host:         artifacts.Hostname(),
	}
	if err := manifest.Write(filepath.Join(dir, artifacts.ManifestFile)); err != nil {
		logger.Error("failed to write manifest", "error", err)
		os.Exit(1)
	}

	if *upload && cfg.Storage.S3.Bucket == "" {
		logger.Error("upload requested but storage.s3.bucket is empty, artifacts stay local")
	} else if *upload {
		uploader, err := artifacts.NewUploader(ctx, cfg.Storage.S3.Bucket, cfg.Storage.S3.Region, logger.Named("s3"))
		if err != nil {
			logger.Error("uploader unavailable, artifacts stay local", "error", err)
		} else {
			names := []string{
				artifacts.StoreSnapshotFile,
				artifacts.RewardHistoryFile,
				artifacts.ManifestFile,
			}
			if n, err := uploader.UploadRun(ctx, dir, manifest.S3Prefix, names); err != nil {
				logger.Error("upload incomplete", "uploaded", n, "error", err)
			} else {
				logger.Info("artifacts uploaded", "bucket", uploader.Bucket(), "prefix", manifest.S3Prefix, "files", n)
			}
		}
	}

	logger.Info("artifacts written",
		"run_id", runID,
		"dir", dir,
		"final_mean_reward", result.RecentMeanReward(10),
		"final_mean_latency_ms", avgLatency,
		"converged_at_episode", curve.ConvergedAt,
		"reward_improved", curve.Improved,
	)
}
