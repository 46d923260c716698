package main

import (
	"flag"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/pkg/workload"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (placement.yaml is searched when empty)")
		count      = flag.Int("count", 500, "Number of tasks to generate")
		timeline   = flag.Bool("timeline", false, "Emit Poisson arrival timestamps")
		rate       = flag.Float64("rate", 0, "Arrival rate in tasks/sec (default run.arrival_rate)")
		seed       = flag.Int64("seed", 0, "Override training.seed")
		out        = flag.String("out", "tasks.csv", "Output CSV path")
		bursts     = flag.Bool("bursts", false, "Layer flash-crowd bursts over the timeline")
		burstMult  = flag.Float64("burst-mult", 8.0, "Arrival rate multiplier inside a burst")
		burstQuiet = flag.Float64("burst-quiet", 60.0, "Mean quiet gap between bursts in seconds")
		burstDur   = flag.Float64("burst-dur", 8.0, "Burst window length in seconds")
	)
	flag.Parse()

	boot := hclog.New(&hclog.LoggerOptions{Name: "workload-gen"})
	if *count <= 0 {
		boot.Error("count must be positive", "count", *count)
		os.Exit(1)
	}
	cfg, err := config.NewLoader(boot).Load(*configPath)
	if err != nil {
		boot.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger("workload-gen")

	effectiveSeed := cfg.Training.Seed
	if *seed != 0 {
		effectiveSeed = *seed
	}
	arrivalRate := cfg.Run.ArrivalRate
	if *rate > 0 {
		arrivalRate = *rate
	}

	gen := workload.NewGenerator(effectiveSeed)

	if *timeline || *bursts {
		var entries []workload.Entry
		if *bursts {
			profile := workload.BurstProfile{
				RateMultiplier: *burstMult,
				MeanQuietSec:   *burstQuiet,
				DurationSec:    *burstDur,
			}
			entries, err = gen.BurstTimeline(0, *count, arrivalRate, profile)
			if err != nil {
				logger.Error("failed to generate burst timeline", "error", err)
				os.Exit(1)
			}
		} else {
			entries = gen.Timeline(0, *count, arrivalRate)
		}
		if err := workload.WriteTimelineCSV(*out, entries); err != nil {
			logger.Error("failed to write timeline", "error", err)
			os.Exit(1)
		}
		logger.Info("timeline written",
			"file", *out, "tasks", *count, "rate_per_sec", arrivalRate,
			"bursts", *bursts, "span_sec", entries[len(entries)-1].ArrivalSec)
		return
	}

	if err := workload.WriteTasksCSV(*out, gen.Batch(0, *count)); err != nil {
		logger.Error("failed to write batch", "error", err)
		os.Exit(1)
	}
	logger.Info("batch written", "file", *out, "tasks", *count, "seed", effectiveSeed)
}
