package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/pkg/policy"
	"github.com/latencylab/edge-placement-rl/pkg/simulator"
	"github.com/latencylab/edge-placement-rl/pkg/workload"
)

func main() {
	fmt.Println("Edge Placement RL - Demo")
	fmt.Println("========================")

	// Small run so the demo finishes in seconds
	cfg := policy.DefaultTrainingConfig()
	cfg.Episodes = 50
	cfg.TasksPerEpisode = 100

	logger := hclog.New(&hclog.LoggerOptions{Name: "demo", Level: hclog.Warn})
	trainer, err := policy.NewTrainer(cfg, workload.NewGenerator(cfg.Seed), logger)
	if err != nil {
		fmt.Printf("Failed to initialize trainer: %v\n", err)
		return
	}
	fmt.Println("✓ Trainer initialized")
	fmt.Printf("  Simulator: %s, store: %s, seed: %d\n", cfg.Simulator, cfg.Store, cfg.Seed)

	start := time.Now()
	result, err := trainer.Train(context.Background())
	if err != nil {
		fmt.Printf("Training failed: %v\n", err)
		return
	}
	fmt.Printf("✓ Trained %d episodes in %v\n", cfg.Episodes, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Final mean reward:     %10.1f\n", result.RecentMeanReward(10))
	fmt.Printf("  Final mean latency:    %10.1f ms\n", result.RecentMeanLatencyMs(10))
	fmt.Printf("  Final exploration:     %10.3f\n", trainer.Agent().Epsilon())

	// Show what the trained policy does with fresh tasks
	greedy := policy.NewGreedyPolicy(result.Store, cfg.States)
	fmt.Println("\nSample greedy placements on idle nodes:")
	for _, task := range workload.NewGenerator(cfg.Seed + 1).Batch(0, 5) {
		fmt.Printf("  %-46s -> %s\n", task, greedy.Place(task, 0, 0))
	}

	// Compare against the baselines on a held-out batch
	evalTasks := workload.NewGenerator(cfg.Seed + 2).Batch(0, 100)
	policies := []policy.PlacementPolicy{
		greedy,
		policy.NewRulePolicy(),
		policy.NewRandomPolicy(cfg.Seed),
	}

	fmt.Printf("\nComparison over %d held-out tasks:\n", len(evalTasks))
	for _, pol := range policies {
		sim, err := simulator.New(cfg.Simulator, cfg.Seed)
		if err != nil {
			fmt.Printf("Failed to build simulator: %v\n", err)
			return
		}
		edge, cloud := policy.NodePair(cfg.EdgeCapacityMbps, cfg.CloudCapacityMbps)
		res := policy.Evaluate(pol, evalTasks, edge, cloud, sim, nil)
		fmt.Printf("  %-6s  mean latency %9.1f ms   energy %8.1f J   edge share %4.0f%%\n",
			res.Policy, res.MeanLatencyMs(), res.MeanEnergyJoules(),
			float64(res.EdgeCount)/float64(len(res.Records))*100)
	}
}
