package artifacts

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/latencylab/edge-placement-rl/pkg/policy"
)

// WriteRewardHistory stores a run's learning curve alongside its
// smoothed counterpart. The smoothed slice must align with episodes.
func WriteRewardHistory(path string, episodes []policy.EpisodeStats, smoothed []float64) error {
	if len(smoothed) != len(episodes) {
		return fmt.Errorf("smoothed curve has %d points, expected %d", len(smoothed), len(episodes))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"episode", "total_reward", "smoothed_reward",
		"mean_latency_ms", "mean_energy_joules", "epsilon", "degraded_samples"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, stats := range episodes {
		row := []string{
			strconv.Itoa(stats.Episode),
			strconv.FormatFloat(stats.TotalReward, 'f', 3, 64),
			strconv.FormatFloat(smoothed[i], 'f', 3, 64),
			strconv.FormatFloat(stats.MeanLatencyMs, 'f', 3, 64),
			strconv.FormatFloat(stats.MeanEnergyJoules, 'f', 3, 64),
			strconv.FormatFloat(stats.Epsilon, 'f', 4, 64),
			strconv.Itoa(stats.DegradedSamples),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write episode %d: %w", stats.Episode, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
