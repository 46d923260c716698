package policy

import (
	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// RewardConfig folds an execution into scalar feedback. Both costs
// enter negatively, so better placements earn rewards closer to zero.
// With the default weights latency dominates and energy acts as a
// tiebreaker.
type RewardConfig struct {
	LatencyWeight float64 `json:"latency_weight"` // per millisecond
	EnergyWeight  float64 `json:"energy_weight"`  // per joule
}

// DefaultRewardConfig returns the calibrated cost weights
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		LatencyWeight: 1.0,
		EnergyWeight:  0.01,
	}
}

// Validate checks the weights are usable
func (r RewardConfig) Validate() error {
	var errors models.ValidationErrors

	errors.AddIf(r.LatencyWeight < 0, "latency_weight", r.LatencyWeight,
		"latency weight cannot be negative")
	errors.AddIf(r.EnergyWeight < 0, "energy_weight", r.EnergyWeight,
		"energy weight cannot be negative")
	errors.AddIf(r.LatencyWeight == 0 && r.EnergyWeight == 0, "latency_weight", r.LatencyWeight,
		"at least one cost weight must be positive")

	if errors.HasErrors() {
		return errors
	}
	return nil
}

// Reward scores one execution
func (r RewardConfig) Reward(exec models.Execution) float64 {
	return -(r.LatencyWeight*exec.LatencyMs + r.EnergyWeight*exec.EnergyJoules)
}
