package policy

import (
	"math"
	"testing"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

func TestRewardConfig_Reward(t *testing.T) {
	reward := DefaultRewardConfig()

	exec := models.Execution{LatencyMs: 30.0, EnergyJoules: 50.0}
	got := reward.Reward(exec)
	expected := -(1.0*30.0 + 0.01*50.0)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected reward %f, got %f", expected, got)
	}

	if got >= 0 {
		t.Errorf("Expected negative reward for positive costs, got %f", got)
	}
}

func TestRewardConfig_LowerCostEarnsHigherReward(t *testing.T) {
	reward := DefaultRewardConfig()

	fast := reward.Reward(models.Execution{LatencyMs: 10.0, EnergyJoules: 5.0})
	slow := reward.Reward(models.Execution{LatencyMs: 80.0, EnergyJoules: 5.0})

	if fast <= slow {
		t.Errorf("Expected faster execution to score higher, got %f <= %f", fast, slow)
	}
}

func TestRewardConfig_EnergyBreaksTies(t *testing.T) {
	reward := DefaultRewardConfig()

	lean := reward.Reward(models.Execution{LatencyMs: 20.0, EnergyJoules: 10.0})
	hungry := reward.Reward(models.Execution{LatencyMs: 20.0, EnergyJoules: 100.0})

	if lean <= hungry {
		t.Errorf("Expected leaner execution to score higher, got %f <= %f", lean, hungry)
	}
}

func TestRewardConfig_Validate(t *testing.T) {
	if err := DefaultRewardConfig().Validate(); err != nil {
		t.Errorf("Expected default weights to validate, got %v", err)
	}

	bad := RewardConfig{LatencyWeight: -1.0, EnergyWeight: 0.01}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for negative latency weight, got nil")
	}

	zero := RewardConfig{}
	if err := zero.Validate(); err == nil {
		t.Error("Expected error for all-zero weights, got nil")
	}
}
