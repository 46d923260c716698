package policy

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	"gonum.org/v1/gonum/stat"

	"github.com/latencylab/edge-placement-rl/pkg/learning"
	"github.com/latencylab/edge-placement-rl/pkg/models"
	"github.com/latencylab/edge-placement-rl/pkg/simulator"
)

// TrainingConfig holds every knob of an episodic training run
type TrainingConfig struct {
	// Run shape
	Episodes        int `json:"episodes"`
	TasksPerEpisode int `json:"tasks_per_episode"`

	// Value store hyperparameters
	Store string  `json:"store"` // qtable or linear
	Alpha float64 `json:"alpha"` // learning rate
	Gamma float64 `json:"gamma"` // discount factor

	// Exploration schedule
	Epsilon      float64 `json:"epsilon"`       // initial exploration probability
	EpsilonDecay float64 `json:"epsilon_decay"` // multiplier per episode
	EpsilonMin   float64 `json:"epsilon_min"`   // exploration floor

	// Environment
	Simulator         string  `json:"simulator"`
	EdgeCapacityMbps  float64 `json:"edge_capacity_mbps"`
	CloudCapacityMbps float64 `json:"cloud_capacity_mbps"`

	Reward RewardConfig `json:"reward"`
	States StateBuilder `json:"states"`

	Seed     int64 `json:"seed"`
	LogEvery int   `json:"log_every"` // episodes between progress lines
}

// DefaultTrainingConfig returns the calibrated run shape
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Episodes:          200,
		TasksPerEpisode:   300,
		Store:             learning.StoreQTable,
		Alpha:             0.5,
		Gamma:             0.9,
		Epsilon:           0.3,
		EpsilonDecay:      0.99,
		EpsilonMin:        0.05,
		Simulator:         simulator.SimulatorSimple,
		EdgeCapacityMbps:  2.0,
		CloudCapacityMbps: 8.0,
		Reward:            DefaultRewardConfig(),
		States:            DefaultStateBuilder(),
		Seed:              42,
		LogEvery:          20,
	}
}

// Validate checks the numeric ranges. Store and simulator names are
// checked by their factories so unknown names surface as the factory
// sentinels.
func (c TrainingConfig) Validate() error {
	var errors models.ValidationErrors

	errors.AddIf(c.Episodes <= 0, "episodes", c.Episodes,
		"must be positive")
	errors.AddIf(c.TasksPerEpisode <= 0, "tasks_per_episode", c.TasksPerEpisode,
		"must be positive")
	errors.AddIf(c.Alpha <= 0 || c.Alpha > 1, "alpha", c.Alpha,
		"must be in (0, 1]")
	errors.AddIf(c.Gamma < 0 || c.Gamma >= 1, "gamma", c.Gamma,
		"must be in [0, 1)")
	errors.AddIf(c.Epsilon < 0 || c.Epsilon > 1, "epsilon", c.Epsilon,
		"must be in [0, 1]")
	errors.AddIf(c.EpsilonDecay <= 0 || c.EpsilonDecay > 1, "epsilon_decay", c.EpsilonDecay,
		"must be in (0, 1]")
	errors.AddIf(c.EpsilonMin < 0 || c.EpsilonMin > c.Epsilon, "epsilon_min", c.EpsilonMin,
		"must be in [0, epsilon]")
	errors.AddIf(c.EdgeCapacityMbps <= 0, "edge_capacity_mbps", c.EdgeCapacityMbps,
		"must be positive")
	errors.AddIf(c.CloudCapacityMbps <= 0, "cloud_capacity_mbps", c.CloudCapacityMbps,
		"must be positive")
	errors.AddIf(c.LogEvery <= 0, "log_every", c.LogEvery,
		"must be positive")

	if err := c.Reward.Validate(); err != nil {
		if verrs, ok := err.(models.ValidationErrors); ok {
			errors = append(errors, verrs...)
		}
	}
	if err := c.States.Validate(); err != nil {
		if verrs, ok := err.(models.ValidationErrors); ok {
			errors = append(errors, verrs...)
		}
	}

	if errors.HasErrors() {
		return errors
	}
	return nil
}

// Warnings returns non-fatal configuration concerns
func (c TrainingConfig) Warnings() []string {
	var warnings []string

	if c.Store == learning.StoreLinear && c.Alpha > 0.1 {
		warnings = append(warnings, fmt.Sprintf(
			"alpha %.2f is aggressive for the linear store and may diverge, consider 0.01", c.Alpha))
	}
	if c.Epsilon < 0.1 {
		warnings = append(warnings, fmt.Sprintf(
			"initial epsilon %.2f leaves little room for exploration", c.Epsilon))
	}

	return warnings
}

// TaskSampler produces the task stream for training. IDs increase
// monotonically across episodes.
type TaskSampler interface {
	Sample(id int) models.Task
}

// EpisodeStats summarizes one training episode. Epsilon is the value
// the episode ran with, captured before decay.
type EpisodeStats struct {
	Episode          int     `json:"episode"`
	TotalReward      float64 `json:"total_reward"`
	MeanLatencyMs    float64 `json:"mean_latency_ms"`
	MeanEnergyJoules float64 `json:"mean_energy_joules"`
	Epsilon          float64 `json:"epsilon"`
	DegradedSamples  int     `json:"degraded_samples"`
}

// TrainingResult carries the learning curve and the trained store
type TrainingResult struct {
	Config        TrainingConfig
	Store         learning.ValueStore
	RewardHistory []float64
	Episodes      []EpisodeStats
	Duration      time.Duration
}

// RecentMeanReward averages the last n episode rewards
func (r *TrainingResult) RecentMeanReward(n int) float64 {
	return stat.Mean(lastN(r.RewardHistory, n), nil)
}

// RecentMeanLatencyMs averages the mean latency of the last n episodes
func (r *TrainingResult) RecentMeanLatencyMs(n int) float64 {
	latencies := make([]float64, 0, n)
	for _, stats := range r.Episodes {
		latencies = append(latencies, stats.MeanLatencyMs)
	}
	return stat.Mean(lastN(latencies, n), nil)
}

func lastN(values []float64, n int) []float64 {
	if len(values) == 0 {
		return []float64{0}
	}
	if n > len(values) {
		n = len(values)
	}
	return values[len(values)-n:]
}

// Trainer drives episodic Q-learning over the two-tier environment.
// It is single-threaded; one seed fixes the whole run.
type Trainer struct {
	config  TrainingConfig
	store   learning.ValueStore
	agent   *Agent
	sim     models.LatencySource
	sampler TaskSampler
	edge    *models.Node
	cloud   *models.Node
	logger  hclog.Logger
}

// NewTrainer builds a trainer with the simulator named in the config
func NewTrainer(config TrainingConfig, sampler TaskSampler, logger hclog.Logger) (*Trainer, error) {
	sim, err := simulator.New(config.Simulator, config.Seed)
	if err != nil {
		return nil, err
	}
	return NewTrainerWithSimulator(config, sampler, sim, logger)
}

// NewTrainerWithSimulator builds a trainer around an externally
// constructed latency source
func NewTrainerWithSimulator(config TrainingConfig, sampler TaskSampler, sim models.LatencySource, logger hclog.Logger) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sampler == nil {
		return nil, fmt.Errorf("task sampler is required")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	store, err := learning.NewValueStore(config.Store, config.Alpha, config.Gamma, config.Seed)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(config.Seed))
	trainer := &Trainer{
		config:  config,
		store:   store,
		agent:   NewAgent(store, config.Epsilon, config.EpsilonMin, config.EpsilonDecay, rng),
		sim:     sim,
		sampler: sampler,
		edge:    models.NewNode(0, models.EDGE, config.EdgeCapacityMbps),
		cloud:   models.NewNode(1, models.CLOUD, config.CloudCapacityMbps),
		logger:  logger,
	}

	for _, warning := range config.Warnings() {
		logger.Warn(warning)
	}
	return trainer, nil
}

// Agent returns the exploration policy driving the run
func (t *Trainer) Agent() *Agent {
	return t.agent
}

// Store returns the value store being trained
func (t *Trainer) Store() learning.ValueStore {
	return t.store
}

// Train runs the configured number of episodes and returns the
// learning curve along with the trained store. Node loads reset at
// every episode boundary. Cancelling the context stops the run at the
// next boundary and returns the partial result with the context error.
func (t *Trainer) Train(ctx context.Context) (*TrainingResult, error) {
	start := time.Now()
	t.logger.Info("starting training",
		"episodes", t.config.Episodes,
		"tasks_per_episode", t.config.TasksPerEpisode,
		"store", t.store.Kind(),
		"simulator", t.config.Simulator,
		"epsilon", t.agent.Epsilon(),
	)

	result := &TrainingResult{
		Config:        t.config,
		Store:         t.store,
		RewardHistory: make([]float64, 0, t.config.Episodes),
		Episodes:      make([]EpisodeStats, 0, t.config.Episodes),
	}

	taskID := 0
	for episode := 0; episode < t.config.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("training interrupted", "episode", episode)
			result.Duration = time.Since(start)
			return result, err
		}

		stats := t.runEpisode(episode, &taskID)
		result.RewardHistory = append(result.RewardHistory, stats.TotalReward)
		result.Episodes = append(result.Episodes, stats)
		t.agent.DecayExploration()

		if (episode+1)%t.config.LogEvery == 0 {
			t.logger.Info("training progress",
				"episode", episode+1,
				"mean_reward", result.RecentMeanReward(t.config.LogEvery),
				"mean_latency_ms", result.RecentMeanLatencyMs(t.config.LogEvery),
				"epsilon", t.agent.Epsilon(),
			)
		}
	}

	result.Duration = time.Since(start)
	t.logger.Info("training complete",
		"episodes", t.config.Episodes,
		"duration", result.Duration,
		"final_mean_reward", result.RecentMeanReward(10),
		"final_mean_latency_ms", result.RecentMeanLatencyMs(10),
	)
	return result, nil
}

func (t *Trainer) runEpisode(episode int, taskID *int) EpisodeStats {
	t.edge.ResetLoad()
	t.cloud.ResetLoad()

	task := t.sampler.Sample(*taskID)
	*taskID++

	var totalReward, latencySum, energySum float64
	degraded := 0

	for i := 0; i < t.config.TasksPerEpisode; i++ {
		state := t.config.States.State(task, t.edge.CurrentLoad, t.cloud.CurrentLoad)
		action := t.agent.SelectAction(state)
		node := t.nodeFor(action)

		exec := node.Execute(task, t.sim)
		if exec.Degraded {
			degraded++
			t.logger.Debug("latency source failed, fallback applied",
				"task", task.ID, "node", node.Name)
		}
		reward := t.config.Reward.Reward(exec)

		next := t.sampler.Sample(*taskID)
		*taskID++
		nextState := t.config.States.State(next, t.edge.CurrentLoad, t.cloud.CurrentLoad)

		t.store.Update(state, action, reward, nextState)

		totalReward += reward
		latencySum += exec.LatencyMs
		energySum += exec.EnergyJoules
		task = next
	}

	if degraded > 0 {
		t.logger.Warn("episode ran with degraded latency samples",
			"episode", episode, "count", degraded)
	}

	tasks := float64(t.config.TasksPerEpisode)
	return EpisodeStats{
		Episode:          episode,
		TotalReward:      totalReward,
		MeanLatencyMs:    latencySum / tasks,
		MeanEnergyJoules: energySum / tasks,
		Epsilon:          t.agent.Epsilon(),
		DegradedSamples:  degraded,
	}
}

func (t *Trainer) nodeFor(action models.Action) *models.Node {
	if action == models.ACTION_CLOUD {
		return t.cloud
	}
	return t.edge
}
