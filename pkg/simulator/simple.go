package simulator

import (
	"math"
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// SimpleConfig holds the analytic latency model parameters
type SimpleConfig struct {
	// Base network latency per tier
	BaseEdgeMs  float64 `json:"base_edge_ms"`  // local radio hop
	BaseCloudMs float64 `json:"base_cloud_ms"` // radio hop plus core network

	// Additive effects
	LoadFactorMs  float64 `json:"load_factor_ms"`  // added at full load
	SizeFactorMs  float64 `json:"size_factor_ms"`  // scales log(size+1)
	BackboneMinMs float64 `json:"backbone_min_ms"` // cloud backbone hop, lower bound
	BackboneMaxMs float64 `json:"backbone_max_ms"` // cloud backbone hop, upper bound
	NoiseStdMs    float64 `json:"noise_std_ms"`    // gaussian channel noise

	MinLatencyMs float64 `json:"min_latency_ms"` // positivity clamp
}

// DefaultSimpleConfig returns parameters tuned so edge placements beat
// cloud placements on network latency at comparable load
func DefaultSimpleConfig() SimpleConfig {
	return SimpleConfig{
		BaseEdgeMs:    5.0,
		BaseCloudMs:   25.0,
		LoadFactorMs:  20.0,
		SizeFactorMs:  0.6,
		BackboneMinMs: 10.0,
		BackboneMaxMs: 30.0,
		NoiseStdMs:    2.0,
		MinLatencyMs:  1.0,
	}
}

// SimpleSimulator approximates 5G network behavior with a closed-form
// model: a per-tier base, a linear congestion term, a logarithmic task
// size term, and Gaussian channel noise. Cloud samples add a uniform
// backbone hop on top of the higher base.
type SimpleSimulator struct {
	config SimpleConfig
	rng    *rand.Rand
}

// NewSimpleSimulator creates a simulator with default parameters
func NewSimpleSimulator(seed int64) *SimpleSimulator {
	return NewSimpleSimulatorWithConfig(DefaultSimpleConfig(), seed)
}

// NewSimpleSimulatorWithConfig creates a simulator with custom parameters
func NewSimpleSimulatorWithConfig(config SimpleConfig, seed int64) *SimpleSimulator {
	return &SimpleSimulator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Name returns the factory name of this variant
func (s *SimpleSimulator) Name() string {
	return SimulatorSimple
}

// LatencyMs samples one network latency in milliseconds for a task of
// the given size placed on a node at the given normalized load
func (s *SimpleSimulator) LatencyMs(node models.NodeType, taskSizeMB, nodeLoad float64) float64 {
	nodeLoad = clampLoad(nodeLoad)

	congestion := nodeLoad * s.config.LoadFactorMs
	sizeJitter := s.config.SizeFactorMs * math.Log(math.Max(taskSizeMB, 0.0)+1.0)
	noise := s.rng.NormFloat64() * s.config.NoiseStdMs

	total := s.config.BaseEdgeMs + congestion + sizeJitter + noise
	if node == models.CLOUD {
		backbone := uniform(s.rng, s.config.BackboneMinMs, s.config.BackboneMaxMs)
		total = s.config.BaseCloudMs + backbone + congestion + sizeJitter + noise
	}

	return math.Max(s.config.MinLatencyMs, total)
}

// Latency implements models.LatencySource, returning seconds. The
// application type does not change the closed-form model.
func (s *SimpleSimulator) Latency(node models.NodeType, app models.AppType, taskSizeMB, nodeLoad float64) (float64, error) {
	return s.LatencyMs(node, taskSizeMB, nodeLoad) / 1000.0, nil
}
