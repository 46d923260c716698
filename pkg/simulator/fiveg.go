package simulator

import (
	"math"
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// FiveGConfig parameterizes the physical-effects channel model
type FiveGConfig struct {
	// Base network latency per tier
	BaseEdgeMs  float64 `json:"base_edge_ms"`
	BaseCloudMs float64 `json:"base_cloud_ms"`

	// Congestion and backbone
	LoadFactorMs  float64 `json:"load_factor_ms"`  // added at full load
	BackboneMinMs float64 `json:"backbone_min_ms"` // cloud backbone hop, lower bound
	BackboneMaxMs float64 `json:"backbone_max_ms"` // cloud backbone hop, upper bound

	// Radio channel effects
	FadingScale           float64 `json:"fading_scale"`            // rayleigh scale of the channel fade
	InterferenceProb      float64 `json:"interference_prob"`       // burst probability on an idle node
	InterferenceLoadBoost float64 `json:"interference_load_boost"` // extra burst probability at full load
	InterferenceMinMs     float64 `json:"interference_min_ms"`
	InterferenceMaxMs     float64 `json:"interference_max_ms"`

	// Transmission
	TransmitFactorMs     float64 `json:"transmit_factor_ms"`    // per-MB cost on an idle channel
	BandwidthDegradation float64 `json:"bandwidth_degradation"` // channel share lost at full load
	MinBandwidthShare    float64 `json:"min_bandwidth_share"`   // floor on the remaining share

	MinLatencyMs float64 `json:"min_latency_ms"` // positivity clamp
}

// DefaultFiveGConfig returns parameters calibrated against the simple
// analytic model so both variants rank placements the same way
func DefaultFiveGConfig() FiveGConfig {
	return FiveGConfig{
		BaseEdgeMs:            5.0,
		BaseCloudMs:           25.0,
		LoadFactorMs:          20.0,
		BackboneMinMs:         10.0,
		BackboneMaxMs:         30.0,
		FadingScale:           0.25,
		InterferenceProb:      0.05,
		InterferenceLoadBoost: 0.20,
		InterferenceMinMs:     5.0,
		InterferenceMaxMs:     20.0,
		TransmitFactorMs:      1.2,
		BandwidthDegradation:  0.5,
		MinBandwidthShare:     0.1,
		MinLatencyMs:          1.0,
	}
}

// FiveGSimulator layers physical channel effects over the analytic
// base model: Rayleigh fading on the radio leg, interference bursts
// whose probability grows with node load, bandwidth degradation that
// stretches transmission time on busy nodes, and per-application
// jitter bands.
type FiveGSimulator struct {
	config FiveGConfig
	rng    *rand.Rand
}

// NewFiveGSimulator creates a simulator with default parameters
func NewFiveGSimulator(seed int64) *FiveGSimulator {
	return NewFiveGSimulatorWithConfig(DefaultFiveGConfig(), seed)
}

// NewFiveGSimulatorWithConfig creates a simulator with custom parameters
func NewFiveGSimulatorWithConfig(config FiveGConfig, seed int64) *FiveGSimulator {
	return &FiveGSimulator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Name returns the factory name of this variant
func (s *FiveGSimulator) Name() string {
	return SimulatorFiveG
}

// LatencyMs samples one network latency in milliseconds
func (s *FiveGSimulator) LatencyMs(node models.NodeType, app models.AppType, taskSizeMB, nodeLoad float64) float64 {
	nodeLoad = clampLoad(nodeLoad)

	base := s.config.BaseEdgeMs
	if node == models.CLOUD {
		base = s.config.BaseCloudMs + uniform(s.rng, s.config.BackboneMinMs, s.config.BackboneMaxMs)
	}

	// Rayleigh fade stretches the radio leg. Inverse transform of the
	// Rayleigh CDF keeps the factor nonnegative.
	fade := s.config.FadingScale * math.Sqrt(-2.0*math.Log(1.0-s.rng.Float64()))
	radio := base * (1.0 + fade)

	congestion := nodeLoad * s.config.LoadFactorMs

	// Transmission slows as the channel share shrinks under load
	share := math.Max(s.config.MinBandwidthShare, 1.0-s.config.BandwidthDegradation*nodeLoad)
	transmit := s.config.TransmitFactorMs * math.Max(taskSizeMB, 0.0) / share

	burst := 0.0
	if s.rng.Float64() < s.config.InterferenceProb+s.config.InterferenceLoadBoost*nodeLoad {
		burst = uniform(s.rng, s.config.InterferenceMinMs, s.config.InterferenceMaxMs)
	}

	jitter := appJitterSeconds(s.rng, app) * 1000.0

	return math.Max(s.config.MinLatencyMs, radio+congestion+transmit+burst+jitter)
}

// Latency implements models.LatencySource, returning seconds
func (s *FiveGSimulator) Latency(node models.NodeType, app models.AppType, taskSizeMB, nodeLoad float64) (float64, error) {
	return s.LatencyMs(node, app, taskSizeMB, nodeLoad) / 1000.0, nil
}
