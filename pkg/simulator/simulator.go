package simulator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Simulator produces stochastic network latency samples for placement
// queries. Every variant keeps edge base latency below cloud base
// latency, grows latency in expectation with load and task size, and
// clamps samples to a strictly positive minimum.
type Simulator interface {
	models.LatencySource
	Name() string
}

// Factory names for the closed variant set
const (
	SimulatorSimple = "simple"
	SimulatorFiveG  = "5g"
	SimulatorSimu5G = "simu5g"
)

// ErrUnknownSimulator marks a factory request for a name outside the
// variant set. Callers treat it as a fatal configuration error.
var ErrUnknownSimulator = errors.New("unknown simulator")

// AvailableSimulators returns all valid factory names
func AvailableSimulators() []string {
	return []string{SimulatorSimple, SimulatorFiveG, SimulatorSimu5G}
}

// New builds the named simulator variant, seeded so a run is
// reproducible. The name is matched case-insensitively.
func New(name string, seed int64) (Simulator, error) {
	switch strings.ToLower(name) {
	case SimulatorSimple:
		return NewSimpleSimulator(seed), nil
	case SimulatorFiveG:
		return NewFiveGSimulator(seed), nil
	case SimulatorSimu5G:
		return NewSimu5GAdapter(seed), nil
	default:
		return nil, fmt.Errorf("%w '%s', available: %v",
			ErrUnknownSimulator, name, AvailableSimulators())
	}
}

// appJitterSeconds samples the per-application jitter band in seconds.
// AR/VR streams see the widest band, IoT telemetry the narrowest.
func appJitterSeconds(rng *rand.Rand, app models.AppType) float64 {
	switch app {
	case models.IOT:
		return uniform(rng, 0.0001, 0.0005)
	case models.ARVR:
		return uniform(rng, 0.001, 0.002)
	case models.VANET:
		return uniform(rng, 0.0005, 0.001)
	default:
		return uniform(rng, 0.0001, 0.001)
	}
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// clampLoad bounds a normalized load into [0,1]
func clampLoad(load float64) float64 {
	if load < 0 {
		return 0.0
	}
	if load > 1 {
		return 1.0
	}
	return load
}
