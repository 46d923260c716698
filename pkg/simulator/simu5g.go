package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// DefaultSimu5GEndpoint is the address a co-deployed Simu5G bridge
// listens on
const DefaultSimu5GEndpoint = "localhost:5555"

// Response shape of the synthesized bridge, in milliseconds
const (
	simu5gBaseEdgeMs     = 4.5
	simu5gBaseCloudMs    = 22.0
	simu5gLoadPenaltyMs  = 25.0
	simu5gNoiseSpreadMs  = 1.5
	simu5gSizeFactorMs   = 0.5
	simu5gMinLatencyMs   = 1.0
	simu5gRoundTripDelay = 500 * time.Microsecond
)

// Simu5GAdapter stands in for a live Simu5G deployment. It keeps the
// endpoint and call shape of the real bridge but performs no network
// I/O; samples are synthesized with the distribution the bridge
// reports, optionally padded with a round-trip delay.
type Simu5GAdapter struct {
	endpoint      string
	simulateDelay bool
	rng           *rand.Rand
}

// NewSimu5GAdapter creates an adapter against the default endpoint
// with the round-trip delay enabled
func NewSimu5GAdapter(seed int64) *Simu5GAdapter {
	return NewSimu5GAdapterAt(DefaultSimu5GEndpoint, true, seed)
}

// NewSimu5GAdapterAt creates an adapter against a specific endpoint.
// Disabling simulateDelay keeps tight loops fast.
func NewSimu5GAdapterAt(endpoint string, simulateDelay bool, seed int64) *Simu5GAdapter {
	return &Simu5GAdapter{
		endpoint:      endpoint,
		simulateDelay: simulateDelay,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Endpoint returns the configured bridge address
func (a *Simu5GAdapter) Endpoint() string {
	return a.endpoint
}

// Name returns the factory name of this variant
func (a *Simu5GAdapter) Name() string {
	return SimulatorSimu5G
}

// LatencyMs synthesizes one bridge response in milliseconds
func (a *Simu5GAdapter) LatencyMs(node models.NodeType, taskSizeMB, nodeLoad float64) float64 {
	if a.simulateDelay {
		time.Sleep(simu5gRoundTripDelay)
	}

	base := simu5gBaseEdgeMs
	if node == models.CLOUD {
		base = simu5gBaseCloudMs
	}

	penalty := simu5gLoadPenaltyMs * clampLoad(nodeLoad)
	noise := uniform(a.rng, -simu5gNoiseSpreadMs, simu5gNoiseSpreadMs)
	sizeEffect := simu5gSizeFactorMs * math.Sqrt(math.Max(taskSizeMB, 0.0))

	return math.Max(simu5gMinLatencyMs, base+penalty+noise+sizeEffect)
}

// Latency implements models.LatencySource, returning seconds
func (a *Simu5GAdapter) Latency(node models.NodeType, app models.AppType, taskSizeMB, nodeLoad float64) (float64, error) {
	return a.LatencyMs(node, taskSizeMB, nodeLoad) / 1000.0, nil
}
