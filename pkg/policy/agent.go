package policy

import (
	"math"
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/learning"
	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Agent selects placements with an epsilon-greedy rule over a value
// store. Exploration decays multiplicatively per episode down to a
// floor, so late training still probes occasionally.
type Agent struct {
	store        learning.ValueStore
	epsilon      float64
	epsilonMin   float64
	epsilonDecay float64
	rng          *rand.Rand
}

// NewAgent wraps a value store with an exploration schedule. The
// generator drives exploration draws and must be non-nil.
func NewAgent(store learning.ValueStore, epsilon, epsilonMin, epsilonDecay float64, rng *rand.Rand) *Agent {
	return &Agent{
		store:        store,
		epsilon:      epsilon,
		epsilonMin:   epsilonMin,
		epsilonDecay: epsilonDecay,
		rng:          rng,
	}
}

// SelectAction picks a placement, exploring with probability epsilon
// and exploiting the value store otherwise
func (a *Agent) SelectAction(state models.State) models.Action {
	if a.rng.Float64() < a.epsilon {
		actions := models.Actions()
		return actions[a.rng.Intn(len(actions))]
	}
	return a.Greedy(state)
}

// Greedy returns the best-valued placement without exploring. Ties
// break toward the edge, the cheaper tier on energy.
func (a *Agent) Greedy(state models.State) models.Action {
	return GreedyAction(a.store, state)
}

// DecayExploration shrinks epsilon toward its floor. Call once per
// episode.
func (a *Agent) DecayExploration() {
	a.epsilon = math.Max(a.epsilonMin, a.epsilon*a.epsilonDecay)
}

// Epsilon returns the current exploration probability
func (a *Agent) Epsilon() float64 {
	return a.epsilon
}

// Store returns the value store the agent learns into
func (a *Agent) Store() learning.ValueStore {
	return a.store
}

// GreedyAction returns the argmax placement for a state, edge on ties
func GreedyAction(store learning.ValueStore, state models.State) models.Action {
	if store.Value(state, models.ACTION_EDGE) >= store.Value(state, models.ACTION_CLOUD) {
		return models.ACTION_EDGE
	}
	return models.ACTION_CLOUD
}
