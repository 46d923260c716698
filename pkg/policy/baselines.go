package policy

import (
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/learning"
	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Policy names used in comparisons and persisted records
const (
	PolicyRandom = "random"
	PolicyRule   = "rule"
	PolicyRL     = "rl"
)

// PlacementPolicy chooses a tier for a task given the raw load
// accumulators in MB. Implementations do not mutate node state.
type PlacementPolicy interface {
	Name() string
	Place(task models.Task, edgeLoadMB, cloudLoadMB float64) models.Action
}

// RandomPolicy flips a fair coin per task. It anchors the bottom of
// every comparison.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates a seeded coin-flip policy
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// Name returns the policy name
func (p *RandomPolicy) Name() string {
	return PolicyRandom
}

// Place picks a uniformly random tier
func (p *RandomPolicy) Place(task models.Task, edgeLoadMB, cloudLoadMB float64) models.Action {
	actions := models.Actions()
	return actions[p.rng.Intn(len(actions))]
}

// RulePolicy is a static heuristic: small or high-priority tasks run
// at the edge for low network latency, everything else goes to the
// cloud for capacity.
type RulePolicy struct {
	SizeThresholdMB float64
}

// NewRulePolicy creates the heuristic with its calibrated threshold
func NewRulePolicy() *RulePolicy {
	return &RulePolicy{SizeThresholdMB: DefaultSizeSmallMaxMB}
}

// Name returns the policy name
func (p *RulePolicy) Name() string {
	return PolicyRule
}

// Place applies the size and priority rule
func (p *RulePolicy) Place(task models.Task, edgeLoadMB, cloudLoadMB float64) models.Action {
	if task.SizeMB < p.SizeThresholdMB || task.Priority == models.HIGH {
		return models.ACTION_EDGE
	}
	return models.ACTION_CLOUD
}

// GreedyPolicy exploits a trained value store with no exploration
type GreedyPolicy struct {
	store   learning.ValueStore
	builder StateBuilder
}

// NewGreedyPolicy wraps a trained store and the state builder it was
// trained with
func NewGreedyPolicy(store learning.ValueStore, builder StateBuilder) *GreedyPolicy {
	return &GreedyPolicy{store: store, builder: builder}
}

// Name returns the policy name
func (p *GreedyPolicy) Name() string {
	return PolicyRL
}

// Place returns the argmax placement for the derived state
func (p *GreedyPolicy) Place(task models.Task, edgeLoadMB, cloudLoadMB float64) models.Action {
	return GreedyAction(p.store, p.builder.State(task, edgeLoadMB, cloudLoadMB))
}
