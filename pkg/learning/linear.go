package learning

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Base features extracted per state, replicated into one block per
// action so a single weight vector can rank actions independently
const (
	baseFeatureDim = 4
	// FeatureDim is the length of the weight vector
	FeatureDim = baseFeatureDim * 2

	sizeFeatureScaleMB = 10.0
	weightInitSpread   = 0.1
)

// LinearQ approximates action values with a linear function over
// blocked state features. It generalizes across states the table
// never visits, at the cost of a much smaller stable learning rate
// than the tabular store.
type LinearQ struct {
	alpha        float64
	gamma        float64
	weights      []float64
	totalUpdates int
}

type linearSnapshot struct {
	Kind         string    `json:"kind"`
	Alpha        float64   `json:"alpha"`
	Gamma        float64   `json:"gamma"`
	TotalUpdates int       `json:"total_updates"`
	Weights      []float64 `json:"weights"`
}

// NewLinearQ creates a store with weights initialized to small random
// values drawn from the seeded generator
func NewLinearQ(alpha, gamma float64, seed int64) *LinearQ {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, FeatureDim)
	for i := range weights {
		weights[i] = (rng.Float64()*2.0 - 1.0) * weightInitSpread
	}
	return &LinearQ{
		alpha:   alpha,
		gamma:   gamma,
		weights: weights,
	}
}

// Kind returns the factory name of this store
func (l *LinearQ) Kind() string {
	return StoreLinear
}

// Features maps a state-action pair into the blocked feature vector.
// The action selects which block carries the state features; the
// other block stays zero.
func (l *LinearQ) Features(state models.State, action models.Action) []float64 {
	features := make([]float64, FeatureDim)
	offset := int(action) * baseFeatureDim
	features[offset] = state.EdgeLoad
	features[offset+1] = state.CloudLoad
	features[offset+2] = state.SizeMB / sizeFeatureScaleMB
	features[offset+3] = 1.0
	return features
}

// Value returns the dot product of the weights with the blocked
// features for this state-action pair
func (l *LinearQ) Value(state models.State, action models.Action) float64 {
	return floats.Dot(l.weights, l.Features(state, action))
}

// Update applies one semi-gradient TD step and returns the TD error
func (l *LinearQ) Update(state models.State, action models.Action, reward float64, next models.State) float64 {
	tdError := reward + l.gamma*BestValue(l, next) - l.Value(state, action)
	floats.AddScaled(l.weights, l.alpha*tdError, l.Features(state, action))
	l.totalUpdates++
	return tdError
}

// Weights returns a copy of the current weight vector
func (l *LinearQ) Weights() []float64 {
	weights := make([]float64, len(l.weights))
	copy(weights, l.weights)
	return weights
}

// TotalUpdates returns how many TD steps the store has absorbed
func (l *LinearQ) TotalUpdates() int {
	return l.totalUpdates
}

// Save writes the weights as indented JSON, creating parent
// directories as needed
func (l *LinearQ) Save(path string) error {
	snapshot := linearSnapshot{
		Kind:         l.Kind(),
		Alpha:        l.alpha,
		Gamma:        l.gamma,
		TotalUpdates: l.totalUpdates,
		Weights:      l.Weights(),
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode linear weights: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for linear weights: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write linear weights: %w", err)
	}
	return nil
}

// Load restores a snapshot written by Save. It reports whether the
// restore succeeded; the weights are only replaced on success.
func (l *LinearQ) Load(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var snapshot linearSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return false
	}
	if snapshot.Kind != "" && snapshot.Kind != l.Kind() {
		return false
	}
	if len(snapshot.Weights) != FeatureDim {
		return false
	}

	l.weights = snapshot.Weights
	l.totalUpdates = snapshot.TotalUpdates
	if snapshot.Alpha > 0 {
		l.alpha = snapshot.Alpha
	}
	if snapshot.Gamma > 0 {
		l.gamma = snapshot.Gamma
	}
	return true
}
