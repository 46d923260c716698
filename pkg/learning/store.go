package learning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// ValueStore holds action-value estimates and learns them from
// one-step temporal-difference updates. Implementations are not safe
// for concurrent use; training is single-threaded.
type ValueStore interface {
	// Value returns the current estimate Q(state, action)
	Value(state models.State, action models.Action) float64

	// Update applies one TD step toward reward plus the discounted
	// best value of next, and returns the TD error
	Update(state models.State, action models.Action, reward float64, next models.State) float64

	// Save writes a snapshot to path
	Save(path string) error

	// Load restores a snapshot from path. It reports whether the
	// restore succeeded; on failure the store is left unchanged.
	Load(path string) bool

	// Kind returns the factory name of this store
	Kind() string
}

// Factory names for the store variants
const (
	StoreQTable = "qtable"
	StoreLinear = "linear"
)

// ErrUnknownStore marks a factory request for a name outside the
// variant set. Callers treat it as a fatal configuration error.
var ErrUnknownStore = errors.New("unknown value store")

// AvailableStores returns all valid factory names
func AvailableStores() []string {
	return []string{StoreQTable, StoreLinear}
}

// NewValueStore builds the named store variant. The seed only affects
// the linear store, whose weights start at small random values.
func NewValueStore(kind string, alpha, gamma float64, seed int64) (ValueStore, error) {
	switch strings.ToLower(kind) {
	case StoreQTable:
		return NewQTable(alpha, gamma), nil
	case StoreLinear:
		return NewLinearQ(alpha, gamma, seed), nil
	default:
		return nil, fmt.Errorf("%w '%s', available: %v",
			ErrUnknownStore, kind, AvailableStores())
	}
}

// BestValue returns the highest action value at state
func BestValue(store ValueStore, state models.State) float64 {
	best := store.Value(state, models.ACTION_EDGE)
	for _, action := range models.Actions()[1:] {
		if v := store.Value(state, action); v > best {
			best = v
		}
	}
	return best
}

func actionFromName(name string) (models.Action, bool) {
	for _, action := range models.Actions() {
		if action.String() == name {
			return action, true
		}
	}
	return models.ACTION_EDGE, false
}
