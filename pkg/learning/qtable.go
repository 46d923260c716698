package learning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// QTable is a tabular action-value store. Unseen state-action pairs
// read as zero, so the table only grows for states that training
// actually visits.
type QTable struct {
	alpha        float64
	gamma        float64
	values       map[string]map[models.Action]float64
	totalUpdates int
}

// qtableSnapshot is the on-disk layout, keyed by state key then
// action name so snapshots stay readable and diffable
type qtableSnapshot struct {
	Kind         string                        `json:"kind"`
	Alpha        float64                       `json:"alpha"`
	Gamma        float64                       `json:"gamma"`
	TotalUpdates int                           `json:"total_updates"`
	Values       map[string]map[string]float64 `json:"values"`
}

// NewQTable creates an empty table with the given learning rate and
// discount factor
func NewQTable(alpha, gamma float64) *QTable {
	return &QTable{
		alpha:  alpha,
		gamma:  gamma,
		values: make(map[string]map[models.Action]float64),
	}
}

// Kind returns the factory name of this store
func (q *QTable) Kind() string {
	return StoreQTable
}

// Value returns Q(state, action), zero for unseen pairs
func (q *QTable) Value(state models.State, action models.Action) float64 {
	return q.values[state.Key()][action]
}

// Update applies one Q-learning step and returns the TD error
func (q *QTable) Update(state models.State, action models.Action, reward float64, next models.State) float64 {
	current := q.Value(state, action)
	tdError := reward + q.gamma*BestValue(q, next) - current

	key := state.Key()
	row, ok := q.values[key]
	if !ok {
		row = make(map[models.Action]float64, len(models.Actions()))
		q.values[key] = row
	}
	row[action] = current + q.alpha*tdError
	q.totalUpdates++

	return tdError
}

// StateCount returns how many distinct states the table has visited
func (q *QTable) StateCount() int {
	return len(q.values)
}

// TotalUpdates returns how many TD steps the table has absorbed
func (q *QTable) TotalUpdates() int {
	return q.totalUpdates
}

// Save writes the table as indented JSON, creating parent directories
// as needed
func (q *QTable) Save(path string) error {
	snapshot := qtableSnapshot{
		Kind:         q.Kind(),
		Alpha:        q.alpha,
		Gamma:        q.gamma,
		TotalUpdates: q.totalUpdates,
		Values:       make(map[string]map[string]float64, len(q.values)),
	}
	for key, row := range q.values {
		named := make(map[string]float64, len(row))
		for action, value := range row {
			named[action.String()] = value
		}
		snapshot.Values[key] = named
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode q-table: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for q-table: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write q-table: %w", err)
	}
	return nil
}

// Load restores a snapshot written by Save. It reports whether the
// restore succeeded; the table is only replaced on success.
func (q *QTable) Load(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var snapshot qtableSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return false
	}
	if snapshot.Kind != "" && snapshot.Kind != q.Kind() {
		return false
	}

	values := make(map[string]map[models.Action]float64, len(snapshot.Values))
	for key, named := range snapshot.Values {
		row := make(map[models.Action]float64, len(named))
		for name, value := range named {
			action, ok := actionFromName(name)
			if !ok {
				return false
			}
			row[action] = value
		}
		values[key] = row
	}

	q.values = values
	q.totalUpdates = snapshot.TotalUpdates
	if snapshot.Alpha > 0 {
		q.alpha = snapshot.Alpha
	}
	if snapshot.Gamma > 0 {
		q.gamma = snapshot.Gamma
	}
	return true
}
