package models

import (
	"fmt"
	"strings"
)

// State is the policy input derived from a task and the current node
// loads. The discrete fields key the tabular value store; the raw
// fields feed linear function approximation. Derivation is
// deterministic and total: every valid task/load pair maps to exactly
// one state.
type State struct {
	App      AppType      `json:"app"`
	Priority TaskPriority `json:"priority"`
	Size     SizeCategory `json:"size"`
	Load     LoadCategory `json:"load"`

	// Raw signal, normalized where noted
	SizeMB    float64 `json:"size_mb"`
	EdgeLoad  float64 `json:"edge_load"`  // normalized [0,1]
	CloudLoad float64 `json:"cloud_load"` // normalized [0,1]
}

// Key returns a stable composite key for table lookups. Only the
// discrete fields participate, so states that bucket identically share
// one table entry.
func (s State) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(string(s.App)), s.Priority, s.Size, s.Load)
}
