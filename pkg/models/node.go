package models

import (
	"fmt"
)

// LatencySource yields a network latency sample in seconds for a
// placement query. Concrete implementations live in pkg/simulator; the
// interface sits here so node accounting does not depend on them.
type LatencySource interface {
	Latency(node NodeType, app AppType, taskSizeMB, nodeLoad float64) (float64, error)
}

const (
	// FallbackNetworkSeconds substitutes for a missing or failing
	// latency source. Execution must never abort on a broken simulator.
	FallbackNetworkSeconds = 0.001

	// DefaultLoadScaleMB is the accumulated load that counts as a fully
	// loaded node when normalizing into [0,1] for latency queries.
	DefaultLoadScaleMB = 100.0

	// EdgePowerWatts is the active power draw of an edge node
	EdgePowerWatts = 10.0
	// CloudPowerWatts is the active power draw of a cloud node
	CloudPowerWatts = 50.0
)

// Node represents a compute node on one of the two placement tiers
type Node struct {
	ID           int      `json:"node_id"`
	Type         NodeType `json:"node_type"`
	CapacityMbps float64  `json:"capacity_mbps"`
	CurrentLoad  float64  `json:"current_load"`  // megabytes processed since last reset
	LoadScaleMB  float64  `json:"load_scale_mb"` // accumulated MB treated as full load
	Name         string   `json:"name"`
}

// NewNode creates a node with a derived name
func NewNode(id int, nodeType NodeType, capacityMbps float64) *Node {
	return &Node{
		ID:           id,
		Type:         nodeType,
		CapacityMbps: capacityMbps,
		LoadScaleMB:  DefaultLoadScaleMB,
		Name:         fmt.Sprintf("%s_%d", nodeType, id),
	}
}

// Validate validates the node
func (n *Node) Validate() error {
	var errors ValidationErrors

	errors.AddIf(!n.Type.IsValid(), "Type", n.Type,
		fmt.Sprintf("Type must be one of %v", ValidNodeTypes()))
	errors.AddIf(n.CapacityMbps <= 0, "CapacityMbps", n.CapacityMbps,
		"CapacityMbps must be positive")
	errors.AddIf(n.CurrentLoad < 0, "CurrentLoad", n.CurrentLoad,
		"CurrentLoad must be non-negative")
	errors.AddIf(n.LoadScaleMB <= 0, "LoadScaleMB", n.LoadScaleMB,
		"LoadScaleMB must be positive")

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// PowerWatts returns the active power draw for the node's tier
func (n *Node) PowerWatts() float64 {
	if n.Type == EDGE {
		return EdgePowerWatts
	}
	return CloudPowerWatts
}

// NormalizedLoad scales the accumulated load into [0,1]
func (n *Node) NormalizedLoad() float64 {
	if n.LoadScaleMB <= 0 {
		return 0.0
	}
	load := n.CurrentLoad / n.LoadScaleMB
	if load < 0 {
		return 0.0
	}
	if load > 1 {
		return 1.0
	}
	return load
}

// Execution reports the measured cost of running one task on a node
type Execution struct {
	LatencyMs    float64 `json:"latency_ms"`
	EnergyJoules float64 `json:"energy_joules"`
	// Degraded is set when a latency query failed and the fallback
	// constant was substituted.
	Degraded bool `json:"degraded"`
}

// Execute runs a task on this node and accounts latency and energy.
// Processing time is size over capacity; network time comes from the
// latency source, degrading to FallbackNetworkSeconds when the source
// is absent or fails. The node's load accumulator grows by the task
// size as a side effect.
func (n *Node) Execute(task Task, sim LatencySource) Execution {
	processing := task.SizeMB / n.CapacityMbps

	network := FallbackNetworkSeconds
	degraded := false
	if sim != nil {
		sample, err := sim.Latency(n.Type, task.AppType, task.SizeMB, n.NormalizedLoad())
		if err != nil {
			degraded = true
		} else {
			network = sample
		}
	}

	totalSeconds := processing + network
	result := Execution{
		LatencyMs:    totalSeconds * 1000,
		EnergyJoules: n.PowerWatts() * totalSeconds,
		Degraded:     degraded,
	}

	n.CurrentLoad += task.SizeMB
	return result
}

// ResetLoad clears the load accumulator at an episode boundary
func (n *Node) ResetLoad() {
	n.CurrentLoad = 0.0
}
