package policy

import (
	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Bucket boundaries and the load normalization scale, in MB
const (
	DefaultSizeSmallMaxMB  = 5.0
	DefaultSizeMediumMaxMB = 10.0
	DefaultLoadLowMaxMB    = 30.0
	DefaultLoadMediumMaxMB = 70.0
)

// StateBuilder discretizes tasks and node loads into policy states.
// The same builder must be used for training and evaluation, otherwise
// table keys stop lining up.
type StateBuilder struct {
	SizeBoundsMB [2]float64 `json:"size_bounds_mb"` // small below first, medium below second
	LoadBoundsMB [2]float64 `json:"load_bounds_mb"` // low below first, medium below second
	LoadScaleMB  float64    `json:"load_scale_mb"`  // full-scale load for normalization
}

// DefaultStateBuilder returns the bucket boundaries the policy was
// calibrated with
func DefaultStateBuilder() StateBuilder {
	return StateBuilder{
		SizeBoundsMB: [2]float64{DefaultSizeSmallMaxMB, DefaultSizeMediumMaxMB},
		LoadBoundsMB: [2]float64{DefaultLoadLowMaxMB, DefaultLoadMediumMaxMB},
		LoadScaleMB:  models.DefaultLoadScaleMB,
	}
}

// Validate checks that the bucket boundaries are ordered and positive
func (b StateBuilder) Validate() error {
	var errors models.ValidationErrors

	errors.AddIf(b.SizeBoundsMB[0] <= 0, "size_bounds_mb", b.SizeBoundsMB,
		"lower size bound must be positive")
	errors.AddIf(b.SizeBoundsMB[1] <= b.SizeBoundsMB[0], "size_bounds_mb", b.SizeBoundsMB,
		"size bounds must be strictly ascending")
	errors.AddIf(b.LoadBoundsMB[0] <= 0, "load_bounds_mb", b.LoadBoundsMB,
		"lower load bound must be positive")
	errors.AddIf(b.LoadBoundsMB[1] <= b.LoadBoundsMB[0], "load_bounds_mb", b.LoadBoundsMB,
		"load bounds must be strictly ascending")
	errors.AddIf(b.LoadScaleMB <= 0, "load_scale_mb", b.LoadScaleMB,
		"load scale must be positive")

	if errors.HasErrors() {
		return errors
	}
	return nil
}

// State derives the policy state for a task given the raw edge and
// cloud load accumulators in MB. The discrete load bucket follows the
// edge tier, where congestion actually bites; both raw loads feed the
// linear features.
func (b StateBuilder) State(task models.Task, edgeLoadMB, cloudLoadMB float64) models.State {
	return models.State{
		App:       task.AppType,
		Priority:  task.Priority,
		Size:      b.SizeCategory(task.SizeMB),
		Load:      b.LoadCategory(edgeLoadMB),
		SizeMB:    task.SizeMB,
		EdgeLoad:  clamp01(edgeLoadMB / b.LoadScaleMB),
		CloudLoad: clamp01(cloudLoadMB / b.LoadScaleMB),
	}
}

// SizeCategory buckets a task size in MB
func (b StateBuilder) SizeCategory(sizeMB float64) models.SizeCategory {
	switch {
	case sizeMB < b.SizeBoundsMB[0]:
		return models.SIZE_SMALL
	case sizeMB < b.SizeBoundsMB[1]:
		return models.SIZE_MEDIUM
	default:
		return models.SIZE_LARGE
	}
}

// LoadCategory buckets a raw load accumulator in MB
func (b StateBuilder) LoadCategory(loadMB float64) models.LoadCategory {
	switch {
	case loadMB < b.LoadBoundsMB[0]:
		return models.LOAD_LOW
	case loadMB < b.LoadBoundsMB[1]:
		return models.LOAD_MEDIUM
	default:
		return models.LOAD_HIGH
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}
