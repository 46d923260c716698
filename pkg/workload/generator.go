package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// PriorityMix weighs how often a profile emits each priority. Weights
// are relative; they do not need to sum to one.
type PriorityMix struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Sum returns the total weight
func (m PriorityMix) Sum() float64 {
	return m.Low + m.Medium + m.High
}

func (m PriorityMix) pick(u float64) models.TaskPriority {
	u *= m.Sum()
	switch {
	case u < m.Low:
		return models.LOW
	case u < m.Low+m.Medium:
		return models.MEDIUM
	default:
		return models.HIGH
	}
}

// AppProfile describes the task population one application emits
type AppProfile struct {
	App        models.AppType `json:"app"`
	MinSizeMB  float64        `json:"min_size_mb"`
	MaxSizeMB  float64        `json:"max_size_mb"`
	Priorities PriorityMix    `json:"priorities"`
}

// Validate checks the profile is usable
func (p AppProfile) Validate() error {
	var errors models.ValidationErrors

	errors.AddIf(!p.App.IsValid(), "app", p.App,
		fmt.Sprintf("app must be one of %v", models.ValidAppTypes()))
	errors.AddIf(p.MinSizeMB <= 0, "min_size_mb", p.MinSizeMB,
		"minimum size must be positive")
	errors.AddIf(p.MaxSizeMB < p.MinSizeMB, "max_size_mb", p.MaxSizeMB,
		"maximum size cannot be below the minimum")
	errors.AddIf(p.Priorities.Sum() <= 0, "priorities", p.Priorities,
		"priority weights must sum to a positive value")

	if errors.HasErrors() {
		return errors
	}
	return nil
}

// DefaultProfiles returns the three application classes the policy is
// trained against. IoT telemetry is small and rarely urgent, AR/VR
// streams are large and latency-sensitive, vehicular traffic sits in
// between.
func DefaultProfiles() []AppProfile {
	return []AppProfile{
		{
			App:        models.IOT,
			MinSizeMB:  0.5,
			MaxSizeMB:  3.0,
			Priorities: PriorityMix{Low: 0.6, Medium: 0.3, High: 0.1},
		},
		{
			App:        models.ARVR,
			MinSizeMB:  5.0,
			MaxSizeMB:  12.0,
			Priorities: PriorityMix{Low: 0.2, Medium: 0.5, High: 0.3},
		},
		{
			App:        models.VANET,
			MinSizeMB:  2.0,
			MaxSizeMB:  8.0,
			Priorities: PriorityMix{Low: 0.3, Medium: 0.5, High: 0.2},
		},
	}
}

// Generator samples tasks from weighted application profiles. One
// seed fixes the whole stream.
type Generator struct {
	profiles []AppProfile
	rng      *rand.Rand
}

// NewGenerator creates a generator over the default profiles
func NewGenerator(seed int64) *Generator {
	gen, _ := NewGeneratorWithProfiles(DefaultProfiles(), seed)
	return gen
}

// NewGeneratorWithProfiles creates a generator over custom profiles
func NewGeneratorWithProfiles(profiles []AppProfile, seed int64) (*Generator, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one app profile is required")
	}
	for i, profile := range profiles {
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("profile %d (%s): %w", i, profile.App, err)
		}
	}
	return &Generator{
		profiles: profiles,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Sample draws one task. Profiles are chosen uniformly, then size and
// priority follow the profile's ranges and weights.
func (g *Generator) Sample(id int) models.Task {
	profile := g.profiles[g.rng.Intn(len(g.profiles))]
	size := profile.MinSizeMB + g.rng.Float64()*(profile.MaxSizeMB-profile.MinSizeMB)
	return models.NewTask(id, profile.App, round3(size), profile.Priorities.pick(g.rng.Float64()))
}

// Batch draws count tasks with consecutive IDs starting at startID
func (g *Generator) Batch(startID, count int) []models.Task {
	tasks := make([]models.Task, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, g.Sample(startID+i))
	}
	return tasks
}

// Entry is one task on an arrival timeline
type Entry struct {
	Task       models.Task `json:"task"`
	ArrivalSec float64     `json:"arrival_sec"`
}

// Timeline draws count tasks with Poisson arrivals at ratePerSec.
// Arrival times are cumulative from zero.
func (g *Generator) Timeline(startID, count int, ratePerSec float64) []Entry {
	entries := make([]Entry, 0, count)
	clock := 0.0
	for i := 0; i < count; i++ {
		clock += g.rng.ExpFloat64() / ratePerSec
		entries = append(entries, Entry{
			Task:       g.Sample(startID + i),
			ArrivalSec: round3(clock),
		})
	}
	return entries
}

// UniformSampler draws tasks uniformly over the full attribute space,
// ignoring application profiles. Useful for held-out evaluation
// batches that should not share the training distribution.
type UniformSampler struct {
	MinSizeMB float64
	MaxSizeMB float64
	rng       *rand.Rand
}

// NewUniformSampler creates a sampler covering the default size span
func NewUniformSampler(seed int64) *UniformSampler {
	return &UniformSampler{
		MinSizeMB: 0.5,
		MaxSizeMB: 12.0,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Sample draws one task with uniform app, priority, and size
func (s *UniformSampler) Sample(id int) models.Task {
	apps := models.ValidAppTypes()
	priorities := models.ValidTaskPriorities()
	size := s.MinSizeMB + s.rng.Float64()*(s.MaxSizeMB-s.MinSizeMB)
	return models.NewTask(id,
		apps[s.rng.Intn(len(apps))],
		round3(size),
		priorities[s.rng.Intn(len(priorities))])
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
