package database

import (
	"time"
)

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run represents a single training run
type Run struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name"`
	Simulator       string     `json:"simulator"`
	Store           string     `json:"store"`
	Episodes        int        `json:"episodes"`
	TasksPerEpisode int        `json:"tasks_per_episode"`
	Seed            int64      `json:"seed"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Status          string     `json:"status"` // running, completed, failed
	Config          string     `json:"config"` // JSON training configuration
	AvgLatencyMs    float64    `json:"avg_latency_ms"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EpisodeMetric represents one point on a run's learning curve
type EpisodeMetric struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	RunID   string `json:"run_id" gorm:"index"`
	Episode int    `json:"episode" gorm:"index"`

	// Learning signal
	TotalReward    float64 `json:"total_reward"`
	SmoothedReward float64 `json:"smoothed_reward"` // EWMA over episodes
	Epsilon        float64 `json:"epsilon"`

	// Cost signal
	MeanLatencyMs    float64 `json:"mean_latency_ms"`
	MeanEnergyJoules float64 `json:"mean_energy_joules"`
	DegradedSamples  int     `json:"degraded_samples"`

	CreatedAt time.Time `json:"created_at"`
}

// EvaluationRecord represents one task placement on a held-out batch
type EvaluationRecord struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	RunID  string `json:"run_id" gorm:"index"`
	Policy string `json:"policy" gorm:"index"` // rl, rule, random

	// Task attributes
	TaskID   int     `json:"task_id"`
	AppType  string  `json:"app_type"`
	SizeMB   float64 `json:"size_mb"`
	Priority string  `json:"priority"`

	// Outcome
	Node         string  `json:"node"`
	LatencyMs    float64 `json:"latency_ms"`
	EnergyJoules float64 `json:"energy_joules"`
	Degraded     bool    `json:"degraded"`

	CreatedAt time.Time `json:"created_at"`
}

// StrategySummary represents aggregate statistics for one policy on
// one run's held-out batch
type StrategySummary struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	RunID  string `json:"run_id" gorm:"index"`
	Policy string `json:"policy"`
	Tasks  int    `json:"tasks"`

	// Latency distribution, milliseconds
	MeanLatencyMs   float64 `json:"mean_latency_ms"`
	MedianLatencyMs float64 `json:"median_latency_ms"`
	P95LatencyMs    float64 `json:"p95_latency_ms"`
	MaxLatencyMs    float64 `json:"max_latency_ms"`

	// Energy, joules
	MeanEnergyJoules  float64 `json:"mean_energy_joules"`
	TotalEnergyJoules float64 `json:"total_energy_joules"`

	EdgeShare float64 `json:"edge_share"` // fraction of tasks placed on the edge

	CreatedAt time.Time `json:"created_at"`
}
