package artifacts

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Standard artifact names within a run directory
const (
	ManifestFile        = "manifest.json"
	RewardHistoryFile   = "reward_history.csv"
	StoreSnapshotFile   = "value_store.json"
	EvalTasksFile       = "eval_tasks.csv"
	RecordsFile         = "workload_results.csv"
	SummaryCSVFile      = "summary_stats.csv"
	SummaryMarkdownFile = "summary.md"
)

// Manifest describes one completed run for downstream tooling. It is
// the first file a consumer reads, so every value is flat and typed.
type Manifest struct {
	RunID        string  `json:"run_id"`
	Timestamp    string  `json:"timestamp"` // RFC3339, UTC
	Simulator    string  `json:"simulator"`
	Store        string  `json:"store"`
	Episodes     int     `json:"episodes"`
	Tasks        int     `json:"tasks"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	Region       string  `json:"region"`
	S3Bucket     string  `json:"s3_bucket"`
	S3Prefix     string  `json:"s3_prefix"`
	Host         string  `json:"host"`
}

// NewRunID returns a sortable run identifier, a UTC timestamp plus a
// short random suffix
func NewRunID() string {
	id := uuid.New()
	return fmt.Sprintf("%s-%x", time.Now().UTC().Format("20060102-150405"), id[:4])
}

// Hostname returns the local host name for manifest provenance
func Hostname() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// Round3 rounds a value to three decimals for manifest stability
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Write stores the manifest as indented JSON, creating parent
// directories as needed
func (m Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for manifest: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Write
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}
