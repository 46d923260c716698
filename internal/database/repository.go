package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides data access methods
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateRun creates a new run record
func (r *Repository) CreateRun(run *Run) error {
	return r.db.Create(run).Error
}

// GetRun retrieves a run by ID
func (r *Repository) GetRun(id string) (*Run, error) {
	var run Run
	err := r.db.First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns lists all runs, newest first
func (r *Repository) ListRuns() ([]Run, error) {
	var runs []Run
	err := r.db.Order("created_at DESC").Find(&runs).Error
	return runs, err
}

// CountRuns returns how many runs the database holds
func (r *Repository) CountRuns() (int64, error) {
	var count int64
	err := r.db.Model(&Run{}).Count(&count).Error
	return count, err
}

// RenameRun updates a run's display name
func (r *Repository) RenameRun(id, name string) error {
	return r.db.Model(&Run{}).
		Where("id = ?", id).
		Update("name", name).Error
}

// UpdateRun updates a run record
func (r *Repository) UpdateRun(run *Run) error {
	return r.db.Save(run).Error
}

// EndRun marks a run finished with the given status and final latency
func (r *Repository) EndRun(id string, status string, avgLatencyMs float64) error {
	now := time.Now()
	return r.db.Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_time":       now,
			"status":         status,
			"avg_latency_ms": avgLatencyMs,
		}).Error
}

// BatchSaveEpisodeMetrics saves a learning curve efficiently
func (r *Repository) BatchSaveEpisodeMetrics(metrics []EpisodeMetric) error {
	if len(metrics) == 0 {
		return nil
	}
	return r.db.CreateInBatches(metrics, 100).Error
}

// GetEpisodeMetrics retrieves a run's learning curve in episode order
func (r *Repository) GetEpisodeMetrics(runID string, limit int) ([]EpisodeMetric, error) {
	var metrics []EpisodeMetric
	query := r.db.Where("run_id = ?", runID).Order("episode ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&metrics).Error
	return metrics, err
}

// GetLatestEpisodeMetric gets the most recent curve point for a run
func (r *Repository) GetLatestEpisodeMetric(runID string) (*EpisodeMetric, error) {
	var metric EpisodeMetric
	err := r.db.Where("run_id = ?", runID).
		Order("episode DESC").
		First(&metric).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get latest episode metric: %w", err)
	}

	return &metric, nil
}

// BatchSaveEvaluationRecords saves held-out placements efficiently
func (r *Repository) BatchSaveEvaluationRecords(records []EvaluationRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.CreateInBatches(records, 100).Error
}

// GetEvaluationRecords retrieves evaluation records for a run,
// optionally filtered by policy
func (r *Repository) GetEvaluationRecords(runID string, policy string) ([]EvaluationRecord, error) {
	var records []EvaluationRecord
	query := r.db.Where("run_id = ?", runID)

	if policy != "" {
		query = query.Where("policy = ?", policy)
	}

	err := query.Order("task_id ASC").Find(&records).Error
	return records, err
}

// SaveStrategySummary saves one policy's aggregate row
func (r *Repository) SaveStrategySummary(summary *StrategySummary) error {
	return r.db.Create(summary).Error
}

// GetStrategySummaries retrieves the policy comparison for a run
func (r *Repository) GetStrategySummaries(runID string) ([]StrategySummary, error) {
	var summaries []StrategySummary
	err := r.db.Where("run_id = ?", runID).
		Order("mean_latency_ms ASC").
		Find(&summaries).Error
	return summaries, err
}

// GetRunSummary gets aggregated stats for a run
func (r *Repository) GetRunSummary(runID string) (map[string]interface{}, error) {
	summary := make(map[string]interface{})

	// Get run details
	run, err := r.GetRun(runID)
	if err != nil {
		return nil, err
	}
	summary["run"] = run

	// Get learning curve statistics
	var stats struct {
		Episodes        int64
		BestReward      float64
		WorstReward     float64
		FinalEpsilon    float64
		DegradedSamples int64
	}

	r.db.Model(&EpisodeMetric{}).
		Where("run_id = ?", runID).
		Count(&stats.Episodes)

	r.db.Model(&EpisodeMetric{}).
		Where("run_id = ?", runID).
		Select("MAX(total_reward) as best_reward, MIN(total_reward) as worst_reward, " +
			"SUM(degraded_samples) as degraded_samples").
		Scan(&stats)

	r.db.Model(&EpisodeMetric{}).
		Where("run_id = ?", runID).
		Order("episode DESC").
		Limit(1).
		Pluck("epsilon", &stats.FinalEpsilon)

	summary["statistics"] = stats

	// Get the policy comparison
	strategies, err := r.GetStrategySummaries(runID)
	if err == nil && len(strategies) > 0 {
		summary["strategies"] = strategies
	}

	return summary, nil
}

// DeleteRun deletes a run and all related data
func (r *Repository) DeleteRun(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete related data first
		if err := tx.Where("run_id = ?", id).Delete(&EpisodeMetric{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&EvaluationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&StrategySummary{}).Error; err != nil {
			return err
		}

		// Delete run
		return tx.Where("id = ?", id).Delete(&Run{}).Error
	})
}
