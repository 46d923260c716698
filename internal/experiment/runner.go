package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/internal/analysis"
	"github.com/latencylab/edge-placement-rl/internal/artifacts"
	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/internal/database"
	"github.com/latencylab/edge-placement-rl/pkg/learning"
	"github.com/latencylab/edge-placement-rl/pkg/models"
	"github.com/latencylab/edge-placement-rl/pkg/policy"
	"github.com/latencylab/edge-placement-rl/pkg/simulator"
	"github.com/latencylab/edge-placement-rl/pkg/workload"
)

// Runner orchestrates a full experiment: train the policy, replay the
// comparison set on a held-out batch, write run artifacts, persist
// rows, and optionally ship the run directory to S3. Database and S3
// problems never abort a run; only training setup failures do.
type Runner struct {
	cfg      *config.Config
	repo     *database.Repository
	uploader *artifacts.Uploader
	logger   hclog.Logger
}

// NewRunner wires a runner. Repository and uploader may be nil, the
// corresponding phases are then skipped.
func NewRunner(cfg *config.Config, repo *database.Repository, uploader *artifacts.Uploader, logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{cfg: cfg, repo: repo, uploader: uploader, logger: logger}
}

// RunResult ties together everything a finished run produced
type RunResult struct {
	RunID     string
	Dir       string
	Manifest  artifacts.Manifest
	Training  *policy.TrainingResult
	Curve     analysis.CurveReport
	Summaries []analysis.Summary
}

// Run executes the pipeline end to end
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	runID := artifacts.NewRunID()
	dir := filepath.Join(r.cfg.Run.OutputDir, runID)
	r.logger.Info("starting run", "run_id", runID, "dir", dir)

	r.registerRun(runID)

	// Train
	sampler := workload.NewGenerator(r.cfg.Training.Seed)
	trainer, err := policy.NewTrainer(r.cfg.Training, sampler, r.logger.Named("trainer"))
	if err != nil {
		r.finishRun(runID, database.StatusFailed, 0)
		return nil, fmt.Errorf("failed to build trainer: %w", err)
	}
	training, err := trainer.Train(ctx)
	if err != nil {
		r.finishRun(runID, database.StatusFailed, 0)
		return nil, fmt.Errorf("training aborted: %w", err)
	}

	smoothed := analysis.NewRewardSmoother(analysis.DefaultSmoothingAlpha).Smooth(training.RewardHistory)
	curve := analysis.AnalyzeCurve(smoothed)

	// Training artifacts
	if err := training.Store.Save(filepath.Join(dir, artifacts.StoreSnapshotFile)); err != nil {
		r.logger.Error("failed to snapshot value store", "error", err)
	}
	if err := artifacts.WriteRewardHistory(filepath.Join(dir, artifacts.RewardHistoryFile), training.Episodes, smoothed); err != nil {
		r.logger.Error("failed to write reward history", "error", err)
	}

	// Held-out comparison. A separate seed keeps the batch disjoint
	// from the training stream.
	tasks := workload.NewGenerator(r.cfg.Training.Seed + 1).Batch(0, r.cfg.Run.EvalTasks)
	if err := workload.WriteTasksCSV(filepath.Join(dir, artifacts.EvalTasksFile), tasks); err != nil {
		r.logger.Error("failed to write evaluation batch", "error", err)
	}

	results, err := r.compare(training.Store, tasks)
	if err != nil {
		r.finishRun(runID, database.StatusFailed, 0)
		return nil, err
	}
	summaries := analysis.SummarizeAll(results)

	if err := analysis.WriteRecordsCSV(filepath.Join(dir, artifacts.RecordsFile), results); err != nil {
		r.logger.Error("failed to write evaluation records", "error", err)
	}
	if err := analysis.WriteSummaryCSV(filepath.Join(dir, artifacts.SummaryCSVFile), summaries); err != nil {
		r.logger.Error("failed to write summary table", "error", err)
	}
	if err := analysis.WriteSummaryMarkdown(filepath.Join(dir, artifacts.SummaryMarkdownFile), runID, summaries); err != nil {
		r.logger.Error("failed to write summary report", "error", err)
	}

	r.persistRows(runID, training, smoothed, results, summaries)

	// Manifest last, it asserts the run directory is complete
	avgLatency := artifacts.Round3(training.RecentMeanLatencyMs(10))
	manifest := artifacts.Manifest{
		RunID:        runID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Simulator:    r.cfg.Training.Simulator,
		Store:        r.cfg.Training.Store,
		Episodes:     r.cfg.Training.Episodes,
		Tasks:        r.cfg.Training.TasksPerEpisode,
		AvgLatencyMs: avgLatency,
		Region:       artifacts.ResolveRegion(r.cfg.Storage.S3.Region),
		S3Bucket:     r.cfg.Storage.S3.Bucket,
		S3Prefix:     path.Join(r.cfg.Storage.S3.Prefix, runID),
		Host:         artifacts.Hostname(),
	}
	if err := manifest.Write(filepath.Join(dir, artifacts.ManifestFile)); err != nil {
		r.logger.Error("failed to write manifest", "error", err)
	}

	r.upload(ctx, dir, manifest)
	r.finishRun(runID, database.StatusCompleted, avgLatency)

	r.logger.Info("run complete",
		"run_id", runID,
		"avg_latency_ms", avgLatency,
		"converged_at_episode", curve.ConvergedAt,
		"duration", training.Duration,
	)
	return &RunResult{
		RunID:     runID,
		Dir:       dir,
		Manifest:  manifest,
		Training:  training,
		Curve:     curve,
		Summaries: summaries,
	}, nil
}

// compare plays every configured policy over the same batch. Each
// policy gets fresh nodes and an identically seeded simulator so they
// face the same noise stream.
func (r *Runner) compare(store learning.ValueStore, tasks []models.Task) ([]*policy.EvalResult, error) {
	results := make([]*policy.EvalResult, 0, len(r.cfg.Run.Policies))
	for _, name := range r.cfg.Run.Policies {
		pol, err := r.buildPolicy(name, store)
		if err != nil {
			return nil, err
		}
		sim, err := simulator.New(r.cfg.Training.Simulator, r.cfg.Training.Seed)
		if err != nil {
			return nil, err
		}
		edge, cloud := policy.NodePair(r.cfg.Training.EdgeCapacityMbps, r.cfg.Training.CloudCapacityMbps)
		results = append(results, policy.Evaluate(pol, tasks, edge, cloud, sim, r.logger.Named("eval")))
	}
	return results, nil
}

func (r *Runner) buildPolicy(name string, store learning.ValueStore) (policy.PlacementPolicy, error) {
	switch name {
	case policy.PolicyRL:
		return policy.NewGreedyPolicy(store, r.cfg.Training.States), nil
	case policy.PolicyRule:
		return policy.NewRulePolicy(), nil
	case policy.PolicyRandom:
		return policy.NewRandomPolicy(r.cfg.Training.Seed), nil
	default:
		return nil, fmt.Errorf("unknown policy '%s'", name)
	}
}

func (r *Runner) registerRun(runID string) {
	if r.repo == nil {
		return
	}
	cfgJSON, _ := json.Marshal(r.cfg.Training)
	run := &database.Run{
		ID:              runID,
		Name:            fmt.Sprintf("%s/%s", r.cfg.Training.Simulator, r.cfg.Training.Store),
		Simulator:       r.cfg.Training.Simulator,
		Store:           r.cfg.Training.Store,
		Episodes:        r.cfg.Training.Episodes,
		TasksPerEpisode: r.cfg.Training.TasksPerEpisode,
		Seed:            r.cfg.Training.Seed,
		StartTime:       time.Now(),
		Status:          database.StatusRunning,
		Config:          string(cfgJSON),
	}
	if err := r.repo.CreateRun(run); err != nil {
		r.logger.Warn("failed to register run", "error", err)
	}
}

func (r *Runner) finishRun(runID, status string, avgLatencyMs float64) {
	if r.repo == nil {
		return
	}
	if err := r.repo.EndRun(runID, status, avgLatencyMs); err != nil {
		r.logger.Warn("failed to finish run record", "error", err)
	}
}

func (r *Runner) persistRows(runID string, training *policy.TrainingResult, smoothed []float64, results []*policy.EvalResult, summaries []analysis.Summary) {
	if r.repo == nil {
		return
	}

	metrics := make([]database.EpisodeMetric, 0, len(training.Episodes))
	for i, stats := range training.Episodes {
		metrics = append(metrics, database.EpisodeMetric{
			RunID:            runID,
			Episode:          stats.Episode,
			TotalReward:      stats.TotalReward,
			SmoothedReward:   smoothed[i],
			Epsilon:          stats.Epsilon,
			MeanLatencyMs:    stats.MeanLatencyMs,
			MeanEnergyJoules: stats.MeanEnergyJoules,
			DegradedSamples:  stats.DegradedSamples,
		})
	}
	if err := r.repo.BatchSaveEpisodeMetrics(metrics); err != nil {
		r.logger.Warn("failed to persist learning curve", "error", err)
	}

	var rows []database.EvaluationRecord
	for _, result := range results {
		for _, record := range result.Records {
			rows = append(rows, database.EvaluationRecord{
				RunID:        runID,
				Policy:       result.Policy,
				TaskID:       record.TaskID,
				AppType:      string(record.AppType),
				SizeMB:       record.SizeMB,
				Priority:     string(record.Priority),
				Node:         record.Node,
				LatencyMs:    record.LatencyMs,
				EnergyJoules: record.EnergyJoules,
				Degraded:     record.Degraded,
			})
		}
	}
	if err := r.repo.BatchSaveEvaluationRecords(rows); err != nil {
		r.logger.Warn("failed to persist evaluation records", "error", err)
	}

	for _, s := range summaries {
		row := &database.StrategySummary{
			RunID:             runID,
			Policy:            s.Policy,
			Tasks:             s.Tasks,
			MeanLatencyMs:     s.MeanLatencyMs,
			MedianLatencyMs:   s.MedianLatencyMs,
			P95LatencyMs:      s.P95LatencyMs,
			MaxLatencyMs:      s.MaxLatencyMs,
			MeanEnergyJoules:  s.MeanEnergyJoules,
			TotalEnergyJoules: s.TotalEnergyJoules,
			EdgeShare:         s.EdgeShare,
		}
		if err := r.repo.SaveStrategySummary(row); err != nil {
			r.logger.Warn("failed to persist strategy summary", "policy", s.Policy, "error", err)
		}
	}
}

func (r *Runner) upload(ctx context.Context, dir string, manifest artifacts.Manifest) {
	if r.uploader == nil || !r.cfg.Storage.S3.Enabled {
		return
	}
	names := []string{
		artifacts.ManifestFile,
		artifacts.RewardHistoryFile,
		artifacts.StoreSnapshotFile,
		artifacts.EvalTasksFile,
		artifacts.RecordsFile,
		artifacts.SummaryCSVFile,
		artifacts.SummaryMarkdownFile,
	}
	count, err := r.uploader.UploadRun(ctx, dir, manifest.S3Prefix, names)
	if err != nil {
		r.logger.Error("run uploaded partially", "uploaded", count, "error", err)
		return
	}
	r.logger.Info("run uploaded", "bucket", manifest.S3Bucket, "prefix", manifest.S3Prefix, "files", count)
}
