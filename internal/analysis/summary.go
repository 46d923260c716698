package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/latencylab/edge-placement-rl/pkg/policy"
)

// Summary holds aggregate statistics for one policy over a held-out
// batch
type Summary struct {
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

	EdgeShare       float64 `json:"edge_share"`
	DegradedSamples int     `json:"degraded_samples"`
}

// Summarize reduces one evaluation pass to its distribution summary
func Summarize(result *policy.EvalResult) Summary {
	summary := Summary{
		Policy:            result.Policy,
		Tasks:             len(result.Records),
		TotalEnergyJoules: result.TotalEnergyJoules,
		DegradedSamples:   result.DegradedSamples,
	}
	if len(result.Records) == 0 {
		return summary
	}

	latencies := make([]float64, len(result.Records))
	for i, record := range result.Records {
		latencies[i] = record.LatencyMs
	}
	sort.Float64s(latencies)

	summary.MeanLatencyMs = stat.Mean(latencies, nil)
	summary.MedianLatencyMs = stat.Quantile(0.5, stat.Empirical, latencies, nil)
	summary.P95LatencyMs = stat.Quantile(0.95, stat.Empirical, latencies, nil)
	summary.MaxLatencyMs = latencies[len(latencies)-1]
	summary.MeanEnergyJoules = result.TotalEnergyJoules / float64(len(result.Records))
	summary.EdgeShare = float64(result.EdgeCount) / float64(len(result.Records))

	return summary
}

// SummarizeAll reduces a comparison, sorted best mean latency first
func SummarizeAll(results []*policy.EvalResult) []Summary {
	summaries := make([]Summary, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, Summarize(result))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MeanLatencyMs < summaries[j].MeanLatencyMs
	})
	return summaries
}
