package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/latencylab/edge-placement-rl/pkg/policy"
)

// WriteRecordsCSV flattens every policy's evaluation records into one
// CSV, creating parent directories as needed
func WriteRecordsCSV(path string, results []*policy.EvalResult) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"policy", "task_id", "app_type", "size_mb", "priority",
		"node", "latency_ms", "energy_joules"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, result := range results {
		for _, record := range result.Records {
			row := []string{
				result.Policy,
				strconv.Itoa(record.TaskID),
				string(record.AppType),
				strconv.FormatFloat(record.SizeMB, 'f', 3, 64),
				string(record.Priority),
				record.Node,
				strconv.FormatFloat(record.LatencyMs, 'f', 3, 64),
				strconv.FormatFloat(record.EnergyJoules, 'f', 3, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteSummaryCSV writes the policy comparison table
func WriteSummaryCSV(path string, summaries []Summary) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"policy", "tasks", "mean_latency_ms", "median_latency_ms",
		"p95_latency_ms", "max_latency_ms", "mean_energy_joules",
		"total_energy_joules", "edge_share"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.Policy,
			strconv.Itoa(s.Tasks),
			strconv.FormatFloat(s.MeanLatencyMs, 'f', 3, 64),
			strconv.FormatFloat(s.MedianLatencyMs, 'f', 3, 64),
			strconv.FormatFloat(s.P95LatencyMs, 'f', 3, 64),
			strconv.FormatFloat(s.MaxLatencyMs, 'f', 3, 64),
			strconv.FormatFloat(s.MeanEnergyJoules, 'f', 3, 64),
			strconv.FormatFloat(s.TotalEnergyJoules, 'f', 3, 64),
			strconv.FormatFloat(s.EdgeShare, 'f', 3, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteSummaryMarkdown renders the comparison as a readable report
func WriteSummaryMarkdown(path, runID string, summaries []Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Placement policy comparison\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", runID, time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "| Policy | Tasks | Mean (ms) | Median (ms) | P95 (ms) | Max (ms) | Energy (J) | Edge share |\n")
	fmt.Fprintf(&b, "|--------|------:|----------:|------------:|---------:|---------:|-----------:|-----------:|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.1f%% |\n",
			s.Policy, s.Tasks, s.MeanLatencyMs, s.MedianLatencyMs,
			s.P95LatencyMs, s.MaxLatencyMs, s.TotalEnergyJoules, s.EdgeShare*100)
	}

	if len(summaries) > 0 {
		best := summaries[0]
		for _, s := range summaries[1:] {
			if s.MeanLatencyMs < best.MeanLatencyMs {
				best = s
			}
		}
		fmt.Fprintf(&b, "\nBest mean latency: **%s** at %.3f ms.\n", best.Policy, best.MeanLatencyMs)
	}

	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, nil
}
