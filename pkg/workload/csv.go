package workload

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// Column headers of the task CSV layout. The timestamp column only
// appears in timeline exports.
const (
	columnTaskID    = "task_id"
	columnTimestamp = "timestamp"
	columnAppType   = "app_type"
	columnSizeMB    = "size_mb"
	columnPriority  = "priority"
)

// WriteTasksCSV writes a task batch, creating parent directories as
// needed
func WriteTasksCSV(path string, tasks []models.Task) error {
	return writeCSV(path, []string{columnTaskID, columnAppType, columnSizeMB, columnPriority},
		len(tasks), func(i int) []string {
			task := tasks[i]
			return []string{
				strconv.Itoa(task.ID),
				string(task.AppType),
				strconv.FormatFloat(task.SizeMB, 'f', 3, 64),
				string(task.Priority),
			}
		})
}

// WriteTimelineCSV writes an arrival timeline
func WriteTimelineCSV(path string, entries []Entry) error {
	return writeCSV(path, []string{columnTaskID, columnTimestamp, columnAppType, columnSizeMB, columnPriority},
		len(entries), func(i int) []string {
			entry := entries[i]
			return []string{
				strconv.Itoa(entry.Task.ID),
				strconv.FormatFloat(entry.ArrivalSec, 'f', 3, 64),
				string(entry.Task.AppType),
				strconv.FormatFloat(entry.Task.SizeMB, 'f', 3, 64),
				string(entry.Task.Priority),
			}
		})
}

func writeCSV(path string, header []string, rows int, row func(i int) []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// ReadTasksCSV loads a task batch from either CSV layout, validating
// every row. The timestamp column, when present, is ignored.
func ReadTasksCSV(path string) ([]models.Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	for _, required := range []string{columnTaskID, columnAppType, columnSizeMB, columnPriority} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%s is missing column '%s'", path, required)
		}
	}

	tasks := make([]models.Task, 0, len(records)-1)
	for line, record := range records[1:] {
		id, err := strconv.Atoi(record[columns[columnTaskID]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad task_id: %w", line+2, err)
		}
		size, err := strconv.ParseFloat(record[columns[columnSizeMB]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad size_mb: %w", line+2, err)
		}

		task := models.NewTask(id,
			models.AppType(record[columns[columnAppType]]),
			size,
			models.TaskPriority(record[columns[columnPriority]]))
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
