package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

func TestWriteReadTasksCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.csv")

	tasks := []models.Task{
		models.NewTask(0, models.IOT, 1.25, models.LOW),
		models.NewTask(1, models.ARVR, 8.5, models.HIGH),
		models.NewTask(2, models.VANET, 3.333, models.MEDIUM),
	}

	if err := WriteTasksCSV(path, tasks); err != nil {
		t.Fatalf("WriteTasksCSV() failed: %v", err)
	}

	loaded, err := ReadTasksCSV(path)
	if err != nil {
		t.Fatalf("ReadTasksCSV() failed: %v", err)
	}

	if len(loaded) != len(tasks) {
		t.Fatalf("Expected %d tasks, got %d", len(tasks), len(loaded))
	}
	for i, task := range tasks {
		if loaded[i] != task {
			t.Errorf("Expected task %+v at %d, got %+v", task, i, loaded[i])
		}
	}
}

func TestWriteTasksCSV_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := WriteTasksCSV(path, nil); err != nil {
		t.Fatalf("WriteTasksCSV() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	header := strings.TrimSpace(string(data))
	if header != "task_id,app_type,size_mb,priority" {
		t.Errorf("Expected canonical header, got %q", header)
	}
}

func TestWriteTimelineCSV_ReadableAsTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.csv")

	gen := NewGenerator(42)
	entries := gen.Timeline(0, 20, 5.0)
	if err := WriteTimelineCSV(path, entries); err != nil {
		t.Fatalf("WriteTimelineCSV() failed: %v", err)
	}

	// The reader ignores the timestamp column.
	loaded, err := ReadTasksCSV(path)
	if err != nil {
		t.Fatalf("ReadTasksCSV() failed: %v", err)
	}
	if len(loaded) != 20 {
		t.Fatalf("Expected 20 tasks, got %d", len(loaded))
	}
	for i, entry := range entries {
		if loaded[i] != entry.Task {
			t.Errorf("Expected task %+v at %d, got %+v", entry.Task, i, loaded[i])
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	firstLine := strings.SplitN(string(data), "\n", 2)[0]
	if firstLine != "task_id,timestamp,app_type,size_mb,priority" {
		t.Errorf("Expected timeline header, got %q", firstLine)
	}
}

func TestReadTasksCSV_MissingFile(t *testing.T) {
	if _, err := ReadTasksCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestReadTasksCSV_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	content := "task_id,app_type,priority\n0,IoT,low\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	_, err := ReadTasksCSV(path)
	if err == nil {
		t.Fatal("Expected error for missing size_mb column, got nil")
	}
	if !strings.Contains(err.Error(), "size_mb") {
		t.Errorf("Expected error to name the missing column, got %v", err)
	}
}

func TestReadTasksCSV_BadRow(t *testing.T) {
	testCases := []struct {
		name string
		row  string
	}{
		{"bad id", "x,IoT,1.0,low"},
		{"bad size", "0,IoT,huge,low"},
		{"negative size", "0,IoT,-1.0,low"},
		{"unknown app", "0,batch,1.0,low"},
		{"unknown priority", "0,IoT,1.0,urgent"},
	}

	for _, tc := range testCases {
		path := filepath.Join(t.TempDir(), "bad.csv")
		content := "task_id,app_type,size_mb,priority\n" + tc.row + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}

		_, err := ReadTasksCSV(path)
		if err == nil {
			t.Errorf("Expected error for %s, got nil", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), "row 2") {
			t.Errorf("Expected error for %s to name row 2, got %v", tc.name, err)
		}
	}
}

func TestReadTasksCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := ReadTasksCSV(path); err == nil {
		t.Error("Expected error for empty file, got nil")
	}
}
