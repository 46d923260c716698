package models

import (
	"fmt"
)

// Task represents a unit of work emitted by a 5G-era application.
// Tasks are immutable once created: the simulation loop only reads them.
type Task struct {
	ID       int          `json:"task_id"`
	AppType  AppType      `json:"app_type"`
	SizeMB   float64      `json:"size_mb"`
	Priority TaskPriority `json:"priority"`
}

// NewTask creates a task record
func NewTask(id int, app AppType, sizeMB float64, priority TaskPriority) Task {
	return Task{
		ID:       id,
		AppType:  app,
		SizeMB:   sizeMB,
		Priority: priority,
	}
}

// Validate validates the task
func (t Task) Validate() error {
	var errors ValidationErrors

	errors.AddIf(t.ID < 0, "ID", t.ID, "ID must be non-negative")
	errors.AddIf(!t.AppType.IsValid(), "AppType", t.AppType,
		fmt.Sprintf("AppType must be one of %v", ValidAppTypes()))
	errors.AddIf(t.SizeMB <= 0, "SizeMB", t.SizeMB, "SizeMB must be positive")
	errors.AddIf(!t.Priority.IsValid(), "Priority", t.Priority,
		fmt.Sprintf("Priority must be one of %v", ValidTaskPriorities()))

	if errors.HasErrors() {
		return errors
	}

	return nil
}

func (t Task) String() string {
	return fmt.Sprintf("Task(id=%d, app=%s, size=%.3fMB, prio=%s)",
		t.ID, t.AppType, t.SizeMB, t.Priority)
}
