package models

import (
	"strings"
	"testing"
)

func TestNewTask(t *testing.T) {
	task := NewTask(7, IOT, 1.5, HIGH)

	if task.ID != 7 {
		t.Errorf("Expected ID=7, got %d", task.ID)
	}
	if task.AppType != IOT {
		t.Errorf("Expected AppType=IoT, got %s", task.AppType)
	}
	if task.SizeMB != 1.5 {
		t.Errorf("Expected SizeMB=1.5, got %f", task.SizeMB)
	}
	if task.Priority != HIGH {
		t.Errorf("Expected Priority=high, got %s", task.Priority)
	}
}

func TestTask_Validate(t *testing.T) {
	valid := NewTask(0, ARVR, 8.0, MEDIUM)
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid task, got error: %v", err)
	}

	testCases := []struct {
		name string
		task Task
	}{
		{"negative id", NewTask(-1, IOT, 1.0, LOW)},
		{"unknown app", NewTask(1, AppType("batch"), 1.0, LOW)},
		{"zero size", NewTask(1, IOT, 0.0, LOW)},
		{"negative size", NewTask(1, IOT, -2.0, LOW)},
		{"unknown priority", NewTask(1, IOT, 1.0, TaskPriority("urgent"))},
	}

	for _, tc := range testCases {
		if err := tc.task.Validate(); err == nil {
			t.Errorf("Expected validation error for %s, got nil", tc.name)
		}
	}
}

func TestTask_ValidateCollectsAllErrors(t *testing.T) {
	task := NewTask(-1, AppType("bogus"), -1.0, TaskPriority("bogus"))

	err := task.Validate()
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 4 {
		t.Errorf("Expected 4 validation errors, got %d: %v", len(verrs), verrs)
	}
}

func TestTask_String(t *testing.T) {
	task := NewTask(3, VANET, 2.25, LOW)

	s := task.String()
	for _, want := range []string{"id=3", "app=VANET", "size=2.250MB", "prio=low"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected String() to contain %q, got %q", want, s)
		}
	}
}

func TestValidAppTypes(t *testing.T) {
	apps := ValidAppTypes()
	if len(apps) != 3 {
		t.Errorf("Expected 3 app types, got %d", len(apps))
	}

	for _, app := range apps {
		if !app.IsValid() {
			t.Errorf("Expected %s to be valid", app)
		}
	}

	if AppType("").IsValid() {
		t.Error("Empty app type should not be valid")
	}
}

func TestAction_StringAndOther(t *testing.T) {
	if ACTION_EDGE.String() != "edge" {
		t.Errorf("Expected edge, got %s", ACTION_EDGE.String())
	}
	if ACTION_CLOUD.String() != "cloud" {
		t.Errorf("Expected cloud, got %s", ACTION_CLOUD.String())
	}

	if ACTION_EDGE.Other() != ACTION_CLOUD {
		t.Error("Other() of edge should be cloud")
	}
	if ACTION_CLOUD.Other() != ACTION_EDGE {
		t.Error("Other() of cloud should be edge")
	}
}

func TestValidationErrors_AddIf(t *testing.T) {
	var errors ValidationErrors

	errors.AddIf(false, "A", 1, "should not appear")
	if errors.HasErrors() {
		t.Error("Expected no errors after AddIf(false)")
	}

	errors.AddIf(true, "B", 2, "must hold")
	if !errors.HasErrors() {
		t.Error("Expected errors after AddIf(true)")
	}
	if len(errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(errors))
	}
	if !strings.Contains(errors.Error(), "B") {
		t.Errorf("Expected error text to mention field B, got %q", errors.Error())
	}
}
