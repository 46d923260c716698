package models

import (
	"fmt"
)

// AppType represents the application class that produced a task
type AppType string

const (
	IOT   AppType = "IoT"
	ARVR  AppType = "ARVR"
	VANET AppType = "VANET"
)

// TaskPriority represents the scheduling priority of a task
type TaskPriority string

const (
	LOW    TaskPriority = "low"
	MEDIUM TaskPriority = "medium"
	HIGH   TaskPriority = "high"
)

// NodeType represents the placement tier of a compute node
type NodeType string

const (
	EDGE  NodeType = "edge"
	CLOUD NodeType = "cloud"
)

// Action represents the binary placement decision for a task
type Action int

const (
	ACTION_EDGE  Action = 0
	ACTION_CLOUD Action = 1
)

// SizeCategory represents a discretized task size bucket
type SizeCategory string

const (
	SIZE_SMALL  SizeCategory = "small"
	SIZE_MEDIUM SizeCategory = "medium"
	SIZE_LARGE  SizeCategory = "large"
)

// LoadCategory represents a discretized node load bucket
type LoadCategory string

const (
	LOAD_LOW    LoadCategory = "low"
	LOAD_MEDIUM LoadCategory = "medium"
	LOAD_HIGH   LoadCategory = "high"
)

// ValidAppTypes returns all valid application types
func ValidAppTypes() []AppType {
	return []AppType{IOT, ARVR, VANET}
}

// IsValid checks if an AppType is valid
func (at AppType) IsValid() bool {
	for _, valid := range ValidAppTypes() {
		if at == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of AppType
func (at AppType) String() string {
	return string(at)
}

// ValidTaskPriorities returns all valid task priorities
func ValidTaskPriorities() []TaskPriority {
	return []TaskPriority{LOW, MEDIUM, HIGH}
}

// IsValid checks if a TaskPriority is valid
func (tp TaskPriority) IsValid() bool {
	for _, valid := range ValidTaskPriorities() {
		if tp == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of TaskPriority
func (tp TaskPriority) String() string {
	return string(tp)
}

// ValidNodeTypes returns all valid node types
func ValidNodeTypes() []NodeType {
	return []NodeType{EDGE, CLOUD}
}

// IsValid checks if a NodeType is valid
func (nt NodeType) IsValid() bool {
	for _, valid := range ValidNodeTypes() {
		if nt == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of NodeType
func (nt NodeType) String() string {
	return string(nt)
}

// Actions returns both placement actions in evaluation order
func Actions() []Action {
	return []Action{ACTION_EDGE, ACTION_CLOUD}
}

// IsValid checks if an Action is valid
func (a Action) IsValid() bool {
	return a == ACTION_EDGE || a == ACTION_CLOUD
}

// String returns the node tier the action places a task on
func (a Action) String() string {
	if a == ACTION_EDGE {
		return "edge"
	}
	return "cloud"
}

// Other returns the opposite placement action
func (a Action) Other() Action {
	if a == ACTION_EDGE {
		return ACTION_CLOUD
	}
	return ACTION_EDGE
}

// ValidationError represents a single invalid field
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("invalid value for field '%s' (%v): %s",
		ve.Field, ve.Value, ve.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", ve[0].Error(), len(ve)-1)
}

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a validation error
func (ve *ValidationErrors) Add(field string, value interface{}, message string) {
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// AddIf adds a validation error if the condition is true
func (ve *ValidationErrors) AddIf(condition bool, field string, value interface{}, message string) {
	if condition {
		ve.Add(field, value, message)
	}
}
