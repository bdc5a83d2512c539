package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

// Task represents a unit of work. Dependencies must reach StatusDone
// before this task may; the relation over the whole store is kept acyclic
// by the transition guard.
type Task struct {
	ID           string       `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title        string       `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Status       TaskStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=todo in_progress done blocked"`
	Priority     TaskPriority `json:"priority" yaml:"priority" toml:"priority" validate:"required,oneof=critical high medium low"`
	Dependencies []string     `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty" validate:"dive,uuid4"`
	Labels       []string     `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels,omitempty"`
	ParentID     *string      `json:"parentId,omitempty" yaml:"parentId,omitempty" toml:"parentId,omitempty" validate:"omitempty,uuid4"` // weak back-reference, no ownership
	Effort       float64      `json:"effort,omitempty" yaml:"effort,omitempty" toml:"effort,omitempty" validate:"min=0"`                 // story points, feeds critical path
	Archived     bool         `json:"archived,omitempty" yaml:"archived,omitempty" toml:"archived,omitempty"`
	Source       string       `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"` // provenance tag, stored but never interpreted
	CreatedAt    time.Time    `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt    time.Time    `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
}

// CreateTaskInput is the caller-supplied shape for new tasks. The store
// assigns id, timestamps and status defaults.
type CreateTaskInput struct {
	Title        string       `json:"title" validate:"required,min=1,max=255"`
	Description  string       `json:"description,omitempty"`
	Priority     TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=critical high medium low"`
	Dependencies []string     `json:"dependencies,omitempty" validate:"dive,uuid4"`
	Labels       []string     `json:"labels,omitempty"`
	ParentID     *string      `json:"parentId,omitempty" validate:"omitempty,uuid4"`
	Effort       float64      `json:"effort,omitempty" validate:"min=0"`
	Source       string       `json:"source,omitempty"`
}

// HasLabel reports whether the task carries the given label.
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// DependsOn reports whether id appears in the task's dependency set.
func (t Task) DependsOn(id string) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask builds a task with store defaults applied. The caller is still
// responsible for persisting it.
func NewTask(id string, input CreateTaskInput) Task {
	now := time.Now().UTC()
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	deps := input.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return Task{
		ID:           id,
		Title:        input.Title,
		Description:  input.Description,
		Status:       StatusTodo,
		Priority:     priority,
		Dependencies: deps,
		Labels:       input.Labels,
		ParentID:     input.ParentID,
		Effort:       input.Effort,
		Source:       input.Source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
