package ops

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// TaskPriority ranks tasks for the staff work queue
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// IsValid checks if the priority is a valid TaskPriority
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// String returns the string representation of TaskPriority
func (p TaskPriority) String() string {
	return string(p)
}

// Task represents a unit of staff work, optionally tied to a property
type Task struct {
	shared.BaseAggregateRoot
	Title       string       `json:"title"`
	Notes       string       `json:"notes"`
	PropertyID  *uuid.UUID   `json:"property_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
	DueDate     *time.Time   `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	CompletedAt *time.Time   `json:"completed_at"`
}

// NewTask creates a new task in TODO status
func NewTask(title, notes string, propertyID *uuid.UUID, dueDate *time.Time, priority TaskPriority) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Task priority is not valid")
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Notes:             notes,
		PropertyID:        propertyID,
		DueDate:           dueDate,
		Priority:          priority,
		Status:            TaskStatusTodo,
	}, nil
}

// Update replaces the editable fields of an unfinished task
func (t *Task) Update(title, notes string, propertyID *uuid.UUID, dueDate *time.Time, priority TaskPriority) error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a completed task")
	}
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Task priority is not valid")
	}

	t.Title = title
	t.Notes = notes
	t.PropertyID = propertyID
	t.DueDate = dueDate
	t.Priority = priority
	t.Touch()

	return nil
}

// Assign hands the task to a user
func (t *Task) Assign(assigneeID uuid.UUID) error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a completed task")
	}
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Assignee ID cannot be empty")
	}

	t.AssigneeID = &assigneeID
	if t.Status == TaskStatusTodo {
		t.Status = TaskStatusInProgress
	}
	t.Touch()

	return nil
}

// Start moves the task to IN_PROGRESS
func (t *Task) Start() error {
	if t.Status != TaskStatusTodo {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start task in %s status", t.Status))
	}

	t.Status = TaskStatusInProgress
	t.Touch()

	return nil
}

// Complete marks the task as done
func (t *Task) Complete() error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Task is already completed")
	}

	now := time.Now()
	t.Status = TaskStatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now

	return nil
}

// IsOverdue reports whether the task passed its due date unfinished
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusDone && t.DueDate != nil && now.After(*t.DueDate)
}
