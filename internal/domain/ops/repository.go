package ops

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IssueFilter defines filtering options for issue queries
type IssueFilter struct {
	Search     string
	PropertyID *uuid.UUID
	Severity   *IssueSeverity
	Status     *IssueStatus
	AssigneeID *uuid.UUID
	Page       int
	PageSize   int
}

// IssueRepository defines persistence operations for issues
type IssueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Issue, error)
	FindAll(ctx context.Context, filter IssueFilter) ([]Issue, int64, error)
	FindOpenByProperty(ctx context.Context, propertyID uuid.UUID) ([]Issue, error)
	Save(ctx context.Context, i *Issue) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// TaskFilter defines filtering options for task queries
type TaskFilter struct {
	Search     string
	PropertyID *uuid.UUID
	AssigneeID *uuid.UUID
	Status     *TaskStatus
	Priority   *TaskPriority
	DueBefore  *time.Time
	Page       int
	PageSize   int
}

// TaskRepository defines persistence operations for tasks
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]Task, error)
	Save(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
