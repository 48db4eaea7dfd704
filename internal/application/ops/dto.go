package ops

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
)

// =============================================================================
// Issue DTOs
// =============================================================================

// ReportIssueRequest represents the request to report an issue
type ReportIssueRequest struct {
	PropertyID  uuid.UUID `json:"property_id" binding:"required"`
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	Severity    string    `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH URGENT"`
	ReportedBy  string    `json:"reported_by" binding:"omitempty,max=200"`
}

// UpdateIssueRequest represents the request to update an issue
type UpdateIssueRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Severity    *string `json:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// AssignIssueRequest assigns an issue to a user
type AssignIssueRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// ResolveIssueRequest records how an issue was resolved
type ResolveIssueRequest struct {
	Resolution string `json:"resolution" binding:"required,max=2000"`
}

// IssueListFilter represents query filters for listing issues
type IssueListFilter struct {
	Search     string `form:"search"`
	PropertyID string `form:"property_id"`
	Severity   string `form:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	AssigneeID string `form:"assignee_id"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// IssueResponse represents an issue in API responses
type IssueResponse struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	ReportedBy  string     `json:"reported_by,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToIssueResponse converts a domain issue to a response DTO
func ToIssueResponse(i *ops.Issue) *IssueResponse {
	return &IssueResponse{
		ID:          i.ID,
		PropertyID:  i.PropertyID,
		Title:       i.Title,
		Description: i.Description,
		Severity:    string(i.Severity),
		Status:      string(i.Status),
		ReportedBy:  i.ReportedBy,
		AssigneeID:  i.AssigneeID,
		ResolvedAt:  i.ResolvedAt,
		ClosedAt:    i.ClosedAt,
		Resolution:  i.Resolution,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// =============================================================================
// Task DTOs
// =============================================================================

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Notes      string     `json:"notes" binding:"omitempty,max=2000"`
	PropertyID *uuid.UUID `json:"property_id"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
	Priority   string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// UpdateTaskRequest represents the request to update a task
type UpdateTaskRequest struct {
	Title      *string    `json:"title" binding:"omitempty,max=200"`
	Notes      *string    `json:"notes" binding:"omitempty,max=2000"`
	PropertyID *uuid.UUID `json:"property_id"`
	DueDate    *time.Time `json:"due_date"`
	Priority   *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// AssignTaskRequest assigns a task to a user
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// TaskListFilter represents query filters for listing tasks
type TaskListFilter struct {
	Search     string `form:"search"`
	PropertyID string `form:"property_id"`
	AssigneeID string `form:"assignee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority   string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueBefore  string `form:"due_before"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToTaskResponse converts a domain task to a response DTO
func ToTaskResponse(t *ops.Task) *TaskResponse {
	return &TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Notes:       t.Notes,
		PropertyID:  t.PropertyID,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Overdue:     t.IsOverdue(time.Now().UTC()),
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
