package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
)

// IssueModel is the persistence model for the Issue domain entity.
type IssueModel struct {
	AggregateModel
	PropertyID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title       string            `gorm:"type:varchar(200);not null"`
	Description string            `gorm:"type:text"`
	Severity    ops.IssueSeverity `gorm:"type:varchar(20);not null;index"`
	Status      ops.IssueStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ReportedBy  string            `gorm:"type:varchar(200)"`
	AssigneeID  *uuid.UUID        `gorm:"type:uuid;index"`
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
	Resolution  string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (IssueModel) TableName() string {
	return "issues"
}

// ToDomain converts the persistence model to a domain Issue entity.
func (m *IssueModel) ToDomain() *ops.Issue {
	return &ops.Issue{
		BaseAggregateRoot: m.aggregateRoot(),
		PropertyID:        m.PropertyID,
		Title:             m.Title,
		Description:       m.Description,
		Severity:          m.Severity,
		Status:            m.Status,
		ReportedBy:        m.ReportedBy,
		AssigneeID:        m.AssigneeID,
		ResolvedAt:        m.ResolvedAt,
		ClosedAt:          m.ClosedAt,
		Resolution:        m.Resolution,
	}
}

// FromDomain populates the persistence model from a domain Issue entity.
func (m *IssueModel) FromDomain(i *ops.Issue) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.PropertyID = i.PropertyID
	m.Title = i.Title
	m.Description = i.Description
	m.Severity = i.Severity
	m.Status = i.Status
	m.ReportedBy = i.ReportedBy
	m.AssigneeID = i.AssigneeID
	m.ResolvedAt = i.ResolvedAt
	m.ClosedAt = i.ClosedAt
	m.Resolution = i.Resolution
}

// IssueModelFromDomain creates a new persistence model from a domain Issue entity.
func IssueModelFromDomain(i *ops.Issue) *IssueModel {
	m := &IssueModel{}
	m.FromDomain(i)
	return m
}

// TaskModel is the persistence model for the Task domain entity.
type TaskModel struct {
	AggregateModel
	Title       string           `gorm:"type:varchar(200);not null"`
	Notes       string           `gorm:"type:text"`
	PropertyID  *uuid.UUID       `gorm:"type:uuid;index"`
	AssigneeID  *uuid.UUID       `gorm:"type:uuid;index"`
	DueDate     *time.Time       `gorm:"index"`
	Priority    ops.TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	Status      ops.TaskStatus   `gorm:"type:varchar(20);not null;default:'TODO';index"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *ops.Task {
	return &ops.Task{
		BaseAggregateRoot: m.aggregateRoot(),
		Title:             m.Title,
		Notes:             m.Notes,
		PropertyID:        m.PropertyID,
		AssigneeID:        m.AssigneeID,
		DueDate:           m.DueDate,
		Priority:          m.Priority,
		Status:            m.Status,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *ops.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Notes = t.Notes
	m.PropertyID = t.PropertyID
	m.AssigneeID = t.AssigneeID
	m.DueDate = t.DueDate
	m.Priority = t.Priority
	m.Status = t.Status
	m.CompletedAt = t.CompletedAt
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *ops.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
