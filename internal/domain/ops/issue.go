package ops

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
)

// IssueSeverity ranks how urgent a reported issue is
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "LOW"
	SeverityMedium IssueSeverity = "MEDIUM"
	SeverityHigh   IssueSeverity = "HIGH"
	SeverityUrgent IssueSeverity = "URGENT"
)

// IsValid checks if the severity is a valid IssueSeverity
func (s IssueSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityUrgent:
		return true
	}
	return false
}

// String returns the string representation of IssueSeverity
func (s IssueSeverity) String() string {
	return string(s)
}

// IssueStatus represents the lifecycle state of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// IsValid checks if the status is a valid IssueStatus
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of IssueStatus
func (s IssueStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further work is expected
func (s IssueStatus) IsTerminal() bool {
	return s == IssueStatusClosed
}

// Issue represents a maintenance or guest-reported problem at a property
type Issue struct {
	shared.BaseAggregateRoot
	PropertyID  uuid.UUID     `json:"property_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    IssueSeverity `json:"severity"`
	Status      IssueStatus   `json:"status"`
	ReportedBy  string        `json:"reported_by"`
	AssigneeID  *uuid.UUID    `json:"assignee_id"`
	ResolvedAt  *time.Time    `json:"resolved_at"`
	ClosedAt    *time.Time    `json:"closed_at"`
	Resolution  string        `json:"resolution"`
}

// NewIssue reports a new issue in OPEN status
func NewIssue(propertyID uuid.UUID, title, description string, severity IssueSeverity, reportedBy string) (*Issue, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Issue severity is not valid")
	}

	issue := &Issue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		Title:             title,
		Description:       description,
		Severity:          severity,
		Status:            IssueStatusOpen,
		ReportedBy:        reportedBy,
	}

	issue.AddDomainEvent(NewIssueReportedEvent(issue))

	return issue, nil
}

// Update replaces the editable fields of an open issue
func (i *Issue) Update(title, description string, severity IssueSeverity) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed issue")
	}
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if !severity.IsValid() {
		return shared.NewDomainError("INVALID_SEVERITY", "Issue severity is not valid")
	}

	i.Title = title
	i.Description = description
	i.Severity = severity
	i.Touch()

	return nil
}

// Assign hands the issue to a user and moves it to IN_PROGRESS
func (i *Issue) Assign(assigneeID uuid.UUID) error {
	if i.Status != IssueStatusOpen && i.Status != IssueStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot assign issue in %s status", i.Status))
	}
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Assignee ID cannot be empty")
	}

	i.AssigneeID = &assigneeID
	i.Status = IssueStatusInProgress
	i.Touch()

	return nil
}

// Resolve marks the issue as fixed
func (i *Issue) Resolve(resolution string) error {
	if i.Status != IssueStatusOpen && i.Status != IssueStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resolve issue in %s status", i.Status))
	}

	now := time.Now()
	i.Status = IssueStatusResolved
	i.ResolvedAt = &now
	i.Resolution = resolution
	i.UpdatedAt = now

	return nil
}

// Close ends the issue. Open issues may be closed directly when
// reported in error.
func (i *Issue) Close() error {
	if i.Status == IssueStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Issue is already closed")
	}

	now := time.Now()
	i.Status = IssueStatusClosed
	i.ClosedAt = &now
	i.UpdatedAt = now

	return nil
}

// Reopen puts a resolved or closed issue back to OPEN
func (i *Issue) Reopen() error {
	if i.Status != IssueStatusResolved && i.Status != IssueStatusClosed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reopen issue in %s status", i.Status))
	}

	i.Status = IssueStatusOpen
	i.ResolvedAt = nil
	i.ClosedAt = nil
	i.Resolution = ""
	i.Touch()

	return nil
}

// IsUrgent returns true for issues that page staff over SMS
func (i *Issue) IsUrgent() bool {
	return i.Severity == SeverityUrgent
}
