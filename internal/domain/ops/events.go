package ops

import (
	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
)

// IssueReportedEvent is raised when a new issue is reported
type IssueReportedEvent struct {
	shared.BaseDomainEvent
	IssueID    uuid.UUID     `json:"issue_id"`
	PropertyID uuid.UUID     `json:"property_id"`
	Title      string        `json:"title"`
	Severity   IssueSeverity `json:"severity"`
	ReportedBy string        `json:"reported_by"`
}

// EventType returns the event type name
func (e *IssueReportedEvent) EventType() string {
	return "IssueReported"
}

// NewIssueReportedEvent creates a new IssueReportedEvent
func NewIssueReportedEvent(i *Issue) *IssueReportedEvent {
	return &IssueReportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("IssueReported", "Issue", i.ID),
		IssueID:         i.ID,
		PropertyID:      i.PropertyID,
		Title:           i.Title,
		Severity:        i.Severity,
		ReportedBy:      i.ReportedBy,
	}
}
