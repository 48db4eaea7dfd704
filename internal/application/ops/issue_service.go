package ops

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
)

// IssueService handles maintenance issue use cases
type IssueService struct {
	issueRepo      ops.IssueRepository
	propertyRepo   portfolio.PropertyRepository
	eventPublisher shared.EventPublisher
}

// NewIssueService creates a new issue service
func NewIssueService(
	issueRepo ops.IssueRepository,
	propertyRepo portfolio.PropertyRepository,
	eventPublisher shared.EventPublisher,
) *IssueService {
	return &IssueService{
		issueRepo:      issueRepo,
		propertyRepo:   propertyRepo,
		eventPublisher: eventPublisher,
	}
}

// Report records a new issue against a property
func (s *IssueService) Report(ctx context.Context, req ReportIssueRequest) (*IssueResponse, error) {
	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property does not exist")
		}
		return nil, err
	}

	issue, err := ops.NewIssue(req.PropertyID, req.Title, req.Description, ops.IssueSeverity(req.Severity), req.ReportedBy)
	if err != nil {
		return nil, err
	}

	if err := s.issueRepo.Save(ctx, issue); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, issue)

	return ToIssueResponse(issue), nil
}

// GetByID retrieves an issue by its ID
func (s *IssueService) GetByID(ctx context.Context, id uuid.UUID) (*IssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToIssueResponse(issue), nil
}

// List retrieves issues matching the filter with pagination
func (s *IssueService) List(ctx context.Context, filter IssueListFilter) ([]IssueResponse, int64, error) {
	domainFilter := ops.IssueFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PROPERTY", "Property id is not a valid UUID")
		}
		domainFilter.PropertyID = &id
	}
	if filter.AssigneeID != "" {
		id, err := uuid.Parse(filter.AssigneeID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ASSIGNEE", "Assignee id is not a valid UUID")
		}
		domainFilter.AssigneeID = &id
	}
	if filter.Severity != "" {
		severity := ops.IssueSeverity(filter.Severity)
		domainFilter.Severity = &severity
	}
	if filter.Status != "" {
		status := ops.IssueStatus(filter.Status)
		domainFilter.Status = &status
	}

	issues, total, err := s.issueRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]IssueResponse, len(issues))
	for i := range issues {
		responses[i] = *ToIssueResponse(&issues[i])
	}
	return responses, total, nil
}

// Update modifies an issue's editable fields
func (s *IssueService) Update(ctx context.Context, id uuid.UUID, req UpdateIssueRequest) (*IssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := issue.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := issue.Description
	if req.Description != nil {
		description = *req.Description
	}
	severity := issue.Severity
	if req.Severity != nil {
		severity = ops.IssueSeverity(*req.Severity)
	}

	if err := issue.Update(title, description, severity); err != nil {
		return nil, err
	}
	if err := s.issueRepo.Save(ctx, issue); err != nil {
		return nil, err
	}
	return ToIssueResponse(issue), nil
}

// Assign puts an issue in IN_PROGRESS under the given user
func (s *IssueService) Assign(ctx context.Context, id uuid.UUID, req AssignIssueRequest) (*IssueResponse, error) {
	return s.mutate(ctx, id, func(issue *ops.Issue) error {
		return issue.Assign(req.AssigneeID)
	})
}

// Resolve records the fix and moves the issue to RESOLVED
func (s *IssueService) Resolve(ctx context.Context, id uuid.UUID, req ResolveIssueRequest) (*IssueResponse, error) {
	return s.mutate(ctx, id, func(issue *ops.Issue) error {
		return issue.Resolve(req.Resolution)
	})
}

// Close closes a resolved issue
func (s *IssueService) Close(ctx context.Context, id uuid.UUID) (*IssueResponse, error) {
	return s.mutate(ctx, id, (*ops.Issue).Close)
}

// Reopen reopens a resolved or closed issue
func (s *IssueService) Reopen(ctx context.Context, id uuid.UUID) (*IssueResponse, error) {
	return s.mutate(ctx, id, (*ops.Issue).Reopen)
}

// Delete removes an issue
func (s *IssueService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.issueRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.issueRepo.Delete(ctx, id)
}

func (s *IssueService) mutate(ctx context.Context, id uuid.UUID, fn func(*ops.Issue) error) (*IssueResponse, error) {
	issue, err := s.issueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(issue); err != nil {
		return nil, err
	}
	if err := s.issueRepo.Save(ctx, issue); err != nil {
		return nil, err
	}
	return ToIssueResponse(issue), nil
}

func (s *IssueService) publishEvents(ctx context.Context, issue *ops.Issue) {
	if s.eventPublisher == nil {
		return
	}
	events := issue.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	issue.ClearDomainEvents()
}
