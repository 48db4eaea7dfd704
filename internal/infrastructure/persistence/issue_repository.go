package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormIssueRepository implements IssueRepository using GORM
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository creates a new GormIssueRepository
func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	return &GormIssueRepository{db: db}
}

// FindByID finds an issue by its ID
func (r *GormIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.Issue, error) {
	var model models.IssueModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all issues matching the filter with the total count
func (r *GormIssueRepository) FindAll(ctx context.Context, filter ops.IssueFilter) ([]ops.Issue, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.IssueModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var issueModels []models.IssueModel
	if err := paginate(query.Order("created_at DESC"), filter.Page, filter.PageSize).
		Find(&issueModels).Error; err != nil {
		return nil, 0, err
	}

	issues := make([]ops.Issue, len(issueModels))
	for i, model := range issueModels {
		issues[i] = *model.ToDomain()
	}
	return issues, total, nil
}

// FindOpenByProperty finds unresolved issues for a property
func (r *GormIssueRepository) FindOpenByProperty(ctx context.Context, propertyID uuid.UUID) ([]ops.Issue, error) {
	var issueModels []models.IssueModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND status IN ?", propertyID,
			[]ops.IssueStatus{ops.IssueStatusOpen, ops.IssueStatusInProgress}).
		Order("created_at DESC").
		Find(&issueModels).Error; err != nil {
		return nil, err
	}

	issues := make([]ops.Issue, len(issueModels))
	for i, model := range issueModels {
		issues[i] = *model.ToDomain()
	}
	return issues, nil
}

// Save persists an issue
func (r *GormIssueRepository) Save(ctx context.Context, i *ops.Issue) error {
	model := models.IssueModelFromDomain(i)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an issue by ID
func (r *GormIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.IssueModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of issues
func (r *GormIssueRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.IssueModel{}).Count(&count).Error
	return count, err
}
