package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStatementRepository implements StatementRepository using GORM.
// Statement lines are persisted together with the statement.
type GormStatementRepository struct {
	db *gorm.DB
}

// NewGormStatementRepository creates a new GormStatementRepository
func NewGormStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{db: db}
}

// FindByID finds a statement with its lines by ID
func (r *GormStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Statement, error) {
	var model models.StatementModel
	if err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a statement with its lines by code
func (r *GormStatementRepository) FindByCode(ctx context.Context, code string) (*finance.Statement, error) {
	var model models.StatementModel
	if err := r.db.WithContext(ctx).Preload("Lines").First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwnerAndPeriod finds the statement for an owner covering a period
func (r *GormStatementRepository) FindByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, periodStart, periodEnd time.Time) (*finance.Statement, error) {
	var model models.StatementModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("owner_id = ? AND period_start = ? AND period_end = ?", ownerID, periodStart, periodEnd).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all statements matching the filter with the total count
func (r *GormStatementRepository) FindAll(ctx context.Context, filter finance.StatementFilter) ([]finance.Statement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StatementModel{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("period_start >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("period_end <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var statementModels []models.StatementModel
	if err := paginate(query.Preload("Lines").Order("period_start DESC"), filter.Page, filter.PageSize).
		Find(&statementModels).Error; err != nil {
		return nil, 0, err
	}

	statements := make([]finance.Statement, len(statementModels))
	for i, model := range statementModels {
		statements[i] = *model.ToDomain()
	}
	return statements, total, nil
}

// Save persists a statement and replaces its lines
func (r *GormStatementRepository) Save(ctx context.Context, s *finance.Statement) error {
	model := models.StatementModelFromDomain(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("statement_id = ?", model.ID).Delete(&models.StatementLineModel{}).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// Delete removes a statement and its lines by ID
func (r *GormStatementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("statement_id = ?", id).Delete(&models.StatementLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.StatementModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count returns the total number of statements
func (r *GormStatementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StatementModel{}).Count(&count).Error
	return count, err
}
