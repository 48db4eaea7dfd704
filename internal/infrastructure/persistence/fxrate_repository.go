package persistence

import (
	"context"
	"errors"

	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFXRateRepository implements FXRateRepository using GORM
type GormFXRateRepository struct {
	db *gorm.DB
}

// NewGormFXRateRepository creates a new GormFXRateRepository
func NewGormFXRateRepository(db *gorm.DB) *GormFXRateRepository {
	return &GormFXRateRepository{db: db}
}

// FindByCurrency finds the stored rate for a currency
func (r *GormFXRateRepository) FindByCurrency(ctx context.Context, currency valueobject.Currency) (*finance.FXRate, error) {
	var model models.FXRateModel
	if err := r.db.WithContext(ctx).First(&model, "currency = ?", currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all stored rates
func (r *GormFXRateRepository) FindAll(ctx context.Context) ([]finance.FXRate, error) {
	var rateModels []models.FXRateModel
	if err := r.db.WithContext(ctx).Order("currency ASC").Find(&rateModels).Error; err != nil {
		return nil, err
	}

	rates := make([]finance.FXRate, len(rateModels))
	for i, model := range rateModels {
		rates[i] = *model.ToDomain()
	}
	return rates, nil
}

// Save upserts the rate for a currency
func (r *GormFXRateRepository) Save(ctx context.Context, rate *finance.FXRate) error {
	model := models.FXRateModelFromDomain(rate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate_to_usd", "updated_at"}),
		}).
		Create(model).Error
}
