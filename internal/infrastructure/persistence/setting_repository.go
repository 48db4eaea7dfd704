package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByID finds a setting by its ID
func (r *GormSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a setting by its key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroup finds all settings in a group
func (r *GormSettingRepository) FindByGroup(ctx context.Context, group settings.SettingGroup) ([]settings.Setting, error) {
	var settingModels []models.SettingModel
	if err := r.db.WithContext(ctx).
		Where("group_name = ?", group).
		Order("key ASC").
		Find(&settingModels).Error; err != nil {
		return nil, err
	}

	result := make([]settings.Setting, len(settingModels))
	for i, model := range settingModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindAll returns every stored setting
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]settings.Setting, error) {
	var settingModels []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}

	result := make([]settings.Setting, len(settingModels))
	for i, model := range settingModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Upsert creates the key or replaces its value
func (r *GormSettingRepository) Upsert(ctx context.Context, s *settings.Setting) error {
	model := models.SettingModelFromDomain(s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "group_name", "updated_at"}),
		}).
		Create(model).Error
}

// Delete removes a setting by ID
func (r *GormSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SettingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
