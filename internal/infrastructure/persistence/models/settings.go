package models

import (
	"github.com/pms/backend/internal/domain/settings"
)

// SettingModel is the persistence model for key/value settings.
type SettingModel struct {
	BaseModel
	Key   string                `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value string                `gorm:"type:text"`
	Group settings.SettingGroup `gorm:"column:group_name;type:varchar(30);not null;index"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting entity.
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		BaseEntity: m.BaseModel.ToDomain(),
		Key:        m.Key,
		Value:      m.Value,
		Group:      m.Group,
	}
}

// FromDomain populates the persistence model from a domain Setting entity.
func (m *SettingModel) FromDomain(s *settings.Setting) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Key = s.Key
	m.Value = s.Value
	m.Group = s.Group
}

// SettingModelFromDomain creates a new persistence model from a domain Setting entity.
func SettingModelFromDomain(s *settings.Setting) *SettingModel {
	m := &SettingModel{}
	m.FromDomain(s)
	return m
}
