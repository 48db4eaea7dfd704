package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for settings
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Setting, error)
	FindByKey(ctx context.Context, key string) (*Setting, error)
	FindByGroup(ctx context.Context, group SettingGroup) ([]Setting, error)
	FindAll(ctx context.Context) ([]Setting, error)
	// Upsert creates the key or replaces its value
	Upsert(ctx context.Context, s *Setting) error
	Delete(ctx context.Context, id uuid.UUID) error
}
