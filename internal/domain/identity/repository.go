package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserFilter defines filtering options for user queries
type UserFilter struct {
	Search   string
	Role     *Role
	Active   *bool
	Page     int
	PageSize int
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
