package notification

import (
	"context"

	"github.com/google/uuid"
)

// Filter defines filtering options for notification queries
type Filter struct {
	Event    *EventKind
	Channel  *Channel
	Status   *Status
	OwnerID  *uuid.UUID
	Page     int
	PageSize int
}

// Repository defines persistence operations for notification rows
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter Filter) ([]Notification, int64, error)
	Save(ctx context.Context, n *Notification) error
	Count(ctx context.Context) (int64, error)
}
