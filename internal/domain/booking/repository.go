package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingFilter defines filtering options for booking queries
type BookingFilter struct {
	Search     string
	PropertyID *uuid.UUID
	Status     *BookingStatus
	Source     *BookingSource
	FromDate   *time.Time
	ToDate     *time.Time
	Paid       *bool
	Page       int
	PageSize   int
}

// BookingRepository defines persistence operations for bookings
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByCode(ctx context.Context, code string) (*Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]Booking, int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]Booking, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID, filter BookingFilter) ([]Booking, error)
	CountByStatus(ctx context.Context) (map[BookingStatus]int64, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
