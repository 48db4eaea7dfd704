package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BookingCreatedEvent is raised when a new booking is created
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID   uuid.UUID            `json:"booking_id"`
	Code        string               `json:"code"`
	PropertyID  uuid.UUID            `json:"property_id"`
	GuestName   string               `json:"guest_name"`
	CheckIn     time.Time            `json:"check_in"`
	CheckOut    time.Time            `json:"check_out"`
	GrossAmount decimal.Decimal      `json:"gross_amount"`
	Currency    valueobject.Currency `json:"currency"`
	Source      BookingSource        `json:"source"`
}

// EventType returns the event type name
func (e *BookingCreatedEvent) EventType() string {
	return "BookingCreated"
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BookingCreated", "Booking", b.ID),
		BookingID:       b.ID,
		Code:            b.Code,
		PropertyID:      b.PropertyID,
		GuestName:       b.GuestName,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		GrossAmount:     b.GrossAmount,
		Currency:        b.Currency,
		Source:          b.Source,
	}
}

// BookingConfirmedEvent is raised when a booking is confirmed
type BookingConfirmedEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID `json:"booking_id"`
	Code       string    `json:"code"`
	PropertyID uuid.UUID `json:"property_id"`
	GuestName  string    `json:"guest_name"`
	GuestPhone string    `json:"guest_phone"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
}

// EventType returns the event type name
func (e *BookingConfirmedEvent) EventType() string {
	return "BookingConfirmed"
}

// NewBookingConfirmedEvent creates a new BookingConfirmedEvent
func NewBookingConfirmedEvent(b *Booking) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BookingConfirmed", "Booking", b.ID),
		BookingID:       b.ID,
		Code:            b.Code,
		PropertyID:      b.PropertyID,
		GuestName:       b.GuestName,
		GuestPhone:      b.GuestPhone,
		GuestEmail:      b.GuestEmail,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
	}
}

// BookingCancelledEvent is raised when a booking is cancelled
type BookingCancelledEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID `json:"booking_id"`
	Code       string    `json:"code"`
	PropertyID uuid.UUID `json:"property_id"`
	GuestName  string    `json:"guest_name"`
	Reason     string    `json:"reason"`
}

// EventType returns the event type name
func (e *BookingCancelledEvent) EventType() string {
	return "BookingCancelled"
}

// NewBookingCancelledEvent creates a new BookingCancelledEvent
func NewBookingCancelledEvent(b *Booking) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BookingCancelled", "Booking", b.ID),
		BookingID:       b.ID,
		Code:            b.Code,
		PropertyID:      b.PropertyID,
		GuestName:       b.GuestName,
		Reason:          b.CancelReason,
	}
}
