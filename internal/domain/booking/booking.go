package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BookingSource represents the channel a booking arrived through
type BookingSource string

const (
	SourceAirbnb     BookingSource = "AIRBNB"
	SourceBookingCom BookingSource = "BOOKING_COM"
	SourceDirect     BookingSource = "DIRECT"
	SourceExpedia    BookingSource = "EXPEDIA"
	SourceOther      BookingSource = "OTHER"
)

// IsValid checks if the source is a valid BookingSource
func (s BookingSource) IsValid() bool {
	switch s {
	case SourceAirbnb, SourceBookingCom, SourceDirect, SourceExpedia, SourceOther:
		return true
	}
	return false
}

// String returns the string representation of BookingSource
func (s BookingSource) String() string {
	return string(s)
}

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the booking is in a terminal state
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// CanConfirm returns true if the booking can be confirmed
func (s BookingStatus) CanConfirm() bool {
	return s == StatusPending
}

// CanCheckIn returns true if the guest can be checked in
func (s BookingStatus) CanCheckIn() bool {
	return s == StatusConfirmed
}

// CanCheckOut returns true if the guest can be checked out
func (s BookingStatus) CanCheckOut() bool {
	return s == StatusCheckedIn
}

// CanCancel returns true if the booking can be cancelled
func (s BookingStatus) CanCancel() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CountsAsRevenue returns true if the booking contributes to revenue
// aggregation
func (s BookingStatus) CountsAsRevenue() bool {
	return s != StatusCancelled
}

// Booking represents a guest stay aggregate root
type Booking struct {
	shared.BaseAggregateRoot
	Code         string               `json:"code"`
	PropertyID   uuid.UUID            `json:"property_id"`
	GuestName    string               `json:"guest_name"`
	GuestPhone   string               `json:"guest_phone"`
	GuestEmail   string               `json:"guest_email"`
	CheckIn      time.Time            `json:"check_in"`
	CheckOut     time.Time            `json:"check_out"`
	Nights       int                  `json:"nights"`
	GrossAmount  decimal.Decimal      `json:"gross_amount"`
	Currency     valueobject.Currency `json:"currency"`
	ChannelFee   decimal.Decimal      `json:"channel_fee"`
	Source       BookingSource        `json:"source"`
	Status       BookingStatus        `json:"status"`
	Paid         bool                 `json:"paid"`
	Notes        string               `json:"notes"`
	ConfirmedAt  *time.Time           `json:"confirmed_at"`
	CheckedInAt  *time.Time           `json:"checked_in_at"`
	CheckedOutAt *time.Time           `json:"checked_out_at"`
	CancelledAt  *time.Time           `json:"cancelled_at"`
	CancelReason string               `json:"cancel_reason"`
}

// NewBooking creates a new booking in PENDING status
func NewBooking(
	code string,
	propertyID uuid.UUID,
	guestName string,
	checkIn, checkOut time.Time,
	gross valueobject.Money,
	channelFee decimal.Decimal,
	source BookingSource,
) (*Booking, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Booking code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Booking code cannot exceed 50 characters")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if strings.TrimSpace(guestName) == "" {
		return nil, shared.NewDomainError("INVALID_GUEST", "Guest name cannot be empty")
	}
	if !checkOut.After(checkIn) {
		return nil, shared.NewDomainError("INVALID_DATES", "Check-out must be after check-in")
	}
	if gross.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Gross amount cannot be negative")
	}
	if channelFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Channel fee cannot be negative")
	}
	if channelFee.GreaterThan(gross.Amount()) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Channel fee cannot exceed gross amount")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Booking source is not valid")
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		PropertyID:        propertyID,
		GuestName:         guestName,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Nights:            nightsBetween(checkIn, checkOut),
		GrossAmount:       gross.Amount(),
		Currency:          gross.Currency(),
		ChannelFee:        channelFee,
		Source:            source,
		Status:            StatusPending,
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// nightsBetween counts whole nights between two dates, calendar-day based
func nightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

// SetGuestContact sets the guest's phone and email
func (b *Booking) SetGuestContact(phone, email string) {
	b.GuestPhone = strings.TrimSpace(phone)
	b.GuestEmail = strings.TrimSpace(email)
	b.Touch()
}

// UpdateDetails updates the editable fields of a non-terminal booking
func (b *Booking) UpdateDetails(guestName string, checkIn, checkOut time.Time, gross valueobject.Money, channelFee decimal.Decimal, source BookingSource, notes string) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update booking in %s status", b.Status))
	}
	if strings.TrimSpace(guestName) == "" {
		return shared.NewDomainError("INVALID_GUEST", "Guest name cannot be empty")
	}
	if !checkOut.After(checkIn) {
		return shared.NewDomainError("INVALID_DATES", "Check-out must be after check-in")
	}
	if gross.Amount().IsNegative() || channelFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if !source.IsValid() {
		return shared.NewDomainError("INVALID_SOURCE", "Booking source is not valid")
	}

	b.GuestName = guestName
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	b.Nights = nightsBetween(checkIn, checkOut)
	b.GrossAmount = gross.Amount()
	b.Currency = gross.Currency()
	b.ChannelFee = channelFee
	b.Source = source
	b.Notes = notes
	b.Touch()

	return nil
}

// Confirm moves the booking from PENDING to CONFIRMED
func (b *Booking) Confirm() error {
	if !b.Status.CanConfirm() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now

	b.AddDomainEvent(NewBookingConfirmedEvent(b))

	return nil
}

// CheckInGuest records the guest's arrival
func (b *Booking) CheckInGuest() error {
	if !b.Status.CanCheckIn() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot check in booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = StatusCheckedIn
	b.CheckedInAt = &now
	b.UpdatedAt = now

	return nil
}

// CheckOutGuest records the guest's departure
func (b *Booking) CheckOutGuest() error {
	if !b.Status.CanCheckOut() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot check out booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = StatusCheckedOut
	b.CheckedOutAt = &now
	b.UpdatedAt = now

	return nil
}

// Cancel cancels a pending or confirmed booking
func (b *Booking) Cancel(reason string) error {
	if !b.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancelReason = reason
	b.UpdatedAt = now

	b.AddDomainEvent(NewBookingCancelledEvent(b))

	return nil
}

// MarkPaid flags the booking as paid
func (b *Booking) MarkPaid() error {
	if b.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark a cancelled booking as paid")
	}
	if b.Paid {
		return shared.NewDomainError("INVALID_STATE", "Booking is already paid")
	}

	b.Paid = true
	b.Touch()

	return nil
}

// GrossMoney returns the gross amount as a Money value
func (b *Booking) GrossMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(b.GrossAmount, b.Currency)
	return m
}

// NetOfChannelFee returns the gross amount minus the channel fee
func (b *Booking) NetOfChannelFee() decimal.Decimal {
	return b.GrossAmount.Sub(b.ChannelFee)
}

// HasGuestPhone returns true if the guest left a phone number
func (b *Booking) HasGuestPhone() bool {
	return b.GuestPhone != ""
}

// HasGuestEmail returns true if the guest left an email address
func (b *Booking) HasGuestEmail() bool {
	return b.GuestEmail != ""
}
