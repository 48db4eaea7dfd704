package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	Code        string          `json:"code" binding:"required,max=50"`
	PropertyID  uuid.UUID       `json:"property_id" binding:"required"`
	GuestName   string          `json:"guest_name" binding:"required,max=200"`
	GuestPhone  string          `json:"guest_phone" binding:"omitempty,max=32"`
	GuestEmail  string          `json:"guest_email" binding:"omitempty,email"`
	CheckIn     time.Time       `json:"check_in" binding:"required"`
	CheckOut    time.Time       `json:"check_out" binding:"required"`
	GrossAmount decimal.Decimal `json:"gross_amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	ChannelFee  decimal.Decimal `json:"channel_fee"`
	Source      string          `json:"source" binding:"required,oneof=AIRBNB BOOKING_COM EXPEDIA DIRECT OTHER"`
	Notes       string          `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateBookingRequest represents the request to update a booking
type UpdateBookingRequest struct {
	GuestName   *string          `json:"guest_name" binding:"omitempty,max=200"`
	GuestPhone  *string          `json:"guest_phone" binding:"omitempty,max=32"`
	GuestEmail  *string          `json:"guest_email" binding:"omitempty,email"`
	CheckIn     *time.Time       `json:"check_in"`
	CheckOut    *time.Time       `json:"check_out"`
	GrossAmount *decimal.Decimal `json:"gross_amount"`
	ChannelFee  *decimal.Decimal `json:"channel_fee"`
	Source      *string          `json:"source" binding:"omitempty,oneof=AIRBNB BOOKING_COM EXPEDIA DIRECT OTHER"`
	Notes       *string          `json:"notes" binding:"omitempty,max=2000"`
}

// CancelBookingRequest carries an optional cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// BookingListFilter represents query filters for listing bookings
type BookingListFilter struct {
	Search     string `form:"search"`
	PropertyID string `form:"property_id"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CHECKED_IN CHECKED_OUT CANCELLED"`
	Source     string `form:"source" binding:"omitempty,oneof=AIRBNB BOOKING_COM EXPEDIA DIRECT OTHER"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Paid       *bool  `form:"paid"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	PropertyID   uuid.UUID       `json:"property_id"`
	GuestName    string          `json:"guest_name"`
	GuestPhone   string          `json:"guest_phone,omitempty"`
	GuestEmail   string          `json:"guest_email,omitempty"`
	CheckIn      time.Time       `json:"check_in"`
	CheckOut     time.Time       `json:"check_out"`
	Nights       int             `json:"nights"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	Currency     string          `json:"currency"`
	ChannelFee   decimal.Decimal `json:"channel_fee"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	Paid         bool            `json:"paid"`
	Notes        string          `json:"notes,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	CheckedInAt  *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time      `json:"checked_out_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StatusCountResponse maps booking statuses to their counts
type StatusCountResponse struct {
	Pending    int64 `json:"pending"`
	Confirmed  int64 `json:"confirmed"`
	CheckedIn  int64 `json:"checked_in"`
	CheckedOut int64 `json:"checked_out"`
	Cancelled  int64 `json:"cancelled"`
}

// ToBookingResponse converts a domain booking to a response DTO
func ToBookingResponse(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:           b.ID,
		Code:         b.Code,
		PropertyID:   b.PropertyID,
		GuestName:    b.GuestName,
		GuestPhone:   b.GuestPhone,
		GuestEmail:   b.GuestEmail,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		Nights:       b.Nights,
		GrossAmount:  b.GrossAmount,
		Currency:     string(b.Currency),
		ChannelFee:   b.ChannelFee,
		NetAmount:    b.NetOfChannelFee(),
		Source:       string(b.Source),
		Status:       string(b.Status),
		Paid:         b.Paid,
		Notes:        b.Notes,
		ConfirmedAt:  b.ConfirmedAt,
		CheckedInAt:  b.CheckedInAt,
		CheckedOutAt: b.CheckedOutAt,
		CancelledAt:  b.CancelledAt,
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
