package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BookingModel is the persistence model for the Booking domain entity.
type BookingModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	PropertyID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	GuestName    string                `gorm:"type:varchar(200);not null"`
	GuestPhone   string                `gorm:"type:varchar(50)"`
	GuestEmail   string                `gorm:"type:varchar(200)"`
	CheckIn      time.Time             `gorm:"not null;index"`
	CheckOut     time.Time             `gorm:"not null;index"`
	Nights       int                   `gorm:"not null;default:0"`
	GrossAmount  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Currency     valueobject.Currency  `gorm:"type:varchar(3);not null;default:'USD'"`
	ChannelFee   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Source       booking.BookingSource `gorm:"type:varchar(20);not null"`
	Status       booking.BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Paid         bool                  `gorm:"not null;default:false"`
	Notes        string                `gorm:"type:text"`
	ConfirmedAt  *time.Time
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking entity.
func (m *BookingModel) ToDomain() *booking.Booking {
	return &booking.Booking{
		BaseAggregateRoot: m.aggregateRoot(),
		Code:              m.Code,
		PropertyID:        m.PropertyID,
		GuestName:         m.GuestName,
		GuestPhone:        m.GuestPhone,
		GuestEmail:        m.GuestEmail,
		CheckIn:           m.CheckIn,
		CheckOut:          m.CheckOut,
		Nights:            m.Nights,
		GrossAmount:       m.GrossAmount,
		Currency:          m.Currency,
		ChannelFee:        m.ChannelFee,
		Source:            m.Source,
		Status:            m.Status,
		Paid:              m.Paid,
		Notes:             m.Notes,
		ConfirmedAt:       m.ConfirmedAt,
		CheckedInAt:       m.CheckedInAt,
		CheckedOutAt:      m.CheckedOutAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Booking entity.
func (m *BookingModel) FromDomain(b *booking.Booking) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Code = b.Code
	m.PropertyID = b.PropertyID
	m.GuestName = b.GuestName
	m.GuestPhone = b.GuestPhone
	m.GuestEmail = b.GuestEmail
	m.CheckIn = b.CheckIn
	m.CheckOut = b.CheckOut
	m.Nights = b.Nights
	m.GrossAmount = b.GrossAmount
	m.Currency = b.Currency
	m.ChannelFee = b.ChannelFee
	m.Source = b.Source
	m.Status = b.Status
	m.Paid = b.Paid
	m.Notes = b.Notes
	m.ConfirmedAt = b.ConfirmedAt
	m.CheckedInAt = b.CheckedInAt
	m.CheckedOutAt = b.CheckedOutAt
	m.CancelledAt = b.CancelledAt
	m.CancelReason = b.CancelReason
}

// BookingModelFromDomain creates a new persistence model from a domain Booking entity.
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{}
	m.FromDomain(b)
	return m
}
