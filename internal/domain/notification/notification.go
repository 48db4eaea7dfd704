package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
)

// Channel is a delivery channel for notifications
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
)

// IsValid checks if the channel is a valid Channel
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// Status represents the delivery state of one channel attempt
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// EventKind names the business event a notification announces
type EventKind string

const (
	EventBookingCreated   EventKind = "booking.created"
	EventBookingConfirmed EventKind = "booking.confirmed"
	EventBookingCancelled EventKind = "booking.cancelled"
	EventIssueReported    EventKind = "issue.reported"
	EventStatementSent    EventKind = "statement.sent"
	EventPayoutPaid       EventKind = "payout.paid"
	EventTest             EventKind = "test"
)

// IsValid checks if the kind is a known EventKind
func (k EventKind) IsValid() bool {
	switch k {
	case EventBookingCreated, EventBookingConfirmed, EventBookingCancelled,
		EventIssueReported, EventStatementSent, EventPayoutPaid, EventTest:
		return true
	}
	return false
}

// String returns the string representation of EventKind
func (k EventKind) String() string {
	return string(k)
}

// Recipient is who a notification is addressed to. OwnerID or UserID
// identify the party when known; the contact fields drive delivery.
type Recipient struct {
	OwnerID *uuid.UUID
	UserID  *uuid.UUID
	Name    string
	Email   string
	Phone   string
	// WhatsAppOptIn gates the WhatsApp channel
	WhatsAppOptIn bool
}

// HasEmail reports whether an email address is on file
func (r Recipient) HasEmail() bool {
	return strings.TrimSpace(r.Email) != ""
}

// HasPhone reports whether a phone number is on file
func (r Recipient) HasPhone() bool {
	return strings.TrimSpace(r.Phone) != ""
}

// Notification is one delivery attempt on one channel. Every selected
// channel produces exactly one row, whether it succeeded or not.
type Notification struct {
	shared.BaseEntity
	Event     EventKind  `json:"event"`
	Channel   Channel    `json:"channel"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	UserID    *uuid.UUID `json:"user_id"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    Status     `json:"status"`
	Error     string     `json:"error"`
	SentAt    *time.Time `json:"sent_at"`
}

// NewNotification creates a pending notification row
func NewNotification(event EventKind, channel Channel, to Recipient, address, subject, body string) (*Notification, error) {
	if !event.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT", "Notification event is not valid")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Notification channel is not valid")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Event:      event,
		Channel:    channel,
		OwnerID:    to.OwnerID,
		UserID:     to.UserID,
		Recipient:  address,
		Subject:    subject,
		Body:       body,
		Status:     StatusPending,
	}, nil
}

// MarkSent records a successful delivery
func (n *Notification) MarkSent() {
	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

// MarkFailed records a failed delivery with its reason
func (n *Notification) MarkFailed(reason string) {
	n.Status = StatusFailed
	n.Error = reason
	n.Touch()
}
