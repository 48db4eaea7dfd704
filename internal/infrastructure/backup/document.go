// Package backup implements JSON and archive export/restore of the
// application database plus uploaded files.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// FormatVersion is the version written by the JSON exporter
	FormatVersion = "1.1"
	// ArchiveVersion is the version written by the archive exporter
	ArchiveVersion = "2.0"
)

// Document is the versioned JSON backup format. Version 1.0 documents
// carry the same table set without the files section.
type Document struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Data      TableSet  `json:"data"`
	Files     []File    `json:"files,omitempty"`
}

// TableSet holds every exported table, keyed the way the wire format names them
type TableSet struct {
	Owners             []OwnerRow             `json:"owners"`
	Users              []UserRow              `json:"users"`
	Properties         []PropertyRow          `json:"properties"`
	Bookings           []BookingRow           `json:"bookings"`
	Expenses           []ExpenseRow           `json:"expenses"`
	Issues             []IssueRow             `json:"issues"`
	Tasks              []TaskRow              `json:"tasks"`
	Settings           []SettingRow           `json:"settings"`
	Notifications      []NotificationRow      `json:"notifications"`
	Statements         []StatementRow         `json:"statements"`
	Payouts            []PayoutRow            `json:"payouts"`
	Wallets            []WalletRow            `json:"wallets"`
	WalletTransactions []WalletTransactionRow `json:"wallet_transactions"`
}

// File is an uploaded file mirrored into the backup, base64-encoded
type File struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// rowMeta carries the identity and audit columns shared by every row
type rowMeta struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerRow is the wire form of an owner
type OwnerRow struct {
	rowMeta
	Code              string `json:"code"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	PreferredCurrency string `json:"preferred_currency"`
	PayoutMethod      string `json:"payout_method"`
	PayoutDetails     string `json:"payout_details"`
	WhatsAppOptIn     bool   `json:"whatsapp_opt_in"`
	Notes             string `json:"notes"`
}

// UserRow is the wire form of a user. Password hashes are never exported.
type UserRow struct {
	rowMeta
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// PropertyRow is the wire form of a property
type PropertyRow struct {
	rowMeta
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	City           string           `json:"city"`
	Type           string           `json:"type"`
	Bedrooms       int              `json:"bedrooms"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	NightlyRate    decimal.Decimal  `json:"nightly_rate"`
	Currency       string           `json:"currency"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Status         string           `json:"status"`
	Notes          string           `json:"notes"`
}

// BookingRow is the wire form of a booking
type BookingRow struct {
	rowMeta
	Code         string          `json:"code"`
	PropertyID   uuid.UUID       `json:"property_id"`
	GuestName    string          `json:"guest_name"`
	GuestPhone   string          `json:"guest_phone"`
	GuestEmail   string          `json:"guest_email"`
	CheckIn      time.Time       `json:"check_in"`
	CheckOut     time.Time       `json:"check_out"`
	Nights       int             `json:"nights"`
	GrossAmount  decimal.Decimal `json:"gross_amount"`
	Currency     string          `json:"currency"`
	ChannelFee   decimal.Decimal `json:"channel_fee"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	Paid         bool            `json:"paid"`
	Notes        string          `json:"notes"`
	ConfirmedAt  *time.Time      `json:"confirmed_at"`
	CheckedInAt  *time.Time      `json:"checked_in_at"`
	CheckedOutAt *time.Time      `json:"checked_out_at"`
	CancelledAt  *time.Time      `json:"cancelled_at"`
	CancelReason string          `json:"cancel_reason"`
}

// ExpenseRow is the wire form of an expense
type ExpenseRow struct {
	rowMeta
	PropertyID  *uuid.UUID      `json:"property_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	IncurredAt  time.Time       `json:"incurred_at"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receipt_url"`
}

// IssueRow is the wire form of a maintenance issue
type IssueRow struct {
	rowMeta
	PropertyID  uuid.UUID  `json:"property_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	ReportedBy  string     `json:"reported_by"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	Resolution  string     `json:"resolution"`
}

// TaskRow is the wire form of a task
type TaskRow struct {
	rowMeta
	Title       string     `json:"title"`
	Notes       string     `json:"notes"`
	PropertyID  *uuid.UUID `json:"property_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
}

// SettingRow is the wire form of a setting. Secret-bearing keys are
// excluded by the exporter.
type SettingRow struct {
	rowMeta
	Key   string `json:"key"`
	Value string `json:"value"`
	Group string `json:"group"`
}

// NotificationRow is the wire form of a dispatched notification
type NotificationRow struct {
	rowMeta
	Event     string     `json:"event"`
	Channel   string     `json:"channel"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	UserID    *uuid.UUID `json:"user_id"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	Error     string     `json:"error"`
	SentAt    *time.Time `json:"sent_at"`
}

// StatementRow is the wire form of a statement with its lines inline
type StatementRow struct {
	rowMeta
	Code        string             `json:"code"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Currency    string             `json:"currency"`
	TotalGross  decimal.Decimal    `json:"total_gross"`
	TotalFees   decimal.Decimal    `json:"total_fees"`
	TotalExp    decimal.Decimal    `json:"total_expenses"`
	TotalComm   decimal.Decimal    `json:"total_commission"`
	TotalNet    decimal.Decimal    `json:"total_net"`
	Status      string             `json:"status"`
	FinalizedAt *time.Time         `json:"finalized_at"`
	SentAt      *time.Time         `json:"sent_at"`
	Lines       []StatementLineRow `json:"lines"`
}

// StatementLineRow is the wire form of a statement line
type StatementLineRow struct {
	ID             uuid.UUID       `json:"id"`
	StatementID    uuid.UUID       `json:"statement_id"`
	PropertyID     uuid.UUID       `json:"property_id"`
	PropertyName   string          `json:"property_name"`
	BookingCount   int             `json:"booking_count"`
	NightsBooked   int             `json:"nights_booked"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	ChannelFees    decimal.Decimal `json:"channel_fees"`
	Expenses       decimal.Decimal `json:"expenses"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
	NetDue         decimal.Decimal `json:"net_due"`
}

// PayoutRow is the wire form of a payout
type PayoutRow struct {
	rowMeta
	OwnerID     uuid.UUID       `json:"owner_id"`
	StatementID *uuid.UUID      `json:"statement_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	PaidAt      *time.Time      `json:"paid_at"`
	FailedAt    *time.Time      `json:"failed_at"`
	FailReason  string          `json:"fail_reason"`
}

// WalletRow is the wire form of an owner wallet
type WalletRow struct {
	rowMeta
	OwnerID uuid.UUID       `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
}

// WalletTransactionRow is the wire form of a wallet ledger entry
type WalletTransactionRow struct {
	rowMeta
	WalletID     uuid.UUID       `json:"wallet_id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
}

// ParseDocument decodes and version-checks a JSON backup document
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("backup: invalid JSON document: %w", err)
	}
	switch doc.Version {
	case "1.0", "1.1":
	default:
		return nil, fmt.Errorf("backup: unsupported document version %q", doc.Version)
	}
	return &doc, nil
}
