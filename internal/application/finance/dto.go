package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Expense DTOs
// =============================================================================

// CreateExpenseRequest represents the request to record an expense
type CreateExpenseRequest struct {
	PropertyID  *uuid.UUID      `json:"property_id"`
	Category    string          `json:"category" binding:"required,oneof=CLEANING MAINTENANCE UTILITIES SUPPLIES COMMISSION TAX OTHER"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	IncurredAt  time.Time       `json:"incurred_at" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	ReceiptURL  string          `json:"receipt_url" binding:"omitempty,max=500"`
}

// UpdateExpenseRequest represents the request to update an expense
type UpdateExpenseRequest struct {
	PropertyID  *uuid.UUID       `json:"property_id"`
	Category    *string          `json:"category" binding:"omitempty,oneof=CLEANING MAINTENANCE UTILITIES SUPPLIES COMMISSION TAX OTHER"`
	Amount      *decimal.Decimal `json:"amount"`
	IncurredAt  *time.Time       `json:"incurred_at"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	ReceiptURL  *string          `json:"receipt_url" binding:"omitempty,max=500"`
}

// ExpenseListFilter represents query filters for listing expenses
type ExpenseListFilter struct {
	PropertyID string `form:"property_id"`
	Category   string `form:"category" binding:"omitempty,oneof=CLEANING MAINTENANCE UTILITIES SUPPLIES COMMISSION TAX OTHER"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  *uuid.UUID      `json:"property_id,omitempty"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	IncurredAt  time.Time       `json:"incurred_at"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CategorySummaryResponse is one row of the expense rollup
type CategorySummaryResponse struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ToExpenseResponse converts a domain expense to a response DTO
func ToExpenseResponse(e *finance.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		PropertyID:  e.PropertyID,
		Category:    string(e.Category),
		Amount:      e.Amount,
		Currency:    string(e.Currency),
		IncurredAt:  e.IncurredAt,
		Description: e.Description,
		ReceiptURL:  e.ReceiptURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// =============================================================================
// FX DTOs
// =============================================================================

// UpsertRateRequest sets one currency's multiplier to USD
type UpsertRateRequest struct {
	Currency  string          `json:"currency" binding:"required,len=3"`
	RateToUSD decimal.Decimal `json:"rate_to_usd" binding:"required"`
}

// ConvertRequest converts an amount between currencies
type ConvertRequest struct {
	Amount decimal.Decimal `form:"amount" binding:"required"`
	From   string          `form:"from" binding:"required,len=3"`
	To     string          `form:"to" binding:"required,len=3"`
}

// RateResponse represents a stored exchange rate
type RateResponse struct {
	Currency  string          `json:"currency"`
	RateToUSD decimal.Decimal `json:"rate_to_usd"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ConvertResponse is the result of a currency conversion
type ConvertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted"`
}

// ToRateResponse converts a domain FX rate to a response DTO
func ToRateResponse(r *finance.FXRate) *RateResponse {
	return &RateResponse{
		Currency:  string(r.Currency),
		RateToUSD: r.RateToUSD,
		UpdatedAt: r.UpdatedAt,
	}
}

// =============================================================================
// Statement DTOs
// =============================================================================

// GenerateStatementRequest generates (or regenerates) a statement for
// one owner over a period.
type GenerateStatementRequest struct {
	OwnerID     uuid.UUID `json:"owner_id" binding:"required"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// StatementListFilter represents query filters for listing statements
type StatementListFilter struct {
	OwnerID  string `form:"owner_id"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT FINAL SENT"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// StatementLineResponse represents one property line on a statement
type StatementLineResponse struct {
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

// StatementResponse represents a statement in API responses
type StatementResponse struct {
	ID          uuid.UUID               `json:"id"`
	Code        string                  `json:"code"`
	OwnerID     uuid.UUID               `json:"owner_id"`
	PeriodStart time.Time               `json:"period_start"`
	PeriodEnd   time.Time               `json:"period_end"`
	Currency    string                  `json:"currency"`
	Lines       []StatementLineResponse `json:"lines"`
	TotalGross  decimal.Decimal         `json:"total_gross"`
	TotalFees   decimal.Decimal         `json:"total_fees"`
	TotalExp    decimal.Decimal         `json:"total_expenses"`
	TotalComm   decimal.Decimal         `json:"total_commission"`
	TotalNet    decimal.Decimal         `json:"total_net"`
	Status      string                  `json:"status"`
	FinalizedAt *time.Time              `json:"finalized_at,omitempty"`
	SentAt      *time.Time              `json:"sent_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ToStatementResponse converts a domain statement to a response DTO
func ToStatementResponse(s *finance.Statement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			PropertyID:     l.PropertyID,
			PropertyName:   l.PropertyName,
			BookingCount:   l.BookingCount,
			NightsBooked:   l.NightsBooked,
			GrossRevenue:   l.GrossRevenue,
			ChannelFees:    l.ChannelFees,
			Expenses:       l.Expenses,
			CommissionRate: l.CommissionRate,
			Commission:     l.Commission,
			NetDue:         l.NetDue,
		}
	}
	return &StatementResponse{
		ID:          s.ID,
		Code:        s.Code,
		OwnerID:     s.OwnerID,
		PeriodStart: s.PeriodStart,
		PeriodEnd:   s.PeriodEnd,
		Currency:    string(s.Currency),
		Lines:       lines,
		TotalGross:  s.TotalGross,
		TotalFees:   s.TotalFees,
		TotalExp:    s.TotalExp,
		TotalComm:   s.TotalComm,
		TotalNet:    s.TotalNet,
		Status:      string(s.Status),
		FinalizedAt: s.FinalizedAt,
		SentAt:      s.SentAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// =============================================================================
// Payout DTOs
// =============================================================================

// CreatePayoutRequest creates a pending payout funded from the owner's wallet
type CreatePayoutRequest struct {
	OwnerID     uuid.UUID       `json:"owner_id" binding:"required"`
	StatementID *uuid.UUID      `json:"statement_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Method      string          `json:"method" binding:"required,oneof=BANK_TRANSFER MOBILE_MONEY CASH"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
}

// MarkPayoutPaidRequest confirms a payout with an optional external reference
type MarkPayoutPaidRequest struct {
	Reference string `json:"reference" binding:"omitempty,max=100"`
}

// MarkPayoutFailedRequest records a payout failure
type MarkPayoutFailedRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PayoutListFilter represents query filters for listing payouts
type PayoutListFilter struct {
	OwnerID  string `form:"owner_id"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PAID FAILED"`
	Method   string `form:"method" binding:"omitempty,oneof=BANK_TRANSFER MOBILE_MONEY CASH"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// PayoutResponse represents a payout in API responses
type PayoutResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	StatementID *uuid.UUID      `json:"statement_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	FailedAt    *time.Time      `json:"failed_at,omitempty"`
	FailReason  string          `json:"fail_reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPayoutResponse converts a domain payout to a response DTO
func ToPayoutResponse(p *finance.Payout) *PayoutResponse {
	return &PayoutResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		StatementID: p.StatementID,
		Amount:      p.Amount,
		Currency:    string(p.Currency),
		Method:      string(p.Method),
		Status:      string(p.Status),
		Reference:   p.Reference,
		Notes:       p.Notes,
		PaidAt:      p.PaidAt,
		FailedAt:    p.FailedAt,
		FailReason:  p.FailReason,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
