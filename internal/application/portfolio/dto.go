package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Property DTOs
// =============================================================================

// CreatePropertyRequest represents a request to create a new property
type CreatePropertyRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Address        string           `json:"address" binding:"max=500"`
	City           string           `json:"city" binding:"max=100"`
	Type           string           `json:"type" binding:"required,oneof=APARTMENT HOUSE VILLA STUDIO"`
	Bedrooms       int              `json:"bedrooms" binding:"min=0,max=50"`
	OwnerID        uuid.UUID        `json:"owner_id" binding:"required"`
	NightlyRate    decimal.Decimal  `json:"nightly_rate"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Notes          string           `json:"notes"`
}

// UpdatePropertyRequest represents a request to update a property
type UpdatePropertyRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Address        *string          `json:"address" binding:"omitempty,max=500"`
	City           *string          `json:"city" binding:"omitempty,max=100"`
	Type           *string          `json:"type" binding:"omitempty,oneof=APARTMENT HOUSE VILLA STUDIO"`
	Bedrooms       *int             `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	NightlyRate    *decimal.Decimal `json:"nightly_rate"`
	Currency       *string          `json:"currency" binding:"omitempty,len=3"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Notes          *string          `json:"notes"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID             uuid.UUID        `json:"id"`
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
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Search   string `form:"search"`
	OwnerID  string `form:"owner_id" binding:"omitempty,uuid"`
	Type     string `form:"type" binding:"omitempty,oneof=APARTMENT HOUSE VILLA STUDIO"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPropertyResponse converts a domain Property to its API shape
func ToPropertyResponse(p *portfolio.Property) PropertyResponse {
	return PropertyResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Address:        p.Address,
		City:           p.City,
		Type:           p.Type.String(),
		Bedrooms:       p.Bedrooms,
		OwnerID:        p.OwnerID,
		NightlyRate:    p.NightlyRate,
		Currency:       p.Currency.String(),
		CommissionRate: p.CommissionRate,
		Status:         string(p.Status),
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// =============================================================================
// Owner DTOs
// =============================================================================

// CreateOwnerRequest represents a request to create a new owner
type CreateOwnerRequest struct {
	Code              string `json:"code" binding:"required,min=1,max=50"`
	Name              string `json:"name" binding:"required,min=1,max=200"`
	Email             string `json:"email" binding:"omitempty,email,max=200"`
	Phone             string `json:"phone" binding:"max=50"`
	PreferredCurrency string `json:"preferred_currency" binding:"omitempty,len=3"`
	PayoutMethod      string `json:"payout_method" binding:"omitempty,oneof=BANK_TRANSFER MOBILE_MONEY CASH"`
	PayoutDetails     string `json:"payout_details" binding:"max=500"`
	WhatsAppOptIn     bool   `json:"whatsapp_opt_in"`
	Notes             string `json:"notes"`
}

// UpdateOwnerRequest represents a request to update an owner
type UpdateOwnerRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email             *string `json:"email" binding:"omitempty,email,max=200"`
	Phone             *string `json:"phone" binding:"omitempty,max=50"`
	PreferredCurrency *string `json:"preferred_currency" binding:"omitempty,len=3"`
	PayoutMethod      *string `json:"payout_method" binding:"omitempty,oneof=BANK_TRANSFER MOBILE_MONEY CASH"`
	PayoutDetails     *string `json:"payout_details" binding:"omitempty,max=500"`
	WhatsAppOptIn     *bool   `json:"whatsapp_opt_in"`
	Notes             *string `json:"notes"`
}

// OwnerResponse represents an owner in API responses
type OwnerResponse struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	PreferredCurrency string    `json:"preferred_currency"`
	PayoutMethod      string    `json:"payout_method"`
	PayoutDetails     string    `json:"payout_details"`
	WhatsAppOptIn     bool      `json:"whatsapp_opt_in"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OwnerListFilter represents filter options for the owner list
type OwnerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToOwnerResponse converts a domain Owner to its API shape
func ToOwnerResponse(o *portfolio.Owner) OwnerResponse {
	return OwnerResponse{
		ID:                o.ID,
		Code:              o.Code,
		Name:              o.Name,
		Email:             o.Email,
		Phone:             o.Phone,
		PreferredCurrency: o.PreferredCurrency.String(),
		PayoutMethod:      string(o.PayoutMethod),
		PayoutDetails:     o.PayoutDetails,
		WhatsAppOptIn:     o.WhatsAppOptIn,
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// =============================================================================
// Wallet DTOs
// =============================================================================

// WalletResponse represents an owner wallet in API responses
type WalletResponse struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletAdjustmentRequest credits or debits an owner wallet manually
type WalletAdjustmentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Reference   string          `json:"reference" binding:"max=100"`
	Description string          `json:"description" binding:"max=500"`
}

// WalletTransactionResponse represents one ledger entry
type WalletTransactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     uuid.UUID       `json:"wallet_id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToWalletResponse converts a domain OwnerWallet to its API shape
func ToWalletResponse(w *portfolio.OwnerWallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToWalletTransactionResponse converts a ledger entry to its API shape
func ToWalletTransactionResponse(tx *portfolio.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:           tx.ID,
		WalletID:     tx.WalletID,
		OwnerID:      tx.OwnerID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Reference:    tx.Reference,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}
