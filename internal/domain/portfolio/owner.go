package portfolio

import (
	"strings"

	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// PayoutMethod is how an owner prefers to receive payouts
type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "BANK_TRANSFER"
	PayoutMethodMobileMoney  PayoutMethod = "MOBILE_MONEY"
	PayoutMethodCash         PayoutMethod = "CASH"
)

// IsValid checks if the method is a valid PayoutMethod
func (m PayoutMethod) IsValid() bool {
	switch m {
	case PayoutMethodBankTransfer, PayoutMethodMobileMoney, PayoutMethodCash:
		return true
	}
	return false
}

// Owner represents a property owner aggregate root
type Owner struct {
	shared.BaseAggregateRoot
	Code              string               `json:"code"`
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Phone             string               `json:"phone"`
	PreferredCurrency valueobject.Currency `json:"preferred_currency"`
	PayoutMethod      PayoutMethod         `json:"payout_method"`
	PayoutDetails     string               `json:"payout_details"` // bank account / momo number
	WhatsAppOptIn     bool                 `json:"whatsapp_opt_in"`
	Notes             string               `json:"notes"`
}

// NewOwner creates a new owner
func NewOwner(code, name, email, phone string, preferredCurrency valueobject.Currency) (*Owner, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Owner code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Owner name cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Owner email is not valid")
	}
	if preferredCurrency == "" {
		preferredCurrency = valueobject.DefaultCurrency
	}
	if !preferredCurrency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Preferred currency is not supported")
	}

	return &Owner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Email:             email,
		Phone:             phone,
		PreferredCurrency: preferredCurrency,
		PayoutMethod:      PayoutMethodBankTransfer,
	}, nil
}

// Update changes the owner contact details
func (o *Owner) Update(name, email, phone string, preferredCurrency valueobject.Currency) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Owner name cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Owner email is not valid")
	}
	if !preferredCurrency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Preferred currency is not supported")
	}
	o.Name = name
	o.Email = email
	o.Phone = phone
	o.PreferredCurrency = preferredCurrency
	o.Touch()
	return nil
}

// SetPayoutDetails updates the payout method and reference details
func (o *Owner) SetPayoutDetails(method PayoutMethod, details string) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYOUT_METHOD", "Payout method is not valid")
	}
	o.PayoutMethod = method
	o.PayoutDetails = details
	o.Touch()
	return nil
}

// SetWhatsAppOptIn toggles WhatsApp notifications for the owner
func (o *Owner) SetWhatsAppOptIn(optIn bool) {
	o.WhatsAppOptIn = optIn
	o.Touch()
}

// HasEmail reports whether the owner has an email address on file
func (o *Owner) HasEmail() bool {
	return o.Email != ""
}

// HasPhone reports whether the owner has a phone number on file
func (o *Owner) HasPhone() bool {
	return o.Phone != ""
}
