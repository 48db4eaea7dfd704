package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayoutMethod represents how an owner payout is executed
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

// String returns the string representation of PayoutMethod
func (m PayoutMethod) String() string {
	return string(m)
}

// PayoutStatus represents the lifecycle state of a payout
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusPaid    PayoutStatus = "PAID"
	PayoutStatusFailed  PayoutStatus = "FAILED"
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusPaid, PayoutStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payout is settled one way or the other
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusPaid || s == PayoutStatusFailed
}

// Payout represents a disbursement of wallet funds to an owner
type Payout struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID            `json:"owner_id"`
	StatementID *uuid.UUID           `json:"statement_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    valueobject.Currency `json:"currency"`
	Method      PayoutMethod         `json:"method"`
	Status      PayoutStatus         `json:"status"`
	Reference   string               `json:"reference"`
	Notes       string               `json:"notes"`
	PaidAt      *time.Time           `json:"paid_at"`
	FailedAt    *time.Time           `json:"failed_at"`
	FailReason  string               `json:"fail_reason"`
}

// NewPayout creates a pending payout
func NewPayout(ownerID uuid.UUID, amount valueobject.Money, method PayoutMethod, reference string) (*Payout, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payout method is not valid")
	}

	return &Payout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		Method:            method,
		Status:            PayoutStatusPending,
		Reference:         reference,
	}, nil
}

// LinkStatement associates the payout with the statement it settles
func (p *Payout) LinkStatement(statementID uuid.UUID) {
	p.StatementID = &statementID
	p.Touch()
}

// MarkPaid settles the payout
func (p *Payout) MarkPaid(reference string) error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark payout paid in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PayoutStatusPaid
	p.PaidAt = &now
	if reference != "" {
		p.Reference = reference
	}
	p.UpdatedAt = now

	p.AddDomainEvent(NewPayoutPaidEvent(p))

	return nil
}

// MarkFailed records a failed disbursement. The caller is responsible
// for crediting the wallet back.
func (p *Payout) MarkFailed(reason string) error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark payout failed in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}

	now := time.Now()
	p.Status = PayoutStatusFailed
	p.FailedAt = &now
	p.FailReason = reason
	p.UpdatedAt = now

	return nil
}

// Money returns the payout amount as a Money value
func (p *Payout) Money() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}
