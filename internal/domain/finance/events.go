package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StatementSentEvent is raised when a statement is delivered to its owner
type StatementSentEvent struct {
	shared.BaseDomainEvent
	StatementID uuid.UUID            `json:"statement_id"`
	Code        string               `json:"code"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	TotalNet    decimal.Decimal      `json:"total_net"`
	Currency    valueobject.Currency `json:"currency"`
}

// EventType returns the event type name
func (e *StatementSentEvent) EventType() string {
	return "StatementSent"
}

// NewStatementSentEvent creates a new StatementSentEvent
func NewStatementSentEvent(s *Statement) *StatementSentEvent {
	return &StatementSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("StatementSent", "Statement", s.ID),
		StatementID:     s.ID,
		Code:            s.Code,
		OwnerID:         s.OwnerID,
		PeriodStart:     s.PeriodStart,
		PeriodEnd:       s.PeriodEnd,
		TotalNet:        s.TotalNet,
		Currency:        s.Currency,
	}
}

// PayoutPaidEvent is raised when a payout is settled
type PayoutPaidEvent struct {
	shared.BaseDomainEvent
	PayoutID  uuid.UUID            `json:"payout_id"`
	OwnerID   uuid.UUID            `json:"owner_id"`
	Amount    decimal.Decimal      `json:"amount"`
	Currency  valueobject.Currency `json:"currency"`
	Method    PayoutMethod         `json:"method"`
	Reference string               `json:"reference"`
}

// EventType returns the event type name
func (e *PayoutPaidEvent) EventType() string {
	return "PayoutPaid"
}

// NewPayoutPaidEvent creates a new PayoutPaidEvent
func NewPayoutPaidEvent(p *Payout) *PayoutPaidEvent {
	return &PayoutPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayoutPaid", "Payout", p.ID),
		PayoutID:        p.ID,
		OwnerID:         p.OwnerID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Method:          p.Method,
		Reference:       p.Reference,
	}
}
