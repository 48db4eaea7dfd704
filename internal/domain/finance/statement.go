package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StatementStatus represents the lifecycle state of an owner statement
type StatementStatus string

const (
	StatementStatusDraft StatementStatus = "DRAFT"
	StatementStatusFinal StatementStatus = "FINAL"
	StatementStatusSent  StatementStatus = "SENT"
)

// IsValid checks if the status is a valid StatementStatus
func (s StatementStatus) IsValid() bool {
	switch s {
	case StatementStatusDraft, StatementStatusFinal, StatementStatusSent:
		return true
	}
	return false
}

// String returns the string representation of StatementStatus
func (s StatementStatus) String() string {
	return string(s)
}

// IsMutable returns true if the statement contents may still change
func (s StatementStatus) IsMutable() bool {
	return s == StatementStatusDraft
}

// StatementLine is one property's summary inside a statement.
// Amounts are in the statement currency.
type StatementLine struct {
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

// NewStatementLine builds a line and derives commission and net due.
// Commission is charged on gross revenue at the given rate.
func NewStatementLine(propertyID uuid.UUID, propertyName string, bookingCount, nightsBooked int, gross, channelFees, expenses, commissionRate decimal.Decimal) StatementLine {
	commission := gross.Mul(commissionRate).Round(2)
	net := gross.Sub(channelFees).Sub(expenses).Sub(commission)
	return StatementLine{
		ID:             uuid.New(),
		PropertyID:     propertyID,
		PropertyName:   propertyName,
		BookingCount:   bookingCount,
		NightsBooked:   nightsBooked,
		GrossRevenue:   gross,
		ChannelFees:    channelFees,
		Expenses:       expenses,
		CommissionRate: commissionRate,
		Commission:     commission,
		NetDue:         net,
	}
}

// Statement represents a period summary owed to an owner
type Statement struct {
	shared.BaseAggregateRoot
	Code        string               `json:"code"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	Currency    valueobject.Currency `json:"currency"`
	Lines       []StatementLine      `json:"lines"`
	TotalGross  decimal.Decimal      `json:"total_gross"`
	TotalFees   decimal.Decimal      `json:"total_fees"`
	TotalExp    decimal.Decimal      `json:"total_expenses"`
	TotalComm   decimal.Decimal      `json:"total_commission"`
	TotalNet    decimal.Decimal      `json:"total_net"`
	Status      StatementStatus      `json:"status"`
	FinalizedAt *time.Time           `json:"finalized_at"`
	SentAt      *time.Time           `json:"sent_at"`
}

// NewStatement creates a draft statement for one owner and period
func NewStatement(code string, ownerID uuid.UUID, periodStart, periodEnd time.Time, currency valueobject.Currency) (*Statement, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Statement code cannot be empty")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}

	return &Statement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		OwnerID:           ownerID,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Currency:          currency,
		Status:            StatementStatusDraft,
	}, nil
}

// ReplaceLines swaps in a fresh set of lines and recomputes totals.
// Only DRAFT statements may be regenerated.
func (s *Statement) ReplaceLines(lines []StatementLine) error {
	if !s.Status.IsMutable() {
		return shared.NewDomainError("STATEMENT_IMMUTABLE", fmt.Sprintf("Cannot regenerate statement in %s status", s.Status))
	}

	for i := range lines {
		lines[i].StatementID = s.ID
	}
	s.Lines = lines
	s.recomputeTotals()
	s.Touch()

	return nil
}

func (s *Statement) recomputeTotals() {
	gross, fees, exp, comm, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range s.Lines {
		gross = gross.Add(l.GrossRevenue)
		fees = fees.Add(l.ChannelFees)
		exp = exp.Add(l.Expenses)
		comm = comm.Add(l.Commission)
		net = net.Add(l.NetDue)
	}
	s.TotalGross = gross
	s.TotalFees = fees
	s.TotalExp = exp
	s.TotalComm = comm
	s.TotalNet = net
}

// Finalize locks the statement contents
func (s *Statement) Finalize() error {
	if s.Status != StatementStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finalize statement in %s status", s.Status))
	}

	now := time.Now()
	s.Status = StatementStatusFinal
	s.FinalizedAt = &now
	s.UpdatedAt = now

	return nil
}

// MarkSent records that the statement was delivered to the owner
func (s *Statement) MarkSent() error {
	if s.Status != StatementStatusFinal {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send statement in %s status", s.Status))
	}

	now := time.Now()
	s.Status = StatementStatusSent
	s.SentAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewStatementSentEvent(s))

	return nil
}

// NetMoney returns the net total as a Money value
func (s *Statement) NetMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(s.TotalNet, s.Currency)
	return m
}
