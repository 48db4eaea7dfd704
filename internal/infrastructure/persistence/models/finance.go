package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense domain entity.
type ExpenseModel struct {
	AggregateModel
	PropertyID  *uuid.UUID              `gorm:"type:uuid;index"`
	Category    finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency    `gorm:"type:varchar(3);not null;default:'USD'"`
	IncurredAt  time.Time               `gorm:"not null;index"`
	Description string                  `gorm:"type:text"`
	ReceiptURL  string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense entity.
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.aggregateRoot(),
		PropertyID:        m.PropertyID,
		Category:          m.Category,
		Amount:            m.Amount,
		Currency:          m.Currency,
		IncurredAt:        m.IncurredAt,
		Description:       m.Description,
		ReceiptURL:        m.ReceiptURL,
	}
}

// FromDomain populates the persistence model from a domain Expense entity.
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.PropertyID = e.PropertyID
	m.Category = e.Category
	m.Amount = e.Amount
	m.Currency = e.Currency
	m.IncurredAt = e.IncurredAt
	m.Description = e.Description
	m.ReceiptURL = e.ReceiptURL
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense entity.
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// StatementModel is the persistence model for the Statement aggregate.
// Lines are stored in their own table and loaded with the statement.
type StatementModel struct {
	AggregateModel
	Code        string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	OwnerID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time               `gorm:"not null;index"`
	PeriodEnd   time.Time               `gorm:"not null"`
	Currency    valueobject.Currency    `gorm:"type:varchar(3);not null;default:'USD'"`
	TotalGross  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalFees   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalExp    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalComm   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalNet    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status      finance.StatementStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	FinalizedAt *time.Time
	SentAt      *time.Time
	Lines       []StatementLineModel `gorm:"foreignKey:StatementID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (StatementModel) TableName() string {
	return "statements"
}

// ToDomain converts the persistence model to a domain Statement entity.
func (m *StatementModel) ToDomain() *finance.Statement {
	lines := make([]finance.StatementLine, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = *line.ToDomain()
	}
	return &finance.Statement{
		BaseAggregateRoot: m.aggregateRoot(),
		Code:              m.Code,
		OwnerID:           m.OwnerID,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		Currency:          m.Currency,
		Lines:             lines,
		TotalGross:        m.TotalGross,
		TotalFees:         m.TotalFees,
		TotalExp:          m.TotalExp,
		TotalComm:         m.TotalComm,
		TotalNet:          m.TotalNet,
		Status:            m.Status,
		FinalizedAt:       m.FinalizedAt,
		SentAt:            m.SentAt,
	}
}

// FromDomain populates the persistence model from a domain Statement entity.
func (m *StatementModel) FromDomain(s *finance.Statement) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Code = s.Code
	m.OwnerID = s.OwnerID
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.Currency = s.Currency
	m.TotalGross = s.TotalGross
	m.TotalFees = s.TotalFees
	m.TotalExp = s.TotalExp
	m.TotalComm = s.TotalComm
	m.TotalNet = s.TotalNet
	m.Status = s.Status
	m.FinalizedAt = s.FinalizedAt
	m.SentAt = s.SentAt

	m.Lines = make([]StatementLineModel, len(s.Lines))
	for i := range s.Lines {
		m.Lines[i].FromDomain(&s.Lines[i])
	}
}

// StatementModelFromDomain creates a new persistence model from a domain Statement entity.
func StatementModelFromDomain(s *finance.Statement) *StatementModel {
	m := &StatementModel{}
	m.FromDomain(s)
	return m
}

// StatementLineModel is the persistence model for a statement line.
type StatementLineModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	StatementID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID     uuid.UUID       `gorm:"type:uuid;not null"`
	PropertyName   string          `gorm:"type:varchar(200);not null"`
	BookingCount   int             `gorm:"not null;default:0"`
	NightsBooked   int             `gorm:"not null;default:0"`
	GrossRevenue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ChannelFees    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Expenses       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	Commission     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetDue         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StatementLineModel) TableName() string {
	return "statement_lines"
}

// ToDomain converts the persistence model to a domain StatementLine.
func (m *StatementLineModel) ToDomain() *finance.StatementLine {
	return &finance.StatementLine{
		ID:             m.ID,
		StatementID:    m.StatementID,
		PropertyID:     m.PropertyID,
		PropertyName:   m.PropertyName,
		BookingCount:   m.BookingCount,
		NightsBooked:   m.NightsBooked,
		GrossRevenue:   m.GrossRevenue,
		ChannelFees:    m.ChannelFees,
		Expenses:       m.Expenses,
		CommissionRate: m.CommissionRate,
		Commission:     m.Commission,
		NetDue:         m.NetDue,
	}
}

// FromDomain populates the persistence model from a domain StatementLine.
func (m *StatementLineModel) FromDomain(l *finance.StatementLine) {
	m.ID = l.ID
	m.StatementID = l.StatementID
	m.PropertyID = l.PropertyID
	m.PropertyName = l.PropertyName
	m.BookingCount = l.BookingCount
	m.NightsBooked = l.NightsBooked
	m.GrossRevenue = l.GrossRevenue
	m.ChannelFees = l.ChannelFees
	m.Expenses = l.Expenses
	m.CommissionRate = l.CommissionRate
	m.Commission = l.Commission
	m.NetDue = l.NetDue
}

// PayoutModel is the persistence model for the Payout domain entity.
type PayoutModel struct {
	AggregateModel
	OwnerID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	StatementID *uuid.UUID           `gorm:"type:uuid;index"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Method      finance.PayoutMethod `gorm:"type:varchar(20);not null"`
	Status      finance.PayoutStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reference   string               `gorm:"type:varchar(100)"`
	Notes       string               `gorm:"type:text"`
	PaidAt      *time.Time
	FailedAt    *time.Time
	FailReason  string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout entity.
func (m *PayoutModel) ToDomain() *finance.Payout {
	return &finance.Payout{
		BaseAggregateRoot: m.aggregateRoot(),
		OwnerID:           m.OwnerID,
		StatementID:       m.StatementID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Method:            m.Method,
		Status:            m.Status,
		Reference:         m.Reference,
		Notes:             m.Notes,
		PaidAt:            m.PaidAt,
		FailedAt:          m.FailedAt,
		FailReason:        m.FailReason,
	}
}

// FromDomain populates the persistence model from a domain Payout entity.
func (m *PayoutModel) FromDomain(p *finance.Payout) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.OwnerID = p.OwnerID
	m.StatementID = p.StatementID
	m.Amount = p.Amount
	m.Currency = p.Currency
	m.Method = p.Method
	m.Status = p.Status
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.PaidAt = p.PaidAt
	m.FailedAt = p.FailedAt
	m.FailReason = p.FailReason
}

// PayoutModelFromDomain creates a new persistence model from a domain Payout entity.
func PayoutModelFromDomain(p *finance.Payout) *PayoutModel {
	m := &PayoutModel{}
	m.FromDomain(p)
	return m
}

// FXRateModel is the persistence model for stored exchange rates.
type FXRateModel struct {
	BaseModel
	Currency  valueobject.Currency `gorm:"type:varchar(3);not null;uniqueIndex"`
	RateToUSD decimal.Decimal      `gorm:"type:decimal(18,8);not null"`
}

// TableName returns the table name for GORM
func (FXRateModel) TableName() string {
	return "fx_rates"
}

// ToDomain converts the persistence model to a domain FXRate entity.
func (m *FXRateModel) ToDomain() *finance.FXRate {
	return &finance.FXRate{
		BaseEntity: m.BaseModel.ToDomain(),
		Currency:   m.Currency,
		RateToUSD:  m.RateToUSD,
	}
}

// FromDomain populates the persistence model from a domain FXRate entity.
func (m *FXRateModel) FromDomain(r *finance.FXRate) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Currency = r.Currency
	m.RateToUSD = r.RateToUSD
}

// FXRateModelFromDomain creates a new persistence model from a domain FXRate entity.
func FXRateModelFromDomain(r *finance.FXRate) *FXRateModel {
	m := &FXRateModel{}
	m.FromDomain(r)
	return m
}
