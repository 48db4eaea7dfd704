package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	PropertyID *uuid.UUID
	Category   *ExpenseCategory
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
}

// CategorySummary is one row of the expense by-category rollup
type CategorySummary struct {
	Category ExpenseCategory `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseRepository defines persistence operations for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	SummarizeByCategory(ctx context.Context, filter ExpenseFilter) ([]CategorySummary, error)
	Save(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// StatementFilter defines filtering options for statement queries
type StatementFilter struct {
	OwnerID  *uuid.UUID
	Status   *StatementStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// StatementRepository defines persistence operations for statements.
// Save persists the statement and its lines together.
type StatementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Statement, error)
	FindByCode(ctx context.Context, code string) (*Statement, error)
	FindByOwnerAndPeriod(ctx context.Context, ownerID uuid.UUID, periodStart, periodEnd time.Time) (*Statement, error)
	FindAll(ctx context.Context, filter StatementFilter) ([]Statement, int64, error)
	Save(ctx context.Context, s *Statement) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// PayoutFilter defines filtering options for payout queries
type PayoutFilter struct {
	OwnerID  *uuid.UUID
	Status   *PayoutStatus
	Method   *PayoutMethod
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// PayoutRepository defines persistence operations for payouts
type PayoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	FindAll(ctx context.Context, filter PayoutFilter) ([]Payout, int64, error)
	Save(ctx context.Context, p *Payout) error
	Count(ctx context.Context) (int64, error)
}

// FXRateRepository defines persistence operations for exchange rates
type FXRateRepository interface {
	FindByCurrency(ctx context.Context, currency valueobject.Currency) (*FXRate, error)
	FindAll(ctx context.Context) ([]FXRate, error)
	Save(ctx context.Context, r *FXRate) error
}
