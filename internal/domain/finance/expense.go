package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryCleaning    ExpenseCategory = "CLEANING"
	ExpenseCategoryMaintenance ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryUtilities   ExpenseCategory = "UTILITIES"
	ExpenseCategorySupplies    ExpenseCategory = "SUPPLIES"
	ExpenseCategoryCommission  ExpenseCategory = "COMMISSION"
	ExpenseCategoryTax         ExpenseCategory = "TAX"
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryCleaning, ExpenseCategoryMaintenance, ExpenseCategoryUtilities,
		ExpenseCategorySupplies, ExpenseCategoryCommission, ExpenseCategoryTax,
		ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// AllExpenseCategories lists every valid category, in display order
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryCleaning, ExpenseCategoryMaintenance, ExpenseCategoryUtilities,
		ExpenseCategorySupplies, ExpenseCategoryCommission, ExpenseCategoryTax,
		ExpenseCategoryOther,
	}
}

// Expense represents an operating expense aggregate root.
// PropertyID is nil for company-level expenses.
type Expense struct {
	shared.BaseAggregateRoot
	PropertyID  *uuid.UUID           `json:"property_id"`
	Category    ExpenseCategory      `json:"category"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    valueobject.Currency `json:"currency"`
	IncurredAt  time.Time            `json:"incurred_at"`
	Description string               `json:"description"`
	ReceiptURL  string               `json:"receipt_url"`
}

// NewExpense creates a new expense record
func NewExpense(
	propertyID *uuid.UUID,
	category ExpenseCategory,
	amount valueobject.Money,
	incurredAt time.Time,
	description string,
) (*Expense, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if incurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Incurred date is required")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		Category:          category,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		IncurredAt:        incurredAt,
		Description:       description,
	}, nil
}

// Update replaces the editable fields of the expense
func (e *Expense) Update(propertyID *uuid.UUID, category ExpenseCategory, amount valueobject.Money, incurredAt time.Time, description string) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	e.PropertyID = propertyID
	e.Category = category
	e.Amount = amount.Amount()
	e.Currency = amount.Currency()
	e.IncurredAt = incurredAt
	e.Description = description
	e.Touch()

	return nil
}

// AttachReceipt stores the uploaded receipt URL
func (e *Expense) AttachReceipt(url string) {
	e.ReceiptURL = url
	e.Touch()
}

// IsCompanyLevel returns true if the expense is not tied to a property
func (e *Expense) IsCompanyLevel() bool {
	return e.PropertyID == nil
}

// Money returns the expense amount as a Money value
func (e *Expense) Money() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}
