package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// ExpenseService handles expense tracking use cases
type ExpenseService struct {
	expenseRepo  finance.ExpenseRepository
	propertyRepo portfolio.PropertyRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo finance.ExpenseRepository, propertyRepo portfolio.PropertyRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		propertyRepo: propertyRepo,
	}
}

// Create records a new expense, company-level when no property is given
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if req.PropertyID != nil {
		if _, err := s.propertyRepo.FindByID(ctx, *req.PropertyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PROPERTY", "Property does not exist")
			}
			return nil, err
		}
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	expense, err := finance.NewExpense(req.PropertyID, finance.ExpenseCategory(req.Category), amount, req.IncurredAt, req.Description)
	if err != nil {
		return nil, err
	}
	if req.ReceiptURL != "" {
		expense.AttachReceipt(req.ReceiptURL)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return ToExpenseResponse(expense), nil
}

// GetByID retrieves an expense by its ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToExpenseResponse(expense), nil
}

// List retrieves expenses matching the filter with pagination
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter, err := toDomainExpenseFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	expenses, total, err := s.expenseRepo.FindAll(ctx, *domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = *ToExpenseResponse(&expenses[i])
	}
	return responses, total, nil
}

// Update modifies an expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	propertyID := expense.PropertyID
	if req.PropertyID != nil {
		if *req.PropertyID == uuid.Nil {
			propertyID = nil
		} else {
			if _, err := s.propertyRepo.FindByID(ctx, *req.PropertyID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("INVALID_PROPERTY", "Property does not exist")
				}
				return nil, err
			}
			propertyID = req.PropertyID
		}
	}
	category := expense.Category
	if req.Category != nil {
		category = finance.ExpenseCategory(*req.Category)
	}
	amountValue := expense.Amount
	if req.Amount != nil {
		amountValue = *req.Amount
	}
	incurredAt := expense.IncurredAt
	if req.IncurredAt != nil {
		incurredAt = *req.IncurredAt
	}
	description := expense.Description
	if req.Description != nil {
		description = *req.Description
	}

	amount, err := valueobject.NewMoney(amountValue, expense.Currency)
	if err != nil {
		return nil, err
	}
	if err := expense.Update(propertyID, category, amount, incurredAt, description); err != nil {
		return nil, err
	}
	if req.ReceiptURL != nil {
		expense.AttachReceipt(*req.ReceiptURL)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return ToExpenseResponse(expense), nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

// SummarizeByCategory rolls up expenses per category over the filter window
func (s *ExpenseService) SummarizeByCategory(ctx context.Context, filter ExpenseListFilter) ([]CategorySummaryResponse, error) {
	domainFilter, err := toDomainExpenseFilter(filter)
	if err != nil {
		return nil, err
	}

	summaries, err := s.expenseRepo.SummarizeByCategory(ctx, *domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategorySummaryResponse, len(summaries))
	for i, row := range summaries {
		responses[i] = CategorySummaryResponse{
			Category: string(row.Category),
			Count:    row.Count,
			Total:    row.Total,
		}
	}
	return responses, nil
}

func toDomainExpenseFilter(filter ExpenseListFilter) (*finance.ExpenseFilter, error) {
	domainFilter := finance.ExpenseFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property id is not a valid UUID")
		}
		domainFilter.PropertyID = &id
	}
	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		domainFilter.Category = &category
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "from_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "to_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.ToDate = &to
	}
	return &domainFilter, nil
}
