package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatementService builds and manages per-owner period statements
type StatementService struct {
	statementRepo  finance.StatementRepository
	ownerRepo      portfolio.OwnerRepository
	propertyRepo   portfolio.PropertyRepository
	bookingRepo    booking.BookingRepository
	expenseRepo    finance.ExpenseRepository
	fxService      *FXService
	eventPublisher shared.EventPublisher
}

// NewStatementService creates a new statement service
func NewStatementService(
	statementRepo finance.StatementRepository,
	ownerRepo portfolio.OwnerRepository,
	propertyRepo portfolio.PropertyRepository,
	bookingRepo booking.BookingRepository,
	expenseRepo finance.ExpenseRepository,
	fxService *FXService,
	eventPublisher shared.EventPublisher,
) *StatementService {
	return &StatementService{
		statementRepo:  statementRepo,
		ownerRepo:      ownerRepo,
		propertyRepo:   propertyRepo,
		bookingRepo:    bookingRepo,
		expenseRepo:    expenseRepo,
		fxService:      fxService,
		eventPublisher: eventPublisher,
	}
}

// Generate builds a statement for one owner over a period. An existing
// DRAFT statement for the same owner and period is regenerated in
// place; FINAL and SENT statements are immutable.
func (s *StatementService) Generate(ctx context.Context, req GenerateStatementRequest) (*StatementResponse, error) {
	owner, err := s.ownerRepo.FindByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	statement, err := s.statementRepo.FindByOwnerAndPeriod(ctx, owner.ID, req.PeriodStart, req.PeriodEnd)
	switch {
	case err == nil:
		if !statement.Status.IsMutable() {
			return nil, shared.NewDomainError("STATEMENT_IMMUTABLE", "Statement has been finalized and cannot be regenerated")
		}
	case errors.Is(err, shared.ErrNotFound):
		code := fmt.Sprintf("STMT-%s-%s", owner.Code, req.PeriodStart.Format("200601"))
		statement, err = finance.NewStatement(code, owner.ID, req.PeriodStart, req.PeriodEnd, owner.PreferredCurrency)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	lines, err := s.buildLines(ctx, owner, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if err := statement.ReplaceLines(lines); err != nil {
		return nil, err
	}

	if err := s.statementRepo.Save(ctx, statement); err != nil {
		return nil, err
	}
	return ToStatementResponse(statement), nil
}

// GenerateAll builds statements for every owner with at least one
// property. Owners whose generation fails are skipped, the rest
// proceed. Used by the monthly schedule.
func (s *StatementService) GenerateAll(ctx context.Context, periodStart, periodEnd time.Time) (generated int, failed int, err error) {
	owners, _, err := s.ownerRepo.FindAll(ctx, portfolio.OwnerFilter{Page: 1, PageSize: 1000})
	if err != nil {
		return 0, 0, err
	}
	for i := range owners {
		properties, err := s.propertyRepo.FindByOwner(ctx, owners[i].ID)
		if err != nil || len(properties) == 0 {
			continue
		}
		_, err = s.Generate(ctx, GenerateStatementRequest{
			OwnerID:     owners[i].ID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		if err != nil {
			failed++
			continue
		}
		generated++
	}
	return generated, failed, nil
}

// GetByID retrieves a statement by its ID
func (s *StatementService) GetByID(ctx context.Context, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStatementResponse(statement), nil
}

// List retrieves statements matching the filter with pagination
func (s *StatementService) List(ctx context.Context, filter StatementListFilter) ([]StatementResponse, int64, error) {
	domainFilter := finance.StatementFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.OwnerID != "" {
		id, err := uuid.Parse(filter.OwnerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_OWNER", "Owner id is not a valid UUID")
		}
		domainFilter.OwnerID = &id
	}
	if filter.Status != "" {
		status := finance.StatementStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "from_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "to_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.ToDate = &to
	}

	statements, total, err := s.statementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StatementResponse, len(statements))
	for i := range statements {
		responses[i] = *ToStatementResponse(&statements[i])
	}
	return responses, total, nil
}

// Finalize locks a draft statement against further regeneration
func (s *StatementService) Finalize(ctx context.Context, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statement.Finalize(); err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, statement); err != nil {
		return nil, err
	}
	return ToStatementResponse(statement), nil
}

// Send marks a finalized statement as sent and raises the event that
// drives owner notification.
func (s *StatementService) Send(ctx context.Context, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statement.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, statement); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, finance.NewStatementSentEvent(statement))
	}
	return ToStatementResponse(statement), nil
}

// Delete removes a draft statement. Finalized statements cannot be deleted.
func (s *StatementService) Delete(ctx context.Context, id uuid.UUID) error {
	statement, err := s.statementRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !statement.Status.IsMutable() {
		return shared.NewDomainError("STATEMENT_IMMUTABLE", "Statement has been finalized and cannot be deleted")
	}
	return s.statementRepo.Delete(ctx, id)
}

// buildLines aggregates revenue bookings and expenses per property in
// the owner's portfolio, converted to the owner's preferred currency.
func (s *StatementService) buildLines(ctx context.Context, owner *portfolio.Owner, periodStart, periodEnd time.Time) ([]finance.StatementLine, error) {
	properties, err := s.propertyRepo.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.FindInRange(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindInRange(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	type propTotals struct {
		bookingCount int
		nights       int
		gross        decimal.Decimal
		fees         decimal.Decimal
		expenses     decimal.Decimal
	}
	totals := make(map[uuid.UUID]*propTotals, len(properties))
	for i := range properties {
		totals[properties[i].ID] = &propTotals{}
	}

	for i := range bookings {
		b := &bookings[i]
		t, ok := totals[b.PropertyID]
		if !ok || !b.Status.CountsAsRevenue() {
			continue
		}
		gross, err := s.fxService.ConvertAmount(ctx, b.GrossAmount, b.Currency, owner.PreferredCurrency)
		if err != nil {
			return nil, err
		}
		fee, err := s.fxService.ConvertAmount(ctx, b.ChannelFee, b.Currency, owner.PreferredCurrency)
		if err != nil {
			return nil, err
		}
		t.bookingCount++
		t.nights += b.Nights
		t.gross = t.gross.Add(gross)
		t.fees = t.fees.Add(fee)
	}

	for i := range expenses {
		e := &expenses[i]
		if e.PropertyID == nil {
			continue
		}
		t, ok := totals[*e.PropertyID]
		if !ok {
			continue
		}
		amount, err := s.fxService.ConvertAmount(ctx, e.Amount, e.Currency, owner.PreferredCurrency)
		if err != nil {
			return nil, err
		}
		t.expenses = t.expenses.Add(amount)
	}

	var lines []finance.StatementLine
	for i := range properties {
		p := &properties[i]
		t := totals[p.ID]
		if t.bookingCount == 0 && t.expenses.IsZero() {
			continue
		}
		lines = append(lines, finance.NewStatementLine(
			p.ID, p.Name, t.bookingCount, t.nights,
			t.gross.Round(2), t.fees.Round(2), t.expenses.Round(2),
			p.EffectiveCommissionRate(),
		))
	}
	return lines, nil
}
