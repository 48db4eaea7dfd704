package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// PayoutService handles owner disbursements funded from wallets
type PayoutService struct {
	payoutRepo     finance.PayoutRepository
	statementRepo  finance.StatementRepository
	ownerRepo      portfolio.OwnerRepository
	walletRepo     portfolio.WalletRepository
	fxService      *FXService
	eventPublisher shared.EventPublisher
}

// NewPayoutService creates a new payout service
func NewPayoutService(
	payoutRepo finance.PayoutRepository,
	statementRepo finance.StatementRepository,
	ownerRepo portfolio.OwnerRepository,
	walletRepo portfolio.WalletRepository,
	fxService *FXService,
	eventPublisher shared.EventPublisher,
) *PayoutService {
	return &PayoutService{
		payoutRepo:     payoutRepo,
		statementRepo:  statementRepo,
		ownerRepo:      ownerRepo,
		walletRepo:     walletRepo,
		fxService:      fxService,
		eventPublisher: eventPublisher,
	}
}

// Create opens a pending payout and debits the owner's wallet. The
// wallet holds the USD reporting base, so foreign-currency payouts are
// converted before the debit. Insufficient wallet balance rejects the
// payout.
func (s *PayoutService) Create(ctx context.Context, req CreatePayoutRequest) (*PayoutResponse, error) {
	owner, err := s.ownerRepo.FindByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	currency := owner.PreferredCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	payout, err := finance.NewPayout(owner.ID, amount, finance.PayoutMethod(req.Method), req.Reference)
	if err != nil {
		return nil, err
	}
	if req.StatementID != nil {
		if _, err := s.statementRepo.FindByID(ctx, *req.StatementID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_STATEMENT", "Statement does not exist")
			}
			return nil, err
		}
		payout.LinkStatement(*req.StatementID)
	}

	wallet, err := s.walletRepo.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	debitAmount, err := s.fxService.ConvertAmount(ctx, req.Amount, currency, valueobject.USD)
	if err != nil {
		return nil, err
	}
	tx, err := wallet.Debit(debitAmount, portfolio.WalletTxPayout, payout.ID.String(), fmt.Sprintf("Payout via %s", req.Method))
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.SaveWithTransaction(ctx, wallet, tx); err != nil {
		return nil, err
	}

	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}
	return ToPayoutResponse(payout), nil
}

// GetByID retrieves a payout by its ID
func (s *PayoutService) GetByID(ctx context.Context, id uuid.UUID) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPayoutResponse(payout), nil
}

// List retrieves payouts matching the filter with pagination
func (s *PayoutService) List(ctx context.Context, filter PayoutListFilter) ([]PayoutResponse, int64, error) {
	domainFilter := finance.PayoutFilter{
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
		status := finance.PayoutStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Method != "" {
		method := finance.PayoutMethod(filter.Method)
		domainFilter.Method = &method
	}

	payouts, total, err := s.payoutRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		responses[i] = *ToPayoutResponse(&payouts[i])
	}
	return responses, total, nil
}

// MarkPaid confirms the payout left the company account
func (s *PayoutService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPayoutPaidRequest) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payout.MarkPaid(req.Reference); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, finance.NewPayoutPaidEvent(payout))
	}
	return ToPayoutResponse(payout), nil
}

// MarkFailed records the failure and refunds the debited amount to
// the owner's wallet.
func (s *PayoutService) MarkFailed(ctx context.Context, id uuid.UUID, req MarkPayoutFailedRequest) (*PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := payout.MarkFailed(req.Reason); err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.FindByOwner(ctx, payout.OwnerID)
	if err != nil {
		return nil, err
	}
	refundAmount, err := s.fxService.ConvertAmount(ctx, payout.Amount, payout.Currency, valueobject.USD)
	if err != nil {
		return nil, err
	}
	tx, err := wallet.Credit(refundAmount, portfolio.WalletTxCredit, payout.ID.String(), "Payout failed, amount returned")
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.SaveWithTransaction(ctx, wallet, tx); err != nil {
		return nil, err
	}

	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}
	return ToPayoutResponse(payout), nil
}
