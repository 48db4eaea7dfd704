package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
)

// WalletService handles owner wallet operations
type WalletService struct {
	walletRepo portfolio.WalletRepository
	ownerRepo  portfolio.OwnerRepository
}

// NewWalletService creates a new WalletService
func NewWalletService(walletRepo portfolio.WalletRepository, ownerRepo portfolio.OwnerRepository) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		ownerRepo:  ownerRepo,
	}
}

// GetByOwner retrieves an owner's wallet, creating it on first access
func (s *WalletService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*WalletResponse, error) {
	wallet, err := s.findOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	response := ToWalletResponse(wallet)
	return &response, nil
}

// Adjust applies a manual credit or debit to an owner's wallet
func (s *WalletService) Adjust(ctx context.Context, ownerID uuid.UUID, req WalletAdjustmentRequest) (*WalletResponse, error) {
	wallet, err := s.findOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var tx *portfolio.WalletTransaction
	switch req.Direction {
	case "CREDIT":
		tx, err = wallet.Credit(req.Amount, portfolio.WalletTxAdjustment, req.Reference, req.Description)
	case "DEBIT":
		tx, err = wallet.Debit(req.Amount, portfolio.WalletTxAdjustment, req.Reference, req.Description)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment direction must be CREDIT or DEBIT")
	}
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.SaveWithTransaction(ctx, wallet, tx); err != nil {
		return nil, err
	}

	response := ToWalletResponse(wallet)
	return &response, nil
}

// ListTransactions returns the most recent ledger entries for an owner
func (s *WalletService) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int) ([]WalletTransactionResponse, error) {
	txs, err := s.walletRepo.ListTransactions(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]WalletTransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToWalletTransactionResponse(&txs[i])
	}
	return responses, nil
}

func (s *WalletService) findOrCreate(ctx context.Context, ownerID uuid.UUID) (*portfolio.OwnerWallet, error) {
	wallet, err := s.walletRepo.FindByOwner(ctx, ownerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if _, err := s.ownerRepo.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	wallet, err = portfolio.NewOwnerWallet(ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}
