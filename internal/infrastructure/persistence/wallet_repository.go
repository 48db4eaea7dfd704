package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByOwner finds the wallet belonging to an owner
func (r *GormWalletRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*portfolio.OwnerWallet, error) {
	var model models.OwnerWalletModel
	if err := r.db.WithContext(ctx).First(&model, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a wallet
func (r *GormWalletRepository) Save(ctx context.Context, wallet *portfolio.OwnerWallet) error {
	model := models.OwnerWalletModelFromDomain(wallet)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithTransaction persists the wallet balance and the ledger entry atomically
func (r *GormWalletRepository) SaveWithTransaction(ctx context.Context, wallet *portfolio.OwnerWallet, tx *portfolio.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		walletModel := models.OwnerWalletModelFromDomain(wallet)
		if err := dbTx.Save(walletModel).Error; err != nil {
			return err
		}
		txModel := models.WalletTransactionModelFromDomain(tx)
		return dbTx.Create(txModel).Error
	})
}

// ListTransactions returns the most recent ledger entries for an owner
func (r *GormWalletRepository) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int) ([]portfolio.WalletTransaction, error) {
	if limit < 1 {
		limit = 50
	}
	var txModels []models.WalletTransactionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]portfolio.WalletTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}
