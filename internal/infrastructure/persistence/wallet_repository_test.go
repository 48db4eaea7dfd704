package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWalletTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.OwnerWalletModel{}, &models.WalletTransactionModel{})
	require.NoError(t, err)

	return db
}

func TestGormWalletRepository_SaveAndFind(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	wallet, err := portfolio.NewOwnerWallet(ownerID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wallet))

	found, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, found.ID)
	assert.True(t, found.Balance.IsZero())

	_, err = repo.FindByOwner(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWalletRepository_SaveWithTransaction(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	wallet, err := portfolio.NewOwnerWallet(ownerID)
	require.NoError(t, err)

	entry, err := wallet.Credit(decimal.NewFromInt(250), portfolio.WalletTxCredit, "ST-2026-01", "January statement")
	require.NoError(t, err)

	require.NoError(t, repo.SaveWithTransaction(ctx, wallet, entry))

	found, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, found.Balance.Equal(decimal.NewFromInt(250)))

	transactions, err := repo.ListTransactions(ctx, ownerID, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "ST-2026-01", transactions[0].Reference)
	assert.True(t, transactions[0].BalanceAfter.Equal(decimal.NewFromInt(250)))
}

func TestGormWalletRepository_ListTransactionsLimit(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	wallet, err := portfolio.NewOwnerWallet(ownerID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		entry, err := wallet.Credit(decimal.NewFromInt(10), portfolio.WalletTxAdjustment, "", "manual credit")
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithTransaction(ctx, wallet, entry))
	}

	transactions, err := repo.ListTransactions(ctx, ownerID, 3)
	require.NoError(t, err)
	assert.Len(t, transactions, 3)
}
