package portfolio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerWalletCredit(t *testing.T) {
	wallet, err := NewOwnerWallet(uuid.New())
	require.NoError(t, err)

	tx, err := wallet.Credit(decimal.NewFromInt(250), WalletTxCredit, "STMT-2026-01", "January net revenue")
	require.NoError(t, err)

	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(250)))
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, tx.BalanceAfter.Equal(wallet.Balance))
	assert.Equal(t, wallet.OwnerID, tx.OwnerID)
}

func TestOwnerWalletDebit(t *testing.T) {
	wallet, err := NewOwnerWallet(uuid.New())
	require.NoError(t, err)
	_, err = wallet.Credit(decimal.NewFromInt(100), WalletTxCredit, "", "")
	require.NoError(t, err)

	t.Run("debit within balance", func(t *testing.T) {
		tx, err := wallet.Debit(decimal.NewFromInt(60), WalletTxPayout, "PAYOUT-1", "")
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(40)))
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-60)))
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(40)))
	})

	t.Run("debit below zero rejected", func(t *testing.T) {
		_, err := wallet.Debit(decimal.NewFromInt(500), WalletTxPayout, "PAYOUT-2", "")
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(40)), "failed debit must not change balance")
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := wallet.Debit(decimal.Zero, WalletTxDebit, "", "")
		assert.Error(t, err)
	})
}

func TestPropertyCommissionRate(t *testing.T) {
	rate := valueobject.NewMoneyUSD(decimal.NewFromInt(120))
	p, err := NewProperty("PROP-001", "Sea View Apartment", "12 Beach Rd", PropertyTypeApartment, uuid.New(), rate)
	require.NoError(t, err)

	t.Run("default when none on file", func(t *testing.T) {
		assert.True(t, p.EffectiveCommissionRate().Equal(decimal.NewFromFloat(0.15)))
	})

	t.Run("explicit rate wins", func(t *testing.T) {
		r := decimal.NewFromFloat(0.2)
		require.NoError(t, p.SetCommissionRate(&r))
		assert.True(t, p.EffectiveCommissionRate().Equal(r))
	})

	t.Run("rate above 1 rejected", func(t *testing.T) {
		r := decimal.NewFromInt(2)
		assert.Error(t, p.SetCommissionRate(&r))
	})

	t.Run("nil reverts to default", func(t *testing.T) {
		require.NoError(t, p.SetCommissionRate(nil))
		assert.True(t, p.EffectiveCommissionRate().Equal(decimal.NewFromFloat(0.15)))
	})
}

func TestPropertyLifecycle(t *testing.T) {
	rate := valueobject.NewMoneyUSD(decimal.NewFromInt(80))
	p, err := NewProperty("PROP-002", "Garden Studio", "4 Hill St", PropertyTypeStudio, uuid.New(), rate)
	require.NoError(t, err)
	assert.True(t, p.IsActive())

	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive())
	assert.Error(t, p.Deactivate(), "double deactivate rejected")

	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive())
}
