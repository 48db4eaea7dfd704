package portfolio

import (
	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WalletTransactionType classifies a wallet ledger entry
type WalletTransactionType string

const (
	WalletTxCredit     WalletTransactionType = "CREDIT"
	WalletTxDebit      WalletTransactionType = "DEBIT"
	WalletTxPayout     WalletTransactionType = "PAYOUT"
	WalletTxAdjustment WalletTransactionType = "ADJUSTMENT"
)

// IsValid checks if the type is a valid WalletTransactionType
func (t WalletTransactionType) IsValid() bool {
	switch t {
	case WalletTxCredit, WalletTxDebit, WalletTxPayout, WalletTxAdjustment:
		return true
	}
	return false
}

// OwnerWallet is the running balance per owner, in the USD reporting base.
// The wallet row is authoritative; balances are never recomputed from the
// transaction history.
type OwnerWallet struct {
	shared.BaseAggregateRoot
	OwnerID uuid.UUID       `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
}

// NewOwnerWallet creates an empty wallet for an owner
func NewOwnerWallet(ownerID uuid.UUID) (*OwnerWallet, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Wallet owner cannot be empty")
	}
	return &OwnerWallet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Balance:           decimal.Zero,
	}, nil
}

// Credit increases the balance and returns the ledger entry
func (w *OwnerWallet) Credit(amount decimal.Decimal, txType WalletTransactionType, reference, description string) (*WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TX_TYPE", "Wallet transaction type is not valid")
	}
	w.Balance = w.Balance.Add(amount)
	w.Touch()
	return newWalletTransaction(w, amount, txType, reference, description), nil
}

// Debit decreases the balance and returns the ledger entry.
// Debiting below zero is rejected.
func (w *OwnerWallet) Debit(amount decimal.Decimal, txType WalletTransactionType, reference, description string) (*WalletTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TX_TYPE", "Wallet transaction type is not valid")
	}
	if w.Balance.LessThan(amount) {
		return nil, shared.ErrInsufficientBalance
	}
	w.Balance = w.Balance.Sub(amount)
	w.Touch()
	return newWalletTransaction(w, amount.Neg(), txType, reference, description), nil
}

// WalletTransaction is an immutable ledger entry appended to on every
// wallet movement. Amount is signed: positive for credits, negative for
// debits. BalanceAfter snapshots the wallet balance after the movement.
type WalletTransaction struct {
	shared.BaseEntity
	WalletID     uuid.UUID             `json:"wallet_id"`
	OwnerID      uuid.UUID             `json:"owner_id"`
	Type         WalletTransactionType `json:"type"`
	Amount       decimal.Decimal       `json:"amount"`
	BalanceAfter decimal.Decimal       `json:"balance_after"`
	Reference    string                `json:"reference"`
	Description  string                `json:"description"`
}

func newWalletTransaction(w *OwnerWallet, signedAmount decimal.Decimal, txType WalletTransactionType, reference, description string) *WalletTransaction {
	return &WalletTransaction{
		BaseEntity:   shared.NewBaseEntity(),
		WalletID:     w.ID,
		OwnerID:      w.OwnerID,
		Type:         txType,
		Amount:       signedAmount,
		BalanceAfter: w.Balance,
		Reference:    reference,
		Description:  description,
	}
}
