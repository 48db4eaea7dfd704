package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// PropertyFilter defines filtering options for property queries
type PropertyFilter struct {
	Search   string
	OwnerID  *uuid.UUID
	Type     string
	Status   string
	Page     int
	PageSize int
}

// PropertyRepository defines persistence operations for properties
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByCode(ctx context.Context, code string) (*Property, error)
	FindAll(ctx context.Context, filter PropertyFilter) ([]Property, int64, error)
	FindActive(ctx context.Context) ([]Property, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// OwnerFilter defines filtering options for owner queries
type OwnerFilter struct {
	Search   string
	Page     int
	PageSize int
}

// OwnerRepository defines persistence operations for owners
type OwnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)
	FindByCode(ctx context.Context, code string) (*Owner, error)
	FindAll(ctx context.Context, filter OwnerFilter) ([]Owner, int64, error)
	Save(ctx context.Context, owner *Owner) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// WalletRepository defines persistence operations for owner wallets.
// SaveWithTransaction persists the wallet balance and the ledger entry
// atomically.
type WalletRepository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*OwnerWallet, error)
	Save(ctx context.Context, wallet *OwnerWallet) error
	SaveWithTransaction(ctx context.Context, wallet *OwnerWallet, tx *WalletTransaction) error
	ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int) ([]WalletTransaction, error)
}
