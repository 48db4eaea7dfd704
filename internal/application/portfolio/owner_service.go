package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// OwnerService handles owner-related business operations
type OwnerService struct {
	ownerRepo  portfolio.OwnerRepository
	walletRepo portfolio.WalletRepository
}

// NewOwnerService creates a new OwnerService
func NewOwnerService(ownerRepo portfolio.OwnerRepository, walletRepo portfolio.WalletRepository) *OwnerService {
	return &OwnerService{
		ownerRepo:  ownerRepo,
		walletRepo: walletRepo,
	}
}

// Create creates a new owner and their empty wallet
func (s *OwnerService) Create(ctx context.Context, req CreateOwnerRequest) (*OwnerResponse, error) {
	if _, err := s.ownerRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Owner with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	owner, err := portfolio.NewOwner(req.Code, req.Name, req.Email, req.Phone, valueobject.Currency(req.PreferredCurrency))
	if err != nil {
		return nil, err
	}
	if req.PayoutMethod != "" {
		if err := owner.SetPayoutDetails(portfolio.PayoutMethod(req.PayoutMethod), req.PayoutDetails); err != nil {
			return nil, err
		}
	} else if req.PayoutDetails != "" {
		if err := owner.SetPayoutDetails(owner.PayoutMethod, req.PayoutDetails); err != nil {
			return nil, err
		}
	}
	owner.SetWhatsAppOptIn(req.WhatsAppOptIn)
	owner.Notes = req.Notes

	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	wallet, err := portfolio.NewOwnerWallet(owner.ID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, err
	}

	response := ToOwnerResponse(owner)
	return &response, nil
}

// GetByID retrieves an owner by ID
func (s *OwnerService) GetByID(ctx context.Context, id uuid.UUID) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOwnerResponse(owner)
	return &response, nil
}

// List retrieves owners with filtering and pagination
func (s *OwnerService) List(ctx context.Context, filter OwnerListFilter) ([]OwnerResponse, int64, error) {
	owners, total, err := s.ownerRepo.FindAll(ctx, portfolio.OwnerFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OwnerResponse, len(owners))
	for i := range owners {
		responses[i] = ToOwnerResponse(&owners[i])
	}
	return responses, total, nil
}

// Update updates an owner's mutable fields
func (s *OwnerService) Update(ctx context.Context, id uuid.UUID, req UpdateOwnerRequest) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := owner.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := owner.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := owner.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	currency := owner.PreferredCurrency
	if req.PreferredCurrency != nil {
		currency = valueobject.Currency(*req.PreferredCurrency)
	}
	if err := owner.Update(name, email, phone, currency); err != nil {
		return nil, err
	}

	if req.PayoutMethod != nil || req.PayoutDetails != nil {
		method := owner.PayoutMethod
		if req.PayoutMethod != nil {
			method = portfolio.PayoutMethod(*req.PayoutMethod)
		}
		details := owner.PayoutDetails
		if req.PayoutDetails != nil {
			details = *req.PayoutDetails
		}
		if err := owner.SetPayoutDetails(method, details); err != nil {
			return nil, err
		}
	}
	if req.WhatsAppOptIn != nil {
		owner.SetWhatsAppOptIn(*req.WhatsAppOptIn)
	}
	if req.Notes != nil {
		owner.Notes = *req.Notes
	}

	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	response := ToOwnerResponse(owner)
	return &response, nil
}

// Delete removes an owner
func (s *OwnerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.ownerRepo.Delete(ctx, id)
}
