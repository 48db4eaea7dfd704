package portfolio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// PropertyService handles property-related business operations
type PropertyService struct {
	propertyRepo portfolio.PropertyRepository
	ownerRepo    portfolio.OwnerRepository
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo portfolio.PropertyRepository, ownerRepo portfolio.OwnerRepository) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		ownerRepo:    ownerRepo,
	}
}

// Create creates a new property
func (s *PropertyService) Create(ctx context.Context, req CreatePropertyRequest) (*PropertyResponse, error) {
	if _, err := s.propertyRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Property with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if _, err := s.ownerRepo.FindByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_OWNER", "Owner does not exist")
		}
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	rate, err := valueobject.NewMoney(req.NightlyRate, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RATE", err.Error())
	}

	property, err := portfolio.NewProperty(req.Code, req.Name, req.Address, portfolio.PropertyType(req.Type), req.OwnerID, rate)
	if err != nil {
		return nil, err
	}
	property.City = req.City
	property.Bedrooms = req.Bedrooms
	property.Notes = req.Notes

	if req.CommissionRate != nil {
		if err := property.SetCommissionRate(req.CommissionRate); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property)
	return &response, nil
}

// GetByID retrieves a property by ID
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPropertyResponse(property)
	return &response, nil
}

// List retrieves properties with filtering and pagination
func (s *PropertyService) List(ctx context.Context, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	domainFilter := portfolio.PropertyFilter{
		Search:   filter.Search,
		Type:     filter.Type,
		Status:   filter.Status,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.OwnerID != "" {
		ownerID, err := uuid.Parse(filter.OwnerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_OWNER", "Owner id is not a valid UUID")
		}
		domainFilter.OwnerID = &ownerID
	}

	properties, total, err := s.propertyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	return responses, total, nil
}

// Update updates a property's mutable fields
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := property.Name
	if req.Name != nil {
		name = *req.Name
	}
	address := property.Address
	if req.Address != nil {
		address = *req.Address
	}
	city := property.City
	if req.City != nil {
		city = *req.City
	}
	propertyType := property.Type
	if req.Type != nil {
		propertyType = portfolio.PropertyType(*req.Type)
	}
	bedrooms := property.Bedrooms
	if req.Bedrooms != nil {
		bedrooms = *req.Bedrooms
	}
	rateAmount := property.NightlyRate
	if req.NightlyRate != nil {
		rateAmount = *req.NightlyRate
	}
	currency := property.Currency
	if req.Currency != nil {
		currency = valueobject.Currency(*req.Currency)
	}
	rate, err := valueobject.NewMoney(rateAmount, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RATE", err.Error())
	}

	if err := property.Update(name, address, city, propertyType, bedrooms, rate); err != nil {
		return nil, err
	}
	if req.CommissionRate != nil {
		if err := property.SetCommissionRate(req.CommissionRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		property.Notes = *req.Notes
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property)
	return &response, nil
}

// Activate puts a property back in service
func (s *PropertyService) Activate(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, id, (*portfolio.Property).Activate)
}

// Deactivate takes a property out of service
func (s *PropertyService) Deactivate(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, id, (*portfolio.Property).Deactivate)
}

func (s *PropertyService) transition(ctx context.Context, id uuid.UUID, fn func(*portfolio.Property) error) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(property); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}
	response := ToPropertyResponse(property)
	return &response, nil
}

// Delete removes a property
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.propertyRepo.Delete(ctx, id)
}
