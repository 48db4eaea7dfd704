package portfolio

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PropertyType classifies a rental unit
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeVilla     PropertyType = "VILLA"
	PropertyTypeStudio    PropertyType = "STUDIO"
)

// IsValid checks if the type is a valid PropertyType
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVilla, PropertyTypeStudio:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (t PropertyType) String() string {
	return string(t)
}

// PropertyStatus represents the lifecycle status of a property
type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "ACTIVE"
	PropertyStatusInactive PropertyStatus = "INACTIVE"
)

// DefaultCommissionRate is applied when a property has no commission rate on file
var DefaultCommissionRate = decimal.NewFromFloat(0.15)

// Property represents a managed rental unit aggregate root
type Property struct {
	shared.BaseAggregateRoot
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Address        string               `json:"address"`
	City           string               `json:"city"`
	Type           PropertyType         `json:"type"`
	Bedrooms       int                  `json:"bedrooms"`
	OwnerID        uuid.UUID            `json:"owner_id"`
	NightlyRate    decimal.Decimal      `json:"nightly_rate"`
	Currency       valueobject.Currency `json:"currency"`
	CommissionRate *decimal.Decimal     `json:"commission_rate"` // nil = use DefaultCommissionRate
	Status         PropertyStatus       `json:"status"`
	Notes          string               `json:"notes"`
}

// NewProperty creates a new property
func NewProperty(code, name, address string, propertyType PropertyType, ownerID uuid.UUID, nightlyRate valueobject.Money) (*Property, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Property code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Property code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Property type %q is not valid", propertyType))
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Property owner cannot be empty")
	}
	if nightlyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Nightly rate cannot be negative")
	}

	return &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Address:           address,
		Type:              propertyType,
		OwnerID:           ownerID,
		NightlyRate:       nightlyRate.Amount(),
		Currency:          nightlyRate.Currency(),
		Status:            PropertyStatusActive,
	}, nil
}

// Update changes the mutable property details
func (p *Property) Update(name, address, city string, propertyType PropertyType, bedrooms int, nightlyRate valueobject.Money) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Property type %q is not valid", propertyType))
	}
	if bedrooms < 0 {
		return shared.NewDomainError("INVALID_BEDROOMS", "Bedroom count cannot be negative")
	}
	if nightlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Nightly rate cannot be negative")
	}

	p.Name = name
	p.Address = address
	p.City = city
	p.Type = propertyType
	p.Bedrooms = bedrooms
	p.NightlyRate = nightlyRate.Amount()
	p.Currency = nightlyRate.Currency()
	p.Touch()
	return nil
}

// SetCommissionRate sets the per-property commission rate; nil reverts to the default
func (p *Property) SetCommissionRate(rate *decimal.Decimal) error {
	if rate != nil && (rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1))) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission rate must be between 0 and 1")
	}
	p.CommissionRate = rate
	p.Touch()
	return nil
}

// EffectiveCommissionRate returns the property's commission rate, falling back
// to the system default when none is on file.
func (p *Property) EffectiveCommissionRate() decimal.Decimal {
	if p.CommissionRate == nil {
		return DefaultCommissionRate
	}
	return *p.CommissionRate
}

// Activate marks the property available for bookings
func (p *Property) Activate() error {
	if p.Status == PropertyStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Property is already active")
	}
	p.Status = PropertyStatusActive
	p.Touch()
	return nil
}

// Deactivate removes the property from the active roster
func (p *Property) Deactivate() error {
	if p.Status == PropertyStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Property is already inactive")
	}
	p.Status = PropertyStatusInactive
	p.Touch()
	return nil
}

// IsActive returns true if the property is active
func (p *Property) IsActive() bool {
	return p.Status == PropertyStatusActive
}
