package models

import (
	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property domain entity.
type PropertyModel struct {
	AggregateModel
	Code           string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string                   `gorm:"type:varchar(200);not null"`
	Address        string                   `gorm:"type:text"`
	City           string                   `gorm:"type:varchar(100)"`
	Type           portfolio.PropertyType   `gorm:"type:varchar(20);not null"`
	Bedrooms       int                      `gorm:"not null;default:0"`
	OwnerID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	NightlyRate    decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Currency       valueobject.Currency     `gorm:"type:varchar(3);not null;default:'USD'"`
	CommissionRate *decimal.Decimal         `gorm:"type:decimal(6,4)"`
	Status         portfolio.PropertyStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Notes          string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property entity.
func (m *PropertyModel) ToDomain() *portfolio.Property {
	return &portfolio.Property{
		BaseAggregateRoot: m.aggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Address:           m.Address,
		City:              m.City,
		Type:              m.Type,
		Bedrooms:          m.Bedrooms,
		OwnerID:           m.OwnerID,
		NightlyRate:       m.NightlyRate,
		Currency:          m.Currency,
		CommissionRate:    m.CommissionRate,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Property entity.
func (m *PropertyModel) FromDomain(p *portfolio.Property) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Address = p.Address
	m.City = p.City
	m.Type = p.Type
	m.Bedrooms = p.Bedrooms
	m.OwnerID = p.OwnerID
	m.NightlyRate = p.NightlyRate
	m.Currency = p.Currency
	m.CommissionRate = p.CommissionRate
	m.Status = p.Status
	m.Notes = p.Notes
}

// PropertyModelFromDomain creates a new persistence model from a domain Property entity.
func PropertyModelFromDomain(p *portfolio.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}

// OwnerModel is the persistence model for the Owner domain entity.
type OwnerModel struct {
	AggregateModel
	Code              string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string                 `gorm:"type:varchar(200);not null"`
	Email             string                 `gorm:"type:varchar(200);index"`
	Phone             string                 `gorm:"type:varchar(50);index"`
	PreferredCurrency valueobject.Currency   `gorm:"type:varchar(3);not null;default:'USD'"`
	PayoutMethod      portfolio.PayoutMethod `gorm:"type:varchar(20);not null;default:'BANK_TRANSFER'"`
	PayoutDetails     string                 `gorm:"type:text"`
	WhatsAppOptIn     bool                   `gorm:"not null;default:false"`
	Notes             string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the persistence model to a domain Owner entity.
func (m *OwnerModel) ToDomain() *portfolio.Owner {
	return &portfolio.Owner{
		BaseAggregateRoot: m.aggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		PreferredCurrency: m.PreferredCurrency,
		PayoutMethod:      m.PayoutMethod,
		PayoutDetails:     m.PayoutDetails,
		WhatsAppOptIn:     m.WhatsAppOptIn,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Owner entity.
func (m *OwnerModel) FromDomain(o *portfolio.Owner) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Code = o.Code
	m.Name = o.Name
	m.Email = o.Email
	m.Phone = o.Phone
	m.PreferredCurrency = o.PreferredCurrency
	m.PayoutMethod = o.PayoutMethod
	m.PayoutDetails = o.PayoutDetails
	m.WhatsAppOptIn = o.WhatsAppOptIn
	m.Notes = o.Notes
}

// OwnerModelFromDomain creates a new persistence model from a domain Owner entity.
func OwnerModelFromDomain(o *portfolio.Owner) *OwnerModel {
	m := &OwnerModel{}
	m.FromDomain(o)
	return m
}

// OwnerWalletModel is the persistence model for the OwnerWallet aggregate.
type OwnerWalletModel struct {
	AggregateModel
	OwnerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OwnerWalletModel) TableName() string {
	return "owner_wallets"
}

// ToDomain converts the persistence model to a domain OwnerWallet entity.
func (m *OwnerWalletModel) ToDomain() *portfolio.OwnerWallet {
	return &portfolio.OwnerWallet{
		BaseAggregateRoot: m.aggregateRoot(),
		OwnerID:           m.OwnerID,
		Balance:           m.Balance,
	}
}

// FromDomain populates the persistence model from a domain OwnerWallet entity.
func (m *OwnerWalletModel) FromDomain(w *portfolio.OwnerWallet) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.OwnerID = w.OwnerID
	m.Balance = w.Balance
}

// OwnerWalletModelFromDomain creates a new persistence model from a domain OwnerWallet entity.
func OwnerWalletModelFromDomain(w *portfolio.OwnerWallet) *OwnerWalletModel {
	m := &OwnerWalletModel{}
	m.FromDomain(w)
	return m
}

// WalletTransactionModel is the persistence model for wallet ledger entries.
type WalletTransactionModel struct {
	BaseModel
	WalletID     uuid.UUID                       `gorm:"type:uuid;not null;index"`
	OwnerID      uuid.UUID                       `gorm:"type:uuid;not null;index"`
	Type         portfolio.WalletTransactionType `gorm:"type:varchar(30);not null"`
	Amount       decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	BalanceAfter decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	Reference    string                          `gorm:"type:varchar(100);index"`
	Description  string                          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction entity.
func (m *WalletTransactionModel) ToDomain() *portfolio.WalletTransaction {
	return &portfolio.WalletTransaction{
		BaseEntity:   m.BaseModel.ToDomain(),
		WalletID:     m.WalletID,
		OwnerID:      m.OwnerID,
		Type:         m.Type,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Reference:    m.Reference,
		Description:  m.Description,
	}
}

// FromDomain populates the persistence model from a domain WalletTransaction entity.
func (m *WalletTransactionModel) FromDomain(t *portfolio.WalletTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.WalletID = t.WalletID
	m.OwnerID = t.OwnerID
	m.Type = t.Type
	m.Amount = t.Amount
	m.BalanceAfter = t.BalanceAfter
	m.Reference = t.Reference
	m.Description = t.Description
}

// WalletTransactionModelFromDomain creates a new persistence model from a domain WalletTransaction entity.
func WalletTransactionModelFromDomain(t *portfolio.WalletTransaction) *WalletTransactionModel {
	m := &WalletTransactionModel{}
	m.FromDomain(t)
	return m
}
