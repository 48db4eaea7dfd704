package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Phone        string        `gorm:"type:varchar(50)"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'MANAGER'"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
	Active       bool          `gorm:"not null;default:true"`
	OwnerID      *uuid.UUID    `gorm:"type:uuid;index"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		Phone:             m.Phone,
		Role:              m.Role,
		PasswordHash:      m.PasswordHash,
		Active:            m.Active,
		OwnerID:           m.OwnerID,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.Phone = u.Phone
	m.Role = u.Role
	m.PasswordHash = u.PasswordHash
	m.Active = u.Active
	m.OwnerID = u.OwnerID
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
