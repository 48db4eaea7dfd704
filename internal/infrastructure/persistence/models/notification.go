package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for dispatched notification rows.
type NotificationModel struct {
	BaseModel
	Event     notification.EventKind `gorm:"type:varchar(40);not null;index"`
	Channel   notification.Channel   `gorm:"type:varchar(20);not null;index"`
	OwnerID   *uuid.UUID             `gorm:"type:uuid;index"`
	UserID    *uuid.UUID             `gorm:"type:uuid;index"`
	Recipient string                 `gorm:"type:varchar(200);not null"`
	Subject   string                 `gorm:"type:varchar(300)"`
	Body      string                 `gorm:"type:text"`
	Status    notification.Status    `gorm:"type:varchar(20);not null;index"`
	Error     string                 `gorm:"type:text"`
	SentAt    *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		Event:      m.Event,
		Channel:    m.Channel,
		OwnerID:    m.OwnerID,
		UserID:     m.UserID,
		Recipient:  m.Recipient,
		Subject:    m.Subject,
		Body:       m.Body,
		Status:     m.Status,
		Error:      m.Error,
		SentAt:     m.SentAt,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.Event = n.Event
	m.Channel = n.Channel
	m.OwnerID = n.OwnerID
	m.UserID = n.UserID
	m.Recipient = n.Recipient
	m.Subject = n.Subject
	m.Body = n.Body
	m.Status = n.Status
	m.Error = n.Error
	m.SentAt = n.SentAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
