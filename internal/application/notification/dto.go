package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/notification"
)

// SendTestRequest sends a throwaway message on one channel
type SendTestRequest struct {
	Channel string `json:"channel" binding:"required,oneof=EMAIL SMS WHATSAPP"`
	Address string `json:"address" binding:"required,max=200"`
	Name    string `json:"name" binding:"omitempty,max=200"`
}

// NotificationListFilter represents query filters for the notification log
type NotificationListFilter struct {
	Event    string `form:"event"`
	Channel  string `form:"channel" binding:"omitempty,oneof=EMAIL SMS WHATSAPP"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING SENT FAILED"`
	OwnerID  string `form:"owner_id"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse represents one notification row
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Event     string     `json:"event"`
	Channel   string     `json:"channel"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Event:     string(n.Event),
		Channel:   string(n.Channel),
		OwnerID:   n.OwnerID,
		UserID:    n.UserID,
		Recipient: n.Recipient,
		Subject:   n.Subject,
		Body:      n.Body,
		Status:    string(n.Status),
		Error:     n.Error,
		SentAt:    n.SentAt,
		CreatedAt: n.CreatedAt,
	}
}
