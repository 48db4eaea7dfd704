package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/notification"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/channels/mail"
	"github.com/pms/backend/internal/infrastructure/channels/sms"
	"github.com/pms/backend/internal/infrastructure/channels/whatsapp"
	"go.uber.org/zap"
)

// NotificationService exposes the notification log and test sends
type NotificationService struct {
	notificationRepo notification.Repository
	mailSender       mail.Sender
	smsSender        sms.Sender
	whatsappSender   whatsapp.Sender
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo notification.Repository,
	mailSender mail.Sender,
	smsSender sms.Sender,
	whatsappSender whatsapp.Sender,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		mailSender:       mailSender,
		smsSender:        smsSender,
		whatsappSender:   whatsappSender,
		logger:           logger,
	}
}

// GetByID retrieves one notification row
func (s *NotificationService) GetByID(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	row, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponse(row), nil
}

// List retrieves notification rows matching the filter with pagination
func (s *NotificationService) List(ctx context.Context, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	domainFilter := notification.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Event != "" {
		event := notification.EventKind(filter.Event)
		domainFilter.Event = &event
	}
	if filter.Channel != "" {
		channel := notification.Channel(filter.Channel)
		domainFilter.Channel = &channel
	}
	if filter.Status != "" {
		status := notification.Status(filter.Status)
		domainFilter.Status = &status
	}
	if filter.OwnerID != "" {
		id, err := uuid.Parse(filter.OwnerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_OWNER", "Owner id is not a valid UUID")
		}
		domainFilter.OwnerID = &id
	}

	rows, total, err := s.notificationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, len(rows))
	for i := range rows {
		responses[i] = *ToNotificationResponse(&rows[i])
	}
	return responses, total, nil
}

// SendTest delivers a test message on one channel so operators can
// verify gateway credentials without waiting for a real event.
func (s *NotificationService) SendTest(ctx context.Context, req SendTestRequest) (*NotificationResponse, error) {
	channel := notification.Channel(req.Channel)
	tmpl, ok := notification.DefaultTemplate(notification.EventTest, channel)
	if !ok {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "No test template for this channel")
	}
	subject, body := tmpl.Render(map[string]string{"name": req.Name})

	to := notification.Recipient{Name: req.Name, Email: req.Address, Phone: req.Address}
	row, err := notification.NewNotification(notification.EventTest, channel, to, req.Address, subject, body)
	if err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var sendErr error
	switch channel {
	case notification.ChannelEmail:
		sendErr = s.mailSender.Send(sendCtx, req.Address, subject, body)
	case notification.ChannelSMS:
		sendErr = s.smsSender.Send(sendCtx, req.Address, body)
	case notification.ChannelWhatsApp:
		sendErr = s.whatsappSender.Send(sendCtx, req.Address, body)
	}

	if sendErr != nil {
		row.MarkFailed(sendErr.Error())
		s.logger.Warn("test notification failed", zap.String("channel", req.Channel), zap.Error(sendErr))
	} else {
		row.MarkSent()
	}

	if err := s.notificationRepo.Save(ctx, row); err != nil {
		return nil, err
	}
	return ToNotificationResponse(row), nil
}
