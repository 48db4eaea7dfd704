package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/notification"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/channels/mail"
	"github.com/pms/backend/internal/infrastructure/channels/sms"
	"github.com/pms/backend/internal/infrastructure/channels/whatsapp"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Dispatcher listens for domain events and fans each one out to the
// owner's reachable channels. Every selected channel leaves exactly
// one notification row, SENT or FAILED. Delivery problems never
// propagate back into the operation that raised the event.
type Dispatcher struct {
	notificationRepo notification.Repository
	propertyRepo     portfolio.PropertyRepository
	ownerRepo        portfolio.OwnerRepository
	settingsRepo     settings.Repository
	mailSender       mail.Sender
	smsSender        sms.Sender
	whatsappSender   whatsapp.Sender
	logger           *zap.Logger
}

// NewDispatcher creates a notification dispatcher
func NewDispatcher(
	notificationRepo notification.Repository,
	propertyRepo portfolio.PropertyRepository,
	ownerRepo portfolio.OwnerRepository,
	settingsRepo settings.Repository,
	mailSender mail.Sender,
	smsSender sms.Sender,
	whatsappSender whatsapp.Sender,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		notificationRepo: notificationRepo,
		propertyRepo:     propertyRepo,
		ownerRepo:        ownerRepo,
		settingsRepo:     settingsRepo,
		mailSender:       mailSender,
		smsSender:        smsSender,
		whatsappSender:   whatsappSender,
		logger:           logger,
	}
}

// EventTypes lists the domain events the dispatcher reacts to
func (d *Dispatcher) EventTypes() []string {
	return []string{
		"BookingCreated",
		"BookingConfirmed",
		"BookingCancelled",
		"IssueReported",
		"StatementSent",
		"PayoutPaid",
	}
}

// Handle routes one domain event to the matching notification flow
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *booking.BookingCreatedEvent:
		return d.handleBookingCreated(ctx, e)
	case *booking.BookingConfirmedEvent:
		return d.handleBookingConfirmed(ctx, e)
	case *booking.BookingCancelledEvent:
		return d.handleBookingCancelled(ctx, e)
	case *ops.IssueReportedEvent:
		return d.handleIssueReported(ctx, e)
	case *finance.StatementSentEvent:
		return d.handleStatementSent(ctx, e)
	case *finance.PayoutPaidEvent:
		return d.handlePayoutPaid(ctx, e)
	default:
		d.logger.Debug("ignoring unhandled event", zap.String("type", event.EventType()))
		return nil
	}
}

func (d *Dispatcher) handleBookingCreated(ctx context.Context, e *booking.BookingCreatedEvent) error {
	property, owner, err := d.resolvePropertyOwner(ctx, e.PropertyID)
	if err != nil {
		return err
	}
	data := map[string]string{
		"booking_code":  e.Code,
		"property_name": property.Name,
		"guest_name":    e.GuestName,
		"check_in":      e.CheckIn.Format(dateLayout),
		"check_out":     e.CheckOut.Format(dateLayout),
		"owner_name":    owner.Name,
	}
	d.deliver(ctx, notification.EventBookingCreated, ownerRecipient(owner), data, channelPlan{email: true})
	return nil
}

func (d *Dispatcher) handleBookingConfirmed(ctx context.Context, e *booking.BookingConfirmedEvent) error {
	property, owner, err := d.resolvePropertyOwner(ctx, e.PropertyID)
	if err != nil {
		return err
	}
	data := map[string]string{
		"booking_code":  e.Code,
		"property_name": property.Name,
		"guest_name":    e.GuestName,
		"check_in":      e.CheckIn.Format(dateLayout),
		"check_out":     e.CheckOut.Format(dateLayout),
		"owner_name":    owner.Name,
	}
	d.deliver(ctx, notification.EventBookingConfirmed, ownerRecipient(owner), data, channelPlan{email: true, sms: true, whatsapp: true})

	// the guest gets a confirmation too when we hold their contact
	guest := notification.Recipient{
		Name:  e.GuestName,
		Email: e.GuestEmail,
		Phone: e.GuestPhone,
	}
	if guest.HasEmail() || guest.HasPhone() {
		d.deliver(ctx, notification.EventBookingConfirmed, guest, data, channelPlan{email: guest.HasEmail(), sms: guest.HasPhone()})
	}
	return nil
}

func (d *Dispatcher) handleBookingCancelled(ctx context.Context, e *booking.BookingCancelledEvent) error {
	property, owner, err := d.resolvePropertyOwner(ctx, e.PropertyID)
	if err != nil {
		return err
	}
	reason := e.Reason
	if reason == "" {
		reason = "not given"
	}
	data := map[string]string{
		"booking_code":  e.Code,
		"property_name": property.Name,
		"guest_name":    e.GuestName,
		"reason":        reason,
		"owner_name":    owner.Name,
	}
	d.deliver(ctx, notification.EventBookingCancelled, ownerRecipient(owner), data, channelPlan{email: true})
	return nil
}

func (d *Dispatcher) handleIssueReported(ctx context.Context, e *ops.IssueReportedEvent) error {
	property, owner, err := d.resolvePropertyOwner(ctx, e.PropertyID)
	if err != nil {
		return err
	}
	data := map[string]string{
		"property_name": property.Name,
		"title":         e.Title,
		"severity":      string(e.Severity),
		"reported_by":   e.ReportedBy,
		"description":   "",
		"owner_name":    owner.Name,
	}
	// urgent issues page the owner over SMS on top of email
	plan := channelPlan{email: true, sms: e.Severity == ops.SeverityUrgent}
	d.deliver(ctx, notification.EventIssueReported, ownerRecipient(owner), data, plan)
	return nil
}

func (d *Dispatcher) handleStatementSent(ctx context.Context, e *finance.StatementSentEvent) error {
	owner, err := d.ownerRepo.FindByID(ctx, e.OwnerID)
	if err != nil {
		return err
	}
	data := map[string]string{
		"statement_code": e.Code,
		"owner_name":     owner.Name,
		"period":         fmt.Sprintf("%s to %s", e.PeriodStart.Format(dateLayout), e.PeriodEnd.Format(dateLayout)),
		"net_amount":     fmt.Sprintf("%s %s", e.TotalNet.StringFixed(2), e.Currency),
	}
	d.deliver(ctx, notification.EventStatementSent, ownerRecipient(owner), data, channelPlan{email: true, whatsapp: true})
	return nil
}

func (d *Dispatcher) handlePayoutPaid(ctx context.Context, e *finance.PayoutPaidEvent) error {
	owner, err := d.ownerRepo.FindByID(ctx, e.OwnerID)
	if err != nil {
		return err
	}
	data := map[string]string{
		"owner_name": owner.Name,
		"amount":     fmt.Sprintf("%s %s", e.Amount.StringFixed(2), e.Currency),
		"method":     string(e.Method),
		"reference":  e.Reference,
	}
	d.deliver(ctx, notification.EventPayoutPaid, ownerRecipient(owner), data, channelPlan{email: true, sms: true, whatsapp: true})
	return nil
}

// channelPlan marks which channels an event wants. WhatsApp is
// additionally gated on the recipient's opt-in.
type channelPlan struct {
	email    bool
	sms      bool
	whatsapp bool
}

// deliver renders and sends the event on each planned channel,
// recording one row per channel.
func (d *Dispatcher) deliver(ctx context.Context, event notification.EventKind, to notification.Recipient, data map[string]string, plan channelPlan) {
	if plan.email {
		d.send(ctx, event, notification.ChannelEmail, to, data)
	}
	if plan.sms {
		d.send(ctx, event, notification.ChannelSMS, to, data)
	}
	if plan.whatsapp && to.WhatsAppOptIn {
		d.send(ctx, event, notification.ChannelWhatsApp, to, data)
	}
}

func (d *Dispatcher) send(ctx context.Context, event notification.EventKind, channel notification.Channel, to notification.Recipient, data map[string]string) {
	tmpl, ok := d.template(ctx, event, channel)
	if !ok {
		return
	}
	subject, body := tmpl.Render(data)

	address, missing := resolveAddress(channel, to)
	row, err := notification.NewNotification(event, channel, to, address, subject, body)
	if err != nil {
		d.logger.Error("building notification row", zap.Error(err))
		return
	}

	if missing != "" {
		row.MarkFailed(missing)
	} else if err := d.dispatch(ctx, channel, address, subject, body); err != nil {
		row.MarkFailed(err.Error())
		d.logger.Warn("notification delivery failed",
			zap.String("event", string(event)),
			zap.String("channel", string(channel)),
			zap.Error(err))
	} else {
		row.MarkSent()
	}

	if err := d.notificationRepo.Save(ctx, row); err != nil {
		d.logger.Error("saving notification row", zap.Error(err))
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, channel notification.Channel, address, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch channel {
	case notification.ChannelEmail:
		return d.mailSender.Send(ctx, address, subject, body)
	case notification.ChannelSMS:
		return d.smsSender.Send(ctx, address, body)
	case notification.ChannelWhatsApp:
		return d.whatsappSender.Send(ctx, address, body)
	default:
		return fmt.Errorf("unknown channel %s", channel)
	}
}

// template prefers the stored override, falling back to the built-in
func (d *Dispatcher) template(ctx context.Context, event notification.EventKind, channel notification.Channel) (notification.Template, bool) {
	key := notification.TemplateKey(event, channel)
	setting, err := d.settingsRepo.FindByKey(ctx, key)
	if err == nil && setting.Value != "" {
		fallback, _ := notification.DefaultTemplate(event, channel)
		return notification.Template{Subject: fallback.Subject, Body: setting.Value}, true
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		d.logger.Warn("loading notification template", zap.String("key", key), zap.Error(err))
	}
	return notification.DefaultTemplate(event, channel)
}

func (d *Dispatcher) resolvePropertyOwner(ctx context.Context, propertyID uuid.UUID) (*portfolio.Property, *portfolio.Owner, error) {
	property, err := d.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	owner, err := d.ownerRepo.FindByID(ctx, property.OwnerID)
	if err != nil {
		return nil, nil, err
	}
	return property, owner, nil
}

func ownerRecipient(owner *portfolio.Owner) notification.Recipient {
	return notification.Recipient{
		OwnerID:       &owner.ID,
		Name:          owner.Name,
		Email:         owner.Email,
		Phone:         owner.Phone,
		WhatsAppOptIn: owner.WhatsAppOptIn,
	}
}

// resolveAddress returns the channel address, or the failure reason
// when the recipient has no usable contact for it.
func resolveAddress(channel notification.Channel, to notification.Recipient) (address, missing string) {
	switch channel {
	case notification.ChannelEmail:
		if !to.HasEmail() {
			return "", "no email address on file"
		}
		return to.Email, ""
	case notification.ChannelSMS, notification.ChannelWhatsApp:
		if !to.HasPhone() {
			return "", "no phone number on file"
		}
		return to.Phone, ""
	}
	return "", "unknown channel"
}
