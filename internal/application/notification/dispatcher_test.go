package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/notification"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// Fakes
// =============================================================================

type memoryNotificationRepo struct {
	rows []*notification.Notification
}

func (r *memoryNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryNotificationRepo) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, int64, error) {
	out := make([]notification.Notification, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *memoryNotificationRepo) Save(ctx context.Context, n *notification.Notification) error {
	r.rows = append(r.rows, n)
	return nil
}

func (r *memoryNotificationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *memoryNotificationRepo) byChannel(channel notification.Channel) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range r.rows {
		if n.Channel == channel {
			out = append(out, n)
		}
	}
	return out
}

type fakeMailSender struct {
	sent []string
	err  error
}

func (f *fakeMailSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) Send(ctx context.Context, destination, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, destination)
	return nil
}

type fakeWhatsAppSender struct {
	sent []string
	err  error
}

func (f *fakeWhatsAppSender) Send(ctx context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Setting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) FindByGroup(ctx context.Context, group settings.SettingGroup) ([]settings.Setting, error) {
	args := m.Called(ctx, group)
	return args.Get(0).([]settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) FindAll(ctx context.Context) ([]settings.Setting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, s *settings.Setting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByCode(ctx context.Context, code string) (*portfolio.Property, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter portfolio.PropertyFilter) ([]portfolio.Property, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]portfolio.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) FindActive(ctx context.Context) ([]portfolio.Property, error) {
	args := m.Called(ctx)
	return args.Get(0).([]portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]portfolio.Property, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]portfolio.Property), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindByCode(ctx context.Context, code string) (*portfolio.Owner, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindAll(ctx context.Context, filter portfolio.OwnerFilter) ([]portfolio.Owner, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]portfolio.Owner), args.Get(1).(int64), args.Error(2)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *portfolio.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOwnerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

type dispatcherEnv struct {
	dispatcher *Dispatcher
	repo       *memoryNotificationRepo
	mail       *fakeMailSender
	sms        *fakeSMSSender
	whatsapp   *fakeWhatsAppSender
	settings   *MockSettingsRepository
	properties *MockPropertyRepository
	owners     *MockOwnerRepository
}

func newDispatcherEnv(t *testing.T) *dispatcherEnv {
	t.Helper()
	env := &dispatcherEnv{
		repo:       &memoryNotificationRepo{},
		mail:       &fakeMailSender{},
		sms:        &fakeSMSSender{},
		whatsapp:   &fakeWhatsAppSender{},
		settings:   new(MockSettingsRepository),
		properties: new(MockPropertyRepository),
		owners:     new(MockOwnerRepository),
	}
	env.settings.On("FindByKey", mock.Anything, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound).Maybe()
	env.dispatcher = NewDispatcher(env.repo, env.properties, env.owners, env.settings,
		env.mail, env.sms, env.whatsapp, zaptest.NewLogger(t))
	return env
}

func newOwnerWithContact(t *testing.T, email, phone string, whatsAppOptIn bool) *portfolio.Owner {
	t.Helper()
	owner, err := portfolio.NewOwner("OWN-001", "Kwame Asante", email, phone, valueobject.GHS)
	require.NoError(t, err)
	owner.SetWhatsAppOptIn(whatsAppOptIn)
	return owner
}

func newOwnedProperty(t *testing.T, ownerID uuid.UUID) *portfolio.Property {
	t.Helper()
	rate := valueobject.NewMoneyUSD(decimal.NewFromInt(100))
	p, err := portfolio.NewProperty("PROP-001", "Sea View", "", portfolio.PropertyTypeApartment, ownerID, rate)
	require.NoError(t, err)
	return p
}

func mustBooking(t *testing.T, propertyID uuid.UUID, phone, email string) *booking.Booking {
	t.Helper()
	gross := valueobject.NewMoneyUSD(decimal.NewFromInt(400))
	checkIn := mustDate("2026-05-01")
	b, err := booking.NewBooking("BK-001", propertyID, "Ama Mensah", checkIn, checkIn.AddDate(0, 0, 4), gross, decimal.Zero, booking.SourceDirect)
	require.NoError(t, err)
	b.SetGuestContact(phone, email)
	return b
}

// =============================================================================
// Tests
// =============================================================================

func TestDispatcherBookingConfirmedAllChannels(t *testing.T) {
	env := newDispatcherEnv(t)
	owner := newOwnerWithContact(t, "owner@example.com", "+233201234567", true)
	property := newOwnedProperty(t, owner.ID)
	env.properties.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	b := mustBooking(t, property.ID, "", "")
	require.NoError(t, b.Confirm())
	event := booking.NewBookingConfirmedEvent(b)

	require.NoError(t, env.dispatcher.Handle(context.Background(), event))

	assert.Equal(t, []string{"owner@example.com"}, env.mail.sent)
	assert.Equal(t, []string{"+233201234567"}, env.sms.sent)
	assert.Equal(t, []string{"+233201234567"}, env.whatsapp.sent)
	for _, row := range env.repo.rows {
		assert.Equal(t, notification.StatusSent, row.Status)
	}
	emails := env.repo.byChannel(notification.ChannelEmail)
	require.NotEmpty(t, emails)
	assert.Contains(t, emails[0].Subject, "BK-001")
	assert.Contains(t, emails[0].Body, "Sea View")
}

func TestDispatcherSkipsWhatsAppWithoutOptIn(t *testing.T) {
	env := newDispatcherEnv(t)
	owner := newOwnerWithContact(t, "owner@example.com", "+233201234567", false)
	property := newOwnedProperty(t, owner.ID)
	env.properties.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	b := mustBooking(t, property.ID, "", "")
	require.NoError(t, b.Confirm())

	require.NoError(t, env.dispatcher.Handle(context.Background(), booking.NewBookingConfirmedEvent(b)))

	assert.Empty(t, env.whatsapp.sent)
	assert.Empty(t, env.repo.byChannel(notification.ChannelWhatsApp))
}

func TestDispatcherRecordsFailureWhenContactMissing(t *testing.T) {
	env := newDispatcherEnv(t)
	owner := newOwnerWithContact(t, "", "", false)
	property := newOwnedProperty(t, owner.ID)
	env.properties.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	issue, err := ops.NewIssue(property.ID, "Burst pipe", "", ops.SeverityUrgent, "cleaner")
	require.NoError(t, err)
	event := ops.NewIssueReportedEvent(issue)

	require.NoError(t, env.dispatcher.Handle(context.Background(), event))

	require.Len(t, env.repo.rows, 2, "one email row and one sms row")
	emails := env.repo.byChannel(notification.ChannelEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, notification.StatusFailed, emails[0].Status)
	assert.Equal(t, "no email address on file", emails[0].Error)
	smsRows := env.repo.byChannel(notification.ChannelSMS)
	require.Len(t, smsRows, 1)
	assert.Equal(t, "no phone number on file", smsRows[0].Error)
}

func TestDispatcherNonUrgentIssueSkipsSMS(t *testing.T) {
	env := newDispatcherEnv(t)
	owner := newOwnerWithContact(t, "owner@example.com", "+233201234567", false)
	property := newOwnedProperty(t, owner.ID)
	env.properties.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	issue, err := ops.NewIssue(property.ID, "Squeaky door", "", ops.SeverityLow, "")
	require.NoError(t, err)

	require.NoError(t, env.dispatcher.Handle(context.Background(), ops.NewIssueReportedEvent(issue)))

	assert.Empty(t, env.sms.sent)
	assert.Len(t, env.mail.sent, 1)
}

func TestDispatcherGatewayErrorDoesNotPropagate(t *testing.T) {
	env := newDispatcherEnv(t)
	env.mail.err = errors.New("smtp connection refused")
	owner := newOwnerWithContact(t, "owner@example.com", "", false)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	statement, err := finance.NewStatement("STMT-OWN-001-202603", owner.ID, mustDate("2026-03-01"), mustDate("2026-04-01"), valueobject.GHS)
	require.NoError(t, err)
	require.NoError(t, statement.Finalize())
	require.NoError(t, statement.MarkSent())

	require.NoError(t, env.dispatcher.Handle(context.Background(), finance.NewStatementSentEvent(statement)))

	emails := env.repo.byChannel(notification.ChannelEmail)
	require.Len(t, emails, 1)
	assert.Equal(t, notification.StatusFailed, emails[0].Status)
	assert.Contains(t, emails[0].Error, "smtp connection refused")
}

func TestDispatcherUsesStoredTemplateOverride(t *testing.T) {
	env := newDispatcherEnv(t)
	owner := newOwnerWithContact(t, "owner@example.com", "+233201234567", false)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	override, err := settings.NewSetting(
		notification.TemplateKey(notification.EventPayoutPaid, notification.ChannelEmail),
		"Custom payout note for {{owner_name}}: {{amount}}",
		settings.GroupNotification,
	)
	require.NoError(t, err)
	env.settings.ExpectedCalls = nil
	env.settings.On("FindByKey", mock.Anything, notification.TemplateKey(notification.EventPayoutPaid, notification.ChannelEmail)).Return(override, nil)
	env.settings.On("FindByKey", mock.Anything, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)

	money := valueobject.NewMoneyUSD(decimal.NewFromInt(250))
	payout, err := finance.NewPayout(owner.ID, money, finance.PayoutMethodMobileMoney, "REF-1")
	require.NoError(t, err)
	require.NoError(t, payout.MarkPaid("REF-1"))

	require.NoError(t, env.dispatcher.Handle(context.Background(), finance.NewPayoutPaidEvent(payout)))

	emails := env.repo.byChannel(notification.ChannelEmail)
	require.Len(t, emails, 1)
	assert.Contains(t, emails[0].Body, "Custom payout note for Kwame Asante")
	assert.Contains(t, emails[0].Body, "250.00 USD")
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
