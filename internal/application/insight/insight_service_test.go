package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appfinance "github.com/pms/backend/internal/application/finance"
	"github.com/pms/backend/internal/application/metrics"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/pms/backend/internal/infrastructure/ai"
	"github.com/pms/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks
// =============================================================================

type fakeProvider struct {
	name    ai.ProviderName
	insight *ai.Insight
	err     error
	calls   int
	prompts []string
	models  []string
}

func (f *fakeProvider) Name() ai.ProviderName { return f.name }

func (f *fakeProvider) GenerateInsight(ctx context.Context, model, prompt string) (*ai.Insight, error) {
	f.calls++
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.insight, nil
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

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByCode(ctx context.Context, code string) (*booking.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]booking.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter booking.BookingFilter) ([]booking.Booking, error) {
	args := m.Called(ctx, propertyID, filter)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[booking.BookingStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[booking.BookingStatus]int64), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) FindInRange(ctx context.Context, from, to time.Time) ([]finance.Expense, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SummarizeByCategory(ctx context.Context, filter finance.ExpenseFilter) ([]finance.CategorySummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.CategorySummary), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, e *finance.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.Issue), args.Error(1)
}

func (m *MockIssueRepository) FindAll(ctx context.Context, filter ops.IssueFilter) ([]ops.Issue, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ops.Issue), args.Get(1).(int64), args.Error(2)
}

func (m *MockIssueRepository) FindOpenByProperty(ctx context.Context, propertyID uuid.UUID) ([]ops.Issue, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]ops.Issue), args.Error(1)
}

func (m *MockIssueRepository) Save(ctx context.Context, i *ops.Issue) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIssueRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockFXRateRepository struct {
	mock.Mock
}

func (m *MockFXRateRepository) FindByCurrency(ctx context.Context, currency valueobject.Currency) (*finance.FXRate, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) FindAll(ctx context.Context) ([]finance.FXRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]finance.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) Save(ctx context.Context, rate *finance.FXRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

type insightEnv struct {
	service  *InsightService
	settings *MockSettingsRepository
	owners   *MockOwnerRepository
	provider *fakeProvider
}

func newInsightEnv(t *testing.T) *insightEnv {
	t.Helper()

	settingsRepo := new(MockSettingsRepository)
	ownerRepo := new(MockOwnerRepository)
	propertyRepo := new(MockPropertyRepository)
	bookingRepo := new(MockBookingRepository)
	expenseRepo := new(MockExpenseRepository)
	issueRepo := new(MockIssueRepository)
	rateRepo := new(MockFXRateRepository)

	bookingRepo.On("FindInRange", mock.Anything, mock.Anything, mock.Anything).Return([]booking.Booking{}, nil).Maybe()
	expenseRepo.On("FindInRange", mock.Anything, mock.Anything, mock.Anything).Return([]finance.Expense{}, nil).Maybe()
	propertyRepo.On("FindActive", mock.Anything).Return([]portfolio.Property{}, nil).Maybe()
	issueRepo.On("FindAll", mock.Anything, mock.Anything).Return([]ops.Issue{}, int64(0), nil).Maybe()
	rateRepo.On("FindAll", mock.Anything).Return([]finance.FXRate{}, nil).Maybe()

	fxService := appfinance.NewFXService(rateRepo, cache.NewMemoryRateCache(time.Minute))
	metricsService := metrics.NewMetricsService(bookingRepo, expenseRepo, propertyRepo, issueRepo, fxService)

	provider := &fakeProvider{
		name: ai.ProviderOpenAI,
		insight: &ai.Insight{
			Summary:         "Occupancy is trending down.",
			Recommendations: []string{"Lower the nightly rate midweek."},
		},
	}

	env := &insightEnv{
		settings: settingsRepo,
		owners:   ownerRepo,
		provider: provider,
	}
	env.service = NewInsightService(settingsRepo, ownerRepo, propertyRepo, metricsService,
		cache.NewMemoryInsightCache(time.Minute),
		func(name ai.ProviderName) (ai.Provider, error) { return provider, nil })
	return env
}

func (e *insightEnv) stubDefaultAISettings() {
	e.settings.On("FindByKey", mock.Anything, settings.KeyAIProvider).Return(nil, shared.ErrNotFound)
	e.settings.On("FindByKey", mock.Anything, settings.KeyAIModel).Return(nil, shared.ErrNotFound)
}

// =============================================================================
// Tests
// =============================================================================

func TestInsightGenerateAndCache(t *testing.T) {
	env := newInsightEnv(t)
	env.stubDefaultAISettings()
	ctx := context.Background()

	first, err := env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Occupancy is trending down.", first.Summary)
	assert.Equal(t, "openai", first.Provider)
	assert.Equal(t, "gpt-4o", first.Model)

	second, err := env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, 1, env.provider.calls, "cache hit must not call the provider")
}

func TestInsightRefreshBypassesCache(t *testing.T) {
	env := newInsightEnv(t)
	env.stubDefaultAISettings()
	ctx := context.Background()

	_, err := env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})
	require.NoError(t, err)

	resp, err := env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard", Refresh: true})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, env.provider.calls)
}

func TestInsightScopedCacheKeys(t *testing.T) {
	env := newInsightEnv(t)
	env.stubDefaultAISettings()
	ctx := context.Background()

	owner, err := portfolio.NewOwner("OWN-001", "Kwame Asante", "kwame@example.com", "", valueobject.GHS)
	require.NoError(t, err)
	env.owners.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)

	_, err = env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})
	require.NoError(t, err)
	_, err = env.service.Generate(ctx, GenerateInsightRequest{Page: "owner", OwnerID: owner.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 2, env.provider.calls, "owner page must not reuse the dashboard entry")
	assert.Contains(t, env.provider.prompts[1], "Kwame Asante")
}

func TestInsightUsesConfiguredProviderAndModel(t *testing.T) {
	env := newInsightEnv(t)
	ctx := context.Background()

	providerRow, err := settings.NewSetting(settings.KeyAIProvider, "anthropic", settings.GroupAI)
	require.NoError(t, err)
	modelRow, err := settings.NewSetting(settings.KeyAIModel, "claude-3-5-haiku-20241022", settings.GroupAI)
	require.NoError(t, err)
	env.settings.On("FindByKey", mock.Anything, settings.KeyAIProvider).Return(providerRow, nil)
	env.settings.On("FindByKey", mock.Anything, settings.KeyAIModel).Return(modelRow, nil)

	resp, err := env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})

	require.NoError(t, err)
	assert.Equal(t, "anthropic", resp.Provider)
	assert.Equal(t, "claude-3-5-haiku-20241022", resp.Model)
	assert.Equal(t, []string{"claude-3-5-haiku-20241022"}, env.provider.models)
}

func TestInsightRejectsDisallowedModel(t *testing.T) {
	env := newInsightEnv(t)
	ctx := context.Background()

	providerRow, err := settings.NewSetting(settings.KeyAIProvider, "openai", settings.GroupAI)
	require.NoError(t, err)
	modelRow, err := settings.NewSetting(settings.KeyAIModel, "gpt-imaginary", settings.GroupAI)
	require.NoError(t, err)
	env.settings.On("FindByKey", mock.Anything, settings.KeyAIProvider).Return(providerRow, nil)
	env.settings.On("FindByKey", mock.Anything, settings.KeyAIModel).Return(modelRow, nil)

	_, err = env.service.Generate(ctx, GenerateInsightRequest{Page: "dashboard"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MODEL", domainErr.Code)
}

func TestInsightProviderFailurePropagates(t *testing.T) {
	env := newInsightEnv(t)
	env.stubDefaultAISettings()
	env.provider.err = errors.New("rate limited")

	_, err := env.service.Generate(context.Background(), GenerateInsightRequest{Page: "dashboard"})
	assert.ErrorContains(t, err, "rate limited")
}
