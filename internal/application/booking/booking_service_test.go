package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type capturedEvents struct {
	events []shared.DomainEvent
}

func (c *capturedEvents) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	c.events = append(c.events, events...)
	return nil
}

func testProperty(t *testing.T) *portfolio.Property {
	t.Helper()
	rate := valueobject.NewMoneyUSD(decimal.NewFromInt(150))
	p, err := portfolio.NewProperty("PROP-001", "Sea View", "12 Beach Rd", portfolio.PropertyTypeApartment, uuid.New(), rate)
	require.NoError(t, err)
	return p
}

func testBooking(t *testing.T, propertyID uuid.UUID) *booking.Booking {
	t.Helper()
	gross := valueobject.NewMoneyUSD(decimal.NewFromInt(600))
	checkIn := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking("BK-001", propertyID, "Ama Mensah", checkIn, checkIn.AddDate(0, 0, 4), gross, decimal.NewFromInt(60), booking.SourceAirbnb)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestBookingServiceCreate(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	bus := &capturedEvents{}
	service := NewBookingService(bookingRepo, propertyRepo, bus)

	property := testProperty(t)
	bookingRepo.On("FindByCode", mock.Anything, "BK-100").Return(nil, shared.ErrNotFound)
	propertyRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	bookingRepo.On("Save", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(nil)

	checkIn := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(context.Background(), CreateBookingRequest{
		Code:        "BK-100",
		PropertyID:  property.ID,
		GuestName:   "Ama Mensah",
		GuestPhone:  "+233501112222",
		CheckIn:     checkIn,
		CheckOut:    checkIn.AddDate(0, 0, 3),
		GrossAmount: decimal.NewFromInt(450),
		ChannelFee:  decimal.NewFromInt(45),
		Source:      "AIRBNB",
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 3, resp.Nights)
	assert.True(t, resp.NetAmount.Equal(decimal.NewFromInt(405)))
	require.Len(t, bus.events, 1)
	assert.Equal(t, "BookingCreated", bus.events[0].EventType())
}

func TestBookingServiceCreateUnknownProperty(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	propertyRepo := new(MockPropertyRepository)
	service := NewBookingService(bookingRepo, propertyRepo, nil)

	propertyID := uuid.New()
	bookingRepo.On("FindByCode", mock.Anything, "BK-101").Return(nil, shared.ErrNotFound)
	propertyRepo.On("FindByID", mock.Anything, propertyID).Return(nil, shared.ErrNotFound)

	checkIn := time.Now().UTC()
	_, err := service.Create(context.Background(), CreateBookingRequest{
		Code: "BK-101", PropertyID: propertyID, GuestName: "Guest",
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 1),
		GrossAmount: decimal.NewFromInt(100), Source: "DIRECT",
	})

	var dErr *shared.DomainError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "INVALID_PROPERTY", dErr.Code)
}

func TestBookingServiceConfirmPublishesEvent(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	bus := &capturedEvents{}
	service := NewBookingService(bookingRepo, new(MockPropertyRepository), bus)

	b := testBooking(t, uuid.New())
	bookingRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	bookingRepo.On("Save", mock.Anything, b).Return(nil)

	resp, err := service.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	require.Len(t, bus.events, 1)
	assert.Equal(t, "BookingConfirmed", bus.events[0].EventType())
}

func TestBookingServiceCancelFromCheckedOut(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	service := NewBookingService(bookingRepo, new(MockPropertyRepository), nil)

	b := testBooking(t, uuid.New())
	require.NoError(t, b.Confirm())
	require.NoError(t, b.CheckInGuest())
	require.NoError(t, b.CheckOutGuest())
	bookingRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)

	_, err := service.Cancel(context.Background(), b.ID, CancelBookingRequest{Reason: "guest request"})
	assert.Error(t, err)
}

func TestBookingServiceUpdateKeepsUnsetFields(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	service := NewBookingService(bookingRepo, new(MockPropertyRepository), nil)

	b := testBooking(t, uuid.New())
	bookingRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	bookingRepo.On("Save", mock.Anything, b).Return(nil)

	notes := "late arrival"
	resp, err := service.Update(context.Background(), b.ID, UpdateBookingRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "late arrival", resp.Notes)
	assert.Equal(t, "Ama Mensah", resp.GuestName)
	assert.Equal(t, 4, resp.Nights)
}

func TestBookingServiceCountByStatus(t *testing.T) {
	bookingRepo := new(MockBookingRepository)
	service := NewBookingService(bookingRepo, new(MockPropertyRepository), nil)

	bookingRepo.On("CountByStatus", mock.Anything).Return(map[booking.BookingStatus]int64{
		booking.StatusPending:   2,
		booking.StatusConfirmed: 5,
		booking.StatusCancelled: 1,
	}, nil)

	resp, err := service.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pending)
	assert.Equal(t, int64(5), resp.Confirmed)
	assert.Equal(t, int64(0), resp.CheckedIn)
	assert.Equal(t, int64(1), resp.Cancelled)
}
