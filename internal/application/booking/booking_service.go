package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
)

// BookingService handles booking lifecycle use cases
type BookingService struct {
	bookingRepo    booking.BookingRepository
	propertyRepo   portfolio.PropertyRepository
	eventPublisher shared.EventPublisher
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo booking.BookingRepository,
	propertyRepo portfolio.PropertyRepository,
	eventPublisher shared.EventPublisher,
) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		propertyRepo:   propertyRepo,
		eventPublisher: eventPublisher,
	}
}

// Create records a new booking in PENDING status
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	existing, err := s.bookingRepo.FindByCode(ctx, req.Code)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Booking with this code already exists")
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property does not exist")
		}
		return nil, err
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	gross, err := valueobject.NewMoney(req.GrossAmount, currency)
	if err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(req.Code, req.PropertyID, req.GuestName, req.CheckIn, req.CheckOut, gross, req.ChannelFee, booking.BookingSource(req.Source))
	if err != nil {
		return nil, err
	}
	b.SetGuestContact(req.GuestPhone, req.GuestEmail)
	if req.Notes != "" {
		b.Notes = req.Notes
	}

	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)

	return ToBookingResponse(b), nil
}

// GetByID retrieves a booking by its ID
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

// List retrieves bookings matching the filter with pagination
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) ([]BookingResponse, int64, error) {
	domainFilter := booking.BookingFilter{
		Search:   filter.Search,
		Paid:     filter.Paid,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PROPERTY", "Property id is not a valid UUID")
		}
		domainFilter.PropertyID = &id
	}
	if filter.Status != "" {
		status := booking.BookingStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Source != "" {
		source := booking.BookingSource(filter.Source)
		domainFilter.Source = &source
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "from_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "to_date must be formatted as YYYY-MM-DD")
		}
		domainFilter.ToDate = &to
	}

	bookings, total, err := s.bookingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *ToBookingResponse(&bookings[i])
	}
	return responses, total, nil
}

// Update modifies booking details while it is still editable
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, req UpdateBookingRequest) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	guestName := b.GuestName
	if req.GuestName != nil {
		guestName = *req.GuestName
	}
	checkIn := b.CheckIn
	if req.CheckIn != nil {
		checkIn = *req.CheckIn
	}
	checkOut := b.CheckOut
	if req.CheckOut != nil {
		checkOut = *req.CheckOut
	}
	grossAmount := b.GrossAmount
	if req.GrossAmount != nil {
		grossAmount = *req.GrossAmount
	}
	channelFee := b.ChannelFee
	if req.ChannelFee != nil {
		channelFee = *req.ChannelFee
	}
	source := b.Source
	if req.Source != nil {
		source = booking.BookingSource(*req.Source)
	}
	notes := b.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	gross, err := valueobject.NewMoney(grossAmount, b.Currency)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateDetails(guestName, checkIn, checkOut, gross, channelFee, source, notes); err != nil {
		return nil, err
	}
	if req.GuestPhone != nil || req.GuestEmail != nil {
		phone := b.GuestPhone
		if req.GuestPhone != nil {
			phone = *req.GuestPhone
		}
		email := b.GuestEmail
		if req.GuestEmail != nil {
			email = *req.GuestEmail
		}
		b.SetGuestContact(phone, email)
	}

	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

// Confirm transitions a pending booking to CONFIRMED
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).Confirm)
}

// CheckIn records the guest's arrival
func (s *BookingService) CheckIn(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).CheckInGuest)
}

// CheckOut records the guest's departure
func (s *BookingService) CheckOut(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).CheckOutGuest)
}

// Cancel cancels a booking with an optional reason
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, req CancelBookingRequest) (*BookingResponse, error) {
	return s.transition(ctx, id, func(b *booking.Booking) error {
		return b.Cancel(req.Reason)
	})
}

// MarkPaid flags a booking as paid
func (s *BookingService) MarkPaid(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).MarkPaid)
}

// Delete removes a booking
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.bookingRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.bookingRepo.Delete(ctx, id)
}

// CountByStatus returns booking counts per status
func (s *BookingService) CountByStatus(ctx context.Context) (*StatusCountResponse, error) {
	counts, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusCountResponse{
		Pending:    counts[booking.StatusPending],
		Confirmed:  counts[booking.StatusConfirmed],
		CheckedIn:  counts[booking.StatusCheckedIn],
		CheckedOut: counts[booking.StatusCheckedOut],
		Cancelled:  counts[booking.StatusCancelled],
	}, nil
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, fn func(*booking.Booking) error) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, b)
	return ToBookingResponse(b), nil
}

// publishEvents drains the aggregate's pending events onto the bus.
// Publish failures do not fail the use case, they are handled downstream.
func (s *BookingService) publishEvents(ctx context.Context, b *booking.Booking) {
	if s.eventPublisher == nil {
		return
	}
	events := b.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	b.ClearDomainEvents()
}
