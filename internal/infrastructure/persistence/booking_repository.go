package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a booking by its code
func (r *GormBookingRepository) FindByCode(ctx context.Context, code string) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter booking.BookingFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR guest_name ILIKE ? OR guest_phone ILIKE ? OR guest_email ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.FromDate != nil {
		query = query.Where("check_out > ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("check_in < ?", *filter.ToDate)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}
	return query
}

// FindAll finds all bookings matching the filter with the total count
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BookingModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookingModels []models.BookingModel
	if err := paginate(query.Order("check_in DESC"), filter.Page, filter.PageSize).
		Find(&bookingModels).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]booking.Booking, len(bookingModels))
	for i, model := range bookingModels {
		bookings[i] = *model.ToDomain()
	}
	return bookings, total, nil
}

// FindInRange finds bookings whose stay overlaps the given window
func (r *GormBookingRepository) FindInRange(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	var bookingModels []models.BookingModel
	if err := r.db.WithContext(ctx).
		Where("check_in < ? AND check_out > ?", to, from).
		Order("check_in ASC").
		Find(&bookingModels).Error; err != nil {
		return nil, err
	}

	bookings := make([]booking.Booking, len(bookingModels))
	for i, model := range bookingModels {
		bookings[i] = *model.ToDomain()
	}
	return bookings, nil
}

// FindByProperty finds bookings for a property matching the filter
func (r *GormBookingRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter booking.BookingFilter) ([]booking.Booking, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("property_id = ?", propertyID),
		filter,
	)

	var bookingModels []models.BookingModel
	if err := paginate(query.Order("check_in DESC"), filter.Page, filter.PageSize).
		Find(&bookingModels).Error; err != nil {
		return nil, err
	}

	bookings := make([]booking.Booking, len(bookingModels))
	for i, model := range bookingModels {
		bookings[i] = *model.ToDomain()
	}
	return bookings, nil
}

// CountByStatus returns booking counts grouped by status
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[booking.BookingStatus]int64, error) {
	type statusCount struct {
		Status booking.BookingStatus
		Count  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.BookingModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[booking.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save persists a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	model := models.BookingModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a booking by ID
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BookingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of bookings
func (r *GormBookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).Count(&count).Error
	return count, err
}
