package repository

import (
	"context"
	"fmt"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingTotals aggregates the bookings of one customer phone.
type BookingTotals struct {
	Count       int64
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, opts ListOptions) ([]model.Booking, int64, error)
	ListByPhone(ctx context.Context, phone string) ([]model.Booking, error)
	TotalsByPhone(ctx context.Context, phone string) (BookingTotals, error)
	CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Booking{}).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, opts ListOptions) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.Booking{}).Scopes(
			equalScope("status", opts.Category),
			searchScope(opts.Search, "booking_number", "customer_name", "customer_phone", "trip_from", "trip_to", "vehicle_number"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := GetDB(ctx, r.db).Where("customer_phone = ?", phone).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) TotalsByPhone(ctx context.Context, phone string) (BookingTotals, error) {
	var row struct {
		Count       int64
		Amount      decimal.Decimal
		Outstanding decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("COUNT(*) AS count, COALESCE(SUM(payment_total), 0) AS amount, COALESCE(SUM(payment_balance), 0) AS outstanding").
		Where("customer_phone = ? AND status <> ?", phone, model.BookingCancelled).
		Scan(&row).Error
	if err != nil {
		return BookingTotals{}, fmt.Errorf("failed to total bookings: %w", err)
	}
	return BookingTotals{Count: row.Count, Amount: row.Amount, Outstanding: row.Outstanding}, nil
}

// CountNumbersWithPrefix includes soft-deleted rows so numbers are never reused.
func (r *bookingRepository) CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Unscoped().Model(&model.Booking{}).
		Where("booking_number LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := GetDB(ctx, r.db).Model(&model.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
