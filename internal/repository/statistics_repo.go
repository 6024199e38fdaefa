package repository

import (
	"context"
	"fmt"
	"time"

	"fleetadmin/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatisticsRepository interface {
	BookingsByStatus(ctx context.Context) (map[string]int64, error)
	CountConsumers(ctx context.Context) (int64, error)
	PaymentTotals(ctx context.Context) (collected, outstanding decimal.Decimal, err error)
	ExpensesSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	RecentBookings(ctx context.Context, limit int) ([]model.Booking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) BookingsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *statisticsRepository) CountConsumers(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Consumer{}).Count(&n).Error
	return n, err
}

func (r *statisticsRepository) PaymentTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var result struct {
		Collected   decimal.Decimal
		Outstanding decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("COALESCE(SUM(paid_amount), 0) AS collected, COALESCE(SUM(balance), 0) AS outstanding").
		Scan(&result).Error; err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to total payments: %w", err)
	}
	return result.Collected, result.Outstanding, nil
}

func (r *statisticsRepository) ExpensesSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("date >= ?", since).
		Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to total expenses: %w", err)
	}
	return result.Total, nil
}

func (r *statisticsRepository) RecentBookings(ctx context.Context, limit int) ([]model.Booking, error) {
	var bookings []model.Booking
	err := GetDB(ctx, r.db).Order("created_at DESC").Limit(limit).Find(&bookings).Error
	return bookings, err
}
