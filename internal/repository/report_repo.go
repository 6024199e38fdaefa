package repository

import (
	"context"
	"fmt"
	"time"

	"fleetadmin/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RevenueRow struct {
	Period      string          `gorm:"column:period"`
	Invoices    int64           `gorm:"column:invoices"`
	Invoiced    decimal.Decimal `gorm:"column:invoiced"`
	Collected   decimal.Decimal `gorm:"column:collected"`
	Outstanding decimal.Decimal `gorm:"column:outstanding"`
}

type VehicleUsageRow struct {
	VehicleNumber string          `gorm:"column:vehicle_number"`
	VehicleType   string          `gorm:"column:vehicle_type"`
	Trips         int64           `gorm:"column:trips"`
	Days          int64           `gorm:"column:days"`
	Revenue       decimal.Decimal `gorm:"column:revenue"`
}

type CustomerRow struct {
	Name        string          `gorm:"column:name"`
	Phone       string          `gorm:"column:phone"`
	Bookings    int64           `gorm:"column:bookings"`
	Amount      decimal.Decimal `gorm:"column:amount"`
	Outstanding decimal.Decimal `gorm:"column:outstanding"`
}

type ExpenseRow struct {
	Type    string          `gorm:"column:type"`
	Entries int64           `gorm:"column:entries"`
	Amount  decimal.Decimal `gorm:"column:amount"`
}

type ReportRepository interface {
	Bookings(ctx context.Context, start, end time.Time) ([]model.Booking, error)
	Revenue(ctx context.Context, start, end time.Time) ([]RevenueRow, error)
	VehicleUsage(ctx context.Context, start, end time.Time) ([]VehicleUsageRow, error)
	Customers(ctx context.Context, start, end time.Time) ([]CustomerRow, error)
	Expenses(ctx context.Context, start, end time.Time) ([]ExpenseRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Bookings(ctx context.Context, start, end time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := GetDB(ctx, r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings report: %w", err)
	}
	return bookings, nil
}

func (r *reportRepository) Revenue(ctx context.Context, start, end time.Time) ([]RevenueRow, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('month', p.created_at), 'YYYY-MM') AS period,
			COUNT(*) AS invoices,
			COALESCE(SUM(p.total_amount), 0) AS invoiced,
			COALESCE(SUM(p.paid_amount), 0) AS collected,
			COALESCE(SUM(p.balance), 0) AS outstanding
		FROM payments p
		WHERE p.deleted_at IS NULL
		  AND p.created_at >= ?
		  AND p.created_at < ?
		GROUP BY DATE_TRUNC('month', p.created_at)
		ORDER BY period
	`
	var rows []RevenueRow
	if err := GetDB(ctx, r.db).Raw(query, start, end).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query revenue report: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) VehicleUsage(ctx context.Context, start, end time.Time) ([]VehicleUsageRow, error) {
	var rows []VehicleUsageRow
	if err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("vehicle_number, MAX(vehicle_type) AS vehicle_type, COUNT(*) AS trips, COALESCE(SUM(trip_total_days), 0) AS days, COALESCE(SUM(payment_total), 0) AS revenue").
		Where("vehicle_number <> '' AND status <> ? AND created_at >= ? AND created_at < ?", model.BookingCancelled, start, end).
		Group("vehicle_number").
		Order("trips DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query vehicle report: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) Customers(ctx context.Context, start, end time.Time) ([]CustomerRow, error) {
	var rows []CustomerRow
	if err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("MAX(customer_name) AS name, customer_phone AS phone, COUNT(*) AS bookings, COALESCE(SUM(payment_total), 0) AS amount, COALESCE(SUM(payment_balance), 0) AS outstanding").
		Where("status <> ? AND created_at >= ? AND created_at < ?", model.BookingCancelled, start, end).
		Group("customer_phone").
		Order("amount DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query customer report: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) Expenses(ctx context.Context, start, end time.Time) ([]ExpenseRow, error) {
	var rows []ExpenseRow
	if err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("type, COUNT(*) AS entries, COALESCE(SUM(amount), 0) AS amount").
		Where("date >= ? AND date < ?", start, end).
		Group("type").
		Order("amount DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query expense report: %w", err)
	}
	return rows, nil
}
