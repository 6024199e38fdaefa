package service

import (
	"context"
	"fmt"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
)

const recentBookingsLimit = 5

type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type dashboardService struct {
	statsRepo   repository.StatisticsRepository
	vehicleRepo repository.VehicleRepository
}

func NewDashboardService(statsRepo repository.StatisticsRepository, vehicleRepo repository.VehicleRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo, vehicleRepo: vehicleRepo}
}

func (s *dashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	now := nowFunc()
	stats := &model.DashboardStats{GeneratedAt: now}

	byStatus, err := s.statsRepo.BookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats.BookingsByStatus = byStatus
	for _, n := range byStatus {
		stats.TotalBookings += n
	}
	stats.PendingBookings = byStatus[model.BookingPending]

	vehicles, err := s.vehicleRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	for status, n := range vehicles {
		stats.TotalVehicles += n
		if status != model.VehicleMaintenance {
			stats.ActiveVehicles += n
		}
	}

	if stats.TotalConsumers, err = s.statsRepo.CountConsumers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count consumers: %w", err)
	}
	if stats.Revenue, stats.PendingPayments, err = s.statsRepo.PaymentTotals(ctx); err != nil {
		return nil, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if stats.MonthExpenses, err = s.statsRepo.ExpensesSince(ctx, monthStart); err != nil {
		return nil, err
	}

	fleet, _, err := s.vehicleRepo.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	stats.ComplianceDue = len(calc.ComplianceReminders(Certificates(fleet), now))

	if stats.RecentBookings, err = s.statsRepo.RecentBookings(ctx, recentBookingsLimit); err != nil {
		return nil, fmt.Errorf("failed to fetch recent bookings: %w", err)
	}
	return stats, nil
}
