package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/internal/report"
	"fleetadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	Generate(ctx context.Context, kind string, start, end time.Time) (*model.Report, error)
	PDF(ctx context.Context, kind string, start, end time.Time) ([]byte, string, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// reportRange defaults to the current month. end is an inclusive day and is
// turned into an exclusive bound.
func reportRange(start, end time.Time) (time.Time, time.Time, error) {
	now := nowFunc()
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = now
	}
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if !to.After(from) {
		return time.Time{}, time.Time{}, ValidationError{Field: "end", Msg: "must not be before start"}
	}
	return from, to, nil
}

func (s *reportService) Generate(ctx context.Context, kind string, start, end time.Time) (*model.Report, error) {
	if err := oneOf("kind", kind, model.ReportKinds...); err != nil {
		return nil, err
	}
	from, to, err := reportRange(start, end)
	if err != nil {
		return nil, err
	}
	r := &model.Report{Kind: kind, Start: from, End: to.AddDate(0, 0, -1), Rows: [][]string{}}

	switch kind {
	case model.ReportBookings:
		bookings, err := s.reportRepo.Bookings(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.Columns = []string{"Booking", "Customer", "Route", "Start", "Days", "Status", "Total", "Balance"}
		total, balance := decimal.Zero, decimal.Zero
		for _, b := range bookings {
			r.Rows = append(r.Rows, []string{
				b.BookingNumber, b.Customer.Name, b.Trip.From + " - " + b.Trip.To,
				calc.FormatDate(b.Trip.StartDate), strconv.Itoa(b.Trip.TotalDays), b.Status,
				calc.FormatCurrency(b.Payment.Total), calc.FormatCurrency(b.Payment.Balance),
			})
			if b.Status != model.BookingCancelled {
				total = total.Add(b.Payment.Total)
				balance = balance.Add(b.Payment.Balance)
			}
		}
		r.Totals = []model.ReportStat{
			{Label: "Bookings", Value: strconv.Itoa(len(bookings))},
			{Label: "Booked value", Value: calc.FormatCurrency(total)},
			{Label: "Outstanding", Value: calc.FormatCurrency(balance)},
		}

	case model.ReportRevenue:
		rows, err := s.reportRepo.Revenue(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.Columns = []string{"Month", "Invoices", "Invoiced", "Collected", "Outstanding"}
		var invoices int64
		invoiced, collected, outstanding := decimal.Zero, decimal.Zero, decimal.Zero
		for _, row := range rows {
			r.Rows = append(r.Rows, []string{
				row.Period, strconv.FormatInt(row.Invoices, 10), calc.FormatCurrency(row.Invoiced),
				calc.FormatCurrency(row.Collected), calc.FormatCurrency(row.Outstanding),
			})
			invoices += row.Invoices
			invoiced = invoiced.Add(row.Invoiced)
			collected = collected.Add(row.Collected)
			outstanding = outstanding.Add(row.Outstanding)
		}
		r.Totals = []model.ReportStat{
			{Label: "Invoices", Value: strconv.FormatInt(invoices, 10)},
			{Label: "Invoiced", Value: calc.FormatCurrency(invoiced)},
			{Label: "Collected", Value: calc.FormatCurrency(collected)},
			{Label: "Outstanding", Value: calc.FormatCurrency(outstanding)},
		}

	case model.ReportVehicles:
		rows, err := s.reportRepo.VehicleUsage(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.Columns = []string{"Vehicle", "Type", "Trips", "Days", "Revenue"}
		var trips int64
		revenue := decimal.Zero
		for _, row := range rows {
			r.Rows = append(r.Rows, []string{
				row.VehicleNumber, row.VehicleType, strconv.FormatInt(row.Trips, 10),
				strconv.FormatInt(row.Days, 10), calc.FormatCurrency(row.Revenue),
			})
			trips += row.Trips
			revenue = revenue.Add(row.Revenue)
		}
		r.Totals = []model.ReportStat{
			{Label: "Vehicles used", Value: strconv.Itoa(len(rows))},
			{Label: "Trips", Value: strconv.FormatInt(trips, 10)},
			{Label: "Revenue", Value: calc.FormatCurrency(revenue)},
		}

	case model.ReportCustomers:
		rows, err := s.reportRepo.Customers(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.Columns = []string{"Customer", "Phone", "Bookings", "Amount", "Outstanding"}
		amount, outstanding := decimal.Zero, decimal.Zero
		for _, row := range rows {
			r.Rows = append(r.Rows, []string{
				row.Name, calc.FormatPhone(row.Phone), strconv.FormatInt(row.Bookings, 10),
				calc.FormatCurrency(row.Amount), calc.FormatCurrency(row.Outstanding),
			})
			amount = amount.Add(row.Amount)
			outstanding = outstanding.Add(row.Outstanding)
		}
		r.Totals = []model.ReportStat{
			{Label: "Customers", Value: strconv.Itoa(len(rows))},
			{Label: "Amount", Value: calc.FormatCurrency(amount)},
			{Label: "Outstanding", Value: calc.FormatCurrency(outstanding)},
		}

	case model.ReportExpenses:
		rows, err := s.reportRepo.Expenses(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.Columns = []string{"Type", "Entries", "Amount"}
		total := decimal.Zero
		for _, row := range rows {
			r.Rows = append(r.Rows, []string{row.Type, strconv.FormatInt(row.Entries, 10), calc.FormatCurrency(row.Amount)})
			total = total.Add(row.Amount)
		}
		r.Totals = []model.ReportStat{{Label: "Total expenses", Value: calc.FormatCurrency(total)}}
	}
	return r, nil
}

func (s *reportService) PDF(ctx context.Context, kind string, start, end time.Time) ([]byte, string, error) {
	r, err := s.Generate(ctx, kind, start, end)
	if err != nil {
		return nil, "", err
	}
	data, err := report.Table(*r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}
	name := fmt.Sprintf("%s-report-%s-%s.pdf", kind, r.Start.Format("20060102"), r.End.Format("20060102"))
	return data, name, nil
}
