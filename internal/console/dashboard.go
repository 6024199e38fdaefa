package console

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/console/ui"
	"fleetadmin/internal/model"
)

// Stat is one summary tile.
type Stat struct {
	Label string
	Value string
}

type ReminderView struct {
	Title       string
	Detail      string
	Status      string
	StatusClass string
}

type DashboardView struct {
	State            string
	Error            string
	Stats            []Stat
	Recent           []CardView
	Compliance       []ReminderView
	Payments         []ReminderView
	ComplianceError  string
	PaymentsError    string
	BookingsByStatus []Stat
}

// DashboardPage shows the stats and the renewal and payment reminders.
type DashboardPage struct {
	client *apiclient.Client

	mu         sync.Mutex
	gen        uint64
	state      LoadState
	err        string
	stats      *model.DashboardStats
	compliance []calc.Reminder
	payments   []model.PaymentReminder
	compErr    string
	payErr     string
}

func NewDashboardPage(client *apiclient.Client) *DashboardPage {
	return &DashboardPage{client: client}
}

// sectionError hides sections the user has no permission for.
func sectionError(err error) string {
	var apiErr *apiclient.APIError
	if err == nil || (errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden) {
		return ""
	}
	return apiclient.ErrorMessage(err)
}

func (p *DashboardPage) Enter(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateLoading
	p.err = ""
	p.mu.Unlock()

	var stats model.DashboardStats
	err := p.client.Do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil, &stats)
	compliance := []calc.Reminder{}
	compErr := p.client.Do(ctx, http.MethodGet, "/api/vehicles/compliance/reminders", nil, nil, &compliance)
	payments := []model.PaymentReminder{}
	payErr := p.client.Do(ctx, http.MethodGet, "/api/payments/reminders", nil, nil, &payments)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	if err != nil {
		p.state = StateFailed
		p.err = apiclient.ErrorMessage(err)
		return err
	}
	p.stats = &stats
	p.compliance, p.compErr = compliance, sectionError(compErr)
	p.payments, p.payErr = payments, sectionError(payErr)
	p.state = StateReady
	return nil
}

func (p *DashboardPage) Leave() {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()
}

func (p *DashboardPage) Handle(ctx context.Context, a Action) error {
	if a.Name == ActReload {
		return p.Enter(ctx)
	}
	return ErrUnknownAction
}

func (p *DashboardPage) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	dv := &DashboardView{State: p.state.String(), Error: p.err, ComplianceError: p.compErr, PaymentsError: p.payErr}
	if s := p.stats; s != nil {
		dv.Stats = []Stat{
			{Label: "Total Bookings", Value: itoa(s.TotalBookings)},
			{Label: "Pending Bookings", Value: itoa(s.PendingBookings)},
			{Label: "Active Vehicles", Value: itoa(s.ActiveVehicles) + " / " + itoa(s.TotalVehicles)},
			{Label: "Consumers", Value: itoa(s.TotalConsumers)},
			{Label: "Revenue", Value: calc.FormatCurrency(s.Revenue)},
			{Label: "Pending Payments", Value: calc.FormatCurrency(s.PendingPayments)},
			{Label: "Expenses This Month", Value: calc.FormatCurrency(s.MonthExpenses)},
			{Label: "Compliance Due", Value: itoa(int64(s.ComplianceDue))},
		}
		for _, b := range s.RecentBookings {
			dv.Recent = append(dv.Recent, CardView{
				ID: b.ID.String(),
				Card: Card{
					Title:    b.BookingNumber,
					Subtitle: b.Customer.Name,
					Status:   b.Status,
					Lines:    []string{b.Trip.From + " → " + b.Trip.To},
					Amount:   calc.FormatCurrency(b.Payment.Total),
				},
				StatusClass: ui.StatusClass(b.Status),
			})
		}
		for _, status := range []string{model.BookingPending, model.BookingConfirmed, model.BookingCompleted, model.BookingCancelled} {
			dv.BookingsByStatus = append(dv.BookingsByStatus, Stat{Label: Humanize(status), Value: itoa(s.BookingsByStatus[status])})
		}
	}
	for _, r := range p.compliance {
		expiry := r.Expiry
		dv.Compliance = append(dv.Compliance, ReminderView{
			Title:       r.VehicleNumber + " " + Humanize(r.Type),
			Detail:      "Expires " + calc.FormatDate(&expiry),
			Status:      r.Status,
			StatusClass: ui.StatusClass(r.Status),
		})
	}
	for _, r := range p.payments {
		due := r.DueDate
		dv.Payments = append(dv.Payments, ReminderView{
			Title:       r.InvoiceNumber + " " + r.CustomerName,
			Detail:      calc.FormatCurrency(r.Balance) + " due " + calc.FormatDate(&due),
			Status:      "overdue",
			StatusClass: ui.StatusClass("overdue"),
		})
	}
	return PageView{Key: PageDashboard.String(), Title: PageDashboard.Label(), Kind: "dashboard", View: "list", Dashboard: dv}
}
