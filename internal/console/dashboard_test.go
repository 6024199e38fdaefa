package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dashboardAPI answers each dashboard endpoint with the status set for it.
type dashboardAPI struct {
	mu     sync.Mutex
	status map[string]int
}

func (d *dashboardAPI) reply(c *gin.Context, path string, data interface{}) {
	d.mu.Lock()
	code := d.status[path]
	d.mu.Unlock()
	switch code {
	case 0, http.StatusOK:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
	case http.StatusForbidden:
		c.JSON(code, response.Error(code, "Forbidden"))
	default:
		c.JSON(code, response.Error(code, "Service unavailable"))
	}
}

func (d *dashboardAPI) set(path string, code int) {
	d.mu.Lock()
	d.status[path] = code
	d.mu.Unlock()
}

func newDashboardAPI(t *testing.T) (*apiclient.Client, *dashboardAPI) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := &dashboardAPI{status: map[string]int{}}
	expiry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r := gin.New()
	r.GET("/api/dashboard/stats", func(c *gin.Context) {
		d.reply(c, "stats", model.DashboardStats{
			TotalBookings:   4,
			PendingBookings: 1,
			ActiveVehicles:  2,
			TotalVehicles:   3,
			Revenue:         decimal.NewFromInt(90000),
			RecentBookings: []model.Booking{{
				ID: uuid.New(), BookingNumber: "BK-2024-004", Status: model.BookingPending,
				Customer: model.BookingCustomer{Name: "Asha"},
				Trip:     model.BookingTrip{From: "Delhi", To: "Agra"},
			}},
			BookingsByStatus: map[string]int64{model.BookingPending: 1, model.BookingConfirmed: 3},
		})
	})
	r.GET("/api/vehicles/compliance/reminders", func(c *gin.Context) {
		d.reply(c, "compliance", []calc.Reminder{{VehicleNumber: "DL01AB1234", Type: "insurance", Expiry: expiry, Status: "expiring"}})
	})
	r.GET("/api/payments/reminders", func(c *gin.Context) {
		d.reply(c, "payments", []model.PaymentReminder{{InvoiceNumber: "INV-2024-001", CustomerName: "Ravi", Balance: decimal.NewFromInt(5000), DueDate: expiry}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, srv.Client()), d
}

func TestDashboardHidesForbiddenReminders(t *testing.T) {
	client, api := newDashboardAPI(t)
	api.set("payments", http.StatusForbidden)
	p := NewDashboardPage(client)
	if err := p.Enter(context.Background()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	dv := p.View().Dashboard
	if dv.State != "ready" || dv.Error != "" {
		t.Fatalf("dashboard state %q error %q", dv.State, dv.Error)
	}
	if len(dv.Stats) == 0 || dv.Stats[0].Label != "Total Bookings" || dv.Stats[0].Value != "4" {
		t.Fatalf("stats = %+v", dv.Stats)
	}
	if len(dv.Recent) != 1 || dv.Recent[0].Title != "BK-2024-004" {
		t.Fatalf("recent = %+v", dv.Recent)
	}
	byStatus := map[string]string{}
	for _, s := range dv.BookingsByStatus {
		byStatus[s.Label] = s.Value
	}
	if byStatus["Confirmed"] != "3" || byStatus["Cancelled"] != "0" {
		t.Fatalf("bookings by status = %+v", dv.BookingsByStatus)
	}
	if len(dv.Compliance) != 1 || dv.Compliance[0].Title != "DL01AB1234 Insurance" {
		t.Fatalf("compliance = %+v", dv.Compliance)
	}
	if len(dv.Payments) != 0 || dv.PaymentsError != "" {
		t.Fatalf("forbidden payments should be hidden, got %+v / %q", dv.Payments, dv.PaymentsError)
	}
}

func TestDashboardReportsSectionAndStatsFailures(t *testing.T) {
	client, api := newDashboardAPI(t)
	api.set("compliance", http.StatusInternalServerError)
	p := NewDashboardPage(client)
	ctx := context.Background()
	if err := p.Enter(ctx); err != nil {
		t.Fatalf("enter: %v", err)
	}
	dv := p.View().Dashboard
	if dv.ComplianceError != "Service unavailable" || len(dv.Compliance) != 0 {
		t.Fatalf("compliance error = %q, rows %d", dv.ComplianceError, len(dv.Compliance))
	}
	if len(dv.Payments) != 1 || dv.Payments[0].Status != "overdue" {
		t.Fatalf("payments = %+v", dv.Payments)
	}

	api.set("stats", http.StatusInternalServerError)
	if err := p.Handle(ctx, Action{Name: ActReload}); err == nil {
		t.Fatal("expected stats failure")
	}
	if dv = p.View().Dashboard; dv.State != "failed" || dv.Error != "Service unavailable" {
		t.Fatalf("failed dashboard = %q / %q", dv.State, dv.Error)
	}
	if err := p.Handle(ctx, Action{Name: ActAdd}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("add on dashboard = %v", err)
	}
}
