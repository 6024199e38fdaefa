package calc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTripDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-01-15", "2024-01-17", 3},
		{"2024-01-15", "2024-01-15", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"2024-01-17", "2024-01-15", 0},
	}
	for _, tc := range cases {
		if got := TripDays(day(tc.start), day(tc.end)); got != tc.want {
			t.Fatalf("TripDays(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestBalanceAndBookingStatus(t *testing.T) {
	total := decimal.NewFromInt(45000)
	advance := decimal.NewFromInt(15000)

	if got := Balance(total, advance); !got.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("balance = %s, want 30000", got)
	}
	if got := BookingPaymentStatus(advance); got != PaymentPartial {
		t.Fatalf("status = %s, want partial", got)
	}
	if got := BookingPaymentStatus(decimal.Zero); got != PaymentPending {
		t.Fatalf("status = %s, want pending", got)
	}
}

func TestFuelAmount(t *testing.T) {
	got := FuelAmount(decimal.RequireFromString("42.5"), decimal.RequireFromString("96.2"))
	if !got.Equal(decimal.RequireFromString("4088.5")) {
		t.Fatalf("fuel amount = %s, want 4088.5", got)
	}
}

func TestInvoiceTotals(t *testing.T) {
	items := []LineItem{
		{Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(12000)},
		{Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(2500)},
	}
	got := Invoice(items, decimal.NewFromInt(5), decimal.NewFromInt(500), decimal.NewFromInt(10000))

	if !got.Subtotal.Equal(decimal.NewFromInt(38500)) {
		t.Fatalf("subtotal = %s", got.Subtotal)
	}
	if !got.TaxAmount.Equal(decimal.NewFromInt(1925)) {
		t.Fatalf("tax = %s", got.TaxAmount)
	}
	if !got.Total.Equal(decimal.NewFromInt(39925)) {
		t.Fatalf("total = %s", got.Total)
	}
	if !got.Balance.Equal(decimal.NewFromInt(29925)) {
		t.Fatalf("balance = %s", got.Balance)
	}
	if got.Status != PaymentPartial {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestInvoiceStatus(t *testing.T) {
	total := decimal.NewFromInt(100)
	if s := InvoiceStatus(total, decimal.Zero); s != PaymentPending {
		t.Fatalf("got %s", s)
	}
	if s := InvoiceStatus(total, decimal.NewFromInt(100)); s != PaymentCompleted {
		t.Fatalf("got %s", s)
	}
	if s := InvoiceStatus(total, decimal.NewFromInt(40)); s != PaymentPartial {
		t.Fatalf("got %s", s)
	}
}

func TestOverdueIsDerived(t *testing.T) {
	now := day("2024-03-10")
	past := day("2024-03-01")
	future := day("2024-03-20")

	if !IsOverdue(&past, decimal.NewFromInt(10), now) {
		t.Fatalf("past due with balance should be overdue")
	}
	if IsOverdue(&past, decimal.Zero, now) {
		t.Fatalf("settled invoice must not be overdue")
	}
	if IsOverdue(&future, decimal.NewFromInt(10), now) {
		t.Fatalf("future due date must not be overdue")
	}
	if IsOverdue(nil, decimal.NewFromInt(10), now) {
		t.Fatalf("missing due date must not be overdue")
	}
	if got := DisplayStatus(PaymentPartial, &past, decimal.NewFromInt(10), now); got != PaymentOverdue {
		t.Fatalf("display status = %s", got)
	}
	if got := DaysOverdue(past, now); got != 9 {
		t.Fatalf("days overdue = %d", got)
	}
}

func TestComplianceReminders(t *testing.T) {
	now := day("2024-06-01")
	expired := day("2024-05-20")
	critical := day("2024-06-05")
	warning := day("2024-06-25")
	later := day("2024-09-01")

	got := ComplianceReminders([]Certificate{
		{VehicleNumber: "DL01AB1234", Kind: "insurance", Expiry: &warning},
		{VehicleNumber: "DL01AB1234", Kind: "fitness", Expiry: &later},
		{VehicleNumber: "DL02CD5678", Kind: "permit", Expiry: &expired},
		{VehicleNumber: "DL02CD5678", Kind: "poc", Expiry: &critical},
		{VehicleNumber: "DL02CD5678", Kind: "insurance"},
	}, now)

	if len(got) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(got))
	}
	wantStatus := []string{ComplianceExpired, ComplianceCritical, ComplianceWarning}
	for i, r := range got {
		if r.Status != wantStatus[i] {
			t.Fatalf("reminder %d status = %s, want %s", i, r.Status, wantStatus[i])
		}
	}
	if got[0].DaysUntilExpiry != -12 {
		t.Fatalf("days until expiry = %d", got[0].DaysUntilExpiry)
	}
}
