package service

import (
	"context"
	"testing"
	"time"

	"fleetadmin/internal/model"

	"github.com/shopspring/decimal"
)

func newPaymentFixture() (PaymentService, *fakePaymentRepo, *fakeBookingRepo) {
	payments := newFakePaymentRepo()
	bookings := newFakeBookingRepo()
	return NewPaymentService(payments, bookings, &fakeAudit{}, &fakeTx{}, &fakeNotifier{}), payments, bookings
}

func invoice(paid int64, due *time.Time) model.Payment {
	return model.Payment{
		CustomerName:  "Raj Kumar",
		CustomerPhone: "9876543210",
		Items: []model.PaymentItem{
			{Description: "Delhi to Agra", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(10000)},
			{Description: "Toll", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1000)},
		},
		TaxPercent: decimal.NewFromInt(18),
		Discount:   decimal.NewFromInt(780),
		PaidAmount: decimal.NewFromInt(paid),
		DueDate:    due,
	}
}

func TestCreatePaymentComputesTotals(t *testing.T) {
	fixNow(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc, _, _ := newPaymentFixture()

	got, err := svc.Create(context.Background(), Actor{}, invoice(10000, day(t, "2024-03-31")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.InvoiceNumber != "INV-2024-001" {
		t.Fatalf("invoice number = %q", got.InvoiceNumber)
	}
	checks := map[string][2]decimal.Decimal{
		"subtotal": {got.Subtotal, decimal.NewFromInt(21000)},
		"tax":      {got.TaxAmount, decimal.NewFromInt(3780)},
		"total":    {got.TotalAmount, decimal.NewFromInt(24000)},
		"balance":  {got.Balance, decimal.NewFromInt(14000)},
		"line 0":   {got.Items[0].Amount, decimal.NewFromInt(20000)},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Fatalf("%s = %s, want %s", name, c[0], c[1])
		}
	}
	if got.Status != "partial" {
		t.Fatalf("status = %q, want partial", got.Status)
	}
}

func TestCreatePaymentFromBooking(t *testing.T) {
	svc, _, bookings := newPaymentFixture()
	b := model.Booking{BookingNumber: "BK-2024-007", Customer: model.BookingCustomer{Name: "Asha", Phone: "9123456780"}}
	if err := bookings.Create(context.Background(), &b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	in := invoice(0, nil)
	in.CustomerName, in.CustomerPhone = "", ""
	in.BookingID = &b.ID
	got, err := svc.Create(context.Background(), Actor{}, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.BookingNumber != "BK-2024-007" || got.CustomerName != "Asha" || got.CustomerPhone != "9123456780" {
		t.Fatalf("booking details not copied: %+v", got)
	}
	if got.Status != "pending" {
		t.Fatalf("status = %q, want pending", got.Status)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, payments, _ := newPaymentFixture()
	cases := map[string]func(p *model.Payment){
		"no items":        func(p *model.Payment) { p.Items = nil },
		"zero quantity":   func(p *model.Payment) { p.Items[0].Quantity = decimal.Zero },
		"tax over 100":    func(p *model.Payment) { p.TaxPercent = decimal.NewFromInt(101) },
		"huge discount":   func(p *model.Payment) { p.Discount = decimal.NewFromInt(100000) },
		"missing name":    func(p *model.Payment) { p.CustomerName = "" },
		"negative amount": func(p *model.Payment) { p.PaidAmount = decimal.NewFromInt(-5) },
	}
	for name, mutate := range cases {
		in := invoice(0, nil)
		mutate(&in)
		if _, err := svc.Create(context.Background(), Actor{}, in); !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if len(payments.rows) != 0 {
		t.Fatalf("invalid invoices were stored")
	}
}

func TestOverdueIsDerivedOnRead(t *testing.T) {
	fixNow(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	svc, payments, _ := newPaymentFixture()
	ctx := context.Background()

	late, err := svc.Create(ctx, Actor{}, invoice(0, day(t, "2024-03-10")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	paid, err := svc.Create(ctx, Actor{}, invoice(24000, day(t, "2024-03-10")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fixNow(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	got, err := svc.Get(ctx, late.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != "overdue" {
		t.Fatalf("status = %q, want overdue", got.Status)
	}
	if stored := payments.rows[late.ID].Status; stored != "pending" {
		t.Fatalf("stored status = %q, overdue must not be persisted", stored)
	}

	list, total, err := svc.List(ctx, ListQuery{Category: "overdue"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != late.ID {
		t.Fatalf("overdue filter returned %d/%d rows", len(list), total)
	}

	reminders, err := svc.Reminders(ctx)
	if err != nil {
		t.Fatalf("Reminders: %v", err)
	}
	if len(reminders) != 1 || reminders[0].PaymentID != late.ID || reminders[0].DaysOverdue != 5 {
		t.Fatalf("reminders = %+v", reminders)
	}
	if reminders[0].PaymentID == paid.ID {
		t.Fatalf("settled invoice listed as reminder")
	}
}

func TestUpdatePaymentKeepsInvoiceNumber(t *testing.T) {
	svc, _, _ := newPaymentFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, Actor{}, invoice(0, nil))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Update(ctx, Actor{}, p.ID.String(), invoice(24000, nil))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.InvoiceNumber != p.InvoiceNumber {
		t.Fatalf("invoice number changed to %q", got.InvoiceNumber)
	}
	if got.Status != "completed" || !got.Balance.IsZero() {
		t.Fatalf("status = %q balance = %s", got.Status, got.Balance)
	}
}
