// Package calc holds the derived-value arithmetic shared by the API services
// and the console forms, so both sides agree on every computed field.
package calc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of date-only values in forms and query strings.
const DateLayout = "2006-01-02"

// Payment status values used by bookings and invoices.
const (
	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
	PaymentOverdue   = "overdue" // derived only, never stored
)

// TripDays counts calendar days between start and end inclusive.
// Returns 0 when end is before start.
func TripDays(start, end time.Time) int {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// Balance is what remains after the advance.
func Balance(total, advance decimal.Decimal) decimal.Decimal {
	return total.Sub(advance)
}

// BookingPaymentStatus is partial once any advance was taken.
func BookingPaymentStatus(advance decimal.Decimal) string {
	if advance.GreaterThan(decimal.Zero) {
		return PaymentPartial
	}
	return PaymentPending
}

// FuelAmount prices a fuel fill.
func FuelAmount(liters, pricePerLiter decimal.Decimal) decimal.Decimal {
	return liters.Mul(pricePerLiter)
}

// LineItem is one invoice row.
type LineItem struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// InvoiceTotals are the computed figures of an invoice.
type InvoiceTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Balance   decimal.Decimal
	Status    string
}

var hundred = decimal.NewFromInt(100)

// Invoice computes subtotal, tax, total, balance and status.
// taxPercent is a percentage (18 means 18%).
func Invoice(items []LineItem, taxPercent, discount, paid decimal.Decimal) InvoiceTotals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}
	tax := subtotal.Mul(taxPercent).Div(hundred).Round(2)
	total := subtotal.Add(tax).Sub(discount)
	return InvoiceTotals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     total,
		Balance:   total.Sub(paid),
		Status:    InvoiceStatus(total, paid),
	}
}

// InvoiceStatus derives the stored status from what was paid.
func InvoiceStatus(total, paid decimal.Decimal) string {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return PaymentPending
	case paid.GreaterThanOrEqual(total):
		return PaymentCompleted
	default:
		return PaymentPartial
	}
}

// IsOverdue reports a due date in the past with money still owed.
func IsOverdue(due *time.Time, balance decimal.Decimal, now time.Time) bool {
	if due == nil || due.IsZero() {
		return false
	}
	return truncateDay(*due).Before(truncateDay(now)) && balance.GreaterThan(decimal.Zero)
}

// DaysOverdue is the number of whole days past due, never negative.
func DaysOverdue(due time.Time, now time.Time) int {
	d := int(truncateDay(now).Sub(truncateDay(due)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// DisplayStatus folds the derived overdue state into a stored status.
func DisplayStatus(stored string, due *time.Time, balance decimal.Decimal, now time.Time) string {
	if stored != PaymentCompleted && IsOverdue(due, balance, now) {
		return PaymentOverdue
	}
	return stored
}

// Compliance reminder states.
const (
	ComplianceExpired  = "expired"
	ComplianceCritical = "critical"
	ComplianceWarning  = "warning"
)

// ReminderWindowDays is how far ahead certificate expiries are reported.
const ReminderWindowDays = 30

// Certificate is one expiring compliance document of a vehicle.
type Certificate struct {
	VehicleNumber string
	Kind          string
	Expiry        *time.Time
}

// Reminder is a certificate due for renewal.
type Reminder struct {
	VehicleNumber   string    `json:"vehicleNumber"`
	Type            string    `json:"type"`
	Expiry          time.Time `json:"expiry"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	Status          string    `json:"status"`
}

// DaysUntil counts whole days from now to t; negative when t has passed.
func DaysUntil(t, now time.Time) int {
	return int(truncateDay(t).Sub(truncateDay(now)).Hours() / 24)
}

// ComplianceReminders keeps certificates expiring within the reminder window,
// most urgent first.
func ComplianceReminders(certs []Certificate, now time.Time) []Reminder {
	out := make([]Reminder, 0)
	for _, c := range certs {
		if c.Expiry == nil || c.Expiry.IsZero() {
			continue
		}
		days := DaysUntil(*c.Expiry, now)
		if days > ReminderWindowDays {
			continue
		}
		status := ComplianceWarning
		switch {
		case days < 0:
			status = ComplianceExpired
		case days <= 7:
			status = ComplianceCritical
		}
		out = append(out, Reminder{
			VehicleNumber:   c.VehicleNumber,
			Type:            c.Kind,
			Expiry:          *c.Expiry,
			DaysUntilExpiry: days,
			Status:          status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry })
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
