package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the landing page summary.
type DashboardStats struct {
	TotalBookings    int64            `json:"totalBookings"`
	PendingBookings  int64            `json:"pendingBookings"`
	ActiveVehicles   int64            `json:"activeVehicles"`
	TotalVehicles    int64            `json:"totalVehicles"`
	TotalConsumers   int64            `json:"totalConsumers"`
	Revenue          decimal.Decimal  `json:"revenue"`
	PendingPayments  decimal.Decimal  `json:"pendingPayments"`
	MonthExpenses    decimal.Decimal  `json:"monthExpenses"`
	ComplianceDue    int              `json:"complianceDue"`
	RecentBookings   []Booking        `json:"recentBookings"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

const (
	ReportBookings  = "bookings"
	ReportRevenue   = "revenue"
	ReportVehicles  = "vehicles"
	ReportCustomers = "customers"
	ReportExpenses  = "expenses"
)

// ReportKinds lists the supported report kinds in display order.
var ReportKinds = []string{ReportBookings, ReportRevenue, ReportVehicles, ReportCustomers, ReportExpenses}

// Report is a tabular summary for a date range.
type Report struct {
	Kind    string       `json:"kind"`
	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	Columns []string     `json:"columns"`
	Rows    [][]string   `json:"rows"`
	Totals  []ReportStat `json:"totals"`
}

type ReportStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
