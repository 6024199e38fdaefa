package console

import (
	"context"
	"fmt"
	"sync"
)

// PageKey identifies one console page.
type PageKey int

const (
	PageDashboard PageKey = iota
	PageBookings
	PageVehicles
	PageConsumers
	PagePayments
	PageExpenses
	PageVendors
	PageTeam
	PageRates
	PageDocuments
	PageChat
	PageReports
)

// AllPages lists the pages in sidebar order.
var AllPages = []PageKey{
	PageDashboard, PageBookings, PageVehicles, PageConsumers, PagePayments, PageExpenses,
	PageVendors, PageTeam, PageRates, PageDocuments, PageChat, PageReports,
}

func (k PageKey) String() string {
	switch k {
	case PageDashboard:
		return "dashboard"
	case PageBookings:
		return "bookings"
	case PageVehicles:
		return "vehicles"
	case PageConsumers:
		return "consumers"
	case PagePayments:
		return "payments"
	case PageExpenses:
		return "expenses"
	case PageVendors:
		return "vendors"
	case PageTeam:
		return "team"
	case PageRates:
		return "rates"
	case PageDocuments:
		return "documents"
	case PageChat:
		return "chat"
	case PageReports:
		return "reports"
	default:
		return fmt.Sprintf("page(%d)", int(k))
	}
}

// Label is the sidebar text.
func (k PageKey) Label() string {
	switch k {
	case PageDashboard:
		return "Dashboard"
	case PageBookings:
		return "Bookings"
	case PageVehicles:
		return "Vehicles"
	case PageConsumers:
		return "Consumers"
	case PagePayments:
		return "Payments"
	case PageExpenses:
		return "Expenses"
	case PageVendors:
		return "Vendors"
	case PageTeam:
		return "Team"
	case PageRates:
		return "Rate Cards"
	case PageDocuments:
		return "Documents"
	case PageChat:
		return "Chat Support"
	case PageReports:
		return "Reports"
	default:
		return k.String()
	}
}

// Permission is the feature area needed to open the page. The dashboard
// needs none.
func (k PageKey) Permission() string {
	if k == PageDashboard {
		return ""
	}
	return k.String()
}

func ParsePageKey(s string) (PageKey, error) {
	for _, k := range AllPages {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", s)
}

// Pages holds one page per key.
type Pages struct {
	Dashboard Page
	Bookings  Page
	Vehicles  Page
	Consumers Page
	Payments  Page
	Expenses  Page
	Vendors   Page
	Team      Page
	Rates     Page
	Documents Page
	Chat      Page
	Reports   Page
}

func (p *Pages) Get(k PageKey) Page {
	switch k {
	case PageDashboard:
		return p.Dashboard
	case PageBookings:
		return p.Bookings
	case PageVehicles:
		return p.Vehicles
	case PageConsumers:
		return p.Consumers
	case PagePayments:
		return p.Payments
	case PageExpenses:
		return p.Expenses
	case PageVendors:
		return p.Vendors
	case PageTeam:
		return p.Team
	case PageRates:
		return p.Rates
	case PageDocuments:
		return p.Documents
	case PageChat:
		return p.Chat
	case PageReports:
		return p.Reports
	default:
		return nil
	}
}

// Shell switches between pages. Exactly one page is current.
type Shell struct {
	mu      sync.Mutex
	current PageKey
	pages   Pages
}

func NewShell(pages Pages) *Shell {
	return &Shell{current: PageDashboard, pages: pages}
}

// Navigate leaves the current page and enters k, which refetches its data.
func (s *Shell) Navigate(ctx context.Context, k PageKey) error {
	next := s.pages.Get(k)
	if next == nil {
		return fmt.Errorf("page %s is not available", k)
	}
	s.mu.Lock()
	prev := s.pages.Get(s.current)
	s.current = k
	s.mu.Unlock()
	if prev != nil && prev != next {
		prev.Leave()
	}
	return next.Enter(ctx)
}

func (s *Shell) Current() (PageKey, Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.pages.Get(s.current)
}
