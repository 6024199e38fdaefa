package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type recordingPage struct {
	key    string
	events *[]string
}

func (p *recordingPage) Enter(context.Context) error {
	*p.events = append(*p.events, "enter "+p.key)
	return nil
}
func (p *recordingPage) Leave() { *p.events = append(*p.events, "leave "+p.key) }
func (p *recordingPage) Handle(context.Context, Action) error {
	return ErrUnknownAction
}
func (p *recordingPage) View() PageView { return PageView{Key: p.key} }

func recordingPages(events *[]string) Pages {
	mk := func(k PageKey) Page { return &recordingPage{key: k.String(), events: events} }
	return Pages{
		Dashboard: mk(PageDashboard), Bookings: mk(PageBookings), Vehicles: mk(PageVehicles),
		Consumers: mk(PageConsumers), Payments: mk(PagePayments), Expenses: mk(PageExpenses),
		Vendors: mk(PageVendors), Team: mk(PageTeam), Rates: mk(PageRates),
		Documents: mk(PageDocuments), Chat: mk(PageChat), Reports: mk(PageReports),
	}
}

func TestPageKeysRoundTrip(t *testing.T) {
	if len(AllPages) != 12 {
		t.Fatalf("expected 12 pages, got %d", len(AllPages))
	}
	for _, k := range AllPages {
		got, err := ParsePageKey(k.String())
		if err != nil || got != k {
			t.Fatalf("ParsePageKey(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParsePageKey("settings"); err == nil {
		t.Fatal("unknown page accepted")
	}
	if PageDashboard.Permission() != "" || PageRates.Permission() != "rates" {
		t.Fatal("unexpected permissions")
	}
}

func TestShellLeavesPreviousAndEntersNext(t *testing.T) {
	var events []string
	s := NewShell(recordingPages(&events))
	ctx := context.Background()
	if err := s.Navigate(ctx, PageBookings); err != nil {
		t.Fatal(err)
	}
	if err := s.Navigate(ctx, PageBookings); err != nil {
		t.Fatal(err)
	}
	if err := s.Navigate(ctx, PageChat); err != nil {
		t.Fatal(err)
	}
	want := []string{"leave dashboard", "enter bookings", "enter bookings", "leave bookings", "enter chat"}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
	if k, p := s.Current(); k != PageChat || p.View().Key != "chat" {
		t.Fatalf("current = %s", k)
	}
}

func TestChromeNotifications(t *testing.T) {
	c := NewChrome()
	ns := c.Notifications()
	if len(ns) != 3 || ns[0].Type != "payment" {
		t.Fatalf("unexpected seed notifications %+v", ns)
	}
	c.Notify("booking", "Booking created")
	ns = c.Notifications()
	if ns[0].Message != "Booking created" {
		t.Fatalf("new notification not first: %+v", ns[0])
	}
	c.Dismiss(ns[0].ID)
	if len(c.Notifications()) != 3 {
		t.Fatal("dismiss did not remove the notification")
	}
	if !c.SidebarOpen() || c.ToggleSidebar() {
		t.Fatal("sidebar should start open and toggle closed")
	}
}

func loginServer(t *testing.T, role string, perms []string) *apiclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
			"token": "tok",
			"user":  gin.H{"name": "Ravi", "username": "ravi", "role": role, "permissions": perms},
		}))
	})
	r.POST("/api/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, srv.Client())
}

func TestSessionPermissionsGateNavigation(t *testing.T) {
	var events []string
	client := loginServer(t, "employee", []string{"bookings"})
	s := NewSession(client, func(*apiclient.Client, *Chrome) Pages { return recordingPages(&events) })
	ctx := context.Background()

	if err := s.Navigate(ctx, PageDashboard); !errors.Is(err, ErrForbidden) {
		t.Fatalf("signed-out navigate: expected ErrForbidden, got %v", err)
	}
	if _, err := s.Auth.Login(ctx, "ravi", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Navigate(ctx, PageBookings); err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if err := s.Navigate(ctx, PageTeam); !errors.Is(err, ErrForbidden) {
		t.Fatalf("team: expected ErrForbidden, got %v", err)
	}
	menu := s.Menu()
	if len(menu) != 2 || menu[0] != PageDashboard || menu[1] != PageBookings {
		t.Fatalf("menu = %v", menu)
	}

	if err := s.Auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Auth.Authenticated() || client.Token() != "" {
		t.Fatal("logout kept credentials")
	}
}

func TestSessionFlashIsOneShot(t *testing.T) {
	var events []string
	s := NewSession(apiclient.New("http://unused", nil), func(*apiclient.Client, *Chrome) Pages { return recordingPages(&events) })
	s.SetFlash("Saved")
	if s.TakeFlash() != "Saved" || s.TakeFlash() != "" {
		t.Fatal("flash should be returned once")
	}

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()
	s.Touch()
	if !s.LastSeen().Equal(now) {
		t.Fatalf("last seen = %v", s.LastSeen())
	}
}
