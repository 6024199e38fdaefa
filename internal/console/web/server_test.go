package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/console"
	"fleetadmin/internal/console/entities"
	"fleetadmin/internal/model"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiStub struct {
	mu      sync.Mutex
	deletes int
}

func newAPIStub(t *testing.T, stub *apiStub) string {
	t.Helper()
	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil || body["password"] != "secret" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid credentials"))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
			"token": "tok",
			"user":  gin.H{"id": uuid.NewString(), "name": "Owner", "username": "owner", "role": "owner"},
		}))
	})
	r.POST("/api/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
	})
	r.GET("/api/dashboard/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, model.DashboardStats{TotalBookings: 2}))
	})
	r.GET("/api/vehicles/compliance/reminders", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Forbidden"))
	})
	r.GET("/api/payments/reminders", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, []model.PaymentReminder{}))
	})
	r.GET("/api/bookings", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, []model.Booking{
			{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), BookingNumber: "BK-001", Status: "pending"},
		}))
	})
	r.DELETE("/api/bookings/:id", func(c *gin.Context) {
		stub.mu.Lock()
		stub.deletes++
		stub.mu.Unlock()
		c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
	})
	r.GET("/api/payments/:id/pdf", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3"))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newConsole(t *testing.T, apiURL string) (*Server, *http.Client, string) {
	t.Helper()
	s, err := New(Config{APIURL: apiURL, SessionTTL: time.Hour, Pages: entities.NewPages})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return s, client, srv.URL
}

func post(t *testing.T, c *http.Client, u string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(u, form)
	if err != nil {
		t.Fatalf("post %s: %v", u, err)
	}
	resp.Body.Close()
	return resp
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	if err != nil {
		t.Fatalf("get %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestConsoleRequiresLogin(t *testing.T) {
	s, client, base := newConsole(t, newAPIStub(t, &apiStub{}))
	resp, _ := get(t, client, base+"/")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	resp, body := get(t, client, base+"/login")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Sign in") {
		t.Fatalf("login page not rendered: %d", resp.StatusCode)
	}
	if n := s.Sessions().Len(); n != 0 {
		t.Fatalf("anonymous requests opened %d sessions", n)
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	s, client, base := newConsole(t, newAPIStub(t, &apiStub{}))
	resp, err := client.PostForm(base+"/login", url.Values{"username": {"owner"}, "password": {"wrong"}})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(string(body), "Invalid credentials") {
		t.Fatalf("unexpected login failure response %d: %s", resp.StatusCode, body)
	}
	if n := s.Sessions().Len(); n != 0 {
		t.Fatalf("failed login kept %d sessions", n)
	}
}

func TestLoginNavigateAndDelete(t *testing.T) {
	stub := &apiStub{}
	s, client, base := newConsole(t, newAPIStub(t, stub))

	resp := post(t, client, base+"/login", url.Values{"username": {"owner"}, "password": {"secret"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("login: %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	resp2, body := get(t, client, base+"/")
	if resp2.StatusCode != http.StatusOK || !strings.Contains(body, "Total Bookings") {
		t.Fatalf("dashboard not rendered: %d", resp2.StatusCode)
	}
	if strings.Contains(body, "Forbidden") {
		t.Fatal("forbidden section should be hidden, not reported")
	}

	post(t, client, base+"/nav", url.Values{"page": {"bookings"}})
	_, body = get(t, client, base+"/")
	if !strings.Contains(body, "BK-001") {
		t.Fatal("bookings list not rendered")
	}

	id := "11111111-1111-1111-1111-111111111111"
	post(t, client, base+"/action", url.Values{"act": {"delete"}, "id": {id}})
	_, body = get(t, client, base+"/")
	if !strings.Contains(body, "Are you sure") {
		t.Fatal("confirmation not shown")
	}
	post(t, client, base+"/action", url.Values{"act": {"confirm-delete"}})
	post(t, client, base+"/action", url.Values{"act": {"confirm-delete"}})
	stub.mu.Lock()
	deletes := stub.deletes
	stub.mu.Unlock()
	if deletes != 1 {
		t.Fatalf("DELETE sent %d times", deletes)
	}
	_, body = get(t, client, base+"/")
	if strings.Contains(body, "BK-001") {
		t.Fatal("deleted booking still listed")
	}
	if !strings.Contains(body, "Booking deleted") {
		t.Fatal("delete notification missing")
	}

	resp3, pdf := get(t, client, base+"/payments/p1/pdf")
	if resp3.StatusCode != http.StatusOK || pdf != "%PDF-1.3" {
		t.Fatalf("pdf proxy: %d %q", resp3.StatusCode, pdf)
	}

	if s.Sessions().Len() != 1 {
		t.Fatalf("sessions = %d", s.Sessions().Len())
	}
	resp = post(t, client, base+"/logout", nil)
	if resp.Header.Get("Location") != "/login" || s.Sessions().Len() != 0 {
		t.Fatalf("logout: %q, %d sessions", resp.Header.Get("Location"), s.Sessions().Len())
	}
}

func TestFormValuesKeepsLastValue(t *testing.T) {
	form := url.Values{
		"act":                    {"save"},
		"f:name":                 {"Asha"},
		"f:permissions.bookings": {"false", "true"},
		"f:permissions.team":     {"false"},
	}
	v := formValues(form)
	if len(v) != 3 {
		t.Fatalf("values = %v", v)
	}
	if v.Get("permissions.bookings") != "true" || v.Get("permissions.team") != "false" || v.Get("name") != "Asha" {
		t.Fatalf("values = %v", v)
	}
	if formValues(url.Values{"act": {"search"}}) != nil {
		t.Fatal("a post without fields should give nil values")
	}
}

func TestSessionStoreSweep(t *testing.T) {
	build := func(*apiclient.Client, *console.Chrome) console.Pages { return console.Pages{} }
	store := NewSessionStore(time.Minute, func() *console.Session {
		return console.NewSession(apiclient.New("http://unused", nil), build)
	})
	a := store.New()
	store.New()
	if store.Len() != 2 {
		t.Fatalf("len = %d", store.Len())
	}
	if n := store.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh sessions swept: %d", n)
	}
	if n := store.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if _, ok := store.Get(a.ID); ok {
		t.Fatal("swept session still returned")
	}
}
