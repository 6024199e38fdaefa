package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetJWTSecret(testSecret)
}

func signToken(t *testing.T, role string, perms ...string) string {
	t.Helper()
	if perms == nil {
		perms = []string{}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "7c3f1a52-7a53-4c5e-9d0b-7d1c1f0c9a11",
		"role":     role,
		"username": "tester",
		"perms":    perms,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type stubBookingService struct {
	listQuery service.ListQuery
	listed    []model.Booking
	total     int64
	actor     service.Actor
	err       error
}

func (s *stubBookingService) List(_ context.Context, q service.ListQuery) ([]model.Booking, int64, error) {
	s.listQuery = q
	return s.listed, s.total, s.err
}

func (s *stubBookingService) Get(context.Context, string) (*model.Booking, error) {
	return nil, s.err
}

func (s *stubBookingService) Create(_ context.Context, actor service.Actor, in model.Booking) (*model.Booking, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	in.BookingNumber = "BK-2024-001"
	return &in, nil
}

func (s *stubBookingService) Update(context.Context, service.Actor, string, model.Booking) (*model.Booking, error) {
	return nil, s.err
}

func (s *stubBookingService) UpdateStatus(context.Context, service.Actor, string, service.UpdateStatusRequest) (*model.Booking, error) {
	return nil, s.err
}

func (s *stubBookingService) Delete(context.Context, service.Actor, string) error {
	return s.err
}

func (s *stubBookingService) Timeline(context.Context, string) ([]model.TimelineEntry, error) {
	return nil, s.err
}

func newBookingRouter(svc service.BookingService) *gin.Engine {
	r := gin.New()
	NewBookingHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func doRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Meta       *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"meta"`
	Message string `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return env
}

func TestBookingRoutesCheckPermissions(t *testing.T) {
	r := newBookingRouter(&stubBookingService{})

	if w := doRequest(r, http.MethodGet, "/api/bookings", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings", "not-a-token", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings", signToken(t, model.RoleEmployee, "chat"), ""); w.Code != http.StatusForbidden {
		t.Fatalf("employee without bookings: status = %d, want 403", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings", signToken(t, model.RoleEmployee, "bookings"), ""); w.Code != http.StatusOK {
		t.Fatalf("employee with bookings: status = %d, want 200", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/bookings", signToken(t, model.RoleAdmin), ""); w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", w.Code)
	}
}

func TestListAlwaysReturnsArray(t *testing.T) {
	svc := &stubBookingService{}
	r := newBookingRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/bookings?search=raj&status=approved", signToken(t, model.RoleOwner), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	env := decode(t, w)
	if string(env.Data) != "[]" {
		t.Fatalf("data = %s, want []", env.Data)
	}
	if env.Meta != nil {
		t.Fatalf("meta present without paging")
	}
	if svc.listQuery.Search != "raj" || svc.listQuery.Category != "approved" {
		t.Fatalf("query not forwarded: %+v", svc.listQuery)
	}
}

func TestListWithPagingAddsMeta(t *testing.T) {
	svc := &stubBookingService{listed: []model.Booking{{BookingNumber: "BK-2024-003"}}, total: 41}
	r := newBookingRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/bookings?page=3&limit=500", signToken(t, model.RoleOwner), "")
	env := decode(t, w)
	if env.Meta == nil || env.Meta.Page != 3 || env.Meta.Limit != 100 || env.Meta.Total != 41 {
		t.Fatalf("meta = %+v", env.Meta)
	}
	if svc.listQuery.Page != 3 || svc.listQuery.Limit != 100 {
		t.Fatalf("paging not forwarded: %+v", svc.listQuery)
	}
}

func TestCreateBookingUsesTokenIdentity(t *testing.T) {
	svc := &stubBookingService{}
	r := newBookingRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/bookings", signToken(t, model.RoleAdmin), `{"customer":{"name":"Raj Kumar","phone":"9876543210"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	if svc.actor.Username != "tester" || svc.actor.Role != model.RoleAdmin {
		t.Fatalf("actor = %+v", svc.actor)
	}

	if w := doRequest(r, http.MethodPost, "/api/bookings", signToken(t, model.RoleAdmin), `{"customer":`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestRespondDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ValidationError{Field: "phone", Msg: "must be 10 digits"}, http.StatusBadRequest},
		{service.NotFoundError{Resource: "booking"}, http.StatusNotFound},
		{service.ConflictError{Resource: "team member", Msg: "username already exists"}, http.StatusConflict},
		{service.UnauthorizedError{Msg: "invalid username or password"}, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newBookingRouter(&stubBookingService{err: tc.err})
		w := doRequest(r, http.MethodGet, "/api/bookings/abc", signToken(t, model.RoleOwner), "")
		if w.Code != tc.code {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.code)
		}
		env := decode(t, w)
		if env.Status != "error" || env.Message == "" {
			t.Fatalf("%v: envelope = %+v", tc.err, env)
		}
		if tc.code == http.StatusInternalServerError && strings.Contains(env.Message, "connection reset") {
			t.Fatalf("internal error leaked to client: %q", env.Message)
		}
	}
}
