package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	SetJWTSecret(testSecret)
}

func token(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoleReadsCookieOrHeader(t *testing.T) {
	r := gin.New()
	r.GET("/audit", RequireRole("owner", "admin"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userRole"))
	})

	admin := token(t, testSecret, jwt.MapClaims{"sub": "1", "role": "admin"})
	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: admin})
	if w := serve(r, req); w.Code != http.StatusOK || w.Body.String() != "admin" {
		t.Fatalf("cookie auth: %d %q", w.Code, w.Body.String())
	}

	employee := token(t, testSecret, jwt.MapClaims{"sub": "2", "role": "employee"})
	req = httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+employee)
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("employee: status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.Header.Set("Authorization", "Token "+admin)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: status = %d, want 401", w.Code)
	}
}

func TestTokensAreVerified(t *testing.T) {
	r := gin.New()
	r.GET("/me", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]string{
		"foreign secret": token(t, "someone-else", jwt.MapClaims{"role": "owner"}),
		"expired":        token(t, testSecret, jwt.MapClaims{"role": "owner", "exp": time.Now().Add(-time.Minute).Unix()}),
	}
	for name, tok := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		if w := serve(r, req); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, testSecret, jwt.MapClaims{"sub": "1"}))
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("token without role: status = %d, want 403", w.Code)
	}
}

func TestHasPermission(t *testing.T) {
	if !HasPermission("owner", nil, "team") || !HasPermission("admin", nil, "reports") {
		t.Fatalf("owners and admins must have every permission")
	}
	if HasPermission("employee", []string{"bookings"}, "payments") {
		t.Fatalf("employee granted an area outside its permissions")
	}
	if !HasPermission("employee", []string{"bookings", "payments"}, "payments") {
		t.Fatalf("employee denied a granted area")
	}
}

func TestRequirePermissionUsesClaims(t *testing.T) {
	r := gin.New()
	r.GET("/payments", RequirePermission("payments"), func(c *gin.Context) {
		perms, _ := c.Get("permissions")
		if got := perms.([]string); len(got) != 2 {
			t.Errorf("permissions on context = %v", got)
		}
		c.Status(http.StatusOK)
	})

	tok := token(t, testSecret, jwt.MapClaims{"role": "employee", "perms": []string{"bookings", "payments"}})
	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(r, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("incoming request id not kept: body %q header %q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if len(w.Body.String()) != 36 {
		t.Fatalf("generated request id = %q", w.Body.String())
	}
}

func TestMetricsCountByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(), Logger())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "OK"))
	serve(r, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/things/2", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "OK"))
	if after-before != 2 {
		t.Fatalf("counter grew by %v, want 2", after-before)
	}
}
