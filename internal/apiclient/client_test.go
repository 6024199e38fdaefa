package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetadmin/internal/model"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestLoginStoresTokenAndAuthorizesLaterCalls(t *testing.T) {
	var gotAuth string
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/auth/login", func(ctx *gin.Context) {
			var body map[string]string
			if err := ctx.ShouldBindJSON(&body); err != nil || body["username"] != "owner" {
				ctx.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid credentials"))
				return
			}
			ctx.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
				"token": "tok-1",
				"user":  gin.H{"name": "Owner", "username": "owner", "role": "owner"},
			}))
		})
		r.GET("/api/bookings", func(ctx *gin.Context) {
			gotAuth = ctx.GetHeader("Authorization")
			ctx.JSON(http.StatusOK, response.Success(http.StatusOK, []gin.H{{"bookingNumber": "BK-001"}}))
		})
	})

	res, err := c.Login(context.Background(), "owner", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "tok-1" || res.User.Username != "owner" {
		t.Fatalf("unexpected login result: %+v", res)
	}
	if c.Token() != "tok-1" {
		t.Fatalf("token not kept: %q", c.Token())
	}

	items, err := NewResource[model.Booking](c, "bookings").List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].BookingNumber != "BK-001" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestErrorsCarryServerMessage(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/auth/login", func(ctx *gin.Context) {
			ctx.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid credentials"))
		})
		r.GET("/api/vehicles/:id", func(ctx *gin.Context) {
			ctx.String(http.StatusBadGateway, "upstream down")
		})
	})

	_, err := c.Login(context.Background(), "x", "y")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if msg := ErrorMessage(err); msg != "Invalid credentials" {
		t.Fatalf("unexpected message %q", msg)
	}

	_, err = NewResource[model.Vehicle](c, "vehicles").Get(context.Background(), "v1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 api error, got %v", err)
	}
	if msg := ErrorMessage(err); msg != GenericMessage {
		t.Fatalf("expected generic message, got %q", msg)
	}
	if ErrorMessage(errors.New("dial tcp: refused")) != GenericMessage {
		t.Fatal("transport errors should map to the generic message")
	}
}

func TestResourceVerbsAndPaths(t *testing.T) {
	var calls []string
	c := newServer(t, func(r *gin.Engine) {
		record := func(ctx *gin.Context) {
			calls = append(calls, ctx.Request.Method+" "+ctx.Request.URL.Path)
			ctx.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"name": "Asha"}))
		}
		r.POST("/api/consumers", record)
		r.PUT("/api/consumers/:id", record)
		r.PATCH("/api/consumers/:id/status", record)
		r.DELETE("/api/consumers/:id", func(ctx *gin.Context) {
			calls = append(calls, "DELETE "+ctx.Request.URL.Path)
			ctx.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
		})
		r.GET("/api/consumers/:id/bookings", func(ctx *gin.Context) {
			calls = append(calls, "GET "+ctx.Request.URL.Path)
			ctx.JSON(http.StatusOK, response.Success(http.StatusOK, []model.Booking{}))
		})
	})
	res := NewResource[model.Consumer](c, "/consumers/")
	ctx := context.Background()

	if _, err := res.Create(ctx, model.Consumer{Name: "Asha"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := res.Update(ctx, "c1", model.Consumer{Name: "Asha"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := res.Patch(ctx, "c1", "status", gin.H{"status": "active"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if err := res.Delete(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	related, err := Related[model.Booking](ctx, res, "c1", "bookings")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if related == nil {
		t.Fatal("related should be an empty slice, not nil")
	}

	want := []string{
		"POST /api/consumers",
		"PUT /api/consumers/c1",
		"PATCH /api/consumers/c1/status",
		"DELETE /api/consumers/c1",
		"GET /api/consumers/c1/bookings",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	var gotName, gotField, gotBody string
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/documents", func(ctx *gin.Context) {
			gotField = ctx.PostForm("category")
			fh, err := ctx.FormFile("file")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
				return
			}
			gotName = fh.Filename
			f, _ := fh.Open()
			defer f.Close()
			data, _ := io.ReadAll(f)
			gotBody = string(data)
			ctx.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"fileName": fh.Filename}))
		})
	})

	var out model.Document
	fields := map[string]string{"category": "vehicle", "notes": ""}
	if err := c.Upload(context.Background(), "/api/documents", fields, "rc.pdf", strings.NewReader("%PDF-1.4"), &out); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotName != "rc.pdf" || gotField != "vehicle" || gotBody != "%PDF-1.4" {
		t.Fatalf("unexpected upload: name=%q field=%q body=%q", gotName, gotField, gotBody)
	}
	if out.FileName != "rc.pdf" {
		t.Fatalf("response not decoded: %+v", out)
	}
}

func TestRawReturnsBodyAndContentType(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/payments/:id/pdf", func(ctx *gin.Context) {
			ctx.Data(http.StatusOK, "application/pdf", []byte("%PDF"))
		})
	})
	data, ct, err := c.Raw(context.Background(), "/api/payments/p1/pdf", nil)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if string(data) != "%PDF" || ct != "application/pdf" {
		t.Fatalf("unexpected raw result %q %q", data, ct)
	}
}
