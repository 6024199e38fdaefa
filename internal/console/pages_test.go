package console

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/model"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func chatAPI(t *testing.T) (*apiclient.Client, *[]string, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	id := uuid.New()
	var mu sync.Mutex
	var sent []string
	thread := model.ChatThread{ID: id, CustomerName: "Asha", Subject: "Refund", Status: model.ChatActive, Unread: 2}
	r := gin.New()
	r.GET("/api/chats", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, []model.ChatThread{
			thread,
			{ID: uuid.New(), CustomerName: "Ravi", Subject: "Late pickup", Status: model.ChatResolved},
		}))
	})
	r.GET("/api/chats/:id", func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		out := thread
		for _, text := range sent {
			out.Messages = append(out.Messages, model.ChatMessage{Sender: model.SenderAgent, Text: text})
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
	})
	r.POST("/api/chats/:id/messages", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		if body["sender"] != model.SenderAgent {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "sender must be agent"))
			return
		}
		mu.Lock()
		sent = append(sent, body["text"])
		mu.Unlock()
		c.JSON(http.StatusCreated, response.Success(http.StatusCreated, nil))
	})
	r.PATCH("/api/chats/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, thread))
	})
	r.GET("/api/reports/:kind", func(c *gin.Context) {
		if c.Query("start") == "" || c.Query("end") == "" {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start and end are required"))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, model.Report{
			Kind:    c.Param("kind"),
			Columns: []string{"Date", "Amount"},
			Rows:    [][]string{{"2024-01-10", "₹45,000"}},
		}))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, srv.Client()), &sent, id
}

func TestChatPageSendAndFilter(t *testing.T) {
	client, sent, id := chatAPI(t)
	p := NewChatPage(client)
	ctx := context.Background()
	if err := p.Enter(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(p.View().Chat.Threads); got != 2 {
		t.Fatalf("threads = %d", got)
	}
	if err := p.Handle(ctx, Action{Name: ActFilter, Value: model.ChatResolved}); err != nil {
		t.Fatal(err)
	}
	if th := p.View().Chat.Threads; len(th) != 1 || th[0].Title != "Ravi" {
		t.Fatalf("resolved filter = %+v", th)
	}
	if err := p.Handle(ctx, Action{Name: ActFilter, Value: ""}); err != nil {
		t.Fatal(err)
	}

	if err := p.Handle(ctx, Action{Name: ActSend, Value: "hello"}); err == nil {
		t.Fatal("send without a selected thread accepted")
	}
	if err := p.Handle(ctx, Action{Name: ActSelect, ID: id.String()}); err != nil {
		t.Fatal(err)
	}
	for _, th := range p.View().Chat.Threads {
		if th.ID == id.String() && th.Amount != "" {
			t.Fatalf("opening a thread should clear unread, got %q", th.Amount)
		}
	}
	if err := p.Handle(ctx, Action{Name: ActSend, Value: "   "}); err == nil {
		t.Fatal("blank message accepted")
	}
	if err := p.Handle(ctx, Action{Name: ActSend, Value: "We are on it"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	cv := p.View().Chat
	if len(*sent) != 1 || len(cv.Messages) != 1 || !cv.Messages[0].Agent || cv.Messages[0].Text != "We are on it" {
		t.Fatalf("thread not reloaded after send: %+v", cv.Messages)
	}

	if err := p.Handle(ctx, Action{Name: ActStatus, Value: model.ChatResolved}); err != nil {
		t.Fatal(err)
	}
	if p.View().Chat.Selected.Status != model.ChatResolved {
		t.Fatal("status not applied to the open thread")
	}
}

func TestReportsPageValidatesInput(t *testing.T) {
	client, _, _ := chatAPI(t)
	p := NewReportsPage(client)
	ctx := context.Background()
	if err := p.Enter(ctx); err != nil {
		t.Fatalf("default report: %v", err)
	}
	rv := p.View().Reports
	if rv.Kind != model.ReportBookings || rv.Report == nil || len(rv.Report.Rows) != 1 {
		t.Fatalf("unexpected report view %+v", rv)
	}

	err := p.Handle(ctx, Action{Name: ActGenerate, Values: Values{"kind": "profit"}})
	if err == nil || p.View().Reports.State != "failed" {
		t.Fatalf("unknown kind accepted: %v", err)
	}
	err = p.Handle(ctx, Action{Name: ActGenerate, Values: Values{"kind": "revenue", "start": "10/01/2024"}})
	if err == nil {
		t.Fatal("bad date accepted")
	}

	err = p.Handle(ctx, Action{Name: ActGenerate, Values: Values{"kind": "revenue", "start": "2024-01-01", "end": "2024-01-31"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	rv = p.View().Reports
	if rv.Report.Kind != "revenue" || rv.PDFPath != "/reports/pdf?end=2024-01-31&kind=revenue&start=2024-01-01" {
		t.Fatalf("unexpected view %+v", rv)
	}
	kind, q := p.PDFQuery()
	if kind != "revenue" || q.Get("format") != "pdf" {
		t.Fatalf("pdf query = %s %v", kind, q)
	}

	err = p.Handle(ctx, Action{Name: ActGenerate, Values: Values{"kind": "revenue"}})
	if err == nil || p.View().Reports.Error != "start and end are required" {
		t.Fatalf("server error not surfaced: %v / %q", err, p.View().Reports.Error)
	}
}
