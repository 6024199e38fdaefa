package entities

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI serves one collection and records every request it sees.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	body  []byte
	list  interface{}
	item  interface{}
}

func (f *fakeAPI) record(c *gin.Context) {
	data, _ := io.ReadAll(c.Request.Body)
	f.mu.Lock()
	f.calls = append(f.calls, c.Request.Method+" "+c.Request.URL.Path)
	if len(data) > 0 {
		f.body = data
	}
	f.mu.Unlock()
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func newFakeAPI(t *testing.T, name string, f *fakeAPI) *apiclient.Client {
	t.Helper()
	r := gin.New()
	g := r.Group("/api/" + name)
	g.GET("", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, f.list))
	})
	g.GET("/:id", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, f.item))
	})
	echo := func(c *gin.Context) {
		f.record(c)
		var out map[string]interface{}
		_ = json.Unmarshal(f.body, &out)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
	}
	g.POST("", echo)
	g.PUT("/:id", echo)
	g.DELETE("/:id", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
	})
	g.GET("/:id/:sub", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, []interface{}{}))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, srv.Client())
}

func set(t *testing.T, h interface {
	Handle(context.Context, console.Action) error
}, values console.Values) {
	t.Helper()
	if err := h.Handle(context.Background(), console.Action{Name: console.ActSet, Values: values}); err != nil {
		t.Fatalf("set %v: %v", values, err)
	}
}

func sectionTitles(fv *console.FormView) map[string]bool {
	out := map[string]bool{}
	for _, s := range fv.Sections {
		out[s.Title] = true
	}
	return out
}

func TestBookingCreateSendsDerivedFigures(t *testing.T) {
	api := &fakeAPI{list: []model.Booking{}}
	client := newFakeAPI(t, "bookings", api)
	page := console.NewCRUDPage(Booking(), apiclient.NewResource[model.Booking](client, "bookings"), nil)
	ctx := context.Background()
	if err := page.Enter(ctx); err != nil {
		t.Fatal(err)
	}
	if err := page.Handle(ctx, console.Action{Name: console.ActAdd}); err != nil {
		t.Fatal(err)
	}
	set(t, page, console.Values{
		"customer.name":   "Asha Verma",
		"customer.phone":  "9876543210",
		"trip.from":       "Delhi",
		"trip.to":         "Agra",
		"trip.startDate":  "2024-01-10",
		"trip.endDate":    "2024-01-12",
		"payment.total":   "45000",
		"payment.advance": "15000",
	})

	fv := page.View().Form
	var locked []string
	for _, s := range fv.Sections {
		for _, f := range s.Fields {
			if f.Locked {
				locked = append(locked, f.Key)
			}
		}
	}
	if len(locked) != 3 {
		t.Fatalf("expected totalDays, balance and payment status locked, got %v", locked)
	}

	if err := page.Handle(ctx, console.Action{Name: console.ActSave}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if api.count("POST /api/bookings") != 1 {
		t.Fatalf("calls = %v", api.calls)
	}
	var sent model.Booking
	if err := json.Unmarshal(api.body, &sent); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if sent.Trip.TotalDays != 3 {
		t.Fatalf("totalDays = %d, want 3", sent.Trip.TotalDays)
	}
	if !sent.Payment.Balance.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("balance = %s, want 30000", sent.Payment.Balance)
	}
	if sent.Payment.Status != "partial" || sent.Status != model.BookingPending {
		t.Fatalf("statuses = %q / %q", sent.Payment.Status, sent.Status)
	}
	if v, _ := page.Controller().State(); v != console.ViewList {
		t.Fatalf("expected list after save, got %s", v)
	}
}

func TestBookingEndBeforeStartIsRejectedLocally(t *testing.T) {
	f := console.NewForm(Booking(), nil)
	if err := f.Open(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if err := f.SetAll(console.Values{
		"customer.name": "A", "customer.phone": "9876543210", "trip.from": "X", "trip.to": "Y",
		"trip.startDate": "2024-01-12", "trip.endDate": "2024-01-10", "payment.total": "100",
	}); err != nil {
		t.Fatal(err)
	}
	_, err := f.Submit(context.Background())
	verrs, ok := err.(console.ValidationErrors)
	if !ok || verrs["trip.endDate"] == "" {
		t.Fatalf("expected end date error, got %v", err)
	}
}

func TestConsumerBusinessSectionFollowsType(t *testing.T) {
	api := &fakeAPI{list: []model.Consumer{}}
	client := newFakeAPI(t, "consumers", api)
	res := apiclient.NewResource[model.Consumer](client, "consumers")
	page := console.NewCRUDPage(Consumer(res), res, nil)
	ctx := context.Background()
	if err := page.Enter(ctx); err != nil {
		t.Fatal(err)
	}
	if err := page.Handle(ctx, console.Action{Name: console.ActAdd}); err != nil {
		t.Fatal(err)
	}
	if sectionTitles(page.View().Form)["Business Details"] {
		t.Fatal("business section shown for a regular consumer")
	}

	set(t, page, console.Values{"name": "Acme Travels", "phone": "9876543210", "type": model.ConsumerCorporate})
	if !sectionTitles(page.View().Form)["Business Details"] {
		t.Fatal("business section hidden for a corporate consumer")
	}
	err := page.Handle(ctx, console.Action{Name: console.ActSave, Values: console.Values{"business.gst": "bad"}})
	verrs, ok := err.(console.ValidationErrors)
	if !ok || verrs["business.company"] == "" || verrs["business.gst"] == "" {
		t.Fatalf("expected company and gst errors, got %v", err)
	}
	if api.count("POST /api/consumers") != 0 {
		t.Fatal("invalid consumer reached the API")
	}

	set(t, page, console.Values{"business.company": "Acme", "business.gst": "22AAAAA0000A1Z5", "type": model.ConsumerRegular})
	if sectionTitles(page.View().Form)["Business Details"] {
		t.Fatal("business section still shown after switching back")
	}
	if err := page.Handle(ctx, console.Action{Name: console.ActSave}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var sent model.Consumer
	if err := json.Unmarshal(api.body, &sent); err != nil {
		t.Fatal(err)
	}
	if sent.Business.Company != "" || sent.Business.GST != "" {
		t.Fatalf("hidden business fields were sent: %+v", sent.Business)
	}
}

func TestBookingFilterAndDelete(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	api := &fakeAPI{list: []model.Booking{
		{ID: id1, BookingNumber: "BK-001", Status: model.BookingConfirmed, Customer: model.BookingCustomer{Name: "Asha"}},
		{ID: id2, BookingNumber: "BK-002", Status: model.BookingPending, Customer: model.BookingCustomer{Name: "Ravi"}},
	}}
	client := newFakeAPI(t, "bookings", api)
	page := console.NewCRUDPage(Booking(), apiclient.NewResource[model.Booking](client, "bookings"), nil)
	ctx := context.Background()
	if err := page.Enter(ctx); err != nil {
		t.Fatal(err)
	}

	if err := page.Handle(ctx, console.Action{Name: console.ActFilter, Value: model.BookingPending}); err != nil {
		t.Fatal(err)
	}
	cards := page.View().List.Cards
	if len(cards) != 1 || cards[0].Title != "BK-002" {
		t.Fatalf("pending filter = %+v", cards)
	}

	if err := page.Handle(ctx, console.Action{Name: console.ActFilter, Value: "all"}); err != nil {
		t.Fatal(err)
	}
	if err := page.Handle(ctx, console.Action{Name: console.ActDelete, ID: id1.String()}); err != nil {
		t.Fatal(err)
	}
	if api.count("DELETE /api/bookings/"+id1.String()) != 0 {
		t.Fatal("deleted before confirmation")
	}
	if err := page.Handle(ctx, console.Action{Name: console.ActConfirmDelete}); err != nil {
		t.Fatal(err)
	}
	if n := api.count("DELETE /api/bookings/" + id1.String()); n != 1 {
		t.Fatalf("DELETE sent %d times", n)
	}
	cards = page.View().List.Cards
	if len(cards) != 1 || cards[0].Title != "BK-002" {
		t.Fatalf("list after delete = %+v", cards)
	}
}

func TestBookingEditKeepsReferences(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	vehicleID, rateCardID, consumerID := uuid.New(), uuid.New(), uuid.New()
	stored := model.Booking{
		ID:            uuid.New(),
		BookingNumber: "BK-2024-007",
		Status:        model.BookingConfirmed,
		ConsumerID:    &consumerID,
		RateCardID:    &rateCardID,
		Customer:      model.BookingCustomer{Name: "Asha Verma", Phone: "9876543210"},
		Trip:          model.BookingTrip{From: "Delhi", To: "Agra", StartDate: &start, EndDate: &end, TotalDays: 3},
		Vehicle:       model.BookingVehicle{Type: model.VehicleCar, Number: "DL01AB1234", Driver: "Mohan", VehicleID: &vehicleID, DriverID: "DRV-7"},
		Payment: model.BookingPayment{
			Total:   decimal.NewFromInt(45000),
			Advance: decimal.NewFromInt(15000),
			Balance: decimal.NewFromInt(30000),
			Status:  "partial",
		},
	}
	api := &fakeAPI{list: []model.Booking{stored}, item: stored}
	client := newFakeAPI(t, "bookings", api)
	page := console.NewCRUDPage(Booking(), apiclient.NewResource[model.Booking](client, "bookings"), nil)
	ctx := context.Background()
	if err := page.Enter(ctx); err != nil {
		t.Fatal(err)
	}
	for _, act := range []console.Action{
		{Name: console.ActSelect, ID: stored.ID.String()},
		{Name: console.ActEdit},
		{Name: console.ActSave},
	} {
		if err := page.Handle(ctx, act); err != nil {
			t.Fatalf("%s: %v", act.Name, err)
		}
	}
	if api.count("PUT /api/bookings/"+stored.ID.String()) != 1 {
		t.Fatalf("calls = %v", api.calls)
	}
	var sent model.Booking
	if err := json.Unmarshal(api.body, &sent); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if sent.Vehicle.VehicleID == nil || *sent.Vehicle.VehicleID != vehicleID || sent.Vehicle.DriverID != "DRV-7" {
		t.Fatalf("vehicle references lost: %+v", sent.Vehicle)
	}
	if sent.RateCardID == nil || *sent.RateCardID != rateCardID {
		t.Fatalf("rateCardId = %v, want %s", sent.RateCardID, rateCardID)
	}
	if sent.ConsumerID == nil || *sent.ConsumerID != consumerID {
		t.Fatalf("consumerId = %v, want %s", sent.ConsumerID, consumerID)
	}
}

func TestPaymentInvoiceTotals(t *testing.T) {
	f := console.NewForm(Payment(), nil)
	if err := f.Open(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if err := f.SetAll(console.Values{
		"items":      "Bus hire | 2 | 10000\nToll | 500",
		"taxPercent": "10",
		"discount":   "500",
		"paidAmount": "5000",
	}); err != nil {
		t.Fatal(err)
	}
	v := f.Snapshot().Values
	if v.Get("summary.subtotal") != "20500" || v.Get("summary.total") != "22050" || v.Get("summary.balance") != "17050" {
		t.Fatalf("totals = %s / %s / %s", v.Get("summary.subtotal"), v.Get("summary.total"), v.Get("summary.balance"))
	}
	items, err := parseItems("Fuel | 2 | ten")
	if err == nil || items != nil {
		t.Fatal("bad rate accepted")
	}
}

func TestPaymentItemsRoundTripPipeInDescription(t *testing.T) {
	want := []model.PaymentItem{
		{Description: "Toll | Delhi-Agra", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(250)},
		{Description: "Parking | Taj | east gate", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
	}
	got, err := parseItems(formatItems(want))
	if err != nil {
		t.Fatalf("parse formatted items: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Description != want[i].Description || !got[i].Quantity.Equal(want[i].Quantity) || !got[i].Rate.Equal(want[i].Rate) {
			t.Fatalf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	got, err = parseItems("Toll | Agra | 500")
	if err != nil || len(got) != 1 || got[0].Description != "Toll | Agra" || !got[0].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("description with pipe and no quantity = %+v, %v", got, err)
	}
}

func TestExpenseFuelAmountIsComputed(t *testing.T) {
	f := console.NewForm(Expense(), nil)
	if err := f.Open(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if err := f.SetAll(console.Values{"fuel.liters": "40", "fuel.pricePerLiter": "96.5"}); err != nil {
		t.Fatal(err)
	}
	s := f.Snapshot()
	if s.Values.Get("amount") != "3860" || !s.Locked["amount"] {
		t.Fatalf("amount = %q locked=%v", s.Values.Get("amount"), s.Locked["amount"])
	}
	if err := f.Set("type", model.ExpenseMaintenance); err != nil {
		t.Fatal(err)
	}
	s = f.Snapshot()
	if s.Locked["amount"] || s.Values.Get("fuel.liters") != "" {
		t.Fatalf("fuel fields should reset for maintenance: %+v", s.Values)
	}
	if err := f.Set("amount", "1200"); err != nil {
		t.Fatalf("amount should be editable again: %v", err)
	}
}

func TestTeamPasswordOnlyOnCreate(t *testing.T) {
	e := Team()
	creating := e.Schema.Visible(e.Schema.Defaults(), true)
	editing := e.Schema.Visible(e.Schema.Defaults(), false)
	has := func(secs []console.Section, key string) bool {
		for _, s := range secs {
			for _, f := range s.Fields {
				if console.Key(s.Key, f.Key) == key {
					return true
				}
			}
		}
		return false
	}
	if !has(creating, "password") || has(editing, "password") {
		t.Fatal("password must be shown only when creating")
	}
	if !has(creating, "permissions.bookings") {
		t.Fatal("employees should get permission checkboxes")
	}
	owner := e.Schema.Defaults()
	owner.Set("role", model.RoleOwner)
	if has(e.Schema.Visible(owner, true), "permissions.bookings") {
		t.Fatal("owners have no permission checkboxes")
	}
}

func TestNewPagesBuildsEveryPage(t *testing.T) {
	pages := NewPages(apiclient.New("http://unused", nil), console.NewChrome())
	for _, k := range console.AllPages {
		if pages.Get(k) == nil {
			t.Fatalf("page %s missing", k)
		}
	}
}
