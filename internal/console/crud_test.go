package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetadmin/internal/apiclient"
)

type notice struct{ kind, msg string }

func newTripPage(t *testing.T, store *memStore, withTabs bool) (*CRUDPage[trip], *[]notice) {
	t.Helper()
	var notes []notice
	p := NewCRUDPage(tripEntity(withTabs), store, func(kind, msg string) {
		notes = append(notes, notice{kind, msg})
	})
	if err := p.Enter(context.Background()); err != nil {
		t.Fatalf("enter: %v", err)
	}
	return p, &notes
}

func TestCRUDListFiltersInMemory(t *testing.T) {
	store := newMemStore(seedTrips()...)
	p, _ := newTripPage(t, store, true)

	view := p.View()
	if view.List == nil || len(view.List.Cards) != 2 {
		t.Fatalf("expected two cards, got %+v", view.List)
	}
	if err := p.Handle(context.Background(), Action{Name: ActFilter, Value: "pending"}); err != nil {
		t.Fatal(err)
	}
	cards := p.View().List.Cards
	if len(cards) != 1 || cards[0].ID != "t2" {
		t.Fatalf("pending filter returned %+v", cards)
	}
	if err := p.Handle(context.Background(), Action{Name: ActSearch, Value: "ACME"}); err != nil {
		t.Fatal(err)
	}
	if cards := p.View().List.Cards; len(cards) != 1 || cards[0].ID != "t2" {
		t.Fatalf("search on company returned %+v", cards)
	}
	if err := p.Handle(context.Background(), Action{Name: ActSearch, Value: "agra"}); err != nil {
		t.Fatal(err)
	}
	if lv := p.View().List; !lv.Empty() {
		t.Fatalf("search and filter should combine, got %+v", lv.Cards)
	}
	if store.count("list") != 1 {
		t.Fatalf("filtering refetched the list: %d calls", store.count("list"))
	}
}

func TestCRUDListLoadFailureShowsMessage(t *testing.T) {
	store := newMemStore()
	store.failOn["list"] = &apiclient.APIError{StatusCode: 500, Message: "Database unavailable"}
	p := NewCRUDPage(tripEntity(true), store, nil)
	if err := p.Enter(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	lv := p.View().List
	if lv.State != "failed" || lv.Error != "Database unavailable" {
		t.Fatalf("unexpected list view %+v", lv)
	}
	if lv.Empty() {
		t.Fatal("a failed list is not empty")
	}
}

func TestCRUDSelectOpensDetailsWithTabs(t *testing.T) {
	store := newMemStore(seedTrips()...)
	p, _ := newTripPage(t, store, true)
	ctx := context.Background()

	if err := p.Handle(ctx, Action{Name: ActSelect, ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	dv := p.View().Details
	if dv == nil || dv.State != "ready" || dv.Card.Title != "Delhi to Agra" {
		t.Fatalf("unexpected details %+v", dv)
	}
	if len(dv.Tabs) != 2 || !dv.Tabs[0].Active || len(dv.Rows) != 1 {
		t.Fatalf("first tab should be active with rows: %+v", dv)
	}
	gets := store.count("get")
	if err := p.Handle(ctx, Action{Name: ActTab, Key: "broken"}); err != nil {
		t.Fatal(err)
	}
	dv = p.View().Details
	if dv.TabErr != apiclient.GenericMessage {
		t.Fatalf("tab error = %q", dv.TabErr)
	}
	if err := p.Handle(ctx, Action{Name: ActTab, Key: "info"}); err != nil {
		t.Fatal(err)
	}
	if dv = p.View().Details; dv.TabErr != "" || len(dv.Rows) != 1 {
		t.Fatalf("info tab after error = %+v", dv)
	}
	if n := store.count("get"); n != gets {
		t.Fatalf("switching tabs refetched the record: %d gets, want %d", n, gets)
	}
	if err := p.Handle(ctx, Action{Name: ActTab, Key: "nope"}); err == nil {
		t.Fatal("unknown tab accepted")
	}

	if err := p.Handle(ctx, Action{Name: ActEdit}); err != nil {
		t.Fatal(err)
	}
	fv := p.View().Form
	if fv == nil || fv.Creating || fv.ID != "t1" {
		t.Fatalf("edit should open the selected record: %+v", fv)
	}
}

func TestCRUDSaveReturnsToListAndNotifies(t *testing.T) {
	store := newMemStore(seedTrips()...)
	p, notes := newTripPage(t, store, true)
	ctx := context.Background()

	if err := p.Handle(ctx, Action{Name: ActAdd}); err != nil {
		t.Fatal(err)
	}
	err := p.Handle(ctx, Action{Name: ActSave, Values: Values{"main.name": "Goa run", "main.start": "1", "main.end": "4", "bogus": "x"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, _ := p.Controller().State(); v != ViewList {
		t.Fatalf("expected list after save, got %s", v)
	}
	if store.last.Days != "4" || store.last.Status != "pending" {
		t.Fatalf("unexpected payload %+v", store.last)
	}
	if len(*notes) != 1 || (*notes)[0].msg != "Trip created" {
		t.Fatalf("notifications = %+v", *notes)
	}
	if got := len(p.View().List.Cards); got != 3 {
		t.Fatalf("list not refreshed, %d cards", got)
	}
}

func TestCRUDSaveAfterNavigatingAwayStaysPut(t *testing.T) {
	store := newMemStore(seedTrips()...)
	store.gate = make(chan struct{})
	store.started = make(chan struct{}, 1)
	p, notes := newTripPage(t, store, true)
	ctx := context.Background()

	if err := p.Handle(ctx, Action{Name: ActEdit, ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- p.Save(ctx) }()
	select {
	case <-store.started:
	case <-time.After(2 * time.Second):
		t.Fatal("save never reached the store")
	}
	if err := p.Handle(ctx, Action{Name: ActSelect, ID: "t2"}); err != nil {
		t.Fatal(err)
	}
	close(store.gate)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, id := p.Controller().State(); v != ViewDetails || id != "t2" {
		t.Fatalf("late save moved the page to %s %q", v, id)
	}
	if len(*notes) != 0 {
		t.Fatalf("late save notified: %+v", *notes)
	}
}

func TestCRUDDeleteNeedsConfirmationAndSendsOnce(t *testing.T) {
	store := newMemStore(seedTrips()...)
	p, notes := newTripPage(t, store, true)
	ctx := context.Background()

	if err := p.Handle(ctx, Action{Name: ActDelete, ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	if store.count("delete") != 0 {
		t.Fatal("delete sent before confirmation")
	}
	if c := p.View().Confirm; c == nil || c.ID != "t1" {
		t.Fatalf("expected confirmation, got %+v", c)
	}
	if err := p.Handle(ctx, Action{Name: ActCancelDelete}); err != nil {
		t.Fatal(err)
	}
	if p.View().Confirm != nil || store.count("delete") != 0 {
		t.Fatal("cancel should drop the confirmation without a request")
	}

	if err := p.Handle(ctx, Action{Name: ActDelete, ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Handle(ctx, Action{Name: ActConfirmDelete}); err != nil {
		t.Fatal(err)
	}
	if err := p.Handle(ctx, Action{Name: ActConfirmDelete}); err == nil {
		t.Fatal("second confirm should have nothing to delete")
	}
	if store.count("delete") != 1 {
		t.Fatalf("delete sent %d times", store.count("delete"))
	}
	cards := p.View().List.Cards
	if len(cards) != 1 || cards[0].ID != "t2" {
		t.Fatalf("deleted record still listed: %+v", cards)
	}
	if len(*notes) != 1 || (*notes)[0].msg != "Trip deleted" {
		t.Fatalf("notifications = %+v", *notes)
	}
}

func TestCRUDDeleteFailureKeepsConfirmation(t *testing.T) {
	store := newMemStore(seedTrips()...)
	store.failOn["delete"] = &apiclient.APIError{StatusCode: 409, Message: "Trip has payments"}
	p, _ := newTripPage(t, store, true)
	ctx := context.Background()

	if err := p.RequestDelete("t2"); err != nil {
		t.Fatal(err)
	}
	if err := p.ConfirmDelete(ctx); err == nil {
		t.Fatal("expected error")
	}
	c := p.View().Confirm
	if c == nil || c.Error != "Trip has payments" || c.Busy {
		t.Fatalf("unexpected confirm view %+v", c)
	}
	if len(p.View().List.Cards) != 2 {
		t.Fatal("record removed despite failure")
	}
}

func TestCRUDWithoutDetailsSelectsIntoForm(t *testing.T) {
	store := newMemStore(seedTrips()...)
	p, _ := newTripPage(t, store, false)
	if err := p.Handle(context.Background(), Action{Name: ActSelect, ID: "t2"}); err != nil {
		t.Fatal(err)
	}
	pv := p.View()
	if pv.View != "form" || pv.Form == nil || pv.Form.ID != "t2" {
		t.Fatalf("expected edit form, got %+v", pv)
	}
	var sections []string
	for _, s := range pv.Form.Sections {
		sections = append(sections, s.Key)
	}
	if len(sections) != 2 {
		t.Fatalf("corporate record should show both sections, got %v", sections)
	}
}

func TestCRUDUnknownAction(t *testing.T) {
	p, _ := newTripPage(t, newMemStore(), true)
	if err := p.Handle(context.Background(), Action{Name: "explode"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}
