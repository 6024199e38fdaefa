package console

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"fleetadmin/internal/apiclient"
)

type trip struct {
	ID     string
	Name   string
	Status string
	Days   string
	Kind   string
	Firm   string
}

// memStore counts calls per verb. When gate is set, Create and Update block
// until it is closed.
type memStore struct {
	mu      sync.Mutex
	items   []trip
	calls   map[string]int
	gate    chan struct{}
	started chan struct{}
	failOn  map[string]error
	last    trip
}

func newMemStore(items ...trip) *memStore {
	return &memStore{items: items, calls: map[string]int{}, failOn: map[string]error{}}
}

func (s *memStore) hit(verb string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[verb]++
	return s.failOn[verb]
}

func (s *memStore) count(verb string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[verb]
}

func (s *memStore) wait() {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
}

func (s *memStore) List(context.Context) ([]trip, error) {
	if err := s.hit("list"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]trip(nil), s.items...), nil
}

func (s *memStore) Get(_ context.Context, id string) (*trip, error) {
	if err := s.hit("get"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			out := it
			return &out, nil
		}
	}
	return nil, &apiclient.APIError{StatusCode: 404, Message: "Trip not found"}
}

func (s *memStore) Create(_ context.Context, in trip) (*trip, error) {
	s.wait()
	if err := s.hit("create"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = "t" + strconv.Itoa(len(s.items)+1)
	s.items = append(s.items, in)
	s.last = in
	return &in, nil
}

func (s *memStore) Update(_ context.Context, id string, in trip) (*trip, error) {
	s.wait()
	if err := s.hit("update"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = id
	s.last = in
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = in
		}
	}
	return &in, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	if err := s.hit("delete"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	s.items = out
	return nil
}

var tripSchema = Schema{
	Sections: []Section{
		{Key: "main", Title: "Trip", Fields: []Field{
			{Key: "name", Label: "Name", Required: true},
			{Key: "status", Label: "Status", Kind: KindSelect, Default: "pending", Options: Options("pending", "confirmed")},
			{Key: "start", Label: "Start", Kind: KindNumber},
			{Key: "end", Label: "End", Kind: KindNumber},
			{Key: "days", Label: "Days", Kind: KindNumber},
			{Key: "kind", Label: "Kind", Kind: KindSelect, Default: "individual", Options: Options("individual", "corporate")},
		}},
		{Key: "biz", Title: "Business", ShowWhen: &Condition{Field: "main.kind", Values: []string{"corporate"}}, Fields: []Field{
			{Key: "firm", Label: "Company", Required: true},
		}},
	},
	Derived: []Derivation{
		{Target: "main.days", Inputs: []string{"main.start", "main.end"}, Compute: func(v Values) (string, bool) {
			a, err1 := strconv.Atoi(v.Get("main.start"))
			b, err2 := strconv.Atoi(v.Get("main.end"))
			if err1 != nil || err2 != nil {
				return "", false
			}
			return strconv.Itoa(b - a + 1), true
		}},
	},
}

func tripEntity(withTabs bool) *Entity[trip] {
	e := &Entity[trip]{
		Key:      "trips",
		Title:    "Trips",
		Singular: "Trip",
		ID:       func(t trip) string { return t.ID },
		Search:   func(t trip) []string { return []string{t.Name, t.Firm} },
		Category: func(t trip) string { return t.Status },
		Schema:   tripSchema,
		Codec: Codec[trip]{
			Encode: func(t trip) Values {
				return Values{"main.name": t.Name, "main.status": t.Status, "main.days": t.Days, "main.kind": t.Kind, "biz.firm": t.Firm}
			},
			Decode: func(v Values) (trip, error) {
				if strings.HasPrefix(v.Get("main.name"), "!") {
					return trip{}, &FieldError{Key: "main.name", Msg: "must not start with !"}
				}
				return trip{Name: v.Get("main.name"), Status: v.Get("main.status"), Days: v.Get("main.days"), Kind: v.Get("main.kind"), Firm: v.Get("biz.firm")}, nil
			},
		},
		Card: func(t trip) Card { return Card{Title: t.Name, Status: t.Status} },
	}
	if withTabs {
		e.Tabs = []Tab[trip]{
			{Key: "info", Title: "Info", Rows: func(_ context.Context, t trip) ([]Row, error) {
				return []Row{{Label: "Name", Value: t.Name}}, nil
			}},
			{Key: "broken", Title: "Broken", Rows: func(context.Context, trip) ([]Row, error) {
				return nil, errors.New("boom")
			}},
		}
	}
	return e
}

func seedTrips() []trip {
	return []trip{
		{ID: "t1", Name: "Delhi to Agra", Status: "confirmed", Kind: "individual"},
		{ID: "t2", Name: "Jaipur tour", Status: "pending", Kind: "corporate", Firm: "Acme Travels"},
	}
}
