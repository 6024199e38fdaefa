package console

import (
	"context"
	"strings"
	"sync"

	"fleetadmin/internal/apiclient"
)

// LoadState is the fetch state shared by list, form prefill and details.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// List holds the full collection of one entity and filters it in memory.
type List[T any] struct {
	entity *Entity[T]
	store  Store[T]

	mu       sync.Mutex
	state    LoadState
	items    []T
	err      string
	query    string
	category string
	gen      uint64
}

func NewList[T any](e *Entity[T], store Store[T]) *List[T] {
	return &List[T]{entity: e, store: store, category: "all"}
}

// Load fetches the whole collection. A Load superseded by another Load or
// Invalidate leaves state untouched.
func (l *List[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state = StateLoading
	l.err = ""
	l.mu.Unlock()

	items, err := l.store.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil
	}
	if err != nil {
		l.state = StateFailed
		l.err = apiclient.ErrorMessage(err)
		return err
	}
	l.items = items
	l.state = StateReady
	return nil
}

// Invalidate drops any outstanding Load.
func (l *List[T]) Invalidate() {
	l.mu.Lock()
	l.gen++
	if l.state == StateLoading {
		l.state = StateIdle
	}
	l.mu.Unlock()
}

func (l *List[T]) SetQuery(q string) {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
}

func (l *List[T]) SetCategory(c string) {
	l.mu.Lock()
	if c == "" {
		c = "all"
	}
	l.category = c
	l.mu.Unlock()
}

// Visible returns the records passing the current search and category.
func (l *List[T]) Visible() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Filter(l.items, l.entity, l.query, l.category)
}

// Remove drops id from the loaded collection.
func (l *List[T]) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items[:0:0]
	for _, it := range l.items {
		if l.entity.ID(it) != id {
			out = append(out, it)
		}
	}
	l.items = out
}

// State returns the load state, its error text, and the active filters.
func (l *List[T]) State() (state LoadState, errText, query, category string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.err, l.query, l.category
}

// Filter keeps items whose search fields contain query case-insensitively
// and whose category equals category. "all" or "" matches any category.
func Filter[T any](items []T, e *Entity[T], query, category string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !matchCategory(e, it, category) || !matchQuery(e, it, q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchCategory[T any](e *Entity[T], it T, category string) bool {
	if category == "" || category == "all" || e.Category == nil {
		return true
	}
	return e.Category(it) == category
}

func matchQuery[T any](e *Entity[T], it T, q string) bool {
	if q == "" {
		return true
	}
	if e.Search == nil {
		return false
	}
	for _, f := range e.Search(it) {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
