package console

import (
	"context"
	"fmt"
	"sync"

	"fleetadmin/internal/apiclient"
)

// TabData is a built details tab.
type TabData struct {
	Key   string
	Title string
	Rows  []Row
	Err   string
}

// Details is the read-only tabbed view of one record.
type Details[T any] struct {
	entity *Entity[T]
	store  Store[T]

	mu     sync.Mutex
	id     string
	state  LoadState
	err    string
	rec    *T
	tabs   []TabData
	active string
	gen    uint64
}

func NewDetails[T any](e *Entity[T], store Store[T]) *Details[T] {
	return &Details[T]{entity: e, store: store}
}

// Open fetches the record and builds every tab up front.
func (d *Details[T]) Open(ctx context.Context, id string) error {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.id = id
	d.state = StateLoading
	d.err = ""
	d.rec = nil
	d.tabs = nil
	d.active = ""
	if len(d.entity.Tabs) > 0 {
		d.active = d.entity.Tabs[0].Key
	}
	d.mu.Unlock()

	rec, err := d.store.Get(ctx, id)
	var tabs []TabData
	if err == nil {
		tabs = make([]TabData, 0, len(d.entity.Tabs))
		for _, tab := range d.entity.Tabs {
			td := TabData{Key: tab.Key, Title: tab.Title}
			rows, terr := tab.Rows(ctx, *rec)
			if terr != nil {
				td.Err = apiclient.ErrorMessage(terr)
			}
			td.Rows = rows
			tabs = append(tabs, td)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return nil
	}
	if err != nil {
		d.state = StateFailed
		d.err = apiclient.ErrorMessage(err)
		return err
	}
	d.rec = rec
	d.tabs = tabs
	d.state = StateReady
	return nil
}

// SelectTab switches the visible tab without fetching.
func (d *Details[T]) SelectTab(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.entity.Tabs {
		if t.Key == key {
			d.active = key
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", key)
}

func (d *Details[T]) Record() *T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rec
}

func (d *Details[T]) Close() {
	d.mu.Lock()
	d.gen++
	d.state = StateIdle
	d.rec = nil
	d.tabs = nil
	d.mu.Unlock()
}

// DetailsSnapshot is a consistent copy of the details state.
type DetailsSnapshot[T any] struct {
	ID     string
	State  LoadState
	Err    string
	Record *T
	Tabs   []TabData
	Active string
}

func (d *Details[T]) Snapshot() DetailsSnapshot[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	tabs := make([]TabData, len(d.tabs))
	copy(tabs, d.tabs)
	return DetailsSnapshot[T]{ID: d.id, State: d.state, Err: d.err, Record: d.rec, Tabs: tabs, Active: d.active}
}
