// Package console is the admin console core: a per-entity view controller
// with list, form and details views, the page shell that switches between
// twelve pages, and the per-browser session that holds auth and chrome state.
package console

import "sync"

// View is the active view of one entity page.
type View int

const (
	ViewList View = iota
	ViewDetails
	ViewForm
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetails:
		return "details"
	case ViewForm:
		return "form"
	default:
		return "unknown"
	}
}

// Controller sequences list, details and form for one entity. Every
// transition bumps the generation so completions of superseded requests
// can be recognised and dropped.
type Controller struct {
	mu         sync.Mutex
	view       View
	selectedID string
	generation uint64
	hasDetails bool
}

// NewController starts on the list. Entities without a details view route
// selection straight to the edit form.
func NewController(hasDetails bool) *Controller {
	return &Controller{view: ViewList, hasDetails: hasDetails}
}

func (c *Controller) move(v View, id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
	c.selectedID = id
	c.generation++
	return c.generation
}

// ShowList returns to the list and clears the selection.
func (c *Controller) ShowList() uint64 { return c.move(ViewList, "") }

func (c *Controller) SelectForDetails(id string) uint64 {
	if !c.hasDetails {
		return c.move(ViewForm, id)
	}
	return c.move(ViewDetails, id)
}

// StartCreate opens the form with no selection, which means create.
func (c *Controller) StartCreate() uint64 { return c.move(ViewForm, "") }

// StartEdit opens the form for id.
func (c *Controller) StartEdit(id string) uint64 { return c.move(ViewForm, id) }

func (c *Controller) OnSaved() uint64 { return c.ShowList() }

func (c *Controller) OnCancelled() uint64 { return c.ShowList() }

// State returns the active view and selected id.
func (c *Controller) State() (View, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view, c.selectedID
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Current reports whether no transition happened since gen was taken.
func (c *Controller) Current(gen uint64) bool {
	return c.Generation() == gen
}

func (c *Controller) HasDetails() bool { return c.hasDetails }
