package console

import (
	"context"
	"errors"
	"sync"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/console/ui"
)

// Notify posts a chrome notification.
type Notify func(kind, message string)

// CRUDPage wires the controller to the list, form and details of one entity.
type CRUDPage[T any] struct {
	entity  *Entity[T]
	store   Store[T]
	ctrl    *Controller
	list    *List[T]
	form    *Form[T]
	details *Details[T]
	notify  Notify

	mu            sync.Mutex
	pendingDelete string
	deleteErr     string
	deleting      bool
}

func NewCRUDPage[T any](e *Entity[T], store Store[T], notify Notify) *CRUDPage[T] {
	return &CRUDPage[T]{
		entity:  e,
		store:   store,
		ctrl:    NewController(e.HasDetails()),
		list:    NewList(e, store),
		form:    NewForm(e, store),
		details: NewDetails(e, store),
		notify:  notify,
	}
}

func (p *CRUDPage[T]) Controller() *Controller { return p.ctrl }
func (p *CRUDPage[T]) List() *List[T]          { return p.list }
func (p *CRUDPage[T]) Form() *Form[T]          { return p.form }
func (p *CRUDPage[T]) Details() *Details[T]    { return p.details }

// Enter shows the list and fetches it again.
func (p *CRUDPage[T]) Enter(ctx context.Context) error {
	p.reset()
	return p.list.Load(ctx)
}

// Leave drops every outstanding request of the page.
func (p *CRUDPage[T]) Leave() {
	p.list.Invalidate()
	p.reset()
}

func (p *CRUDPage[T]) reset() {
	p.ctrl.ShowList()
	p.form.Close()
	p.details.Close()
	p.CancelDelete()
}

// Select opens the details of id, or its edit form when the entity has no
// details view.
func (p *CRUDPage[T]) Select(ctx context.Context, id string) error {
	p.ctrl.SelectForDetails(id)
	p.CancelDelete()
	if p.ctrl.HasDetails() {
		return p.details.Open(ctx, id)
	}
	return p.form.Open(ctx, id)
}

func (p *CRUDPage[T]) Add(ctx context.Context) error {
	p.ctrl.StartCreate()
	p.details.Close()
	return p.form.Open(ctx, "")
}

// Edit opens the form for id, or for the selected record when id is empty.
func (p *CRUDPage[T]) Edit(ctx context.Context, id string) error {
	if id == "" {
		_, id = p.ctrl.State()
	}
	if id == "" {
		return errors.New("no record selected")
	}
	p.ctrl.StartEdit(id)
	p.details.Close()
	return p.form.Open(ctx, id)
}

// Back returns to a freshly fetched list without saving.
func (p *CRUDPage[T]) Back(ctx context.Context) error {
	p.ctrl.OnCancelled()
	p.form.Close()
	p.details.Close()
	p.CancelDelete()
	return p.list.Load(ctx)
}

// Save submits the form and returns to the list on success. A save whose
// page moved on meanwhile leaves the page where it is.
func (p *CRUDPage[T]) Save(ctx context.Context) error {
	if v, _ := p.ctrl.State(); v != ViewForm {
		return ErrNotReady
	}
	gen := p.ctrl.Generation()
	creating := p.form.Snapshot().Creating
	if _, err := p.form.Submit(ctx); err != nil {
		return err
	}
	if !p.ctrl.Current(gen) {
		return nil
	}
	p.ctrl.OnSaved()
	p.form.Close()
	if p.notify != nil {
		verb := " updated"
		if creating {
			verb = " created"
		}
		p.notify(p.entity.Key, p.entity.Singular+verb)
	}
	return p.list.Load(ctx)
}

// RequestDelete asks for confirmation. Nothing is sent yet.
func (p *CRUDPage[T]) RequestDelete(id string) error {
	if id == "" {
		_, id = p.ctrl.State()
	}
	if id == "" {
		return errors.New("no record selected")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleting {
		return ErrBusy
	}
	p.pendingDelete = id
	p.deleteErr = ""
	return nil
}

func (p *CRUDPage[T]) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleting {
		return
	}
	p.pendingDelete = ""
	p.deleteErr = ""
}

// ConfirmDelete sends exactly one DELETE for the pending record and drops
// it from the list.
func (p *CRUDPage[T]) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	if p.deleting {
		p.mu.Unlock()
		return ErrBusy
	}
	id := p.pendingDelete
	if id == "" {
		p.mu.Unlock()
		return errors.New("nothing to delete")
	}
	p.deleting = true
	p.mu.Unlock()

	err := p.store.Delete(ctx, id)

	p.mu.Lock()
	p.deleting = false
	if err != nil {
		p.deleteErr = apiclient.ErrorMessage(err)
		p.mu.Unlock()
		return err
	}
	p.pendingDelete = ""
	p.mu.Unlock()

	p.list.Remove(id)
	if v, sel := p.ctrl.State(); v != ViewList && sel == id {
		p.ctrl.ShowList()
		p.form.Close()
		p.details.Close()
	}
	if p.notify != nil {
		p.notify(p.entity.Key, p.entity.Singular+" deleted")
	}
	return nil
}

func (p *CRUDPage[T]) Search(q string)         { p.list.SetQuery(q) }
func (p *CRUDPage[T]) FilterCategory(c string) { p.list.SetCategory(c) }

func (p *CRUDPage[T]) Handle(ctx context.Context, a Action) error {
	switch a.Name {
	case ActSelect:
		return p.Select(ctx, a.ID)
	case ActAdd:
		return p.Add(ctx)
	case ActEdit:
		return p.Edit(ctx, a.ID)
	case ActBack, ActCancel:
		return p.Back(ctx)
	case ActReload:
		return p.list.Load(ctx)
	case ActSet:
		if a.Values != nil {
			if err := p.form.SetAll(a.Values); err != nil {
				return err
			}
		} else if a.Key != "" {
			if err := p.form.Set(a.Key, a.Value); err != nil {
				return err
			}
		}
		if a.File != nil {
			return p.form.Attach(*a.File)
		}
		return nil
	case ActSave:
		if a.Values != nil {
			if err := p.form.SetAll(a.Values); err != nil {
				return err
			}
		}
		if a.File != nil {
			if err := p.form.Attach(*a.File); err != nil {
				return err
			}
		}
		return p.Save(ctx)
	case ActSearch:
		p.Search(a.Value)
		return nil
	case ActFilter:
		p.FilterCategory(a.Value)
		return nil
	case ActTab:
		return p.details.SelectTab(a.Key)
	case ActDelete:
		return p.RequestDelete(a.ID)
	case ActConfirmDelete:
		return p.ConfirmDelete(ctx)
	case ActCancelDelete:
		p.CancelDelete()
		return nil
	default:
		return ErrUnknownAction
	}
}

func (p *CRUDPage[T]) card(rec T) CardView {
	c := p.entity.Card(rec)
	return CardView{ID: p.entity.ID(rec), Card: c, StatusClass: ui.StatusClass(c.Status)}
}

func (p *CRUDPage[T]) View() PageView {
	v, _ := p.ctrl.State()
	pv := PageView{Key: p.entity.Key, Title: p.entity.Title, Kind: "crud", View: v.String()}
	switch v {
	case ViewList:
		pv.List = p.listView()
	case ViewForm:
		pv.Form = p.formView()
	case ViewDetails:
		pv.Details = p.detailsView()
	}
	p.mu.Lock()
	if p.pendingDelete != "" {
		pv.Confirm = &ConfirmView{
			ID:      p.pendingDelete,
			Message: "Are you sure you want to delete this " + p.entity.Singular + "?",
			Error:   p.deleteErr,
			Busy:    p.deleting,
		}
	}
	p.mu.Unlock()
	return pv
}

func (p *CRUDPage[T]) listView() *ListView {
	state, errText, q, c := p.list.State()
	lv := &ListView{
		State:      state.String(),
		Error:      errText,
		Query:      q,
		Category:   c,
		Categories: append([]Option{{Value: "all", Label: "All"}}, p.entity.Categories...),
		Singular:   p.entity.Singular,
	}
	for _, rec := range p.list.Visible() {
		lv.Cards = append(lv.Cards, p.card(rec))
	}
	return lv
}

func (p *CRUDPage[T]) formView() *FormView {
	s := p.form.Snapshot()
	title := "Edit " + p.entity.Singular
	if s.Creating {
		title = "Add " + p.entity.Singular
	}
	fv := &FormView{
		Title:     title,
		ID:        s.ID,
		Creating:  s.Creating,
		State:     s.State.String(),
		Error:     s.LoadErr,
		SubmitErr: s.SubmitErr,
		Busy:      s.Busy,
		Upload:    s.Creating && p.entity.Upload != nil,
		FileName:  s.FileName,
		FileError: s.Errors[FileKey],
		FormError: s.Errors["form"],
	}
	if s.Values == nil {
		return fv
	}
	for _, sec := range p.entity.Schema.Visible(s.Values, s.Creating) {
		sv := SectionView{Key: sec.Key, Title: sec.Title}
		for _, f := range sec.Fields {
			key := Key(sec.Key, f.Key)
			val := s.Values.Get(key)
			sv.Fields = append(sv.Fields, FieldView{
				Key:         key,
				Label:       f.Label,
				InputType:   f.Kind.InputType(),
				Value:       val,
				Options:     f.Options,
				Required:    f.Required,
				Locked:      s.Locked[key],
				Disabled:    s.Busy || s.Locked[key],
				Error:       s.Errors[key],
				Placeholder: f.Placeholder,
				Select:      f.Kind == KindSelect,
				TextArea:    f.Kind == KindTextArea || f.Kind == KindList,
				Checkbox:    f.Kind == KindCheckbox,
				Checked:     val == "true",
			})
		}
		fv.Sections = append(fv.Sections, sv)
	}
	return fv
}

func (p *CRUDPage[T]) detailsView() *DetailsView {
	s := p.details.Snapshot()
	dv := &DetailsView{ID: s.ID, Title: p.entity.Singular + " Details", State: s.State.String(), Error: s.Err}
	if s.Record != nil {
		dv.Card = p.card(*s.Record)
	}
	for _, t := range s.Tabs {
		active := t.Key == s.Active
		dv.Tabs = append(dv.Tabs, TabView{Key: t.Key, Title: t.Title, Active: active})
		if active {
			dv.Rows = t.Rows
			dv.TabErr = t.Err
		}
	}
	return dv
}
