package console

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"fleetadmin/internal/apiclient"
)

var (
	ErrBusy         = errors.New("a request is already in progress")
	ErrLocked       = errors.New("field is computed from other fields")
	ErrNotReady     = errors.New("form is not ready")
	ErrUnknownField = errors.New("unknown field")
)

// FileKey is the error key of a missing upload.
const FileKey = "file"

// ValidationErrors maps field keys to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v[k])
	}
	return strings.Join(msgs, "; ")
}

// Form is the create/edit buffer of one entity.
type Form[T any] struct {
	entity *Entity[T]
	store  Store[T]

	mu        sync.Mutex
	id        string
	state     LoadState
	loadErr   string
	values    Values
	errs      ValidationErrors
	submitErr string
	busy      bool
	file      *Attachment
	gen       uint64
}

func NewForm[T any](e *Entity[T], store Store[T]) *Form[T] {
	return &Form[T]{entity: e, store: store}
}

// Open resets the form. An empty id starts a create at default values,
// otherwise the record is fetched and the form stays loading until it
// arrives.
func (f *Form[T]) Open(ctx context.Context, id string) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.id = id
	f.errs = nil
	f.submitErr = ""
	f.loadErr = ""
	f.busy = false
	f.file = nil
	if id == "" {
		f.values = f.entity.Schema.Defaults()
		f.entity.Schema.Derive(f.values)
		f.state = StateReady
		f.mu.Unlock()
		return nil
	}
	f.values = nil
	f.state = StateLoading
	f.mu.Unlock()

	rec, err := f.store.Get(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil
	}
	if err != nil {
		f.state = StateFailed
		f.loadErr = apiclient.ErrorMessage(err)
		return err
	}
	f.values = f.entity.Codec.Encode(*rec)
	f.state = StateReady
	return nil
}

// Close drops the buffer and any outstanding prefill or submit.
func (f *Form[T]) Close() {
	f.mu.Lock()
	f.gen++
	f.state = StateIdle
	f.values = nil
	f.busy = false
	f.file = nil
	f.mu.Unlock()
}

func (f *Form[T]) editable() error {
	if f.busy {
		return ErrBusy
	}
	if f.state != StateReady {
		return ErrNotReady
	}
	return nil
}

// Set writes one field and recomputes derived fields.
func (f *Form[T]) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	schema := f.entity.Schema
	if _, ok := schema.Field(key); !ok {
		return ErrUnknownField
	}
	if schema.Locked(f.values, key) {
		return ErrLocked
	}
	f.values[key] = value
	schema.ResetHidden(f.values)
	schema.Derive(f.values)
	delete(f.errs, key)
	return nil
}

// SetAll applies a whole posted form. Unknown keys are ignored and derived
// fields are recomputed from the result.
func (f *Form[T]) SetAll(in Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	schema := f.entity.Schema
	for k, v := range in {
		if _, ok := schema.Field(k); ok {
			f.values[k] = v
		}
	}
	schema.ResetHidden(f.values)
	schema.Derive(f.values)
	f.errs = nil
	return nil
}

// Attach sets the file sent with an upload.
func (f *Form[T]) Attach(file Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.file = &file
	delete(f.errs, FileKey)
	return nil
}

// Submit validates and sends the form. Validation failures never reach the
// server. The busy flag is set before the request starts, so a second
// Submit returns ErrBusy without a request. On failure the values stay as
// entered.
func (f *Form[T]) Submit(ctx context.Context) (*T, error) {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	schema := f.entity.Schema
	creating := f.id == ""
	schema.Derive(f.values)
	errs := ValidationErrors(schema.Validate(f.values, creating))
	upload := creating && f.entity.Upload != nil
	if upload && f.file == nil {
		errs[FileKey] = "File is required"
	}
	var rec T
	if len(errs) == 0 {
		var err error
		rec, err = f.entity.Codec.Decode(f.values.Clone())
		var fe *FieldError
		if errors.As(err, &fe) {
			errs[fe.Key] = fe.Msg
		} else if err != nil {
			errs["form"] = err.Error()
		}
	}
	if len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return nil, errs
	}
	f.errs = nil
	f.submitErr = ""
	f.busy = true
	gen, id := f.gen, f.id
	var file Attachment
	if f.file != nil {
		file = *f.file
	}
	f.mu.Unlock()

	var out *T
	var err error
	switch {
	case upload:
		out, err = f.entity.Upload(ctx, rec, file)
	case creating:
		out, err = f.store.Create(ctx, rec)
	default:
		out, err = f.store.Update(ctx, id, rec)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return out, err
	}
	f.busy = false
	if err != nil {
		f.submitErr = apiclient.ErrorMessage(err)
		return nil, err
	}
	return out, nil
}

// FormSnapshot is a consistent copy of the form state.
type FormSnapshot struct {
	ID        string
	Creating  bool
	State     LoadState
	LoadErr   string
	Values    Values
	Errors    ValidationErrors
	SubmitErr string
	Busy      bool
	Locked    map[string]bool
	FileName  string
}

func (f *Form[T]) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := FormSnapshot{
		ID:        f.id,
		Creating:  f.id == "",
		State:     f.state,
		LoadErr:   f.loadErr,
		SubmitErr: f.submitErr,
		Busy:      f.busy,
		Errors:    ValidationErrors{},
		Locked:    map[string]bool{},
	}
	for k, v := range f.errs {
		s.Errors[k] = v
	}
	if f.values != nil {
		s.Values = f.values.Clone()
		for _, d := range f.entity.Schema.Derived {
			s.Locked[d.Target] = f.entity.Schema.Locked(f.values, d.Target)
		}
	}
	if f.file != nil {
		s.FileName = f.file.Name
	}
	return s
}
