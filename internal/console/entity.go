package console

import (
	"context"
	"fmt"
)

// Store is the REST resource behind an entity.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in T) (*T, error)
	Update(ctx context.Context, id string, in T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Card is the list-row summary of a record.
type Card struct {
	Title    string
	Subtitle string
	Status   string
	Lines    []string
	Amount   string
	Link     string
}

// Row is one label/value line of a details tab.
type Row struct {
	Label string
	Value string
}

// Tab is one read-only tab of the details view. Rows may call the API for
// related records; all tabs are built when the record is opened.
type Tab[T any] struct {
	Key   string
	Title string
	Rows  func(ctx context.Context, rec T) ([]Row, error)
}

// FieldError reports a decode failure on one field.
type FieldError struct {
	Key string
	Msg string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Key, e.Msg) }

// Codec maps a record to and from flat form values.
type Codec[T any] struct {
	Encode func(T) Values
	Decode func(Values) (T, error)
}

// Attachment is a file picked in a form.
type Attachment struct {
	Name string
	Data []byte
}

// Uploader creates a record together with its file.
type Uploader[T any] func(ctx context.Context, in T, file Attachment) (*T, error)

// Entity describes one record type to the generic list, form and details.
type Entity[T any] struct {
	Key        string
	Title      string
	Singular   string
	ID         func(T) string
	Search     func(T) []string
	Category   func(T) string
	Categories []Option
	Schema     Schema
	Codec      Codec[T]
	Tabs       []Tab[T]
	Card       func(T) Card
	Upload     Uploader[T]
}

func (e *Entity[T]) HasDetails() bool { return len(e.Tabs) > 0 }
