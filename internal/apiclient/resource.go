package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Resource is the CRUD surface of one /api/<name> collection.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds T to /api/<name>.
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{client: c, path: "/api/" + strings.Trim(name, "/")}
}

func (r *Resource[T]) Client() *Client { return r.client }

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) item(id string, sub ...string) string {
	p := r.path + "/" + url.PathEscape(id)
	for _, s := range sub {
		p += "/" + strings.Trim(s, "/")
	}
	return p
}

// List returns the full collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.Query(ctx, nil)
}

// Query returns the collection narrowed by query parameters.
func (r *Resource[T]) Query(ctx context.Context, query url.Values) ([]T, error) {
	items := []T{}
	if err := r.client.Do(ctx, http.MethodGet, r.path, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Create(ctx context.Context, in T) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPost, r.path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record with PUT.
func (r *Resource[T]) Update(ctx context.Context, id string, in T) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPut, r.item(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patch sends a partial change to a sub path such as "status".
func (r *Resource[T]) Patch(ctx context.Context, id, sub string, body interface{}) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPatch, r.item(id, sub), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

// Related decodes a list nested under an item, e.g. /consumers/:id/bookings.
func Related[E any, T any](ctx context.Context, r *Resource[T], id, sub string) ([]E, error) {
	items := []E{}
	if err := r.client.Do(ctx, http.MethodGet, r.item(id, sub), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
