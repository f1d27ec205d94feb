package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"estate-portal/internal/collection"
	xerrors "estate-portal/internal/pkg/errors"

	"go.uber.org/zap"
)

// Resource is one REST collection of the listing API, such as "agents" or
// "properties". Mutations follow the API's add/update/delete routes.
type Resource[T any] struct {
	client *Client
	path   string
}

func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Path returns the resource's path below the base URL.
func (r *Resource[T]) Path() string { return r.path }

// List fetches one upstream page.
func (r *Resource[T]) List(ctx context.Context, page, limit int, filters url.Values) ([]T, *Meta, error) {
	q := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	meta, err := r.client.Do(ctx, http.MethodGet, r.path, q, nil, &raw)
	if err != nil {
		return nil, nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, nil, &xerrors.APIError{StatusCode: http.StatusOK, Message: fmt.Sprintf("unexpected list shape for %s: %v", r.path, err), Kind: xerrors.ErrUpstream}
	}
	return items, meta, nil
}

// All fetches the whole collection. It walks meta.totalPages when the
// endpoint paginates, up to the client's page cap, and returns one page
// otherwise.
func (r *Resource[T]) All(ctx context.Context, filters url.Values) ([]T, error) {
	limit := r.client.pageLimit
	var out []T
	for page := 1; ; page++ {
		items, meta, err := r.List(ctx, page, limit, filters)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)

		if meta == nil || len(items) == 0 || page >= meta.TotalPages {
			break
		}
		if page >= r.client.maxPages {
			r.client.logger.Warn("collection truncated at page cap",
				zap.String("resource", r.path),
				zap.Int("max_pages", r.client.maxPages),
				zap.Int("total_pages", meta.TotalPages),
			)
			break
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Fetcher adapts All to a collection source.
func (r *Resource[T]) Fetcher(filters url.Values) collection.Fetcher[T] {
	return func(ctx context.Context) ([]T, error) {
		return r.All(ctx, filters)
	}
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	_, err := r.client.Do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, &rec)
	return rec, err
}

// Create posts a new record. The returned record is the zero value when
// the API does not echo the created record back.
func (r *Resource[T]) Create(ctx context.Context, body any) (T, error) {
	var rec T
	_, err := r.client.Do(ctx, http.MethodPost, r.path+"/add", nil, body, &rec)
	return rec, err
}

// Update patches an existing record.
func (r *Resource[T]) Update(ctx context.Context, id string, body any) (T, error) {
	var rec T
	_, err := r.client.Do(ctx, http.MethodPatch, r.path+"/update/"+url.PathEscape(id), nil, body, &rec)
	return rec, err
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, http.MethodDelete, r.path+"/delete/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// Patch sends a PATCH to a sub path of the resource, such as "read/12".
func (r *Resource[T]) Patch(ctx context.Context, subpath string, body any) error {
	_, err := r.client.Do(ctx, http.MethodPatch, r.path+"/"+subpath, nil, body, nil)
	return err
}

// decodeList accepts a bare array or an object wrapping one under a
// common key.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	var items []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	for _, k := range []string{"items", "data", "results", "rows"} {
		inner, ok := wrapper[k]
		if !ok {
			continue
		}
		return decodeList[T](inner)
	}
	return nil, fmt.Errorf("no list found in object")
}
