// internal/service/listing/listing.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/savedview"
	xerrors "estate-portal/internal/pkg/errors"

	"go.uber.org/zap"
)

// Query is a list request. Nil fields leave the view's current criteria
// untouched; Page and Limit are ignored when zero.
type Query struct {
	Search  *string
	Status  *string
	Sort    *string
	Dir     *string
	Tie     *string
	Page    int
	Limit   int
	Refresh bool
}

// DefaultViews finds the saved view applied when a view is first built.
type DefaultViews interface {
	FindDefault(ctx context.Context, owner, collection string) (*savedview.SavedView, error)
}

// Source builds the fetcher for a view. parts are the key parts after the
// session, such as a parent id.
type Source[T collection.Record] func(parts []string) collection.Fetcher[T]

type Config struct {
	Name        string
	PageSize    int
	MaxPageSize int
	Timeout     time.Duration
	IdleTTL     time.Duration
	DefaultSort collection.SortCriteria
	SortFields  []collection.SortField
	Defaults    DefaultViews
	// Publish receives every refresh outcome with Session set to the
	// identity owning the view.
	Publish func(collection.Event)
	Logger  *zap.Logger
}

// Service keeps one view per identity for a collection.
type Service[T collection.Record] struct {
	name        string
	maxPageSize int
	registry    *collection.Registry[T]
	defaults    DefaultViews
	logger      *zap.Logger
}

func NewService[T collection.Record](cfg Config, source Source[T]) *Service[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = collection.DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = cfg.PageSize
	}

	s := &Service[T]{
		name:        cfg.Name,
		maxPageSize: cfg.MaxPageSize,
		defaults:    cfg.Defaults,
		logger:      logger.With(zap.String("collection", cfg.Name)),
	}

	s.registry = collection.NewRegistry(cfg.IdleTTL, func(key string) *collection.View[T] {
		identity, parts := collection.SplitKey(key)
		opts := collection.Options{
			Name:        cfg.Name,
			PageSize:    cfg.PageSize,
			Timeout:     cfg.Timeout,
			DefaultSort: cfg.DefaultSort,
			SortFields:  cfg.SortFields,
			Logger:      logger,
		}
		if cfg.Publish != nil {
			opts.OnRefresh = func(e collection.Event) {
				e.Session = identity
				cfg.Publish(e)
			}
		}
		return collection.NewView(source(parts), opts)
	})
	return s
}

// Name returns the collection name.
func (s *Service[T]) Name() string { return s.name }

// View returns identity's view, building it on first use. A new view gets
// the identity's default saved view for the collection.
func (s *Service[T]) View(ctx context.Context, identity string, parts ...string) *collection.View[T] {
	view, created := s.registry.Get(collection.Key(identity, parts...))
	if created && s.defaults != nil {
		s.applyDefault(ctx, identity, view)
	}
	return view
}

// Peek returns identity's view without building one.
func (s *Service[T]) Peek(identity string, parts ...string) (*collection.View[T], bool) {
	return s.registry.Peek(collection.Key(identity, parts...))
}

// List applies q to identity's view, loads it when needed and renders the
// current page. A superseded fetch is not an error: the newer state is
// rendered. A failed fetch is returned alongside the rendered view.
func (s *Service[T]) List(ctx context.Context, identity string, q Query, parts ...string) (collection.Result[T], error) {
	view := s.View(ctx, identity, parts...)
	s.apply(view, q)

	var err error
	if q.Refresh {
		err = view.Refresh(ctx)
	} else {
		err = view.EnsureLoaded(ctx)
	}
	if errors.Is(err, collection.ErrStale) {
		err = nil
	}
	return view.Current(), err
}

// Refresh refetches identity's view.
func (s *Service[T]) Refresh(ctx context.Context, identity string, parts ...string) (collection.Result[T], error) {
	return s.List(ctx, identity, Query{Refresh: true}, parts...)
}

// Find returns one record from identity's snapshot.
func (s *Service[T]) Find(ctx context.Context, identity, id string, parts ...string) (T, error) {
	view := s.View(ctx, identity, parts...)
	if err := view.EnsureLoaded(ctx); err != nil && !view.Loaded() {
		var zero T
		return zero, err
	}
	rec, ok := view.Find(id)
	if !ok {
		return rec, fmt.Errorf("%s %s: %w", s.name, id, xerrors.ErrNotFound)
	}
	return rec, nil
}

// Mutate runs a two-phase mutation against identity's view.
func (s *Service[T]) Mutate(ctx context.Context, identity string, apply func([]T) []T, commit func(ctx context.Context) error, parts ...string) error {
	view := s.View(ctx, identity, parts...)
	return view.Mutate(ctx, apply, commit)
}

// ApplySaved loads a saved view's criteria into identity's view and
// renders the first page.
func (s *Service[T]) ApplySaved(ctx context.Context, identity string, sv *savedview.SavedView, parts ...string) (collection.Result[T], error) {
	if sv.Collection != s.name {
		return collection.Result[T]{}, fmt.Errorf("saved view belongs to %s: %w", sv.Collection, xerrors.ErrInvalidInput)
	}
	view := s.View(ctx, identity, parts...)
	view.Apply(sv.Filter, sv.Sort, s.clampPageSize(sv.PageSize))

	err := view.EnsureLoaded(ctx)
	if errors.Is(err, collection.ErrStale) {
		err = nil
	}
	return view.Current(), err
}

// Drop discards one of identity's views.
func (s *Service[T]) Drop(identity string, parts ...string) {
	s.registry.Drop(collection.Key(identity, parts...))
}

// Records loads identity's view when needed and returns its whole snapshot.
func (s *Service[T]) Records(ctx context.Context, identity string, parts ...string) ([]T, error) {
	view := s.View(ctx, identity, parts...)
	if err := view.EnsureLoaded(ctx); err != nil && !view.Loaded() {
		return nil, err
	}
	return view.Records(), nil
}

// DropSession discards every view identity holds.
func (s *Service[T]) DropSession(identity string) int {
	return s.registry.DropSession(identity)
}

// Sweep evicts idle views.
func (s *Service[T]) Sweep() int {
	return s.registry.Sweep()
}

func (s *Service[T]) apply(view *collection.View[T], q Query) {
	filter, sort, perPage := view.Criteria()
	changed := false

	if q.Search != nil || q.Status != nil {
		if q.Search != nil {
			filter.SearchTerm = *q.Search
		}
		if q.Status != nil {
			filter.StatusFilter = *q.Status
		}
		changed = view.SetFilter(filter) || changed
	}

	if q.Sort != nil || q.Dir != nil || q.Tie != nil {
		if q.Sort != nil && collection.SortField(*q.Sort) != sort.Field {
			sort.Field = collection.SortField(*q.Sort)
			sort.Direction = ""
		}
		if q.Dir != nil {
			sort.Direction = collection.SortDirection(*q.Dir)
		}
		if q.Tie != nil {
			sort.TieBreak = collection.SortField(*q.Tie)
		}
		changed = view.SetSort(sort) || changed
	}

	if q.Limit > 0 {
		if limit := s.clampPageSize(q.Limit); limit != perPage {
			view.SetPageSize(limit)
			changed = true
		}
	}

	if !changed && q.Page > 0 {
		view.SetPage(q.Page)
	}
}

func (s *Service[T]) clampPageSize(n int) int {
	if n > s.maxPageSize {
		return s.maxPageSize
	}
	return n
}

func (s *Service[T]) applyDefault(ctx context.Context, identity string, view *collection.View[T]) {
	sv, err := s.defaults.FindDefault(ctx, identity, s.name)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("failed to load default saved view", zap.Error(err))
		}
		return
	}
	view.Apply(sv.Filter, sv.Sort, s.clampPageSize(sv.PageSize))
}
