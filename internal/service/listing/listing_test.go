package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/savedview"
	xerrors "estate-portal/internal/pkg/errors"

	"github.com/stretchr/testify/require"
)

type rec struct {
	id   string
	name string
}

func (r rec) RecordID() string                            { return r.id }
func (r rec) DisplayName() string                         { return r.name }
func (r rec) Created() (time.Time, bool)                  { return time.Time{}, false }
func (r rec) Metric(collection.SortField) (float64, bool) { return 0, false }
func (r rec) Status() string                              { return "" }
func (r rec) Category() string                            { return "" }

func records(n int) []rec {
	out := make([]rec, n)
	for i := range out {
		out[i] = rec{id: fmt.Sprintf("r%02d", i+1), name: fmt.Sprintf("Name %02d", i+1)}
	}
	return out
}

type source struct {
	mu    sync.Mutex
	data  []rec
	err   error
	calls int
	parts [][]string
}

func (s *source) build(parts []string) collection.Fetcher[rec] {
	s.mu.Lock()
	s.parts = append(s.parts, parts)
	s.mu.Unlock()
	return func(context.Context) ([]rec, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls++
		if s.err != nil {
			return nil, s.err
		}
		return append([]rec(nil), s.data...), nil
	}
}

type defaults map[string]*savedview.SavedView

func (d defaults) FindDefault(_ context.Context, owner, coll string) (*savedview.SavedView, error) {
	if sv, ok := d[owner+"/"+coll]; ok {
		return sv, nil
	}
	return nil, xerrors.ErrNotFound
}

func ptr(s string) *string { return &s }

func newService(src *source, cfg Config) *Service[rec] {
	if cfg.Name == "" {
		cfg.Name = "agents"
	}
	cfg.DefaultSort = collection.SortCriteria{Field: collection.SortByName, Direction: collection.Ascending}
	return NewService(cfg, src.build)
}

func TestListLoadsOnceAndNavigates(t *testing.T) {
	src := &source{data: records(25)}
	svc := newService(src, Config{PageSize: 10, MaxPageSize: 50})
	ctx := context.Background()

	res, err := svc.List(ctx, "s1", Query{})
	require.NoError(t, err)
	require.Equal(t, collection.StateReady, res.State)
	require.Equal(t, 25, res.Page.TotalItems)
	require.Equal(t, 3, res.Page.TotalPages)
	require.Len(t, res.Items, 10)

	res, err = svc.List(ctx, "s1", Query{Page: 3})
	require.NoError(t, err)
	require.Equal(t, 3, res.Page.CurrentPage)
	require.Len(t, res.Items, 5)
	require.Equal(t, 1, src.calls)
}

func TestFilterChangeIgnoresRequestedPage(t *testing.T) {
	src := &source{data: records(25)}
	svc := newService(src, Config{PageSize: 10})
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", Query{Page: 2})
	require.NoError(t, err)

	res, err := svc.List(ctx, "s1", Query{Search: ptr("name 0"), Page: 2})
	require.NoError(t, err)
	require.Equal(t, 1, res.Page.CurrentPage)
	require.Equal(t, 9, res.Page.TotalItems)

	// Same criteria again: the page is honoured.
	res, err = svc.List(ctx, "s1", Query{Search: ptr("name 0"), Page: 5})
	require.NoError(t, err)
	require.Equal(t, 1, res.Page.CurrentPage, "clamped to the only page")
}

func TestLimitIsClamped(t *testing.T) {
	src := &source{data: records(40)}
	svc := newService(src, Config{PageSize: 10, MaxPageSize: 20})

	res, err := svc.List(context.Background(), "s1", Query{Limit: 500})
	require.NoError(t, err)
	require.Equal(t, 20, res.Page.ItemsPerPage)
	require.Len(t, res.Items, 20)
}

func TestSortFieldChangeResetsDirection(t *testing.T) {
	src := &source{data: records(3)}
	svc := newService(src, Config{})
	ctx := context.Background()

	res, err := svc.List(ctx, "s1", Query{Sort: ptr("name"), Dir: ptr("desc")})
	require.NoError(t, err)
	require.Equal(t, "r03", res.Items[0].id)

	res, err = svc.List(ctx, "s1", Query{Sort: ptr("date")})
	require.NoError(t, err)
	require.Equal(t, collection.SortByDate, res.Sort.Field)
	require.Equal(t, collection.Ascending, res.Sort.Direction)
}

func TestSessionsAreIsolated(t *testing.T) {
	src := &source{data: records(5)}
	svc := newService(src, Config{})
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", Query{Search: ptr("01")})
	require.NoError(t, err)

	res, err := svc.List(ctx, "s2", Query{})
	require.NoError(t, err)
	require.Equal(t, 5, res.Page.TotalItems)
	require.Empty(t, res.Filter.SearchTerm)
}

func TestDefaultSavedViewAppliedOnCreation(t *testing.T) {
	src := &source{data: records(12)}
	svc := newService(src, Config{
		PageSize:    10,
		MaxPageSize: 50,
		Defaults: defaults{"s1/agents": {
			Collection: "agents",
			Filter:     collection.FilterCriteria{SearchTerm: "name 1"},
			Sort:       collection.SortCriteria{Field: collection.SortByName, Direction: collection.Descending},
			PageSize:   2,
		}},
	})

	res, err := svc.List(context.Background(), "s1", Query{})
	require.NoError(t, err)
	require.Equal(t, "name 1", res.Filter.SearchTerm)
	require.Equal(t, 2, res.Page.ItemsPerPage)
	require.Equal(t, 3, res.Page.TotalItems)
	require.Equal(t, "r12", res.Items[0].id)

	res, err = svc.List(context.Background(), "s2", Query{})
	require.NoError(t, err)
	require.Empty(t, res.Filter.SearchTerm)
}

func TestPublishCarriesIdentity(t *testing.T) {
	var mu sync.Mutex
	var events []collection.Event
	src := &source{data: records(4)}
	svc := newService(src, Config{Publish: func(e collection.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}})

	_, err := svc.Refresh(context.Background(), "sess-9")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	require.Equal(t, "sess-9", events[0].Session)
	require.Equal(t, "agents", events[0].Collection)
	require.Equal(t, 4, events[0].TotalItems)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	src := &source{data: records(4)}
	svc := newService(src, Config{})
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", Query{})
	require.NoError(t, err)

	src.mu.Lock()
	src.err = fmt.Errorf("%w: connection refused", xerrors.ErrNetwork)
	src.mu.Unlock()

	res, err := svc.Refresh(ctx, "s1")
	require.ErrorIs(t, err, xerrors.ErrNetwork)
	require.Equal(t, collection.StateError, res.State)
	require.True(t, res.Stale)
	require.Len(t, res.Items, 4)
}

func TestFind(t *testing.T) {
	src := &source{data: records(3)}
	svc := newService(src, Config{})
	ctx := context.Background()

	r, err := svc.Find(ctx, "s1", "r02")
	require.NoError(t, err)
	require.Equal(t, "Name 02", r.name)

	_, err = svc.Find(ctx, "s1", "nope")
	require.ErrorIs(t, err, xerrors.ErrNotFound)

	src.err = xerrors.ErrUnauthorized
	_, err = svc.Find(ctx, "s2", "r01")
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestPartsReachSource(t *testing.T) {
	src := &source{data: records(2)}
	svc := newService(src, Config{Name: "sub-properties"})

	_, err := svc.List(context.Background(), "s1", Query{}, "prop-7")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"prop-7"}}, src.parts)

	_, ok := svc.Peek("s1", "prop-7")
	require.True(t, ok)
	_, ok = svc.Peek("s1")
	require.False(t, ok)
}

func TestApplySaved(t *testing.T) {
	src := &source{data: records(8)}
	svc := newService(src, Config{PageSize: 5})
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", Query{Page: 2})
	require.NoError(t, err)

	res, err := svc.ApplySaved(ctx, "s1", &savedview.SavedView{
		Collection: "agents",
		Filter:     collection.FilterCriteria{StatusFilter: "ALL"},
		Sort:       collection.SortCriteria{Field: collection.SortByName, Direction: collection.Descending},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Page.CurrentPage)
	require.Equal(t, 5, res.Page.ItemsPerPage)
	require.Equal(t, "r08", res.Items[0].id)

	_, err = svc.ApplySaved(ctx, "s1", &savedview.SavedView{Collection: "schedules"})
	require.True(t, errors.Is(err, xerrors.ErrInvalidInput))
}

func TestGroupDropSession(t *testing.T) {
	a := newService(&source{data: records(1)}, Config{Name: "agents"})
	b := newService(&source{data: records(1)}, Config{Name: "referrals"})
	ctx := context.Background()

	_, _ = a.List(ctx, "s1", Query{})
	_, _ = b.List(ctx, "s1", Query{})
	_, _ = b.List(ctx, "s2", Query{})

	g := Group{a, b}
	require.Equal(t, 2, g.DropSession("s1"))
	_, ok := b.Peek("s2")
	require.True(t, ok)
}
