package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errNetwork = errors.New("dial tcp: connection refused")

type fakeSource struct {
	mu      sync.Mutex
	records []item
	err     error
	calls   int
}

func (f *fakeSource) fetch(ctx context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]item, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeSource) set(records []item, err error) {
	f.mu.Lock()
	f.records, f.err = records, err
	f.mu.Unlock()
}

func TestViewLifecycle(t *testing.T) {
	src := &fakeSource{records: numbered(3)}
	v := NewView[item](src.fetch, Options{Name: "agents"})
	require.Equal(t, StateIdle, v.State())

	require.NoError(t, v.Refresh(context.Background()))
	res := v.Current()
	require.Equal(t, StateReady, res.State)
	require.Len(t, res.Items, 3)
	require.Nil(t, res.Error)
	require.False(t, res.Stale)
}

func TestViewErrorKeepsPriorSnapshot(t *testing.T) {
	src := &fakeSource{records: numbered(4)}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))

	src.set(nil, errNetwork)
	err := v.Refresh(context.Background())
	require.ErrorIs(t, err, errNetwork)

	res := v.Current()
	require.Equal(t, StateError, res.State)
	require.Len(t, res.Items, 4)
	require.ErrorIs(t, res.Error, errNetwork)
	require.True(t, res.Stale)

	src.set(numbered(2), nil)
	require.NoError(t, v.Refresh(context.Background()))
	res = v.Current()
	require.Equal(t, StateReady, res.State)
	require.Len(t, res.Items, 2)
	require.Nil(t, res.Error)
}

func TestViewFilterChangeResetsPage(t *testing.T) {
	src := &fakeSource{records: numbered(35)}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))

	v.SetPage(3)
	require.Equal(t, 3, v.Current().Page.CurrentPage)

	require.True(t, v.SetFilter(FilterCriteria{SearchTerm: "rec"}))
	require.Equal(t, 1, v.Current().Page.CurrentPage)

	v.SetPage(2)
	require.False(t, v.SetFilter(FilterCriteria{SearchTerm: " rec "}), "normalized criteria are unchanged")
	require.Equal(t, 2, v.Current().Page.CurrentPage)

	require.True(t, v.SetSort(SortCriteria{Field: SortByName, Direction: Descending}))
	require.Equal(t, 1, v.Current().Page.CurrentPage)
}

func TestViewKeepsClampedPage(t *testing.T) {
	src := &fakeSource{records: numbered(23)}
	v := NewView[item](src.fetch, Options{PageSize: 10})
	require.NoError(t, v.Refresh(context.Background()))

	v.SetPage(5)
	res := v.Current()
	require.Equal(t, 3, res.Page.CurrentPage)
	require.Len(t, res.Items, 3)

	src.set(numbered(25), nil)
	require.NoError(t, v.Refresh(context.Background()))
	require.Equal(t, 3, v.Current().Page.CurrentPage)
}

func TestViewSortFallsBackToDefault(t *testing.T) {
	v := NewView[item](nil, Options{
		DefaultSort: SortCriteria{Field: SortByDate, Direction: Descending},
		SortFields:  []SortField{SortByName, SortByDate},
	})
	v.SetSort(SortCriteria{Field: "bogus", Direction: "sideways"})
	res := v.Current()
	require.Equal(t, SortByDate, res.Sort.Field)
	require.Equal(t, Ascending, res.Sort.Direction)

	v.SetSort(SortCriteria{Field: "bogus"})
	require.Equal(t, Descending, v.Current().Sort.Direction)
}

func TestViewDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	call := 0

	fetch := func(ctx context.Context) ([]item, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			// Ignores cancellation so the stale payload actually arrives.
			return numbered(1), nil
		}
		return numbered(5), nil
	}

	v := NewView[item](fetch, Options{})
	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background()) }()
	<-started

	require.NoError(t, v.Refresh(context.Background()))
	close(release)
	require.ErrorIs(t, <-done, ErrStale)

	res := v.Current()
	require.Equal(t, StateReady, res.State)
	require.Len(t, res.Items, 5)
}

func TestViewRefreshCancelsPreviousFetch(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	first := true
	var mu sync.Mutex

	fetch := func(ctx context.Context) ([]item, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return numbered(2), nil
	}

	v := NewView[item](fetch, Options{})
	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background()) }()
	<-started

	require.NoError(t, v.Refresh(context.Background()))
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("previous fetch was not cancelled")
	}
	require.ErrorIs(t, <-done, ErrStale)
	require.Equal(t, StateReady, v.State())
}

func TestViewTimeout(t *testing.T) {
	fetch := func(ctx context.Context) ([]item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	v := NewView[item](fetch, Options{Timeout: 20 * time.Millisecond})
	err := v.Refresh(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, StateError, v.State())
}

func TestViewSetSourceResets(t *testing.T) {
	src := &fakeSource{records: numbered(30)}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))
	v.SetFilter(FilterCriteria{SearchTerm: "rec"})
	v.SetPage(2)

	other := &fakeSource{records: numbered(1)}
	v.SetSource(other.fetch)

	res := v.Current()
	require.Equal(t, StateIdle, res.State)
	require.Empty(t, res.Items)
	require.Equal(t, FilterCriteria{}, res.Filter)
	require.Equal(t, 1, res.Page.CurrentPage)
	require.False(t, v.Loaded())

	require.NoError(t, v.EnsureLoaded(context.Background()))
	require.Len(t, v.Current().Items, 1)
	require.Equal(t, 1, other.calls)

	require.NoError(t, v.EnsureLoaded(context.Background()))
	require.Equal(t, 1, other.calls, "loaded views are not refetched")
}

func TestViewFindReplaceRemove(t *testing.T) {
	src := &fakeSource{records: []item{{id: "1", name: "a"}, {id: "2", name: "b"}}}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))

	_, ok := v.Find("9")
	require.False(t, ok)

	require.True(t, v.Replace(item{id: "2", name: "bee"}))
	got, ok := v.Find("2")
	require.True(t, ok)
	require.Equal(t, "bee", got.name)

	require.True(t, v.Remove("1"))
	require.False(t, v.Remove("1"))
	require.Equal(t, []string{"2"}, ids(v.Current().Items))
}

func TestViewMutateRefetches(t *testing.T) {
	src := &fakeSource{records: []item{{id: "1", name: "a"}, {id: "2", name: "b"}}}
	var events []Event
	v := NewView[item](src.fetch, Options{Name: "properties", OnRefresh: func(e Event) { events = append(events, e) }})
	require.NoError(t, v.Refresh(context.Background()))

	err := v.Mutate(context.Background(), Removing[item]("1"), func(ctx context.Context) error {
		_, found := v.Find("1")
		require.False(t, found, "optimistic removal is visible before commit")
		// The server canonicalizes the other record while deleting.
		src.set([]item{{id: "2", name: "B"}}, nil)
		return nil
	})
	require.NoError(t, err)

	res := v.Current()
	require.Equal(t, StateReady, res.State)
	require.Equal(t, []string{"B"}, names(res.Items))
	require.Len(t, events, 2)
	require.Equal(t, "properties", events[1].Collection)
	require.Equal(t, 1, events[1].TotalItems)
}

func TestViewMutateFailureRestores(t *testing.T) {
	src := &fakeSource{records: []item{{id: "1", name: "a"}, {id: "2", name: "b"}}}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))

	rejected := errors.New("upstream said no")
	src.set(nil, errNetwork)
	err := v.Mutate(context.Background(), Replacing(item{id: "1", name: "changed"}), func(context.Context) error {
		return rejected
	})
	require.ErrorIs(t, err, rejected)

	got, ok := v.Find("1")
	require.True(t, ok)
	require.Equal(t, "a", got.name)
	require.Equal(t, StateError, v.State())
}

func TestViewMutatePrepend(t *testing.T) {
	src := &fakeSource{records: []item{{id: "1"}}}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))

	err := v.Mutate(context.Background(), Prepending(item{id: "new"}), func(context.Context) error {
		require.Equal(t, 2, v.Current().Page.TotalItems)
		src.set([]item{{id: "new"}, {id: "1"}}, nil)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, v.Current().Page.TotalItems)
}

func TestViewApply(t *testing.T) {
	src := &fakeSource{records: numbered(40)}
	v := NewView[item](src.fetch, Options{})
	require.NoError(t, v.Refresh(context.Background()))
	v.SetPage(3)

	v.Apply(FilterCriteria{StatusFilter: "all"}, SortCriteria{Field: SortByName, Direction: Descending}, 25)
	res := v.Current()
	require.Equal(t, 1, res.Page.CurrentPage)
	require.Equal(t, 25, res.Page.ItemsPerPage)
	require.Equal(t, "", res.Filter.StatusFilter)
	require.Equal(t, Descending, res.Sort.Direction)
}

func TestViewConcurrentAccess(t *testing.T) {
	src := &fakeSource{records: numbered(50)}
	v := NewView[item](src.fetch, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = v.Refresh(context.Background())
			v.SetPage(i % 6)
			v.SetFilter(FilterCriteria{SearchTerm: "rec"})
			_ = v.Current()
		}(i)
	}
	wg.Wait()

	require.Equal(t, StateReady, v.State())
	require.Equal(t, 50, v.Current().Page.TotalItems)
}

func TestViewRecordsIsACopy(t *testing.T) {
	src := &fakeSource{records: numbered(3)}
	v := NewView[item](src.fetch, Options{Name: "agents"})
	require.Empty(t, v.Records())
	require.NoError(t, v.Refresh(context.Background()))

	recs := v.Records()
	require.Len(t, recs, 3)
	recs[0].name = "changed"
	got, ok := v.Find(recs[0].id)
	require.True(t, ok)
	require.NotEqual(t, "changed", got.name)
}

func TestViewCriteria(t *testing.T) {
	v := NewView[item]((&fakeSource{}).fetch, Options{
		PageSize:    7,
		DefaultSort: SortCriteria{Field: SortByName, Direction: Descending},
	})
	f, s, n := v.Criteria()
	require.Equal(t, FilterCriteria{}, f)
	require.Equal(t, SortCriteria{Field: SortByName, Direction: Descending}, s)
	require.Equal(t, 7, n)
}
