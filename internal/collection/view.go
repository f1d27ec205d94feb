package collection

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchState is the lifecycle state of a view's snapshot.
type FetchState string

const (
	StateIdle    FetchState = "idle"
	StateLoading FetchState = "loading"
	StateReady   FetchState = "ready"
	StateError   FetchState = "error"
)

// ErrStale is returned by Refresh when a newer refresh or a source change
// superseded the fetch. The response was discarded.
var ErrStale = errors.New("collection: response superseded by a newer request")

// Fetcher loads a full collection from the data source.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Event is published after every completed refresh.
type Event struct {
	Session    string     `json:"-"`
	Collection string     `json:"collection"`
	State      FetchState `json:"state"`
	TotalItems int        `json:"total_items"`
	Generation uint64     `json:"generation"`
	Error      string     `json:"error,omitempty"`
}

// Options configures a View.
type Options struct {
	Name        string
	PageSize    int
	Timeout     time.Duration
	DefaultSort SortCriteria
	// SortFields lists the accepted sort and tie-break fields. Empty accepts any.
	SortFields []SortField
	Logger     *zap.Logger
	OnRefresh  func(Event)
}

// Result is the rendered output of a view.
type Result[T any] struct {
	Items      []T            `json:"items"`
	Page       PageState      `json:"page"`
	State      FetchState     `json:"state"`
	Error      error          `json:"-"`
	Stale      bool           `json:"stale"`
	Filter     FilterCriteria `json:"filter"`
	Sort       SortCriteria   `json:"sort"`
	Generation uint64         `json:"generation"`
}

// View owns one collection snapshot and the criteria applied to it.
// All methods are safe for concurrent use.
type View[T Record] struct {
	mu sync.Mutex

	opts   Options
	logger *zap.Logger
	fetch  Fetcher[T]

	state    FetchState
	snapshot []T
	loaded   bool
	err      error

	filter  FilterCriteria
	sort    SortCriteria
	page    int
	perPage int

	generation uint64
	cancel     context.CancelFunc
	lastUsed   time.Time
}

// NewView returns an idle view reading from fetch.
func NewView[T Record](fetch Fetcher[T], opts Options) *View[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Name != "" {
		logger = logger.With(zap.String("collection", opts.Name))
	}
	v := &View[T]{
		opts:     opts,
		logger:   logger,
		fetch:    fetch,
		state:    StateIdle,
		lastUsed: time.Now(),
	}
	v.resetCriteriaLocked()
	return v
}

func (v *View[T]) resetCriteriaLocked() {
	v.filter = FilterCriteria{}
	v.sort = v.normalizeSort(v.opts.DefaultSort)
	v.page = 1
	v.perPage = v.opts.PageSize
}

// Name returns the collection name the view was created with.
func (v *View[T]) Name() string { return v.opts.Name }

// State reports the current fetch state.
func (v *View[T]) State() FetchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Loaded reports whether at least one fetch has completed successfully
// since the last source change.
func (v *View[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// LastUsed is the last time the view was read or modified.
func (v *View[T]) LastUsed() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUsed
}

// Refresh fetches the collection and replaces the snapshot. A refresh
// started while another is in flight cancels the older one; the older
// response is then discarded and its caller receives ErrStale.
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	gen := v.generation
	fetch := v.fetch
	prev := v.state

	var fctx context.Context
	var cancel context.CancelFunc
	if v.opts.Timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, v.opts.Timeout)
	} else {
		fctx, cancel = context.WithCancel(ctx)
	}
	v.cancel = cancel
	v.state = StateLoading
	v.lastUsed = time.Now()
	v.mu.Unlock()

	records, err := fetch(fctx)
	cancel()

	v.mu.Lock()
	if gen != v.generation {
		v.mu.Unlock()
		v.logger.Debug("discarding superseded response", zap.Uint64("generation", gen))
		return ErrStale
	}
	v.cancel = nil

	// The caller went away; leave the view as it was.
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		if prev == StateLoading {
			prev = StateIdle
			if v.loaded {
				prev = StateReady
			}
		}
		v.state = prev
		v.mu.Unlock()
		return err
	}

	ev := Event{Collection: v.opts.Name, Generation: gen}
	if err != nil {
		v.state = StateError
		v.err = err
		ev.State = StateError
		ev.Error = err.Error()
		ev.TotalItems = len(v.snapshot)
	} else {
		v.snapshot = slices.Clone(records)
		v.loaded = true
		v.state = StateReady
		v.err = nil
		ev.State = StateReady
		ev.TotalItems = len(v.snapshot)
	}
	hook := v.opts.OnRefresh
	v.mu.Unlock()

	if err != nil {
		v.logger.Warn("collection refresh failed", zap.Uint64("generation", gen), zap.Error(err))
	} else {
		v.logger.Debug("collection refreshed", zap.Uint64("generation", gen), zap.Int("total", ev.TotalItems))
	}
	if hook != nil {
		hook(ev)
	}
	return err
}

// EnsureLoaded refreshes the view unless it already holds a snapshot or
// a fetch is already in flight.
func (v *View[T]) EnsureLoaded(ctx context.Context) error {
	v.mu.Lock()
	need := !v.loaded && v.state != StateLoading
	v.mu.Unlock()
	if !need {
		return nil
	}
	err := v.Refresh(ctx)
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// Criteria returns the filter, sort and page size currently applied.
func (v *View[T]) Criteria() (FilterCriteria, SortCriteria, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter, v.sort, v.perPage
}

// SetFilter replaces the filter criteria. It reports whether they changed;
// a change resets the current page to 1.
func (v *View[T]) SetFilter(c FilterCriteria) bool {
	c = c.Normalize()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
	if c == v.filter {
		return false
	}
	v.filter = c
	v.page = 1
	return true
}

// SetSort replaces the sort criteria. Unknown fields fall back to the
// default sort. It reports whether the criteria changed; a change resets
// the current page to 1.
func (v *View[T]) SetSort(c SortCriteria) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
	c = v.normalizeSort(c)
	if c == v.sort {
		return false
	}
	v.sort = c
	v.page = 1
	return true
}

// SetPage moves to page n. Out of range values are clamped when rendered.
func (v *View[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.mu.Lock()
	v.page = n
	v.lastUsed = time.Now()
	v.mu.Unlock()
}

// SetPageSize changes the number of items per page and returns to page 1.
func (v *View[T]) SetPageSize(n int) {
	if n <= 0 {
		n = v.opts.PageSize
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
	if n == v.perPage {
		return
	}
	v.perPage = n
	v.page = 1
}

// Apply sets filter, sort and page size at once, as when loading a saved view.
func (v *View[T]) Apply(f FilterCriteria, s SortCriteria, pageSize int) {
	if pageSize <= 0 {
		pageSize = v.opts.PageSize
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f.Normalize()
	v.sort = v.normalizeSort(s)
	v.perPage = pageSize
	v.page = 1
	v.lastUsed = time.Now()
}

// SetSource switches the view to a new data source. Filter, sort,
// pagination and the snapshot are reset and any in-flight fetch for the
// old source is cancelled and its response ignored.
func (v *View[T]) SetSource(fetch Fetcher[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
	v.fetch = fetch
	v.snapshot = nil
	v.loaded = false
	v.err = nil
	v.state = StateIdle
	v.resetCriteriaLocked()
	v.lastUsed = time.Now()
}

// Close cancels any in-flight fetch. Later responses are discarded.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
}

// Current renders the visible page: the snapshot filtered, sorted and
// paginated with the current criteria. The page is clamped and the
// clamped value is kept.
func (v *View[T]) Current() Result[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()

	filtered := Filter(v.snapshot, v.filter)
	sorted := Sort(filtered, v.sort)
	p := Paginate(sorted, PageState{CurrentPage: v.page, ItemsPerPage: v.perPage})
	v.page = p.State.CurrentPage

	return Result[T]{
		Items:      p.Items,
		Page:       p.State,
		State:      v.state,
		Error:      v.err,
		Stale:      v.state == StateError && v.loaded,
		Filter:     v.filter,
		Sort:       v.sort,
		Generation: v.generation,
	}
}

// Records returns a copy of the whole snapshot, unfiltered.
func (v *View[T]) Records() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUsed = time.Now()
	return slices.Clone(v.snapshot)
}

// Find returns the snapshot record with the given id.
func (v *View[T]) Find(id string) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.snapshot {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the snapshot record sharing rec's id. It reports whether
// such a record existed.
func (v *View[T]) Replace(rec T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexLocked(rec.RecordID())
	if i < 0 {
		return false
	}
	next := slices.Clone(v.snapshot)
	next[i] = rec
	v.snapshot = next
	return true
}

// Remove drops the snapshot record with the given id.
func (v *View[T]) Remove(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexLocked(id)
	if i < 0 {
		return false
	}
	v.snapshot = slices.Delete(slices.Clone(v.snapshot), i, i+1)
	return true
}

func (v *View[T]) indexLocked(id string) int {
	return slices.IndexFunc(v.snapshot, func(r T) bool { return r.RecordID() == id })
}

// Mutate runs a two-phase mutation. apply reshapes a copy of the snapshot
// immediately; commit performs the remote change. The view is then
// refreshed whatever the outcome so it converges on the source's state.
// When commit fails the pre-mutation snapshot is restored, unless a newer
// fetch has already replaced it. Only commit errors are returned; refresh
// failures are visible through Current.
func (v *View[T]) Mutate(ctx context.Context, apply func([]T) []T, commit func(ctx context.Context) error) error {
	v.mu.Lock()
	before := v.snapshot
	gen := v.generation
	if apply != nil && v.loaded {
		v.snapshot = apply(slices.Clone(v.snapshot))
	}
	v.mu.Unlock()

	commitErr := commit(ctx)
	if commitErr != nil {
		v.mu.Lock()
		if gen == v.generation {
			v.snapshot = before
		}
		v.mu.Unlock()
		v.logger.Info("mutation rejected, restoring snapshot", zap.Error(commitErr))
	}

	if err := v.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		v.logger.Warn("refresh after mutation failed", zap.Error(err))
	}
	return commitErr
}

func (v *View[T]) normalizeSort(c SortCriteria) SortCriteria {
	def := v.opts.DefaultSort
	if def.Field == "" {
		def.Field = SortByDate
	}
	if def.Direction != Ascending && def.Direction != Descending {
		def.Direction = Ascending
	}

	if c.Field == "" || !v.allowed(c.Field) {
		c.Field = def.Field
		if c.Direction == "" {
			c.Direction = def.Direction
		}
		if c.TieBreak == "" {
			c.TieBreak = def.TieBreak
		}
	}
	if c.Direction != Ascending && c.Direction != Descending {
		c.Direction = Ascending
	}
	if c.TieBreak != "" && (!v.allowed(c.TieBreak) || c.TieBreak == c.Field) {
		c.TieBreak = ""
	}
	return c
}

func (v *View[T]) allowed(f SortField) bool {
	if len(v.opts.SortFields) == 0 {
		return true
	}
	return slices.Contains(v.opts.SortFields, f)
}

// Replacing returns an apply function for Mutate that swaps in rec.
func Replacing[T Record](rec T) func([]T) []T {
	return func(records []T) []T {
		for i := range records {
			if records[i].RecordID() == rec.RecordID() {
				records[i] = rec
			}
		}
		return records
	}
}

// Removing returns an apply function for Mutate that drops id.
func Removing[T Record](id string) func([]T) []T {
	return func(records []T) []T {
		return slices.DeleteFunc(records, func(r T) bool { return r.RecordID() == id })
	}
}

// Prepending returns an apply function for Mutate that inserts rec first.
func Prepending[T Record](rec T) func([]T) []T {
	return func(records []T) []T {
		return append([]T{rec}, records...)
	}
}
