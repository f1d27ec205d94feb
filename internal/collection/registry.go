package collection

import (
	"strings"
	"sync"
	"time"
)

const keySep = "|"

// Key builds a registry key scoped to a session, e.g. Key(session, parentID).
func Key(session string, parts ...string) string {
	if len(parts) == 0 {
		return session
	}
	return session + keySep + strings.Join(parts, keySep)
}

// SplitKey reverses Key.
func SplitKey(key string) (session string, parts []string) {
	session, rest, ok := strings.Cut(key, keySep)
	if !ok {
		return session, nil
	}
	return session, strings.Split(rest, keySep)
}

// Registry keeps one view per key and evicts views left idle longer than
// the configured TTL.
type Registry[T Record] struct {
	mu        sync.Mutex
	views     map[string]*View[T]
	newView   func(key string) *View[T]
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry returns a registry building views with newView on first use.
// A non-positive idleTTL disables eviction.
func NewRegistry[T Record](idleTTL time.Duration, newView func(key string) *View[T]) *Registry[T] {
	return &Registry[T]{
		views:   make(map[string]*View[T]),
		newView: newView,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Get returns the view for key, creating it when absent. created reports
// whether this call built the view.
func (r *Registry[T]) Get(key string) (v *View[T], created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maybeSweepLocked()
	if v, ok := r.views[key]; ok {
		return v, false
	}
	v = r.newView(key)
	r.views[key] = v
	return v, true
}

// Peek returns the view for key without creating one.
func (r *Registry[T]) Peek(key string) (*View[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[key]
	return v, ok
}

// Drop closes and removes the view for key.
func (r *Registry[T]) Drop(key string) {
	r.mu.Lock()
	v, ok := r.views[key]
	delete(r.views, key)
	r.mu.Unlock()
	if ok {
		v.Close()
	}
}

// DropSession removes every view scoped to session.
func (r *Registry[T]) DropSession(session string) int {
	prefix := session + keySep
	var dropped []*View[T]

	r.mu.Lock()
	for k, v := range r.views {
		if k == session || strings.HasPrefix(k, prefix) {
			dropped = append(dropped, v)
			delete(r.views, k)
		}
	}
	r.mu.Unlock()

	for _, v := range dropped {
		v.Close()
	}
	return len(dropped)
}

// Sweep evicts idle views and returns how many were removed.
func (r *Registry[T]) Sweep() int {
	r.mu.Lock()
	dropped := r.sweepLocked()
	r.mu.Unlock()
	for _, v := range dropped {
		v.Close()
	}
	return len(dropped)
}

// Len returns the number of live views.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry[T]) maybeSweepLocked() {
	if r.idleTTL <= 0 || r.now().Sub(r.lastSweep) < r.idleTTL/2 {
		return
	}
	for _, v := range r.sweepLocked() {
		go v.Close()
	}
}

func (r *Registry[T]) sweepLocked() []*View[T] {
	now := r.now()
	r.lastSweep = now
	if r.idleTTL <= 0 {
		return nil
	}
	var dropped []*View[T]
	for k, v := range r.views {
		if now.Sub(v.LastUsed()) > r.idleTTL {
			dropped = append(dropped, v)
			delete(r.views, k)
		}
	}
	return dropped
}
