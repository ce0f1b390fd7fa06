// Package store implements the optimistic resource store: a cached,
// in-memory collection of entities supporting create/update/delete with
// immediate local visibility, rollback on remote failure, and cross-instance
// refresh through a shared cache and broadcast bus.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
	"github.com/coachkit/coachkit/internal/metrics"
)

// Config wires a Store to its shared collaborators. Cache, Bus, Metrics,
// and OnRefresh are all optional; a Store with none of them is a plain
// local collection with rollback semantics.
type Config struct {
	// Cache is the process-wide entity cache written through on every
	// state change and adopted on refresh triggers.
	Cache cache.Store

	// CacheKey overrides the cache key (defaults to the resource name).
	CacheKey string

	// TTL bounds cache freshness for Fetch and refresh adoption.
	TTL time.Duration

	// Bus is the refresh bus shared with other instances of this resource.
	Bus *broadcast.Bus

	// OnRefresh is invoked after this instance adopts another instance's
	// write. UI layers hang re-renders off it.
	OnRefresh func(trigger uint64)

	Logger  zerolog.Logger
	Metrics *metrics.Set
}

// Store holds one resource collection with optimistic mutation semantics.
// All exported methods are safe for concurrent use; remote calls run
// outside the lock, so overlapping mutations interleave at their own risk
// (rollback snapshots are taken at call time, last writer wins).
type Store[T Entity[T]] struct {
	resource string
	key      string
	ttl      time.Duration

	mu      sync.Mutex
	items   []T
	fetched bool

	cache     cache.Store
	bus       *broadcast.Bus
	unsub     func()
	onRefresh func(uint64)
	log       zerolog.Logger
	metrics   *metrics.Set
}

// New creates a store for the named resource and subscribes it to the
// refresh bus. Callers must Close the store when done with it.
func New[T Entity[T]](resource string, cfg Config) *Store[T] {
	key := cfg.CacheKey
	if key == "" {
		key = cache.KeyFor(resource, nil)
	}

	s := &Store[T]{
		resource:  resource,
		key:       key,
		ttl:       cfg.TTL,
		items:     []T{},
		cache:     cfg.Cache,
		bus:       cfg.Bus,
		onRefresh: cfg.OnRefresh,
		log:       cfg.Logger.With().Str("resource", resource).Logger(),
		metrics:   cfg.Metrics,
	}

	if s.bus != nil {
		s.unsub = s.bus.Subscribe(s.handleRefresh)
	}
	return s
}

// Close deregisters the store from the refresh bus. The store remains
// usable as a local collection afterwards.
func (s *Store[T]) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// Fetch returns the collection, adopting a fresh cache entry when force is
// false, otherwise calling list. A nil server collection is normalized to
// empty so local state never loses its collection type.
func (s *Store[T]) Fetch(ctx context.Context, force bool, list func(context.Context) ([]T, error)) ([]T, error) {
	if !force {
		if items, ok := s.readCache(); ok {
			s.metrics.CacheRead(s.resource, true)
			s.mu.Lock()
			s.items = items
			s.fetched = true
			s.mu.Unlock()
			s.log.Debug().Int("count", len(items)).Msg("fetch served from cache")
			return cloneSlice(items), nil
		}
		s.metrics.CacheRead(s.resource, false)
	}

	items, err := list(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	s.mu.Lock()
	s.items = cloneSlice(items)
	s.fetched = true
	s.writeThroughLocked()
	s.mu.Unlock()

	s.log.Debug().Int("count", len(items)).Bool("force", force).Msg("fetched from remote")
	return items, nil
}

// Fetched reports whether the store has been populated at least once,
// from cache or remote.
func (s *Store[T]) Fetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}

// Items returns a snapshot copy of the collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.items)
}

// GetByID returns the entity with the given id, if present locally.
func (s *Store[T]) GetByID(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := indexByID(s.items, id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// Filter returns the entities matching pred, in collection order.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []T
	for _, item := range s.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Count returns the collection size.
func (s *Store[T]) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// handleRefresh adopts the current cache entry after another instance's
// mutation. No network call: the writer already refreshed the cache.
func (s *Store[T]) handleRefresh(trigger uint64) {
	s.metrics.Refresh(s.resource)
	if items, ok := s.readCache(); ok {
		s.mu.Lock()
		s.items = items
		s.fetched = true
		s.mu.Unlock()
	}
	if s.onRefresh != nil {
		s.onRefresh(trigger)
	}
}

// readCache returns a fresh typed snapshot from the shared cache.
func (s *Store[T]) readCache() ([]T, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, ok := s.cache.Read(s.key, s.ttl)
	if !ok || entry == nil {
		return nil, false
	}
	items, ok := entry.Data.([]T)
	if !ok {
		return nil, false
	}
	return cloneSlice(items), true
}

// writeThroughLocked mirrors the collection into the shared cache.
// Callers must hold s.mu.
func (s *Store[T]) writeThroughLocked() {
	if s.cache == nil {
		return
	}
	s.cache.Write(s.key, cloneSlice(s.items))
}

// publish signals every other live instance to re-read the cache.
func (s *Store[T]) publish() {
	if s.bus != nil {
		s.bus.Publish()
	}
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func indexByID[T Entity[T]](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
