// Package cache implements the data cache that feeds the storefront:
// keyed subscriptions over remote fetchers with request deduplication,
// staleness tracking, and background refresh. An optional shared tier
// (redis) serves snapshots across processes for catalog data.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/storefront/internal/metrics"
)

// SharedCache is the optional cross-process snapshot tier.
type SharedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// FetchFunc loads the authoritative value for a subscription key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Store holds all cache entries and runs the background refresher.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	shared  SharedCache
	refresh time.Duration
	ctx     context.Context
	log     *slog.Logger
}

type entry struct {
	key       string
	staleTime time.Duration
	fetch     func(ctx context.Context) (any, error)
	purge     func(ctx context.Context) error

	data      any
	hasData   bool
	err       error
	loading   bool
	pending   bool
	fetchedAt time.Time
	listeners []func(any)
}

// NewStore creates a store. shared may be nil; refreshInterval is how
// often the background refresher scans for stale entries (0 disables).
func NewStore(shared SharedCache, refreshInterval time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		shared:  shared,
		refresh: refreshInterval,
		ctx:     context.Background(),
		log:     slog.Default(),
	}
}

// Start runs the background refresher until ctx is cancelled. Fetches
// issued after Start are bound to ctx.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if s.refresh <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.refresh)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshStale()
			}
		}
	}()
}

func (s *Store) refreshStale() {
	now := time.Now()

	s.mu.Lock()
	var stale []*entry
	for _, e := range s.entries {
		if e.loading {
			continue
		}
		if e.hasData && now.Sub(e.fetchedAt) < e.staleTime {
			continue
		}
		stale = append(stale, e)
	}
	s.mu.Unlock()

	for _, e := range stale {
		metrics.CacheStaleRefreshes.WithLabelValues(e.key).Inc()
		s.refetch(e, false)
	}
}

// refetch starts a fetch for e unless one is already in flight.
// Concurrent callers are deduplicated onto the in-flight request. With
// queue set, an arrival during an in-flight fetch runs a fresh fetch as
// soon as the current one completes instead of being dropped; an
// invalidation must not be satisfied by the fetch it raced.
func (s *Store) refetch(e *entry, queue bool) {
	s.mu.Lock()
	if e.loading {
		if queue {
			e.pending = true
		}
		s.mu.Unlock()
		return
	}
	e.loading = true
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		value, err := e.fetch(ctx)

		s.mu.Lock()
		e.loading = false
		rerun := e.pending
		e.pending = false
		if err != nil {
			// Keep the previous snapshot; the error is surfaced as a
			// read-only flag and never feeds a state change downstream.
			e.err = err
			s.mu.Unlock()

			metrics.CacheFetches.WithLabelValues(e.key, "failure").Inc()
			s.log.Warn("Cache fetch failed", "key", e.key, "error", err)
			if rerun {
				s.refetch(e, false)
			}
			return
		}

		e.data = value
		e.hasData = true
		e.err = nil
		e.fetchedAt = time.Now()
		listeners := make([]func(any), len(e.listeners))
		copy(listeners, e.listeners)
		s.mu.Unlock()

		metrics.CacheFetches.WithLabelValues(e.key, "success").Inc()
		for _, fn := range listeners {
			fn(value)
		}
		if rerun {
			s.refetch(e, false)
		}
	}()
}

// Subscription is a typed handle on a cache entry.
type Subscription[T any] struct {
	store *Store
	e     *entry
}

// Subscribe registers (or reuses) the entry for key and triggers its
// initial fetch. With Shared(), successful fetches are written to the
// store's shared tier and later fetches may be served from it.
func Subscribe[T any](s *Store, key string, fetch FetchFunc[T], staleTime time.Duration, opts ...Option) *Subscription[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	useShared := o.shared && s.shared != nil

	erased := func(ctx context.Context) (any, error) {
		if useShared {
			if raw, ok, err := s.shared.Get(ctx, key); err == nil && ok {
				var v T
				if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
					metrics.CacheSharedHits.WithLabelValues(key).Inc()
					return v, nil
				}
			}
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if useShared {
			if raw, jsonErr := json.Marshal(v); jsonErr == nil {
				if setErr := s.shared.Set(ctx, key, raw, staleTime); setErr != nil {
					s.log.Debug("Shared cache write failed", "key", key, "error", setErr)
				}
			}
		}
		return v, nil
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{
			key:       key,
			staleTime: staleTime,
			fetch:     erased,
		}
		if useShared {
			e.purge = func(ctx context.Context) error {
				return s.shared.Delete(ctx, key)
			}
		}
		s.entries[key] = e
	}
	s.mu.Unlock()

	sub := &Subscription[T]{store: s, e: e}
	if !ok {
		s.refetch(e, false)
	}
	return sub
}

// Option configures a subscription.
type Option func(*options)

type options struct {
	shared bool
}

// Shared enables the cross-process snapshot tier for this subscription.
func Shared() Option {
	return func(o *options) { o.shared = true }
}

// Data returns the current snapshot, or ok=false before the first
// successful fetch.
func (sub *Subscription[T]) Data() (T, bool) {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()

	var zero T
	if !sub.e.hasData {
		return zero, false
	}
	return sub.e.data.(T), true
}

// Err returns the error of the most recent failed fetch, cleared by the
// next successful one.
func (sub *Subscription[T]) Err() error {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	return sub.e.err
}

// IsLoading reports whether a fetch is in flight.
func (sub *Subscription[T]) IsLoading() bool {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	return sub.e.loading
}

// Refetch fetches the entry now. A no-op while a fetch is in flight.
func (sub *Subscription[T]) Refetch() {
	sub.store.refetch(sub.e, false)
}

// Invalidate purges the shared tier for this key, marks the entry stale
// and refetches from the remote source. If a fetch is already in flight
// it cannot satisfy the invalidation, so a follow-up fetch is queued
// behind it.
func (sub *Subscription[T]) Invalidate() {
	sub.store.mu.Lock()
	sub.e.fetchedAt = time.Time{}
	purge := sub.e.purge
	ctx := sub.store.ctx
	sub.store.mu.Unlock()

	if purge != nil {
		if err := purge(ctx); err != nil {
			sub.store.log.Debug("Shared cache purge failed", "key", sub.e.key, "error", err)
		}
	}
	sub.store.refetch(sub.e, true)
}

// OnChange registers fn for every new snapshot. If a snapshot is
// already present it is delivered immediately.
func (sub *Subscription[T]) OnChange(fn func(T)) {
	sub.store.mu.Lock()
	sub.e.listeners = append(sub.e.listeners, func(v any) { fn(v.(T)) })
	hasData := sub.e.hasData
	var current T
	if hasData {
		current = sub.e.data.(T)
	}
	sub.store.mu.Unlock()

	if hasData {
		fn(current)
	}
}
