// Package cache provides a TTL-bounded key/value store with lazy eviction.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the maximum age of an entry unless configured otherwise.
const DefaultTTL = 5 * time.Minute

// Entry pairs a cached value with the instant it was stored.
type Entry[V any] struct {
	Data     V
	StoredAt time.Time
}

// Store is a key/value cache with a single TTL. Expired entries are
// removed when read; there is no background sweeper. Growth is bounded by
// the number of distinct keys the caller produces, not by time.
type Store[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry[V]
}

// New creates a store. A non-positive ttl falls back to DefaultTTL.
func New[V any](ttl time.Duration) *Store[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry[V]),
	}
}

// Get returns the value for key if present and fresh. An entry older than
// the TTL is deleted and reported absent.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().Sub(entry.StoredAt) > s.ttl {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return entry.Data, true
}

// Set stores value under key, overwriting any previous entry. The last
// writer wins.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry[V]{Data: value, StoredAt: s.now()}
}

// Invalidate removes a single entry.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes all entries.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry[V])
}

// Len returns the number of resident entries, counting ones that have
// expired but not yet been read.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTL returns the configured entry lifetime.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}
