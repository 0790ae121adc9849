package state

import (
	"sync"
	"sync/atomic"
)

// guard is a read/write lock that remembers whether a critical section ever
// panicked. Once poisoned, every later acquisition fails with
// ErrStateUnavailable.
type guard struct {
	mu       sync.RWMutex
	poisoned atomic.Bool
}

func (g *guard) write(fn func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned.Load() {
		return ErrStateUnavailable
	}
	defer g.poison()
	fn()
	return nil
}

func (g *guard) read(fn func()) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned.Load() {
		return ErrStateUnavailable
	}
	defer g.poison()
	fn()
	return nil
}

// poison marks the guard when the deferred call runs during a panic. The
// panic keeps unwinding to the caller that caused it.
func (g *guard) poison() {
	if r := recover(); r != nil {
		g.poisoned.Store(true)
		panic(r)
	}
}

// collection is an insertion-ordered slice behind its own guard.
type collection[T any] struct {
	guard
	items []T
}

func (c *collection[T]) append(vs ...T) error {
	return c.write(func() {
		c.items = append(c.items, vs...)
	})
}

func (c *collection[T]) replace(vs []T) error {
	next := make([]T, len(vs))
	copy(next, vs)
	return c.write(func() {
		c.items = next
	})
}

func (c *collection[T]) clear() error {
	return c.write(func() {
		c.items = nil
	})
}

func (c *collection[T]) snapshot() ([]T, error) {
	var out []T
	err := c.read(func() {
		out = make([]T, len(c.items))
		copy(out, c.items)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection[T]) len() (int, error) {
	var n int
	err := c.read(func() {
		n = len(c.items)
	})
	return n, err
}

// Store holds the process-lifetime review state: captured comments, derived
// training pairs and metric samples. Each collection is locked independently
// and no method holds more than one lock. Locks are only held for in-memory
// copies; nothing here performs I/O.
type Store struct {
	comments collection[ReviewComment]
	pairs    collection[TrainingPair]
	metrics  collection[MetricSample]
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// --- Comments ---

func (s *Store) AppendComment(c ReviewComment) error {
	return s.comments.append(c)
}

// AppendComments appends cs in order. Duplicate ids are kept.
func (s *Store) AppendComments(cs []ReviewComment) error {
	if len(cs) == 0 {
		return nil
	}
	return s.comments.append(cs...)
}

func (s *Store) ListComments() ([]ReviewComment, error) {
	return s.comments.snapshot()
}

func (s *Store) CommentCount() (int, error) {
	return s.comments.len()
}

func (s *Store) ClearComments() error {
	return s.comments.clear()
}

// --- Training pairs ---

// ReplacePairs swaps the whole pair collection in one step; readers see
// either the old set or the new one.
func (s *Store) ReplacePairs(ps []TrainingPair) error {
	return s.pairs.replace(ps)
}

func (s *Store) ListPairs() ([]TrainingPair, error) {
	return s.pairs.snapshot()
}

// --- Metrics ---

func (s *Store) AppendMetric(m MetricSample) error {
	return s.metrics.append(m)
}

func (s *Store) ListMetrics() ([]MetricSample, error) {
	return s.metrics.snapshot()
}

func (s *Store) ClearMetrics() error {
	return s.metrics.clear()
}
