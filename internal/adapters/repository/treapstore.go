package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering follows ranking.TieredCompare, so in-order traversal yields the
// default catalog listing. Node priorities are random, which keeps the tree
// balanced in expectation regardless of insertion order.

// treap node
type node struct {
	film  model.Film
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(a, b model.Film) bool {
	return ranking.TieredCompare(a, b) < 0
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, f model.Film, prio uint64) *node {
	if n == nil {
		return &node{film: f, prio: prio, size: 1}
	}
	if less(f, n.film) {
		n.left = insert(n.left, f, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, f, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, f model.Film) *node {
	if n == nil {
		return nil
	}
	if n.film.ID == f.ID {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, f)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, f)
		}
	} else if less(f, n.film) {
		n.left = deleteNode(n.left, f)
	} else {
		n.right = deleteNode(n.right, f)
	}
	fix(n)
	return n
}

// collect appends every film in tiered order.
func collect(n *node, out *[]model.Film) {
	if n == nil {
		return
	}
	collect(n.left, out)
	*out = append(*out, n.film)
	collect(n.right, out)
}

// snapshot is the ordered listing at a store version.
type snapshot struct {
	version uint64
	films   []model.Film
}

// TreapStore keeps films in an order-statistics treap keyed by the tiered order.
type TreapStore struct {
	mu      sync.RWMutex
	root    *node
	byID    map[string]model.Film
	version uint64
	closed  bool

	// listing is rebuilt lazily by readers when version moves.
	listing atomic.Pointer[snapshot]

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
	stopOnce              sync.Once
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byID:                  make(map[string]model.Film),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Upsert implements Store.Upsert with O(log n) expected time.
func (s *TreapStore) Upsert(ctx context.Context, f model.Film) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpsertLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if f.ID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_film")
		return false, fmt.Errorf("upsert %q: %w", f.Title, ErrInvalidFilm)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrStoreClosed
	}
	old, exists := s.byID[f.ID]
	if exists {
		s.root = deleteNode(s.root, old)
	}
	s.byID[f.ID] = f
	s.root = insert(s.root, f, rand.Uint64())
	s.version++
	count := len(s.byID)
	s.mu.Unlock()

	if !exists {
		metrics.UpdateRepositoryRecordsTotal(count)
	}
	return !exists, nil
}

// Get returns the film with the given ID.
func (s *TreapStore) Get(ctx context.Context, id string) (model.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return model.Film{}, ErrStoreClosed
	}
	f, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Film{}, ErrNotFound
	}
	return f, nil
}

// All returns every film in tiered order.
func (s *TreapStore) All(ctx context.Context) ([]model.Film, error) {
	return s.Find(ctx, nil)
}

// Find returns the films accepted by match in tiered order. A nil match accepts all.
func (s *TreapStore) Find(ctx context.Context, match func(model.Film) bool) ([]model.Film, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	films, err := s.ordered()
	if err != nil {
		return nil, err
	}
	if match == nil {
		return slices.Clone(films), nil
	}
	out := make([]model.Film, 0, len(films))
	for _, f := range films {
		if match(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ordered returns the shared tiered listing. Callers must not modify it.
func (s *TreapStore) ordered() ([]model.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if snap := s.listing.Load(); snap != nil && snap.version == s.version {
		return snap.films, nil
	}
	films := make([]model.Film, 0, len(s.byID))
	collect(s.root, &films)
	s.listing.Store(&snapshot{version: s.version, films: films})
	return films, nil
}

// Position returns the 1-based tiered position of a film.
func (s *TreapStore) Position(ctx context.Context, id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	pos := 0
	n := s.root
	for n != nil {
		switch {
		case n.film.ID == f.ID:
			return pos + nsize(n.left) + 1, nil
		case less(f, n.film):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0, ErrNotFound
}

// Count returns the total number of films.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the metrics goroutine. Further calls are no-ops.
func (s *TreapStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that updates repository metrics.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				n := s.Count(ctx)
				metrics.UpdateRepositoryRecordsTotal(n)
				metrics.UpdateCatalogFilms(n)
			}
		}
	}()
}
