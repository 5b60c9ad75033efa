// Package service wires the catalog store, scoring engine and ranking policies
// into the operations exposed by the HTTP API and the admin CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	repository "github.com/okian/arthouse/internal/adapters/repository"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/internal/domain/scoring"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrBadRequest = errors.New("bad request")
)

// Service implements the catalog operations.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	directors repository.DirectorStore
	scorer    *scoring.Scorer
	ranker    *ranking.Ranker

	// Configuration
	dataDir          string
	workerCount      int
	queueSize        int
	significantDelta int
	defaultLimit     int
	maxLimit         int
	rankingOpts      []ranking.Option

	// State
	started       bool
	startedAt     time.Time
	lastRecompute *RecomputeReport

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDataDir persists the catalog in badger at dir. Empty keeps it in memory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		s.dataDir = dir
	}
}

// WithScorer sets the scorer used for imports, recomputes and breakdowns.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithRanking passes options to the ranker.
func WithRanking(opts ...ranking.Option) Option {
	return func(s *Service) {
		s.rankingOpts = append(s.rankingOpts, opts...)
	}
}

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSignificantDelta sets the score movement above which a change is flagged.
func WithSignificantDelta(delta int) Option {
	return func(s *Service) {
		if delta >= 0 {
			s.significantDelta = delta
		}
	}
}

// WithPageLimits sets the default and maximum listing page size.
func WithPageLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.defaultLimit = def
			s.maxLimit = maxLimit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		queueSize:        10_000,
		significantDelta: 10,
		defaultLimit:     100,
		maxLimit:         1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewScorer()
	}
	s.ranker = ranking.NewRanker(s.rankingOpts...)
	return s
}

// Start opens the store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("catalog")
	}

	if s.store == nil {
		if s.dataDir == "" {
			s.store = repository.NewTreapStore(ctx)
			s.logger.Info(ctx, "using in-memory catalog")
		} else {
			store, err := repository.OpenBadgerStore(ctx, s.dataDir,
				repository.WithBadgerLogger(s.logger.Named("badger")))
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			s.store = store
		}
	}
	// A persistent store keeps director profiles too; otherwise they live in memory.
	if ds, ok := s.store.(repository.DirectorStore); ok {
		s.directors = ds
	} else {
		s.directors = repository.NewDirectorIndex()
	}

	s.started = true
	s.startedAt = time.Now()
	count := s.store.Count(ctx)
	metrics.UpdateCatalogFilms(count)
	s.logger.Info(ctx, "catalog service started",
		logger.Int("films", count),
		logger.Int("workers", s.workerCount),
		logger.Int("current_year", s.scorer.CurrentYear()),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store failed", logger.Error(err))
	}
	s.store = nil
	s.directors = nil
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

// catalog returns the store when the service is running.
func (s *Service) catalog() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// directory returns the director store when the service is running.
func (s *Service) directory() (repository.DirectorStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.directors, nil
}

// Stats reports service state for monitoring.
type Stats struct {
	Started       bool             `json:"started"`
	UptimeSec     float64          `json:"uptimeSec"`
	Films         int              `json:"films"`
	CurrentYear   int              `json:"currentYear"`
	WorkerCount   int              `json:"workerCount"`
	QueueSize     int              `json:"queueSize"`
	CuratedTitles int              `json:"curatedTitles"`
	LastRecompute *RecomputeReport `json:"lastRecompute,omitempty"`
	Goroutines    int              `json:"goroutines"`
	HeapAllocByte uint64           `json:"heapAllocBytes"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	st := Stats{
		Started:       s.started,
		CurrentYear:   s.scorer.CurrentYear(),
		WorkerCount:   s.workerCount,
		QueueSize:     s.queueSize,
		CuratedTitles: len(s.ranker.CuratedTitles()),
		LastRecompute: s.lastRecompute,
		Goroutines:    goroutines,
		HeapAllocByte: mem.HeapAlloc,
	}
	if s.started {
		st.UptimeSec = time.Since(s.startedAt).Seconds()
		st.Films = s.store.Count(ctx)
		metrics.UpdateCatalogFilms(st.Films)
	}
	return st
}
