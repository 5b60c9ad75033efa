package repository

import (
	"time"

	"github.com/okian/arthouse/pkg/logger"
)

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// BadgerOption applies a configuration option to the BadgerStore.
type BadgerOption func(*BadgerStore)

// WithBadgerLogger sets the logger used by the store and the badger engine.
func WithBadgerLogger(l logger.Logger) BadgerOption {
	return func(s *BadgerStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithInMemory runs badger without touching disk. Useful in tests.
func WithInMemory() BadgerOption {
	return func(s *BadgerStore) {
		s.inMemory = true
	}
}

// WithIndexOptions passes options to the in-memory index.
func WithIndexOptions(opts ...Option) BadgerOption {
	return func(s *BadgerStore) {
		s.indexOpts = append(s.indexOpts, opts...)
	}
}
