package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

// Key prefixes namespacing documents in the badger keyspace.
const (
	filmKeyPrefix     = "film:"
	directorKeyPrefix = "director:"
)

// BadgerStore persists films and director profiles in badger and serves
// reads from in-memory indexes. Every write goes to badger first.
type BadgerStore struct {
	db        *badger.DB
	index     *TreapStore
	directors *DirectorIndex
	log       logger.Logger
	inMemory  bool
	indexOpts []Option
}

// OpenBadgerStore opens (or creates) the catalog at dir and loads it into memory.
func OpenBadgerStore(ctx context.Context, dir string, opts ...BadgerOption) (*BadgerStore, error) {
	s := &BadgerStore{log: logger.Get().Named("badger_store")}
	for _, opt := range opts {
		opt(s)
	}

	bopts := badger.DefaultOptions(dir).WithLogger(badgerLogger{ctx: ctx, log: s.log})
	if s.inMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	s.db = db
	s.index = NewTreapStore(ctx, s.indexOpts...)
	s.directors = NewDirectorIndex()

	start := time.Now()
	n, err := s.load(ctx)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	nd, err := s.loadDirectors(ctx)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.log.Info(ctx, "catalog loaded",
		logger.String("dir", dir),
		logger.Int("films", n),
		logger.Int("directors", nd),
		logger.Duration("took", time.Since(start)))
	return s, nil
}

// load reads every film document into the index.
func (s *BadgerStore) load(ctx context.Context) (int, error) {
	n, err := scanPrefix(s.db, filmKeyPrefix, func(f model.Film) error {
		_, err := s.index.Upsert(ctx, f)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	return n, nil
}

// loadDirectors reads every director profile into the director index.
func (s *BadgerStore) loadDirectors(ctx context.Context) (int, error) {
	n, err := scanPrefix(s.db, directorKeyPrefix, func(d model.Director) error {
		_, err := s.directors.UpsertDirector(ctx, d)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("load directors: %w", err)
	}
	return n, nil
}

// scanPrefix decodes every JSON document under prefix and hands it to fn.
func scanPrefix[T any](db *badger.DB, prefix string, fn func(T) error) (int, error) {
	n := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var v T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if err := fn(v); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// put writes one JSON document.
func (s *BadgerStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrStoreClosed
	}
	if err != nil {
		metrics.RecordErrorByComponent("repository", "write_failed")
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Upsert writes the film to badger, then to the index.
func (s *BadgerStore) Upsert(ctx context.Context, f model.Film) (bool, error) {
	if f.ID == "" {
		return false, fmt.Errorf("upsert %q: %w", f.Title, ErrInvalidFilm)
	}
	if err := s.put(filmKeyPrefix+f.ID, f); err != nil {
		return false, err
	}
	return s.index.Upsert(ctx, f)
}

// UpsertDirector writes the profile to badger, then to the director index.
func (s *BadgerStore) UpsertDirector(ctx context.Context, d model.Director) (bool, error) {
	if d.ID == "" || d.Name == "" {
		return false, fmt.Errorf("upsert director %q: %w", d.Name, ErrInvalidDirector)
	}
	if err := s.put(directorKeyPrefix+d.ID, d); err != nil {
		return false, err
	}
	return s.directors.UpsertDirector(ctx, d)
}

// GetDirector returns the profile with the given ID.
func (s *BadgerStore) GetDirector(ctx context.Context, id string) (model.Director, error) {
	return s.directors.GetDirector(ctx, id)
}

// DirectorByName returns the profile whose name is exactly name.
func (s *BadgerStore) DirectorByName(ctx context.Context, name string) (model.Director, error) {
	return s.directors.DirectorByName(ctx, name)
}

// ListDirectors returns every profile sorted by name.
func (s *BadgerStore) ListDirectors(ctx context.Context) ([]model.Director, error) {
	return s.directors.ListDirectors(ctx)
}

// Get returns the film with the given ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (model.Film, error) {
	return s.index.Get(ctx, id)
}

// All returns every film in tiered order.
func (s *BadgerStore) All(ctx context.Context) ([]model.Film, error) {
	return s.index.All(ctx)
}

// Find returns the films accepted by match in tiered order.
func (s *BadgerStore) Find(ctx context.Context, match func(model.Film) bool) ([]model.Film, error) {
	return s.index.Find(ctx, match)
}

// Position returns the 1-based tiered position of a film.
func (s *BadgerStore) Position(ctx context.Context, id string) (int, error) {
	return s.index.Position(ctx, id)
}

// Count returns the number of films.
func (s *BadgerStore) Count(ctx context.Context) int {
	return s.index.Count(ctx)
}

// Close closes the index and the database.
func (s *BadgerStore) Close() error {
	if s.index != nil {
		_ = s.index.Close()
	}
	if s.db == nil || s.db.IsClosed() {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// badgerLogger routes badger's printf-style logs into the service logger.
type badgerLogger struct {
	ctx context.Context
	log logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(l.ctx, fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn(l.ctx, fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug(l.ctx, fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug(l.ctx, fmt.Sprintf(format, args...))
}
