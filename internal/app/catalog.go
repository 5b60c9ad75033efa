package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/arthouse/internal/domain/catalog"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/internal/domain/scoring"
	"github.com/okian/arthouse/internal/validation"
	"github.com/okian/arthouse/pkg/metrics"
)

// Listing modes, also used as metric labels.
const (
	ModeStandard = "standard"
	ModeRandom   = "random"
	ModeCurated  = "curated"
)

// ListQuery selects and orders a page of the catalog.
type ListQuery struct {
	catalog.Filter

	Limit   int `validate:"min=0"`
	Page    int `validate:"min=0"`
	Random  bool
	Curated bool
}

// Mode reports which ordering policy the query resolves to.
// Random wins over curated, and any filter disables curated ordering.
func (q ListQuery) Mode() string {
	switch {
	case q.Random:
		return ModeRandom
	case q.Curated && q.Filter.IsZero():
		return ModeCurated
	default:
		return ModeStandard
	}
}

// ListMovies returns one page of films matching q.
func (s *Service) ListMovies(ctx context.Context, q ListQuery) (model.Page, error) {
	store, err := s.catalog()
	if err != nil {
		return model.Page{}, err
	}
	if err := validation.Struct(q); err != nil {
		return model.Page{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	start := time.Now()
	mode := q.Mode()
	var page model.Page
	switch mode {
	case ModeRandom:
		films, err := store.Find(ctx, q.Filter.Matcher())
		if err != nil {
			return model.Page{}, fmt.Errorf("list movies: %w", err)
		}
		page = ranking.Single(s.ranker.Shuffle(films))
	case ModeCurated:
		films, err := store.All(ctx)
		if err != nil {
			return model.Page{}, fmt.Errorf("list movies: %w", err)
		}
		page = ranking.Paginate(s.ranker.CuratedFirst(films), limit, q.Page)
	default:
		films, err := store.Find(ctx, q.Filter.Matcher())
		if err != nil {
			return model.Page{}, fmt.Errorf("list movies: %w", err)
		}
		page = ranking.Paginate(films, limit, q.Page)
	}

	metrics.RecordCatalogQuery(mode, float64(time.Since(start).Microseconds())/1000, len(page.Movies))
	return page, nil
}

// GetMovie returns a film by ID.
func (s *Service) GetMovie(ctx context.Context, id string) (model.Film, error) {
	store, err := s.catalog()
	if err != nil {
		return model.Film{}, err
	}
	f, err := store.Get(ctx, id)
	if err != nil {
		return model.Film{}, fmt.Errorf("get movie %q: %w", id, err)
	}
	return f, nil
}

// ScoreReport is a live breakdown next to the persisted score.
type ScoreReport struct {
	ID             string            `json:"_id"`
	Title          string            `json:"title"`
	CurrentYear    int               `json:"currentYear"`
	BaseCanonScore int               `json:"baseCanonScore"`
	Position       int               `json:"position"` // 1-based place in the tiered listing
	Stale          bool              `json:"stale"`
	Breakdown      scoring.Breakdown `json:"breakdown"`
}

// ScoreBreakdown computes the itemized score of a stored film for the current year.
func (s *Service) ScoreBreakdown(ctx context.Context, id string) (ScoreReport, error) {
	f, err := s.GetMovie(ctx, id)
	if err != nil {
		return ScoreReport{}, err
	}
	store, err := s.catalog()
	if err != nil {
		return ScoreReport{}, err
	}
	pos, err := store.Position(ctx, f.ID)
	if err != nil {
		return ScoreReport{}, fmt.Errorf("position of %q: %w", id, err)
	}
	b := s.scorer.Breakdown(f)
	return ScoreReport{
		ID:             f.ID,
		Title:          f.Title,
		CurrentYear:    s.scorer.CurrentYear(),
		BaseCanonScore: f.BaseCanonScore,
		Position:       pos,
		Stale:          b.Total != f.BaseCanonScore,
		Breakdown:      b,
	}, nil
}

func (s *Service) all(ctx context.Context) ([]model.Film, error) {
	store, err := s.catalog()
	if err != nil {
		return nil, err
	}
	films, err := store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return films, nil
}

// Genres lists distinct genres.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	films, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Genres(films), nil
}

// Directors lists distinct directors.
func (s *Service) Directors(ctx context.Context) ([]string, error) {
	films, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Directors(films), nil
}

// Tags lists distinct derived tags minus country and genre names.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	films, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Tags(films), nil
}

// Titles lists every film's ID and title sorted by title.
func (s *Service) Titles(ctx context.Context) ([]catalog.TitleRef, error) {
	films, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Titles(films), nil
}
