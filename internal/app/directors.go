package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/arthouse/internal/adapters/repository"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/pkg/logger"
)

var directorNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:arthouse:director"))

// DirectorID returns the ID a director profile is stored under. An existing
// ID is kept; otherwise it derives from the TMDB person id, or from the name.
func DirectorID(d model.Director) string {
	if d.ID != "" {
		return d.ID
	}
	if d.TMDBID > 0 {
		return "tmdb-person-" + strconv.Itoa(d.TMDBID)
	}
	return uuid.NewSHA1(directorNamespace, []byte(strings.ToLower(strings.TrimSpace(d.Name)))).String()
}

// ImportDirectors normalizes and upserts director profiles.
func (s *Service) ImportDirectors(ctx context.Context, dirs []model.Director) (ImportReport, error) {
	ds, err := s.directory()
	if err != nil {
		return ImportReport{}, err
	}

	var rep ImportReport
	now := time.Now().UTC()
	for i, d := range dirs {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("import directors: %w", err)
		}
		d.Normalize()
		if d.Name == "" {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("director %d: name is required", i))
			continue
		}
		d.ID = DirectorID(d)
		d.UpdatedAt = now

		created, err := ds.UpsertDirector(ctx, d)
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("director %d (%s): %v", i, d.Name, err))
			continue
		}
		if created {
			rep.Created++
		} else {
			rep.Updated++
		}
	}

	s.logger.Info(ctx, "director import finished",
		logger.Int("created", rep.Created),
		logger.Int("updated", rep.Updated),
		logger.Int("failed", rep.Failed),
	)
	return rep, nil
}

// ListDirectors returns every profile, priority directors first.
func (s *Service) ListDirectors(ctx context.Context) ([]model.Director, error) {
	ds, err := s.directory()
	if err != nil {
		return nil, err
	}
	dirs, err := ds.ListDirectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list directors: %w", err)
	}
	return s.ranker.SortDirectors(dirs), nil
}

// DirectorProfile is a director with their best-scored films.
type DirectorProfile struct {
	model.Director
	Films []model.Film `json:"films"`
}

// GetDirector returns a profile with the director's top films by canon score.
func (s *Service) GetDirector(ctx context.Context, id string) (DirectorProfile, error) {
	ds, err := s.directory()
	if err != nil {
		return DirectorProfile{}, err
	}
	store, err := s.catalog()
	if err != nil {
		return DirectorProfile{}, err
	}
	d, err := ds.GetDirector(ctx, id)
	if err != nil {
		return DirectorProfile{}, fmt.Errorf("get director %q: %w", id, err)
	}
	films, err := store.Find(ctx, func(f model.Film) bool { return f.Directs(d.Name) })
	if err != nil {
		return DirectorProfile{}, fmt.Errorf("films of %q: %w", d.Name, err)
	}
	return DirectorProfile{Director: d, Films: ranking.TopByScore(films, ranking.DirectorFilms)}, nil
}

// MovieDetail is a film plus a link to its first director's profile, if any.
type MovieDetail struct {
	model.Film
	DirectorID string `json:"directorId,omitempty"`
}

// MovieDetail returns a film and resolves the profile of its first credited director.
func (s *Service) MovieDetail(ctx context.Context, id string) (MovieDetail, error) {
	f, err := s.GetMovie(ctx, id)
	if err != nil {
		return MovieDetail{}, err
	}
	ds, err := s.directory()
	if err != nil {
		return MovieDetail{}, err
	}
	out := MovieDetail{Film: f}
	if name := f.PrimaryDirector(); name != "" {
		d, err := ds.DirectorByName(ctx, name)
		switch {
		case err == nil:
			out.DirectorID = d.ID
		case !errors.Is(err, repository.ErrDirectorNotFound):
			return MovieDetail{}, fmt.Errorf("director of %q: %w", id, err)
		}
	}
	return out, nil
}
