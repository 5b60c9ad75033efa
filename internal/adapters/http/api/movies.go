package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/domain/catalog"
	"github.com/okian/arthouse/pkg/logger"
)

// MoviesHandler serves the catalog endpoints.
type MoviesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(deps Dependencies, l logger.Logger) *MoviesHandler {
	return &MoviesHandler{deps: deps, logger: l}
}

// HandleList handles GET /api/movies.
func (h *MoviesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_movies"
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	page, err := h.deps.ListMovies(r.Context(), q)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /api/movies/{id}.
func (h *MoviesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movie"
	film, err := h.deps.MovieDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, film)
}

// HandleScore handles GET /api/movies/{id}/score.
func (h *MoviesHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_breakdown"
	rep, err := h.deps.ScoreBreakdown(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleGenres handles GET /api/movies/genres/list.
func (h *MoviesHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	values, err := h.deps.Genres(r.Context())
	h.list(w, r, "api.genres", values, err)
}

// HandleDirectors handles GET /api/movies/directors/list.
func (h *MoviesHandler) HandleDirectors(w http.ResponseWriter, r *http.Request) {
	values, err := h.deps.Directors(r.Context())
	h.list(w, r, "api.directors", values, err)
}

// HandleTags handles GET /api/movies/tags/list.
func (h *MoviesHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	values, err := h.deps.Tags(r.Context())
	h.list(w, r, "api.tags", values, err)
}

// HandleTitles handles GET /api/movies/titles.
func (h *MoviesHandler) HandleTitles(w http.ResponseWriter, r *http.Request) {
	const op = "api.titles"
	refs, err := h.deps.Titles(r.Context())
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *MoviesHandler) list(w http.ResponseWriter, r *http.Request, op string, values []string, err error) {
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (h *MoviesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	failRequest(w, r, h.logger, err)
}

// failRequest writes err and logs it when it is a server-side failure.
func failRequest(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	if statusOf(err) >= http.StatusInternalServerError {
		l.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("query", r.URL.RawQuery),
			logger.Error(err))
	}
	writeError(w, err)
}

// parseListQuery reads the listing parameters. Absent numbers stay zero.
func parseListQuery(v url.Values) (service.ListQuery, error) {
	q := service.ListQuery{
		Filter: catalog.Filter{
			Search:   strings.TrimSpace(v.Get("search")),
			Director: strings.TrimSpace(v.Get("director")),
			Genre:    strings.TrimSpace(v.Get("genre")),
			Tags:     catalog.SplitList(v.Get("tags")),
			Titles:   catalog.SplitList(v.Get("titles")),
		},
		Random:  v.Get("random") == "true",
		Curated: v.Get("curated") == "true",
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"year", &q.Year},
		{"decade", &q.Decade},
		{"limit", &q.Limit},
		{"page", &q.Page},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(v.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return service.ListQuery{}, fmt.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = n
	}
	return q, nil
}
