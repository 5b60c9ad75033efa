// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"

	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/domain/catalog"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListMovies(ctx context.Context, q service.ListQuery) (model.Page, error)
	MovieDetail(ctx context.Context, id string) (service.MovieDetail, error)
	ScoreBreakdown(ctx context.Context, id string) (service.ScoreReport, error)

	Genres(ctx context.Context) ([]string, error)
	Directors(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	Titles(ctx context.Context) ([]catalog.TitleRef, error)

	ListDirectors(ctx context.Context) ([]model.Director, error)
	GetDirector(ctx context.Context, id string) (service.DirectorProfile, error)
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	moviesHandler    *MoviesHandler
	directorsHandler *DirectorsHandler

	corsOrigins []string
	rateLimit   int
	rateWindow  time.Duration
	slowRequest time.Duration

	logger logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the origins allowed to call the API from a browser.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithRateLimit limits each client IP to requests per window. Zero disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests >= 0 && window > 0 {
			s.rateLimit = requests
			s.rateWindow = window
		}
	}
}

// WithSlowRequestThreshold logs requests slower than d. Zero disables it.
func WithSlowRequestThreshold(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.slowRequest = d
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		corsOrigins: []string{"http://localhost:5173"},
		rateWindow:  time.Minute,
		slowRequest: defaultSlowRequest,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.moviesHandler = NewMoviesHandler(deps, s.logger)
	s.directorsHandler = NewDirectorsHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.instrument("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("GET /stats", s.instrument("stats", s.statsHandler.HandleStats))

	m := s.moviesHandler
	mux.HandleFunc("GET /api/movies", s.instrument("movies", m.HandleList))
	mux.HandleFunc("GET /api/movies/genres/list", s.instrument("genres", m.HandleGenres))
	mux.HandleFunc("GET /api/movies/directors/list", s.instrument("directors", m.HandleDirectors))
	mux.HandleFunc("GET /api/movies/tags/list", s.instrument("tags", m.HandleTags))
	mux.HandleFunc("GET /api/movies/titles", s.instrument("titles", m.HandleTitles))
	mux.HandleFunc("GET /api/movies/{id}", s.instrument("movie", m.HandleGet))
	mux.HandleFunc("GET /api/movies/{id}/score", s.instrument("score", m.HandleScore))

	d := s.directorsHandler
	mux.HandleFunc("GET /api/directors", s.instrument("director_list", d.HandleList))
	mux.HandleFunc("GET /api/directors/{id}", s.instrument("director", d.HandleGet))
}

// Handler wraps next with CORS and per-IP rate limiting.
func (s *Server) Handler(next http.Handler) http.Handler {
	h := next
	if s.rateLimit > 0 {
		h = httprate.Limit(s.rateLimit, s.rateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.RecordErrorByEndpoint("rate_limit", r.Method, errorClass(http.StatusTooManyRequests))
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "too many requests"})
			}),
		)(h)
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(h)
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorResponse{Message: message(err)})
}
