package service

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arthouse/internal/adapters/mq/queue"
	"github.com/okian/arthouse/internal/adapters/mq/worker"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

// filmNamespace seeds deterministic IDs for films without a TMDB id.
var filmNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:arthouse:film"))

// FilmID returns the ID a film is stored under. An existing ID is kept;
// otherwise it derives from the TMDB id, or from title and year.
func FilmID(f model.Film) string {
	if f.ID != "" {
		return f.ID
	}
	if f.TMDBID > 0 {
		return "tmdb-" + strconv.Itoa(f.TMDBID)
	}
	key := strings.ToLower(strings.TrimSpace(f.Title)) + "|" + strconv.Itoa(f.Year)
	return uuid.NewSHA1(filmNamespace, []byte(key)).String()
}

// ImportReport summarizes an import.
type ImportReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Import normalizes, scores and upserts films. A failing record does not stop the rest.
func (s *Service) Import(ctx context.Context, films []model.Film) (ImportReport, error) {
	store, err := s.catalog()
	if err != nil {
		return ImportReport{}, err
	}

	var rep ImportReport
	now := time.Now().UTC()
	for i, f := range films {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("import: %w", err)
		}
		f.Normalize()
		if f.Title == "" {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("record %d: title is required", i))
			continue
		}
		f.ID = FilmID(f)
		f.BaseCanonScore = s.scorer.Score(f)
		f.UpdatedAt = now
		metrics.RecordScore(f.BaseCanonScore)

		created, err := store.Upsert(ctx, f)
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("record %d (%s): %v", i, f.Title, err))
			metrics.RecordErrorByComponent("import", "upsert_error")
			continue
		}
		if created {
			rep.Created++
		} else {
			rep.Updated++
		}
	}

	metrics.UpdateCatalogFilms(store.Count(ctx))
	s.logger.Info(ctx, "import finished",
		logger.Int("created", rep.Created),
		logger.Int("updated", rep.Updated),
		logger.Int("failed", rep.Failed),
	)
	return rep, nil
}

// RecomputeReport summarizes a recompute run.
type RecomputeReport struct {
	Total       int                 `json:"total"`
	Changed     int                 `json:"changed"`
	Unchanged   int                 `json:"unchanged"`
	Failed      int                 `json:"failed"`
	Significant []model.ScoreChange `json:"significant"`
	CurrentYear int                 `json:"currentYear"`
	DurationMs  float64             `json:"durationMs"`
	FinishedAt  time.Time           `json:"finishedAt"`
}

// Top returns at most n significant changes; none for n <= 0.
func (r RecomputeReport) Top(n int) []model.ScoreChange {
	return r.Significant[:min(max(n, 0), len(r.Significant))]
}

// Recompute rescores every film on the worker pool and persists the scores that moved.
func (s *Service) Recompute(ctx context.Context) (RecomputeReport, error) {
	store, err := s.catalog()
	if err != nil {
		return RecomputeReport{}, err
	}
	films, err := store.All(ctx)
	if err != nil {
		return RecomputeReport{}, fmt.Errorf("recompute: %w", err)
	}

	start := time.Now()
	rep := RecomputeReport{Total: len(films), Significant: []model.ScoreChange{}, CurrentYear: s.scorer.CurrentYear()}

	var mu sync.Mutex
	collect := func(_ context.Context, r worker.Result) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Err != nil:
			rep.Failed++
			metrics.RecordRecomputeOutcome("failed")
			return
		case r.Delta() == 0:
			rep.Unchanged++
			metrics.RecordRecomputeOutcome("unchanged")
			return
		}
		rep.Changed++
		metrics.RecordRecomputeOutcome("changed")
		if abs(r.Delta()) > s.significantDelta {
			metrics.RecordSignificantChange()
			rep.Significant = append(rep.Significant, model.ScoreChange{
				ID:        r.Film.ID,
				Title:     r.Film.Title,
				Year:      r.Film.Year,
				Directors: r.Film.Directors,
				OldScore:  r.OldScore,
				NewScore:  r.NewScore,
				Delta:     r.Delta(),
			})
		}
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	pool := worker.NewPool(s.workerCount, q, s.scorer, store,
		worker.WithResultHandler(collect),
		worker.WithLogger(s.logger.Named("recompute")),
	)
	pool.Start(ctx)

	for _, f := range films {
		if err := q.EnqueueWait(ctx, f); err != nil {
			_ = pool.Shutdown(context.Background())
			return RecomputeReport{}, fmt.Errorf("recompute: %w", err)
		}
	}
	if err := q.Close(); err != nil {
		return RecomputeReport{}, fmt.Errorf("recompute: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return RecomputeReport{}, fmt.Errorf("recompute: %w", err)
	}

	slices.SortStableFunc(rep.Significant, func(a, b model.ScoreChange) int {
		return cmp.Or(cmp.Compare(abs(b.Delta), abs(a.Delta)), strings.Compare(a.ID, b.ID))
	})
	elapsed := time.Since(start)
	rep.DurationMs = float64(elapsed.Microseconds()) / 1000
	rep.FinishedAt = time.Now().UTC()
	metrics.RecordRecomputeRun(rep.DurationMs)

	s.mu.Lock()
	s.lastRecompute = &rep
	s.mu.Unlock()

	s.logger.Info(ctx, "recompute finished",
		logger.Int("total", rep.Total),
		logger.Int("changed", rep.Changed),
		logger.Int("unchanged", rep.Unchanged),
		logger.Int("failed", rep.Failed),
		logger.Int("significant", len(rep.Significant)),
		logger.Duration("took", elapsed),
	)
	return rep, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var exportHeader = []string{"Rank", "Title", "Year", "Director", "Canon Score", "TMDB Rating"}

// ExportScores writes every film as CSV ordered by persisted score, highest first.
func (s *Service) ExportScores(ctx context.Context, w io.Writer) (int, error) {
	films, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	slices.SortStableFunc(films, func(a, b model.Film) int {
		return cmp.Or(cmp.Compare(b.BaseCanonScore, a.BaseCanonScore), strings.Compare(a.Title, b.Title))
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	for i, f := range films {
		title := cmp.Or(f.Title, "Unknown")
		year := "N/A"
		if f.Year > 0 {
			year = strconv.Itoa(f.Year)
		}
		director := cmp.Or(f.PrimaryDirector(), "Unknown")
		row := []string{
			strconv.Itoa(i + 1),
			title,
			year,
			director,
			strconv.Itoa(f.BaseCanonScore),
			strconv.FormatFloat(f.VoteAverage, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(films), fmt.Errorf("export: %w", err)
	}
	return len(films), nil
}
