package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"testing"

	repository "github.com/okian/arthouse/internal/adapters/repository"
	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/domain/catalog"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/internal/domain/scoring"
	"github.com/okian/arthouse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWith(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func bergman() model.Film {
	return model.Film{
		Title:       "The Seventh Seal",
		Year:        1957,
		VoteAverage: 8.4,
		VoteCount:   3000,
		Popularity:  12,
		Genres:      []string{"Drama"},
		Country:     "Sweden",
		Directors:   []string{"Ingmar Bergman"},
		DerivedTags: []string{"existential", "contemplative"},
	}
}

// started returns a running service over a store seeded with films as given.
func started(films []model.Film, opts ...service.Option) (*service.Service, repository.Store) {
	ctx := context.Background()
	store := repository.NewTreapStore(ctx)
	for _, f := range films {
		if _, err := store.Upsert(ctx, f); err != nil {
			panic(err)
		}
	}
	opts = append([]service.Option{
		service.WithStore(store),
		service.WithScorer(scoring.NewScorer(scoring.WithYear(2024))),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc, store
}

func titlesOf(p model.Page) []string {
	out := make([]string, len(p.Movies))
	for i, f := range p.Movies {
		out[i] = f.Title
	}
	return out
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then operations report it is not started", func() {
			_, err := svc.ListMovies(context.Background(), service.ListQuery{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.GetMovie(context.Background(), "x")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats(context.Background()).Started, ShouldBeFalse)
		})
	})

	Convey("Given a service without an injected store", t, func() {
		svc := service.New(service.WithDataDir(""))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then it runs on an empty in-memory catalog", func() {
			st := svc.GetStats(context.Background())
			So(st.Started, ShouldBeTrue)
			So(st.Films, ShouldEqual, 0)
			So(st.CuratedTitles, ShouldEqual, len(ranking.DefaultCuratedTitles()))
		})

		Convey("Then Stop is idempotent", func() {
			svc.Stop()
			svc.Stop()
			So(svc.GetStats(context.Background()).Started, ShouldBeFalse)
		})
	})

	Convey("Given a data directory", t, func() {
		dir := t.TempDir()
		ctx := context.Background()
		svc := service.New(service.WithDataDir(dir))
		So(svc.Start(ctx), ShouldBeNil)
		_, err := svc.Import(ctx, []model.Film{bergman()})
		So(err, ShouldBeNil)
		svc.Stop()

		Convey("When the service restarts", func() {
			again := service.New(service.WithDataDir(dir))
			So(again.Start(ctx), ShouldBeNil)
			defer again.Stop()

			Convey("Then the imported film is still there", func() {
				page, err := again.ListMovies(ctx, service.ListQuery{})
				So(err, ShouldBeNil)
				So(titlesOf(page), ShouldResemble, []string{"The Seventh Seal"})
			})
		})
	})
}

func TestListMovies(t *testing.T) {
	persona := model.Film{ID: "p", Title: "Persona", BaseCanonScore: 50, Year: 1966, Genres: []string{"Horror"}, Tier: 1}
	mirror := model.Film{ID: "m", Title: "Mirror", BaseCanonScore: 60, Year: 1975, Genres: []string{"Horror"}, Tier: 1}
	other := model.Film{ID: "o", Title: "Other", BaseCanonScore: 90, Year: 2001, Genres: []string{"Horror"}, Tier: 1}

	Convey("Given a catalog and a curated list of Persona then Mirror", t, func() {
		svc, _ := started([]model.Film{other, mirror, persona},
			service.WithRanking(ranking.WithCuratedTitles([]string{"Persona", "Mirror"})))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When listing in curated mode without filters", func() {
			page, err := svc.ListMovies(ctx, service.ListQuery{Curated: true})

			Convey("Then curated titles lead in list order", func() {
				So(err, ShouldBeNil)
				So(titlesOf(page), ShouldResemble, []string{"Persona", "Mirror", "Other"})
			})
		})

		Convey("When listing in curated mode with a genre filter", func() {
			q := service.ListQuery{Curated: true, Filter: catalog.Filter{Genre: "Horror"}}
			page, err := svc.ListMovies(ctx, q)

			Convey("Then curated ordering is bypassed for the tiered sort", func() {
				So(err, ShouldBeNil)
				So(q.Mode(), ShouldEqual, service.ModeStandard)
				So(titlesOf(page), ShouldResemble, []string{"Other", "Mirror", "Persona"})
			})
		})

		Convey("When curated pagination splits the concatenation", func() {
			page, err := svc.ListMovies(ctx, service.ListQuery{Curated: true, Limit: 2, Page: 2})

			Convey("Then later pages hold the tiered rest", func() {
				So(err, ShouldBeNil)
				So(titlesOf(page), ShouldResemble, []string{"Other"})
				So(page.Total, ShouldEqual, 3)
				So(page.Pages, ShouldEqual, 2)
			})
		})

		Convey("When listing in standard mode with a page size", func() {
			page, err := svc.ListMovies(ctx, service.ListQuery{Limit: 2})

			Convey("Then the first page is tiered", func() {
				So(err, ShouldBeNil)
				So(titlesOf(page), ShouldResemble, []string{"Other", "Mirror"})
				So(page.Page, ShouldEqual, 1)
				So(page.Pages, ShouldEqual, 2)
			})
		})

		Convey("When searching by title", func() {
			page, err := svc.ListMovies(ctx, service.ListQuery{Filter: catalog.Filter{Search: "mIRR"}})

			Convey("Then only matching films are returned", func() {
				So(err, ShouldBeNil)
				So(titlesOf(page), ShouldResemble, []string{"Mirror"})
			})
		})

		Convey("When both random and curated are requested", func() {
			q := service.ListQuery{Random: true, Curated: true}
			page, err := svc.ListMovies(ctx, q)

			Convey("Then random wins and the catalog comes back as one page", func() {
				So(err, ShouldBeNil)
				So(q.Mode(), ShouldEqual, service.ModeRandom)
				So(page.Total, ShouldEqual, 3)
				So(page.Pages, ShouldEqual, 1)
				So(titlesOf(page), ShouldHaveLength, 3)
			})
		})

		Convey("When the limit is negative", func() {
			_, err := svc.ListMovies(ctx, service.ListQuery{Limit: -1})

			Convey("Then the query is rejected as a bad request", func() {
				So(errors.Is(err, service.ErrBadRequest), ShouldBeTrue)
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			capped, _ := started([]model.Film{other, mirror, persona}, service.WithPageLimits(1, 2))
			defer capped.Stop()
			page, err := capped.ListMovies(ctx, service.ListQuery{Limit: 50})

			Convey("Then it is clamped", func() {
				So(err, ShouldBeNil)
				So(page.Movies, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given 60 high-tier and 40 low-tier films", t, func() {
		var films []model.Film
		for i := range 100 {
			score := 90
			if i >= 60 {
				score = 30
			}
			films = append(films, model.Film{ID: string(rune('A'+i%26)) + string(rune('a'+i/26)), Title: "f", BaseCanonScore: score})
		}
		svc, _ := started(films)
		defer svc.Stop()

		Convey("When listing in random mode", func() {
			page, err := svc.ListMovies(context.Background(), service.ListQuery{Random: true})

			Convey("Then the first 50 are high tier", func() {
				So(err, ShouldBeNil)
				So(page.Movies, ShouldHaveLength, 100)
				for _, f := range page.Movies[:50] {
					So(f.BaseCanonScore, ShouldBeGreaterThanOrEqualTo, 70)
				}
			})
		})
	})
}

func TestMovieLookups(t *testing.T) {
	Convey("Given a catalog with a stale score", t, func() {
		f := bergman()
		f.ID = "seal"
		f.BaseCanonScore = 40
		g := model.Film{ID: "x", Title: "Xanadu", Genres: []string{"Fantasy", "Music"}, Directors: []string{"Robert Greenwald"},
			DerivedTags: []string{"camp", "Sweden"}}
		svc, _ := started([]model.Film{f, g})
		defer svc.Stop()
		ctx := context.Background()

		Convey("When fetching a missing film", func() {
			_, err := svc.GetMovie(ctx, "nope")

			Convey("Then the store's not found error surfaces", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When requesting the score breakdown", func() {
			rep, err := svc.ScoreBreakdown(ctx, "seal")

			Convey("Then the live total differs from the persisted score", func() {
				So(err, ShouldBeNil)
				So(rep.Breakdown.Total, ShouldEqual, 100)
				So(rep.BaseCanonScore, ShouldEqual, 40)
				So(rep.Stale, ShouldBeTrue)
				So(rep.CurrentYear, ShouldEqual, 2024)
			})

			Convey("And it places the film in the tiered listing", func() {
				So(rep.Position, ShouldEqual, 1)
				other, err := svc.ScoreBreakdown(ctx, "x")
				So(err, ShouldBeNil)
				So(other.Position, ShouldEqual, 2)
			})
		})

		Convey("When listing facets", func() {
			genres, err := svc.Genres(ctx)
			So(err, ShouldBeNil)
			directors, err := svc.Directors(ctx)
			So(err, ShouldBeNil)
			tags, err := svc.Tags(ctx)
			So(err, ShouldBeNil)
			refs, err := svc.Titles(ctx)
			So(err, ShouldBeNil)

			Convey("Then they are distinct and sorted", func() {
				So(genres, ShouldResemble, []string{"Drama", "Fantasy", "Music"})
				So(directors, ShouldResemble, []string{"Ingmar Bergman", "Robert Greenwald"})
				So(tags, ShouldResemble, []string{"camp", "contemplative", "existential"})
				So(refs, ShouldHaveLength, 2)
				So(refs[0].Title, ShouldEqual, "The Seventh Seal")
			})
		})
	})
}

func TestImport(t *testing.T) {
	Convey("Given an empty catalog", t, func() {
		svc, store := started(nil)
		defer svc.Stop()
		ctx := context.Background()

		withTMDB := bergman()
		withTMDB.TMDBID = 490
		plain := model.Film{Title: " Stalker ", Year: 1979, Directors: []string{"Andrei Tarkovsky"}}

		Convey("When importing films", func() {
			rep, err := svc.Import(ctx, []model.Film{withTMDB, plain, {Title: "  "}})

			Convey("Then valid films are scored and stored", func() {
				So(err, ShouldBeNil)
				So(rep.Created, ShouldEqual, 2)
				So(rep.Failed, ShouldEqual, 1)
				So(rep.Errors, ShouldHaveLength, 1)

				got, err := store.Get(ctx, "tmdb-490")
				So(err, ShouldBeNil)
				So(got.BaseCanonScore, ShouldEqual, 100)
				So(got.Decade, ShouldEqual, 1950)
				So(got.UpdatedAt.IsZero(), ShouldBeFalse)

				stalker, err := store.Get(ctx, service.FilmID(model.Film{Title: "Stalker", Year: 1979}))
				So(err, ShouldBeNil)
				So(stalker.Title, ShouldEqual, "Stalker")
			})

			Convey("And importing again updates in place", func() {
				again, err := svc.Import(ctx, []model.Film{withTMDB, plain})
				So(err, ShouldBeNil)
				So(again.Created, ShouldEqual, 0)
				So(again.Updated, ShouldEqual, 2)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})

	Convey("Given films to identify", t, func() {
		Convey("Then IDs are stable and prefer existing or TMDB ids", func() {
			So(service.FilmID(model.Film{ID: "keep", TMDBID: 5}), ShouldEqual, "keep")
			So(service.FilmID(model.Film{TMDBID: 5}), ShouldEqual, "tmdb-5")
			a := service.FilmID(model.Film{Title: "Mirror", Year: 1975})
			So(a, ShouldEqual, service.FilmID(model.Film{Title: "mirror ", Year: 1975}))
			So(a, ShouldNotEqual, service.FilmID(model.Film{Title: "Mirror", Year: 1976}))
		})
	})
}

func TestRecompute(t *testing.T) {
	Convey("Given films with stale and current scores", t, func() {
		scorer := scoring.NewScorer(scoring.WithYear(2024))
		stale := bergman()
		stale.ID = "seal"
		stale.BaseCanonScore = 40

		drift := model.Film{ID: "drift", Title: "Drift", Year: 2015, VoteAverage: 6.5, VoteCount: 100, Popularity: 10}
		drift.BaseCanonScore = scorer.Score(drift) + 3

		current := model.Film{ID: "cur", Title: "Current", Year: 2010, VoteAverage: 6.0, Popularity: 200}
		current.BaseCanonScore = scorer.Score(current)

		svc, store := started([]model.Film{stale, drift, current},
			service.WithWorkerCount(2), service.WithQueueSize(1))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When recomputing", func() {
			rep, err := svc.Recompute(ctx)

			Convey("Then changes are counted and persisted", func() {
				So(err, ShouldBeNil)
				So(rep.Total, ShouldEqual, 3)
				So(rep.Changed, ShouldEqual, 2)
				So(rep.Unchanged, ShouldEqual, 1)
				So(rep.Failed, ShouldEqual, 0)
				So(rep.CurrentYear, ShouldEqual, 2024)

				got, err := store.Get(ctx, "seal")
				So(err, ShouldBeNil)
				So(got.BaseCanonScore, ShouldEqual, 100)
			})

			Convey("And only moves above the threshold are significant", func() {
				So(rep.Significant, ShouldHaveLength, 1)
				So(rep.Significant[0].ID, ShouldEqual, "seal")
				So(rep.Significant[0].Delta, ShouldEqual, 60)
				So(rep.Top(20), ShouldHaveLength, 1)
				So(rep.Top(0), ShouldBeEmpty)
				So(func() { rep.Top(-1) }, ShouldNotPanic)
				So(rep.Top(-1), ShouldBeEmpty)
			})

			Convey("And the report is kept in the stats", func() {
				st := svc.GetStats(ctx)
				So(st.LastRecompute, ShouldNotBeNil)
				So(st.LastRecompute.Changed, ShouldEqual, 2)
			})

			Convey("And a second run finds nothing to change", func() {
				again, err := svc.Recompute(ctx)
				So(err, ShouldBeNil)
				So(again.Changed, ShouldEqual, 0)
				So(again.Unchanged, ShouldEqual, 3)
			})
		})
	})
}

func TestExportScores(t *testing.T) {
	Convey("Given films with sparse metadata", t, func() {
		svc, _ := started([]model.Film{
			{ID: "a", Title: "Alpha", Year: 1960, Directors: []string{"A. Dir", "B. Dir"}, BaseCanonScore: 70, VoteAverage: 7.5},
			{ID: "b", BaseCanonScore: 90},
			{ID: "c", Title: "Beta", Year: 1999, BaseCanonScore: 70, VoteAverage: 8},
		})
		defer svc.Stop()

		Convey("When exporting", func() {
			var buf bytes.Buffer
			n, err := svc.ExportScores(context.Background(), &buf)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)

			rows, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then rows are ranked by score with placeholders for gaps", func() {
				So(rows, ShouldResemble, [][]string{
					{"Rank", "Title", "Year", "Director", "Canon Score", "TMDB Rating"},
					{"1", "Unknown", "N/A", "Unknown", "90", "0"},
					{"2", "Alpha", "1960", "A. Dir", "70", "7.5"},
					{"3", "Beta", "1999", "Unknown", "70", "8"},
				})
			})
		})
	})
}
