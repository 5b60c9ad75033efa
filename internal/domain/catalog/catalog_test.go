package catalog_test

import (
	"testing"

	"github.com/okian/arthouse/internal/domain/catalog"
	"github.com/okian/arthouse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func films() []model.Film {
	return []model.Film{
		{ID: "1", Title: "Persona", Year: 1966, Decade: 1960, Directors: []string{"Ingmar Bergman"},
			Genres: []string{"Drama"}, DerivedTags: []string{"psychological", "Sweden"}},
		{ID: "2", Title: "Mirror", Year: 1975, Decade: 1970, Directors: []string{"Andrei Tarkovsky"},
			Genres: []string{"Drama", "History"}, DerivedTags: []string{"dreamlike", "poetic"}},
		{ID: "3", Title: "Mirror (1997)", Year: 1997, Decade: 1990, Directors: []string{"Jafar Panahi"},
			Genres: []string{"Drama"}, DerivedTags: []string{"Drama", "intimate"}},
		{ID: "4", Title: "Suspiria", Year: 1977, Decade: 1970, Directors: []string{"Dario Argento"},
			Genres: []string{"Horror"}, DerivedTags: []string{"surreal"}},
	}
}

func ids(in []model.Film, f catalog.Filter) []string {
	out := []string{}
	for _, film := range in {
		if f.Matches(film) {
			out = append(out, film.ID)
		}
	}
	return out
}

func TestFilterMatches(t *testing.T) {
	Convey("Given a small catalog", t, func() {
		all := films()

		Convey("Then an empty filter matches everything", func() {
			So(catalog.Filter{}.IsZero(), ShouldBeTrue)
			So(ids(all, catalog.Filter{}), ShouldResemble, []string{"1", "2", "3", "4"})
		})

		Convey("Then search is a case-insensitive title substring", func() {
			So(ids(all, catalog.Filter{Search: "mIrRoR"}), ShouldResemble, []string{"2", "3"})
		})

		Convey("Then search treats pattern characters literally", func() {
			So(ids(all, catalog.Filter{Search: "(1997)"}), ShouldResemble, []string{"3"})
			So(ids(all, catalog.Filter{Search: ".*"}), ShouldBeEmpty)
		})

		Convey("Then director is a case-insensitive substring of any credit", func() {
			So(ids(all, catalog.Filter{Director: "tarkov"}), ShouldResemble, []string{"2"})
		})

		Convey("Then year and decade are exact", func() {
			So(ids(all, catalog.Filter{Year: 1977}), ShouldResemble, []string{"4"})
			So(ids(all, catalog.Filter{Decade: 1970}), ShouldResemble, []string{"2", "4"})
		})

		Convey("Then genre requires membership", func() {
			So(ids(all, catalog.Filter{Genre: "History"}), ShouldResemble, []string{"2"})
			So(ids(all, catalog.Filter{Genre: "history"}), ShouldBeEmpty)
		})

		Convey("Then tags need one common entry", func() {
			So(ids(all, catalog.Filter{Tags: []string{"surreal", "poetic"}}), ShouldResemble, []string{"2", "4"})
		})

		Convey("Then titles are exact", func() {
			So(ids(all, catalog.Filter{Titles: []string{"Mirror", "Persona"}}), ShouldResemble, []string{"1", "2"})
		})

		Convey("Then criteria combine with AND", func() {
			f := catalog.Filter{Search: "mirror", Decade: 1990}
			So(f.IsZero(), ShouldBeFalse)
			So(ids(all, f), ShouldResemble, []string{"3"})
		})
	})
}

func TestSplitList(t *testing.T) {
	Convey("Given comma-separated query values", t, func() {
		So(catalog.SplitList(""), ShouldBeNil)
		So(catalog.SplitList("  "), ShouldBeNil)
		So(catalog.SplitList("slow, poetic ,,"), ShouldResemble, []string{"slow", "poetic"})
	})
}

func TestFacets(t *testing.T) {
	Convey("Given a small catalog", t, func() {
		all := films()

		Convey("Then genres and directors are distinct and sorted", func() {
			So(catalog.Genres(all), ShouldResemble, []string{"Drama", "History", "Horror"})
			So(catalog.Directors(all), ShouldResemble,
				[]string{"Andrei Tarkovsky", "Dario Argento", "Ingmar Bergman", "Jafar Panahi"})
		})

		Convey("Then tags exclude countries and genres regardless of case", func() {
			So(catalog.Tags(all), ShouldResemble,
				[]string{"dreamlike", "intimate", "poetic", "psychological", "surreal"})
			So(catalog.IsBlacklistedTag("New York"), ShouldBeTrue)
			So(catalog.IsBlacklistedTag("TV Movie"), ShouldBeTrue)
			So(catalog.IsBlacklistedTag("slow"), ShouldBeFalse)
		})

		Convey("Then titles are sorted by title", func() {
			refs := catalog.Titles(all)
			So(len(refs), ShouldEqual, 4)
			So(refs[0], ShouldResemble, catalog.TitleRef{ID: "2", Title: "Mirror"})
			So(refs[3].Title, ShouldEqual, "Suspiria")
		})

		Convey("Then an empty catalog yields empty, non-nil facets", func() {
			So(catalog.Genres(nil), ShouldNotBeNil)
			So(catalog.Genres(nil), ShouldBeEmpty)
		})
	})
}
