// Package catalog defines catalog query criteria and facet helpers.
package catalog

import (
	"slices"
	"strings"

	"github.com/okian/arthouse/internal/domain/model"
)

// Filter holds the criteria of a catalog query. Zero values mean "unset".
type Filter struct {
	Search   string   // case-insensitive literal substring of the title
	Director string   // case-insensitive literal substring of any credited director
	Year     int      // exact
	Decade   int      // exact
	Genre    string   // exact membership
	Tags     []string // intersects at least one
	Titles   []string // exact title, any of
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Director == "" && f.Year == 0 && f.Decade == 0 &&
		f.Genre == "" && len(f.Tags) == 0 && len(f.Titles) == 0
}

// Matcher compiles the filter into a predicate. Lowercasing happens once.
func (f Filter) Matcher() func(model.Film) bool {
	search := strings.ToLower(f.Search)
	director := strings.ToLower(f.Director)

	return func(film model.Film) bool {
		if search != "" && !strings.Contains(strings.ToLower(film.Title), search) {
			return false
		}
		if director != "" && !slices.ContainsFunc(film.Directors, func(d string) bool {
			return strings.Contains(strings.ToLower(d), director)
		}) {
			return false
		}
		if f.Year != 0 && film.Year != f.Year {
			return false
		}
		if f.Decade != 0 && film.Decade != f.Decade {
			return false
		}
		if f.Genre != "" && !slices.Contains(film.Genres, f.Genre) {
			return false
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(film.DerivedTags, func(t string) bool {
			return slices.Contains(f.Tags, t)
		}) {
			return false
		}
		if len(f.Titles) > 0 && !slices.Contains(f.Titles, film.Title) {
			return false
		}
		return true
	}
}

// Matches reports whether film satisfies every criterion.
func (f Filter) Matches(film model.Film) bool {
	return f.Matcher()(film)
}

// SplitList splits a comma-separated query value, trimming entries and dropping blanks.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
