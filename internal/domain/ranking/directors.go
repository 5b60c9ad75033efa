package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/arthouse/internal/domain/model"
)

// DirectorFilms is how many films a director page shows.
const DirectorFilms = 6

var defaultPriorityDirectors = []string{
	"David Lynch",
	"Ingmar Bergman",
	"Krzysztof Kieślowski",
	"Andrei Tarkovsky",
	"Michelangelo Antonioni",
	"Robert Bresson",
	"Jean-Luc Godard",
	"Federico Fellini",
	"Yasujirō Ozu",
	"Akira Kurosawa",
	"Satyajit Ray",
	"Wong Kar-wai",
	"Béla Tarr",
	"Edward Yang",
}

// DefaultPriorityDirectors returns the directors listed ahead of the alphabet.
func DefaultPriorityDirectors() []string {
	return slices.Clone(defaultPriorityDirectors)
}

// WithPriorityDirectors sets the names that lead the director listing, in order.
func WithPriorityDirectors(names []string) Option {
	return func(r *Ranker) {
		r.priority = slices.Clone(names)
	}
}

// SortDirectors returns dirs with priority names first in list order,
// then the rest alphabetically.
func (r *Ranker) SortDirectors(dirs []model.Director) []model.Director {
	rank := make(map[string]int, len(r.priority))
	for i, name := range r.priority {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	out := slices.Clone(dirs)
	slices.SortStableFunc(out, func(a, b model.Director) int {
		ia, okA := rank[a.Name]
		ib, okB := rank[b.Name]
		switch {
		case okA && okB:
			return cmp.Compare(ia, ib)
		case okA:
			return -1
		case okB:
			return 1
		}
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.Name, b.Name),
		)
	})
	return out
}

// TopByScore returns at most n films by baseCanonScore, highest first.
// Equal scores keep their input order.
func TopByScore(films []model.Film, n int) []model.Film {
	out := slices.Clone(films)
	slices.SortStableFunc(out, func(a, b model.Film) int {
		return cmp.Compare(b.BaseCanonScore, a.BaseCanonScore)
	})
	return out[:min(max(n, 0), len(out))]
}
