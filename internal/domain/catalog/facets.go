package catalog

import (
	"slices"
	"strings"

	"github.com/okian/arthouse/internal/domain/model"
)

// tagBlacklist holds country and standard genre names that leak into derived tags.
var tagBlacklist = map[string]struct{}{
	// countries and cities
	"afghanistan": {}, "colombia": {}, "denmark": {}, "germany": {}, "iran": {}, "italy": {},
	"japan": {}, "london": {}, "new york": {}, "france": {}, "usa": {}, "uk": {},
	"united kingdom": {}, "spain": {}, "sweden": {}, "russia": {}, "soviet union": {},
	"china": {}, "hong kong": {}, "taiwan": {}, "south korea": {}, "mexico": {}, "india": {},
	"australia": {}, "canada": {}, "brazil": {},
	// standard genres
	"action": {}, "adventure": {}, "animation": {}, "comedy": {}, "crime": {},
	"documentary": {}, "drama": {}, "family": {}, "fantasy": {}, "history": {}, "horror": {},
	"music": {}, "mystery": {}, "romance": {}, "science fiction": {}, "thriller": {},
	"war": {}, "western": {}, "tv movie": {},
}

// IsBlacklistedTag reports whether tag names a country or a standard genre.
func IsBlacklistedTag(tag string) bool {
	_, ok := tagBlacklist[strings.ToLower(tag)]
	return ok
}

// Genres returns the distinct genres of films, sorted.
func Genres(films []model.Film) []string {
	return distinct(films, func(f model.Film) []string { return f.Genres }, nil)
}

// Directors returns the distinct credited directors of films, sorted.
func Directors(films []model.Film) []string {
	return distinct(films, func(f model.Film) []string { return f.Directors }, nil)
}

// Tags returns the distinct mood and style tags of films, sorted, without blacklisted names.
func Tags(films []model.Film) []string {
	return distinct(films, func(f model.Film) []string { return f.DerivedTags }, IsBlacklistedTag)
}

// TitleRef is an id/title pair.
type TitleRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Titles returns id/title pairs sorted by title, then id.
func Titles(films []model.Film) []TitleRef {
	out := make([]TitleRef, 0, len(films))
	for _, f := range films {
		out = append(out, TitleRef{ID: f.ID, Title: f.Title})
	}
	slices.SortFunc(out, func(a, b TitleRef) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func distinct(films []model.Film, values func(model.Film) []string, skip func(string) bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, f := range films {
		for _, v := range values(f) {
			if v == "" {
				continue
			}
			if skip != nil && skip(v) {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
