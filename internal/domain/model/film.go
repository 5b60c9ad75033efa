// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"strings"
	"time"
)

// Film is a catalog record. JSON keys follow the public API consumed by the frontend.
type Film struct {
	ID     string `json:"_id"`
	TMDBID int    `json:"tmdbId,omitempty"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Decade int    `json:"decade"`

	Directors   []string `json:"directors"`   // credited order, display only
	Genres      []string `json:"genres"`      // provider genre names
	DerivedTags []string `json:"derivedTags"` // lowercase mood/style tags
	Country     string   `json:"country"`     // primary production country, may be empty

	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`

	// BaseCanonScore is the persisted arthouse score from the last recompute.
	BaseCanonScore int `json:"baseCanonScore"`
	// Tier is a manual priority bucket; 1 sorts first.
	Tier int `json:"tier"`

	Runtime     int    `json:"runtime,omitempty"`
	Synopsis    string `json:"synopsis,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
	BackdropURL string `json:"backdropUrl,omitempty"`
	TrailerURL  string `json:"trailerUrl,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DecadeOf returns the decade bucket for a release year, e.g. 1957 -> 1950.
func DecadeOf(year int) int {
	if year <= 0 {
		return 0
	}
	return year / 10 * 10
}

// Normalize trims free-form fields, drops blank list entries and derives the decade.
func (f *Film) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Country = strings.TrimSpace(f.Country)
	f.Directors = compact(f.Directors)
	f.Genres = compact(f.Genres)
	f.DerivedTags = compact(f.DerivedTags)
	if f.Decade == 0 {
		f.Decade = DecadeOf(f.Year)
	}
}

// PrimaryDirector returns the first credited director or "".
func (f *Film) PrimaryDirector() string {
	if len(f.Directors) == 0 {
		return ""
	}
	return f.Directors[0]
}

// Directs reports whether name is one of the credited directors, exactly.
func (f *Film) Directs(name string) bool {
	return slices.Contains(f.Directors, name)
}

// compact returns a trimmed copy of in without blank entries.
func compact(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Page is one page of a catalog listing.
type Page struct {
	Movies []Film `json:"movies"`
	Total  int    `json:"total"`
	Page   int    `json:"page"`
	Pages  int    `json:"pages"`
}

// ScoreChange describes a persisted score that moved during a recompute.
type ScoreChange struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Directors []string `json:"directors"`
	OldScore  int      `json:"oldScore"`
	NewScore  int      `json:"newScore"`
	Delta     int      `json:"delta"`
}
