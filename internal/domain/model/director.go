package model

import (
	"strings"
	"time"
)

// Director is a director profile. Films link to it by exact name.
type Director struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	TMDBID       int      `json:"tmdbId,omitempty"`
	Bio          string   `json:"bio"`
	BirthDate    string   `json:"birthDate"`
	DeathDate    string   `json:"deathDate,omitempty"`
	PlaceOfBirth string   `json:"placeOfBirth"`
	ProfileURL   string   `json:"profileUrl"`
	BackdropURL  string   `json:"backdropUrl"`
	KeyStyles    []string `json:"keyStyles"`
	Eras         []string `json:"eras"`
	Awards       []string `json:"awards"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims the name and drops blank list entries.
func (d *Director) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.PlaceOfBirth = strings.TrimSpace(d.PlaceOfBirth)
	d.KeyStyles = compact(d.KeyStyles)
	d.Eras = compact(d.Eras)
	d.Awards = compact(d.Awards)
}
