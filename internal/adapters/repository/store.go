// Package repository stores catalog films and serves them in tiered order.
package repository

import (
	"context"

	"github.com/okian/arthouse/internal/domain/model"
)

// Store provides read/write access to the film catalog.
//
// Listing methods return films in tiered order: tier asc, baseCanonScore
// desc, year desc, id asc.
type Store interface {
	// Upsert inserts or replaces a film by ID. Returns true if the film was new.
	Upsert(ctx context.Context, f model.Film) (bool, error)

	// Get returns the film with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (model.Film, error)

	// All returns every film.
	All(ctx context.Context) ([]model.Film, error)

	// Find returns the films accepted by match.
	Find(ctx context.Context, match func(model.Film) bool) ([]model.Film, error)

	// Position returns the 1-based place of a film in tiered order.
	Position(ctx context.Context, id string) (int, error)

	// Count returns the number of films.
	Count(ctx context.Context) int

	// Close releases resources held by the store.
	Close() error
}

// DirectorStore keeps director profiles. Listings are sorted by name.
type DirectorStore interface {
	UpsertDirector(ctx context.Context, d model.Director) (bool, error)
	GetDirector(ctx context.Context, id string) (model.Director, error)
	// DirectorByName matches the profile name exactly.
	DirectorByName(ctx context.Context, name string) (model.Director, error)
	ListDirectors(ctx context.Context) ([]model.Director, error)
}
