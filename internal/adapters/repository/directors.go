package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/okian/arthouse/internal/domain/model"
)

// DirectorIndex is an in-memory DirectorStore.
type DirectorIndex struct {
	mu     sync.RWMutex
	byID   map[string]model.Director
	byName map[string]string // name -> id
}

// NewDirectorIndex creates an empty index.
func NewDirectorIndex() *DirectorIndex {
	return &DirectorIndex{
		byID:   make(map[string]model.Director),
		byName: make(map[string]string),
	}
}

// UpsertDirector inserts or replaces a profile by ID. Returns true if it was new.
func (x *DirectorIndex) UpsertDirector(ctx context.Context, d model.Director) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("upsert director: %w", err)
	}
	if d.ID == "" || d.Name == "" {
		return false, fmt.Errorf("upsert director %q: %w", d.Name, ErrInvalidDirector)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	old, exists := x.byID[d.ID]
	if exists && old.Name != d.Name && x.byName[old.Name] == d.ID {
		delete(x.byName, old.Name)
	}
	x.byID[d.ID] = d
	x.byName[d.Name] = d.ID
	return !exists, nil
}

// GetDirector returns the profile with the given ID.
func (x *DirectorIndex) GetDirector(_ context.Context, id string) (model.Director, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	d, ok := x.byID[id]
	if !ok {
		return model.Director{}, ErrDirectorNotFound
	}
	return d, nil
}

// DirectorByName returns the profile whose name is exactly name.
func (x *DirectorIndex) DirectorByName(_ context.Context, name string) (model.Director, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	id, ok := x.byName[name]
	if !ok {
		return model.Director{}, ErrDirectorNotFound
	}
	return x.byID[id], nil
}

// ListDirectors returns every profile sorted by name.
func (x *DirectorIndex) ListDirectors(_ context.Context) ([]model.Director, error) {
	x.mu.RLock()
	out := make([]model.Director, 0, len(x.byID))
	for _, d := range x.byID {
		out = append(out, d)
	}
	x.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Director) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}
