package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrNotFound         = errors.New("film not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrInvalidFilm      = errors.New("invalid film")
	ErrInvalidDirector  = errors.New("invalid director")
	ErrStoreClosed      = errors.New("store closed")
)
