package imdb

import (
	"context"
	"errors"
)

// ErrNotFound is returned when IMDb has no title for the requested ID.
var ErrNotFound = errors.New("title not found")

// Title represents a movie or series title as published by IMDb.
type Title struct {
	ID          string
	Name        string
	Type        string
	Year        int
	Rating      string
	Duration    string
	Genres      []string
	Description string
	Poster      string
}

// IsSeries reports whether the title is a TV series.
func (t *Title) IsSeries() bool {
	return t.Type == "TVSeries" || t.Type == "TVMiniSeries"
}

// IMDB defines the methods to interact with the IMDB service.
type IMDB interface {
	// GetTitle gets a Title by its ID.
	GetTitle(ctx context.Context, imdbID string) (*Title, error)
}
