// Package storage defines the registry contract for profiles and matches.
//
// Put inserts or replaces a record under its id. Get returns nil, nil when
// no record exists. List returns records in first-insertion order; replacing
// a record keeps its position.
//
// Timestamps come back as the same instant but not always in the same
// location: the Redis cache and Postgres may return a fixed zone or UTC for
// a time stored with another location. Compare them with time.Equal.
package storage

import (
	"context"
	"errors"

	"teammatch/internal/models"
)

var ErrEmptyID = errors.New("record id is empty")

type ProfileStore interface {
	PutProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

type MatchStore interface {
	PutMatch(ctx context.Context, match *models.Match) error
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
}

// Registry holds all profiles and matches
type Registry interface {
	ProfileStore
	MatchStore
	Close() error
}
