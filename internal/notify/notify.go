package notify

import (
	"context"

	"teammatch/internal/models"
)

// Notifier reaches match participants outside the registry
type Notifier interface {
	// Proposed asks both participants to answer a new match
	Proposed(ctx context.Context, match *models.Match, sender, receiver *models.Profile) error
	// MutualInterest tells both participants that a match became mutual
	MutualInterest(ctx context.Context, match *models.Match, sender, receiver *models.Profile) error
}

// Nop is used when no delivery channel is configured
type Nop struct{}

func (Nop) Proposed(context.Context, *models.Match, *models.Profile, *models.Profile) error {
	return nil
}

func (Nop) MutualInterest(context.Context, *models.Match, *models.Profile, *models.Profile) error {
	return nil
}
