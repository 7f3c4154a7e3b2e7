package memory

import (
	"context"
	"fmt"
	"sync"

	"teammatch/internal/models"
	"teammatch/internal/storage"

	"go.uber.org/zap"
)

// Store is an in-process registry. Records are copied on the way in and out.
type Store struct {
	mu sync.RWMutex

	profiles     map[string]*models.Profile
	profileOrder []string

	matches    map[string]*models.Match
	matchOrder []string

	logger *zap.Logger
}

var _ storage.Registry = (*Store)(nil)

func New(logger *zap.Logger) *Store {
	return &Store{
		profiles: make(map[string]*models.Profile),
		matches:  make(map[string]*models.Match),
		logger:   logger,
	}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) PutProfile(_ context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("put profile: %w", storage.ErrEmptyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; !ok {
		s.profileOrder = append(s.profileOrder, profile.ID)
	}
	s.profiles[profile.ID] = profile.Clone()

	s.logger.Debug("profile stored", zap.String("profile_id", profile.ID))

	return nil
}

func (s *Store) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, nil
	}

	return profile.Clone(), nil
}

func (s *Store) ListProfiles(_ context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		profiles = append(profiles, *s.profiles[id].Clone())
	}

	return profiles, nil
}

func (s *Store) PutMatch(_ context.Context, match *models.Match) error {
	if match.ID == "" {
		return fmt.Errorf("put match: %w", storage.ErrEmptyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[match.ID]; !ok {
		s.matchOrder = append(s.matchOrder, match.ID)
	}
	s.matches[match.ID] = match.Clone()

	s.logger.Debug("match stored",
		zap.String("match_id", match.ID),
		zap.String("status", string(match.Status)),
	)

	return nil
}

func (s *Store) GetMatch(_ context.Context, id string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, ok := s.matches[id]
	if !ok {
		return nil, nil
	}

	return match.Clone(), nil
}

func (s *Store) ListMatches(_ context.Context) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]models.Match, 0, len(s.matchOrder))
	for _, id := range s.matchOrder {
		matches = append(matches, *s.matches[id].Clone())
	}

	return matches, nil
}
