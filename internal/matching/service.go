// Package matching owns the lifecycle of profiles and match proposals on top
// of a storage.Registry: it assigns ids and timestamps, checks proposals, and
// drives every match status transition through the models state machine.
package matching

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"teammatch/internal/models"
	"teammatch/internal/notify"
	"teammatch/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinScore = 0
	MaxScore = 100
)

type Service struct {
	registry storage.Registry
	notifier notify.Notifier
	matchTTL time.Duration
	logger   *zap.Logger

	now   func() time.Time
	newID func() string

	// serializes read-modify-write cycles against the registry
	mu sync.Mutex
}

func New(registry storage.Registry, notifier notify.Notifier, matchTTL time.Duration, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Service{
		registry: registry,
		notifier: notifier,
		matchTTL: matchTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

// SaveProfile creates or replaces a profile. A user gets one profile per hackathon.
func (s *Service) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.UserID == "" || profile.HackathonID == "" {
		return nil, ErrInvalidProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := profile.Clone()
	if p.ID == "" {
		p.ID = s.newID()
	}

	owned, err := s.ProfileFor(ctx, p.UserID, p.HackathonID)
	if err != nil {
		return nil, err
	}
	if owned != nil && owned.ID != p.ID {
		return nil, ErrDuplicateProfile
	}

	existing, err := s.registry.GetProfile(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	now := s.now()
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.registry.PutProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile saved",
		zap.String("profile_id", p.ID),
		zap.String("hackathon_id", p.HackathonID),
		zap.Bool("created", existing == nil),
	)

	return p, nil
}

// ProfileFor returns the user's profile in the hackathon, or nil
func (s *Service) ProfileFor(ctx context.Context, userID, hackathonID string) (*models.Profile, error) {
	profiles, err := s.registry.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	for i := range profiles {
		if profiles[i].UserID == userID && profiles[i].HackathonID == hackathonID {
			return &profiles[i], nil
		}
	}

	return nil, nil
}

type ProposeParams struct {
	SenderID    string
	ReceiverID  string
	HackathonID string

	MatchScore    float64
	SkillScore    float64
	TimezoneScore float64

	Strengths      []string
	Considerations []string
}

func (p ProposeParams) validate() error {
	if p.SenderID == p.ReceiverID {
		return ErrSelfMatch
	}

	for _, score := range []float64{p.MatchScore, p.SkillScore, p.TimezoneScore} {
		if math.IsNaN(score) || score < MinScore || score > MaxScore {
			return ErrInvalidScore
		}
	}

	return nil
}

// Propose stores a new pending match from sender to receiver with the receiver embedded as candidate
func (s *Service) Propose(ctx context.Context, params ProposeParams) (*models.Match, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	sender, err := s.requireProfile(ctx, params.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.requireProfile(ctx, params.ReceiverID)
	if err != nil {
		return nil, err
	}

	if sender.HackathonID != params.HackathonID || receiver.HackathonID != params.HackathonID {
		return nil, ErrHackathonMismatch
	}

	match := models.NewMatch(s.newID(), sender.ID, receiver.ID, params.HackathonID, s.now())
	match.MatchScore = params.MatchScore
	match.SkillScore = params.SkillScore
	match.TimezoneScore = params.TimezoneScore
	match.Strengths = append([]string(nil), params.Strengths...)
	match.Considerations = append([]string(nil), params.Considerations...)
	match.Candidate = receiver

	if err := s.registry.PutMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("save match: %w", err)
	}

	s.logger.Info("match proposed",
		zap.String("match_id", match.ID),
		zap.String("sender_id", sender.ID),
		zap.String("receiver_id", receiver.ID),
		zap.Float64("match_score", match.MatchScore),
	)

	if err := s.notifier.Proposed(ctx, match, sender, receiver); err != nil {
		s.logger.Warn("proposal notification failed",
			zap.String("match_id", match.ID),
			zap.Error(err),
		)
	}

	return match, nil
}

// ParticipantByChat resolves which participant of the match owns the chat
func (s *Service) ParticipantByChat(ctx context.Context, matchID string, chatID int64) (string, error) {
	match, err := s.registry.GetMatch(ctx, matchID)
	if err != nil {
		return "", fmt.Errorf("load match: %w", err)
	}
	if match == nil {
		return "", ErrMatchNotFound
	}

	for _, id := range []string{match.SenderID, match.ReceiverID} {
		profile, err := s.registry.GetProfile(ctx, id)
		if err != nil {
			return "", fmt.Errorf("load profile: %w", err)
		}
		if profile != nil && profile.TelegramChatID != nil && *profile.TelegramChatID == chatID {
			return profile.ID, nil
		}
	}

	return "", ErrNotParticipant
}

// Respond records a participant's action and notifies both sides when the match becomes mutual
func (s *Service) Respond(ctx context.Context, matchID, profileID string, action models.MatchAction) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := s.registry.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	side := match.SideOf(profileID)
	if side == models.SideNone {
		return nil, ErrNotParticipant
	}

	if err := match.Respond(side, action, s.now()); err != nil {
		return nil, err
	}

	if err := s.registry.PutMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("save match: %w", err)
	}

	s.logger.Info("match response recorded",
		zap.String("match_id", match.ID),
		zap.String("side", side.String()),
		zap.String("action", string(action)),
		zap.String("status", string(match.Status)),
	)

	if match.Status == models.MatchStatusMutualInterest {
		s.notifyMutual(ctx, match)
	}

	return match, nil
}

// ExpireStale closes every pending match older than the match TTL
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.registry.ListMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("list matches: %w", err)
	}

	now := s.now()
	expired := 0

	for i := range matches {
		match := &matches[i]
		if !match.IsStale(now, s.matchTTL) {
			continue
		}

		if err := match.Expire(now); err != nil {
			return expired, err
		}

		if err := s.registry.PutMatch(ctx, match); err != nil {
			return expired, fmt.Errorf("save expired match %s: %w", match.ID, err)
		}

		s.logger.Debug("match expired",
			zap.String("match_id", match.ID),
			zap.Time("created_at", match.CreatedAt),
		)
		expired++
	}

	return expired, nil
}

// MatchesFor lists matches the profile sent or received, in insertion order
func (s *Service) MatchesFor(ctx context.Context, profileID string) ([]models.Match, error) {
	matches, err := s.registry.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]models.Match, 0)
	for _, m := range matches {
		if m.SideOf(profileID) != models.SideNone {
			out = append(out, m)
		}
	}

	return out, nil
}

func (s *Service) requireProfile(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.registry.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return profile, nil
}

// notification failures are logged; the transition is already stored
func (s *Service) notifyMutual(ctx context.Context, match *models.Match) {
	sender, err := s.registry.GetProfile(ctx, match.SenderID)
	if err != nil {
		s.logger.Error("failed to load sender for notification", zap.String("match_id", match.ID), zap.Error(err))
		return
	}
	receiver, err := s.registry.GetProfile(ctx, match.ReceiverID)
	if err != nil {
		s.logger.Error("failed to load receiver for notification", zap.String("match_id", match.ID), zap.Error(err))
		return
	}

	if err := s.notifier.MutualInterest(ctx, match, sender, receiver); err != nil {
		s.logger.Warn("mutual interest notification failed",
			zap.String("match_id", match.ID),
			zap.Error(err),
		)
	}
}
