package postgres

import (
	"context"
	"fmt"
	"time"

	"teammatch/internal/models"
	"teammatch/internal/storage"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var profileColumns = []string{
	"id", "user_id", "hackathon_id", "skills", "looking_for",
	"preferred_role", "availability", "bio", "github_url", "telegram_chat_id",
	"created_at", "updated_at",
}

type profileRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	HackathonID    string         `db:"hackathon_id"`
	Skills         pq.StringArray `db:"skills"`
	LookingFor     pq.StringArray `db:"looking_for"`
	PreferredRole  *string        `db:"preferred_role"`
	Availability   *string        `db:"availability"`
	Bio            *string        `db:"bio"`
	GithubURL      *string        `db:"github_url"`
	TelegramChatID *int64         `db:"telegram_chat_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *profileRow) toModel() *models.Profile {
	return &models.Profile{
		ID:             r.ID,
		UserID:         r.UserID,
		HackathonID:    r.HackathonID,
		Skills:         []string(r.Skills),
		LookingFor:     []string(r.LookingFor),
		PreferredRole:  r.PreferredRole,
		Availability:   r.Availability,
		Bio:            r.Bio,
		GithubURL:      r.GithubURL,
		TelegramChatID: r.TelegramChatID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// PutProfile inserts the profile or replaces every column of an existing one
func (s *Store) PutProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("put profile: %w", storage.ErrEmptyID)
	}

	query := `
		INSERT INTO profiles (
			id, user_id, hackathon_id, skills, looking_for,
			preferred_role, availability, bio, github_url, telegram_chat_id,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			hackathon_id = EXCLUDED.hackathon_id,
			skills = EXCLUDED.skills,
			looking_for = EXCLUDED.looking_for,
			preferred_role = EXCLUDED.preferred_role,
			availability = EXCLUDED.availability,
			bio = EXCLUDED.bio,
			github_url = EXCLUDED.github_url,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.sess.
		InsertBySql(query,
			profile.ID,
			profile.UserID,
			profile.HackathonID,
			pq.Array(profile.Skills),
			pq.Array(profile.LookingFor),
			profile.PreferredRole,
			profile.Availability,
			profile.Bio,
			profile.GithubURL,
			profile.TelegramChatID,
			profile.CreatedAt,
			profile.UpdatedAt,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to put profile",
			zap.String("profile_id", profile.ID),
			zap.Error(err),
		)
		return fmt.Errorf("put profile: %w", err)
	}

	s.logger.Debug("profile stored",
		zap.String("profile_id", profile.ID),
		zap.String("hackathon_id", profile.HackathonID),
	)

	return nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var row profileRow

	err := s.sess.
		Select(profileColumns...).
		From("profiles").
		Where("id = ?", id).
		LoadOneContext(ctx, &row)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get profile",
			zap.String("profile_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return row.toModel(), nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var rows []profileRow

	_, err := s.sess.
		Select(profileColumns...).
		From("profiles").
		OrderBy("seq").
		LoadContext(ctx, &rows)

	if err != nil {
		s.logger.Error("failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]models.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, *rows[i].toModel())
	}

	return profiles, nil
}
