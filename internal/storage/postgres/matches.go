package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"teammatch/internal/models"
	"teammatch/internal/storage"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var matchColumns = []string{
	"id", "sender_id", "receiver_id", "hackathon_id",
	"match_score", "skill_score", "timezone_score",
	"strengths", "considerations", "status", "sender_action", "receiver_action",
	"candidate", "created_at", "updated_at",
}

// candidateJSON stores the embedded profile as a JSONB column
type candidateJSON struct {
	Profile *models.Profile
}

func (c candidateJSON) Value() (driver.Value, error) {
	if c.Profile == nil {
		return nil, nil
	}

	data, err := json.Marshal(c.Profile)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate: %w", err)
	}

	// string rather than []byte so it is sent as text, not bytea
	return string(data), nil
}

func (c *candidateJSON) Scan(value interface{}) error {
	var data []byte

	switch v := value.(type) {
	case nil:
		c.Profile = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unexpected candidate type %T", value)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("unmarshal candidate: %w", err)
	}

	c.Profile = &p
	return nil
}

type matchRow struct {
	ID             string              `db:"id"`
	SenderID       string              `db:"sender_id"`
	ReceiverID     string              `db:"receiver_id"`
	HackathonID    string              `db:"hackathon_id"`
	MatchScore     float64             `db:"match_score"`
	SkillScore     float64             `db:"skill_score"`
	TimezoneScore  float64             `db:"timezone_score"`
	Strengths      pq.StringArray      `db:"strengths"`
	Considerations pq.StringArray      `db:"considerations"`
	Status         models.MatchStatus  `db:"status"`
	SenderAction   *models.MatchAction `db:"sender_action"`
	ReceiverAction *models.MatchAction `db:"receiver_action"`
	Candidate      candidateJSON       `db:"candidate"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      *time.Time          `db:"updated_at"`
}

func (r *matchRow) toModel() *models.Match {
	return &models.Match{
		ID:             r.ID,
		SenderID:       r.SenderID,
		ReceiverID:     r.ReceiverID,
		HackathonID:    r.HackathonID,
		MatchScore:     r.MatchScore,
		SkillScore:     r.SkillScore,
		TimezoneScore:  r.TimezoneScore,
		Strengths:      []string(r.Strengths),
		Considerations: []string(r.Considerations),
		Status:         r.Status,
		SenderAction:   r.SenderAction,
		ReceiverAction: r.ReceiverAction,
		Candidate:      r.Candidate.Profile,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// PutMatch inserts the match or replaces every column of an existing one
func (s *Store) PutMatch(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		return fmt.Errorf("put match: %w", storage.ErrEmptyID)
	}

	query := `
		INSERT INTO matches (
			id, sender_id, receiver_id, hackathon_id,
			match_score, skill_score, timezone_score,
			strengths, considerations, status, sender_action, receiver_action,
			candidate, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?::jsonb, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			sender_id = EXCLUDED.sender_id,
			receiver_id = EXCLUDED.receiver_id,
			hackathon_id = EXCLUDED.hackathon_id,
			match_score = EXCLUDED.match_score,
			skill_score = EXCLUDED.skill_score,
			timezone_score = EXCLUDED.timezone_score,
			strengths = EXCLUDED.strengths,
			considerations = EXCLUDED.considerations,
			status = EXCLUDED.status,
			sender_action = EXCLUDED.sender_action,
			receiver_action = EXCLUDED.receiver_action,
			candidate = EXCLUDED.candidate,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.sess.
		InsertBySql(query,
			match.ID,
			match.SenderID,
			match.ReceiverID,
			match.HackathonID,
			match.MatchScore,
			match.SkillScore,
			match.TimezoneScore,
			pq.Array(match.Strengths),
			pq.Array(match.Considerations),
			string(match.Status),
			match.SenderAction,
			match.ReceiverAction,
			candidateJSON{Profile: match.Candidate},
			match.CreatedAt,
			match.UpdatedAt,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to put match",
			zap.String("match_id", match.ID),
			zap.Error(err),
		)
		return fmt.Errorf("put match: %w", err)
	}

	s.logger.Debug("match stored",
		zap.String("match_id", match.ID),
		zap.String("status", string(match.Status)),
	)

	return nil
}

func (s *Store) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	var row matchRow

	err := s.sess.
		Select(matchColumns...).
		From("matches").
		Where("id = ?", id).
		LoadOneContext(ctx, &row)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get match",
			zap.String("match_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get match: %w", err)
	}

	return row.toModel(), nil
}

func (s *Store) ListMatches(ctx context.Context) ([]models.Match, error) {
	var rows []matchRow

	_, err := s.sess.
		Select(matchColumns...).
		From("matches").
		OrderBy("seq").
		LoadContext(ctx, &rows)

	if err != nil {
		s.logger.Error("failed to list matches", zap.Error(err))
		return nil, fmt.Errorf("list matches: %w", err)
	}

	matches := make([]models.Match, 0, len(rows))
	for i := range rows {
		matches = append(matches, *rows[i].toModel())
	}

	return matches, nil
}
