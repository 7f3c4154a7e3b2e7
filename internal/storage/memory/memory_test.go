package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"teammatch/internal/models"
	"teammatch/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore() *Store {
	return New(zap.NewNop())
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		s := newStore()
		p := &models.Profile{
			ID:          "p1",
			UserID:      "u1",
			HackathonID: "h1",
			Skills:      []string{"go"},
			LookingFor:  []string{"rust"},
		}
		require.NoError(t, s.PutProfile(ctx, p))

		got, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, p, got)

		missing, err := s.GetProfile(ctx, "p2")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("replace is last write wins", func(t *testing.T) {
		s := newStore()
		bio := "first"
		require.NoError(t, s.PutProfile(ctx, &models.Profile{ID: "p1", UserID: "u1", Bio: &bio, Skills: []string{"go"}}))
		require.NoError(t, s.PutProfile(ctx, &models.Profile{ID: "p1", UserID: "u2"}))

		got, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, &models.Profile{ID: "p1", UserID: "u2"}, got)
	})

	t.Run("stored copy is isolated", func(t *testing.T) {
		s := newStore()
		p := &models.Profile{ID: "p1", Skills: []string{"go"}}
		require.NoError(t, s.PutProfile(ctx, p))
		p.Skills[0] = "java"

		got, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, got.Skills)

		got.Skills[0] = "cobol"
		again, err := s.GetProfile(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, again.Skills)
	})

	t.Run("list keeps first insertion order", func(t *testing.T) {
		s := newStore()
		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.PutProfile(ctx, &models.Profile{ID: id}))
		}
		require.NoError(t, s.PutProfile(ctx, &models.Profile{ID: "c", UserID: "updated"}))

		list, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "c", list[0].ID)
		assert.Equal(t, "updated", list[0].UserID)
		assert.Equal(t, "a", list[1].ID)
		assert.Equal(t, "b", list[2].ID)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		s := newStore()
		err := s.PutProfile(ctx, &models.Profile{UserID: "u1"})
		assert.ErrorIs(t, err, storage.ErrEmptyID)
	})
}

func TestMatches(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("registry does not transition status", func(t *testing.T) {
		s := newStore()
		m := models.NewMatch("m1", "p1", "p2", "h1", created)
		m.MatchScore = 80
		m.SkillScore = 75
		m.TimezoneScore = 90
		require.NoError(t, s.PutMatch(ctx, m))

		interested := models.MatchActionInterested
		m.SenderAction = &interested
		m.ReceiverAction = &interested
		require.NoError(t, s.PutMatch(ctx, m))

		got, err := s.GetMatch(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, got.SenderAction)
		require.NotNil(t, got.ReceiverAction)
		assert.Equal(t, models.MatchActionInterested, *got.SenderAction)
		assert.Equal(t, models.MatchActionInterested, *got.ReceiverAction)
		assert.Equal(t, models.MatchStatusPending, got.Status)
		assert.Equal(t, float64(80), got.MatchScore)
	})

	t.Run("absent match", func(t *testing.T) {
		s := newStore()
		got, err := s.GetMatch(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list order", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.PutMatch(ctx, models.NewMatch("m2", "a", "b", "h", created)))
		require.NoError(t, s.PutMatch(ctx, models.NewMatch("m1", "a", "c", "h", created)))

		list, err := s.ListMatches(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "m2", list[0].ID)
		assert.Equal(t, "m1", list[1].ID)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		s := newStore()
		assert.ErrorIs(t, s.PutMatch(ctx, &models.Match{}), storage.ErrEmptyID)
	})
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i%10)
			_ = s.PutProfile(ctx, &models.Profile{ID: id, Skills: []string{"go"}})
			_, _ = s.GetProfile(ctx, id)
			_, _ = s.ListProfiles(ctx)
		}(i)
	}
	wg.Wait()

	list, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 10)
}
