package bot

import (
	"context"
	"errors"
	"time"

	"teammatch/internal/matching"
	"teammatch/internal/models"
	"teammatch/internal/notify"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Responder is the part of matching.Service the bot drives
type Responder interface {
	ParticipantByChat(ctx context.Context, matchID string, chatID int64) (string, error)
	Respond(ctx context.Context, matchID, profileID string, action models.MatchAction) (*models.Match, error)
}

var _ Responder = (*matching.Service)(nil)

type handler struct {
	service Responder
	logger  *zap.Logger
}

// handleCallback processes presses on proposal answer buttons
func (h *handler) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		h.logger.Warn("callback is nil")
		return nil
	}

	chatID := chatOf(c)
	h.logger.Info("received callback",
		zap.String("data", cb.Data),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", cb.ID),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return c.Respond(&tele.CallbackResponse{Text: h.answer(ctx, chatID, cb.Data)})
}

// answer records the response encoded in data and returns the text shown to the user
func (h *handler) answer(ctx context.Context, chatID int64, data string) string {
	matchID, action, ok := notify.ParseResponse(data)
	if !ok {
		h.logger.Warn("unknown callback action", zap.String("data", data))
		return "❓ Unknown action"
	}

	profileID, err := h.service.ParticipantByChat(ctx, matchID, chatID)
	if err != nil {
		return h.failure(matchID, chatID, err)
	}

	match, err := h.service.Respond(ctx, matchID, profileID, action)
	if err != nil {
		return h.failure(matchID, chatID, err)
	}

	switch match.Status {
	case models.MatchStatusMutualInterest:
		return "🤝 It's a match! Check your messages"
	case models.MatchStatusNotInterested:
		return "👌 Got it, the match is closed"
	default:
		return "✅ Answer saved, waiting for your teammate"
	}
}

func (h *handler) failure(matchID string, chatID int64, err error) string {
	switch {
	case errors.Is(err, matching.ErrMatchNotFound):
		return "❌ Match not found"
	case errors.Is(err, matching.ErrNotParticipant):
		return "🚫 This match is not yours"
	case errors.Is(err, models.ErrMatchClosed):
		return "⌛ This match is already closed"
	}

	h.logger.Error("failed to record response",
		zap.String("match_id", matchID),
		zap.Int64("chat_id", chatID),
		zap.Error(err),
	)
	return "😔 Something went wrong, try again later"
}

func chatOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}
