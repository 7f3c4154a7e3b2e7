package notify

import (
	"context"
	"fmt"

	"teammatch/internal/models"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot used for delivery
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram delivers match messages through the Bot API
type Telegram struct {
	bot    Sender
	logger *zap.Logger
}

var _ Notifier = (*Telegram)(nil)

func NewTelegram(bot Sender, logger *zap.Logger) *Telegram {
	return &Telegram{bot: bot, logger: logger}
}

// Proposed sends each participant the other's profile with answer buttons
func (t *Telegram) Proposed(ctx context.Context, match *models.Match, sender, receiver *models.Profile) error {
	return t.deliver(ctx, "proposal", match, sender, receiver, func(teammate *models.Profile) (string, *tele.ReplyMarkup) {
		return FormatProposal(match, teammate), ResponseKeyboard(match.ID)
	})
}

// MutualInterest messages every participant that has a chat id, each about the other
func (t *Telegram) MutualInterest(ctx context.Context, match *models.Match, sender, receiver *models.Profile) error {
	return t.deliver(ctx, "mutual interest", match, sender, receiver, func(teammate *models.Profile) (string, *tele.ReplyMarkup) {
		return FormatMutualInterest(match, teammate), nil
	})
}

// deliver sends each participant with a chat id the message built about the other one
func (t *Telegram) deliver(
	ctx context.Context,
	kind string,
	match *models.Match,
	sender, receiver *models.Profile,
	build func(teammate *models.Profile) (string, *tele.ReplyMarkup),
) error {
	var errs error

	for _, pair := range [][2]*models.Profile{{sender, receiver}, {receiver, sender}} {
		to, teammate := pair[0], pair[1]

		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}

		if to == nil || to.TelegramChatID == nil {
			continue
		}

		text, markup := build(teammate)
		opts := []interface{}{tele.ModeMarkdownV2}
		if markup != nil {
			opts = append(opts, markup)
		}

		if _, err := t.bot.Send(tele.ChatID(*to.TelegramChatID), text, opts...); err != nil {
			t.logger.Error("failed to send "+kind+" notification",
				zap.String("match_id", match.ID),
				zap.String("profile_id", to.ID),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("notify profile %s: %w", to.ID, err))
			continue
		}

		t.logger.Info(kind+" notification sent",
			zap.String("match_id", match.ID),
			zap.String("profile_id", to.ID),
		)
	}

	return errs
}
