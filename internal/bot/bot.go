// Package bot receives participants' answers to match proposals from Telegram
// and records them through the matching service.
package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot    *tele.Bot
	logger *zap.Logger
}

func New(token string, logger *zap.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("bot initialized successfully")

	return &Bot{bot: b, logger: logger}, nil
}

// API is the underlying client, shared with the notifier for outgoing messages
func (b *Bot) API() *tele.Bot {
	return b.bot
}

// Register routes answer buttons to the service
func (b *Bot) Register(service Responder) {
	b.bot.Use(Recovery(b.logger))

	h := &handler{service: service, logger: b.logger}
	b.bot.Handle(tele.OnCallback, h.handleCallback)

	b.logger.Info("handlers registered")
}

// Start polls for updates until ctx is done
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("starting bot...")

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()
}
