package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"teammatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type sentMessage struct {
	to   string
	text string
	opts []interface{}
}

type fakeBot struct {
	sent   []sentMessage
	failTo string
}

func (f *fakeBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if to.Recipient() == f.failTo {
		return nil, errors.New("chat not found")
	}
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), text: what.(string), opts: opts})
	return &tele.Message{}, nil
}

func chatID(id int64) *int64 { return &id }

func strPtr(s string) *string { return &s }

func fixture() (*models.Match, *models.Profile, *models.Profile) {
	sender := &models.Profile{
		ID:             "p1",
		UserID:         "u1",
		HackathonID:    "eth-global",
		Skills:         []string{"go", "solidity"},
		PreferredRole:  strPtr("backend"),
		TelegramChatID: chatID(100),
	}
	receiver := &models.Profile{
		ID:             "p2",
		UserID:         "u2",
		HackathonID:    "eth-global",
		Skills:         []string{"react"},
		Bio:            strPtr("UI nerd."),
		TelegramChatID: chatID(200),
	}
	m := models.NewMatch("m1", "p1", "p2", "eth-global", time.Now())
	m.MatchScore = 82.5
	m.Strengths = []string{"full-stack coverage"}
	m.Considerations = []string{"different timezones (UTC+3)"}
	return m, sender, receiver
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\_b\\*c\\.", EscapeMarkdown("a_b*c."))
	assert.Equal(t, "\\(x\\) \\- y\\!", EscapeMarkdown("(x) - y!"))
	assert.Equal(t, "back\\\\slash", EscapeMarkdown("back\\slash"))
	assert.Equal(t, "plain", EscapeMarkdown("plain"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "привет...", TruncateString("приветствую всех", 9))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "", TruncateString("abcdef", 0))
	assert.Equal(t, "", TruncateString("abcdef", -1))
}

func TestFormatMutualInterest(t *testing.T) {
	m, _, receiver := fixture()
	receiver.GithubURL = strPtr("https://github.com/ada/app_(v2)")

	msg := FormatMutualInterest(m, receiver)

	assert.Contains(t, msg, "*eth\\-global*")
	assert.Contains(t, msg, "82\\.5")
	assert.Contains(t, msg, "react")
	assert.Contains(t, msg, "UI nerd\\.")
	assert.Contains(t, msg, "full\\-stack coverage")
	assert.Contains(t, msg, "\\(UTC\\+3\\)")
	assert.Contains(t, msg, "(https://github.com/ada/app_(v2\\))")
	assert.NotContains(t, msg, "Role")

	m.MatchScore = 80
	assert.Contains(t, FormatMutualInterest(m, nil), "*Score:* 80\n")
}

func TestTelegramMutualInterest(t *testing.T) {
	ctx := context.Background()

	t.Run("both participants notified about each other", func(t *testing.T) {
		bot := &fakeBot{}
		n := &Telegram{bot: bot, logger: zap.NewNop()}
		m, sender, receiver := fixture()

		require.NoError(t, n.MutualInterest(ctx, m, sender, receiver))
		require.Len(t, bot.sent, 2)

		assert.Equal(t, "100", bot.sent[0].to)
		assert.Contains(t, bot.sent[0].text, "react")
		assert.Equal(t, []interface{}{tele.ModeMarkdownV2}, bot.sent[0].opts)

		assert.Equal(t, "200", bot.sent[1].to)
		assert.Contains(t, bot.sent[1].text, "backend")
	})

	t.Run("profiles without chat are skipped", func(t *testing.T) {
		bot := &fakeBot{}
		n := &Telegram{bot: bot, logger: zap.NewNop()}
		m, sender, receiver := fixture()
		receiver.TelegramChatID = nil

		require.NoError(t, n.MutualInterest(ctx, m, sender, receiver))
		require.Len(t, bot.sent, 1)
		assert.Equal(t, "100", bot.sent[0].to)
	})

	t.Run("one failed delivery does not stop the other", func(t *testing.T) {
		bot := &fakeBot{failTo: "100"}
		n := &Telegram{bot: bot, logger: zap.NewNop()}
		m, sender, receiver := fixture()

		err := n.MutualInterest(ctx, m, sender, receiver)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "p1"))
		require.Len(t, bot.sent, 1)
		assert.Equal(t, "200", bot.sent[0].to)
	})

	t.Run("cancelled context", func(t *testing.T) {
		bot := &fakeBot{}
		n := &Telegram{bot: bot, logger: zap.NewNop()}
		m, sender, receiver := fixture()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, n.MutualInterest(cctx, m, sender, receiver), context.Canceled)
		assert.Empty(t, bot.sent)
	})
}

func TestNop(t *testing.T) {
	m, sender, receiver := fixture()
	assert.NoError(t, Nop{}.Proposed(context.Background(), m, sender, receiver))
	assert.NoError(t, Nop{}.MutualInterest(context.Background(), m, sender, receiver))
}

func TestFormatProposal(t *testing.T) {
	m, sender, _ := fixture()

	msg := FormatProposal(m, sender)

	assert.Contains(t, msg, "*eth\\-global*")
	assert.Contains(t, msg, "Are you interested?")
	assert.Contains(t, msg, "backend")
	assert.Contains(t, msg, "go, solidity")
	assert.NotContains(t, msg, "It's a match")
}

func TestTelegramProposed(t *testing.T) {
	bot := &fakeBot{}
	n := NewTelegram(bot, zap.NewNop())
	m, sender, receiver := fixture()

	require.NoError(t, n.Proposed(context.Background(), m, sender, receiver))
	require.Len(t, bot.sent, 2)

	for _, sent := range bot.sent {
		require.Len(t, sent.opts, 2)
		assert.Equal(t, tele.ModeMarkdownV2, sent.opts[0])

		markup, ok := sent.opts[1].(*tele.ReplyMarkup)
		require.True(t, ok)
		require.Len(t, markup.InlineKeyboard, 1)
		require.Len(t, markup.InlineKeyboard[0], 2)

		id, action, ok := ParseResponse(markup.InlineKeyboard[0][0].Unique)
		require.True(t, ok)
		assert.Equal(t, "m1", id)
		assert.Equal(t, models.MatchActionInterested, action)

		_, action, ok = ParseResponse(markup.InlineKeyboard[0][1].Unique)
		require.True(t, ok)
		assert.Equal(t, models.MatchActionNotInterested, action)
	}

	assert.Contains(t, bot.sent[0].text, "react")
	assert.Contains(t, bot.sent[1].text, "backend")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		id     string
		action models.MatchAction
		ok     bool
	}{
		{"interested", "match:m1:yes", "m1", models.MatchActionInterested, true},
		{"not interested", "match:m1:no", "m1", models.MatchActionNotInterested, true},
		{"telebot prefix", "\fmatch:m1:yes", "m1", models.MatchActionInterested, true},
		{"uuid id", "match:4b0e8c5e-5c1f-4a53-9f3e-0d4c1e1b2a3c:no", "4b0e8c5e-5c1f-4a53-9f3e-0d4c1e1b2a3c", models.MatchActionNotInterested, true},
		{"unknown answer", "match:m1:maybe", "", "", false},
		{"missing id", "match::yes", "", "", false},
		{"other prefix", "filter_delete:m1:yes", "", "", false},
		{"too short", "match:m1", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, action, ok := ParseResponse(tc.data)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
			assert.Equal(t, tc.action, action)
		})
	}
}

func TestResponseDataFitsCallbackLimit(t *testing.T) {
	id := "4b0e8c5e-5c1f-4a53-9f3e-0d4c1e1b2a3c"
	// plus the \f telebot adds
	assert.LessOrEqual(t, len(responseData(id, answerYes))+1, 64)
	assert.LessOrEqual(t, len(responseData(id, answerNo))+1, 64)
}
