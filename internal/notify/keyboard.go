package notify

import (
	"strings"

	"teammatch/internal/models"

	tele "gopkg.in/telebot.v3"
)

// callback data is "match:<id>:yes|no"; Telegram caps it at 64 bytes
const (
	responsePrefix = "match"
	answerYes      = "yes"
	answerNo       = "no"
)

// ResponseKeyboard is the inline keyboard attached to a proposal
func ResponseKeyboard(matchID string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	btnYes := menu.Data("👍 Interested", responseData(matchID, answerYes))
	btnNo := menu.Data("👎 Not interested", responseData(matchID, answerNo))

	menu.Inline(menu.Row(btnYes, btnNo))

	return menu
}

func responseData(matchID, answer string) string {
	return responsePrefix + ":" + matchID + ":" + answer
}

// ParseResponse decodes the callback data of a ResponseKeyboard button
func ParseResponse(data string) (matchID string, action models.MatchAction, ok bool) {
	// telebot prefixes inline callback data with \f
	data = strings.TrimPrefix(data, "\f")

	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != responsePrefix || parts[1] == "" {
		return "", "", false
	}

	switch parts[2] {
	case answerYes:
		return parts[1], models.MatchActionInterested, true
	case answerNo:
		return parts[1], models.MatchActionNotInterested, true
	default:
		return "", "", false
	}
}
