package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/game"
)

const (
	// CallbackPrefix marks callback data that carries a game decision.
	CallbackPrefix = "g|"

	// buttonsPerRow keeps decision rows readable on phones.
	buttonsPerRow = 3
)

// EncodeCallback packs a session token and a decision into callback data,
// e.g. "g|<token>|pick|2". Telegram limits callback data to 64 bytes.
func EncodeCallback(token uuid.UUID, d game.Decision) string {
	return fmt.Sprintf("%s%s|%s|%d", CallbackPrefix, token, d.Action, d.Value)
}

// DecodeCallback reverses EncodeCallback. ok is false for data that is not a
// well-formed game callback.
func DecodeCallback(data string) (token uuid.UUID, d game.Decision, ok bool) {
	data = strings.TrimPrefix(data, "\f")
	if !strings.HasPrefix(data, CallbackPrefix) {
		return uuid.Nil, game.Decision{}, false
	}

	parts := strings.Split(strings.TrimPrefix(data, CallbackPrefix), "|")
	if len(parts) != 3 || parts[1] == "" {
		return uuid.Nil, game.Decision{}, false
	}

	token, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, game.Decision{}, false
	}
	value, err := strconv.Atoi(parts[2])
	if err != nil {
		return uuid.Nil, game.Decision{}, false
	}

	return token, game.Decision{Action: game.Action(parts[1]), Value: value}, true
}

// BuildKeyboard renders a view's choices as an inline keyboard bound to the
// session token. It returns nil when there is nothing to choose.
func BuildKeyboard(token uuid.UUID, choices []game.Choice) *tele.ReplyMarkup {
	if len(choices) == 0 {
		return nil
	}

	markup := &tele.ReplyMarkup{}
	var row []tele.InlineButton
	for _, c := range choices {
		row = append(row, tele.InlineButton{
			Text: c.Label,
			Data: EncodeCallback(token, c.Decision),
		})
		if len(row) == buttonsPerRow {
			markup.InlineKeyboard = append(markup.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		markup.InlineKeyboard = append(markup.InlineKeyboard, row)
	}
	return markup
}
