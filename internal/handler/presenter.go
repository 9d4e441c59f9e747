package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/game"
)

// Messenger is the subset of *tele.Bot the presenter needs.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// balanceReader looks up the balance shown under a settlement.
type balanceReader interface {
	GetBalance(ctx context.Context, playerID int64) (int64, error)
}

// chatPresenter renders one session into a single chat message: the first
// view is sent, every later view edits it in place.
type chatPresenter struct {
	bot      Messenger
	chat     tele.Recipient
	username string
	balances balanceReader

	mu  sync.Mutex
	msg *tele.Message
}

func newChatPresenter(bot Messenger, chat tele.Recipient, username string, balances balanceReader) *chatPresenter {
	return &chatPresenter{bot: bot, chat: chat, username: username, balances: balances}
}

// ShowView renders a running session with its decision buttons.
func (p *chatPresenter) ShowView(_ context.Context, token uuid.UUID, v game.View) error {
	text := p.header() + v.Text()
	if markup := BuildKeyboard(token, v.Choices); markup != nil {
		return p.render(text, markup)
	}
	return p.render(text)
}

// ShowSettlement renders the final view, the result line and the new balance,
// and drops the keyboard.
func (p *chatPresenter) ShowSettlement(ctx context.Context, _ uuid.UUID, st game.Settlement, v game.View) error {
	var b strings.Builder
	b.WriteString(p.header())
	b.WriteString(v.Text())
	b.WriteString("\n\n")
	b.WriteString(settlementLine(st))
	if st.Description != "" {
		b.WriteString("\n")
		b.WriteString(st.Description)
	}
	if p.balances != nil {
		if balance, err := p.balances.GetBalance(ctx, st.PlayerID); err == nil {
			fmt.Fprintf(&b, "\n💰 余额: %d", balance)
		}
	}
	return p.render(b.String())
}

func (p *chatPresenter) header() string {
	if p.username == "" {
		return ""
	}
	return "@" + p.username + "\n"
}

func (p *chatPresenter) render(text string, opts ...interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.msg == nil {
		msg, err := p.bot.Send(p.chat, text, opts...)
		if err != nil {
			return fmt.Errorf("failed to send game message: %w", err)
		}
		p.msg = msg
		return nil
	}

	msg, err := p.bot.Edit(p.msg, text, opts...)
	if err != nil {
		// Telegram rejects edits that change nothing.
		log.Debug().Err(err).Int("msg_id", p.msg.ID).Msg("Failed to edit game message")
		return nil
	}
	if msg != nil {
		p.msg = msg
	}
	return nil
}

// settlementLine is the one-line result shown under the final view.
func settlementLine(st game.Settlement) string {
	switch {
	case st.Outcome == game.OutcomeFault:
		return fmt.Sprintf("⚠️ 游戏出错，输掉 %d 金币", -st.Payout)
	case st.Wager == 0 && st.Payout > 0:
		return fmt.Sprintf("🎁 获得 %d 金币！", st.Payout)
	case st.Wager == 0:
		return "😐 没有获得金币"
	case st.Payout > st.Wager:
		return fmt.Sprintf("🎊 大奖！赢得 %d 金币！", st.Payout)
	case st.Payout > 0:
		return fmt.Sprintf("🎉 赢得 %d 金币！", st.Payout)
	case st.Payout == 0:
		return "😐 平局，返还下注"
	default:
		return fmt.Sprintf("😢 输了 %d 金币", -st.Payout)
	}
}
