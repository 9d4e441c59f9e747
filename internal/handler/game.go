// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/game"
	"casino-bot/internal/service"
	"casino-bot/internal/wager"
)

// Command binds a chat command to a game kind.
type Command struct {
	Name    string
	Aliases []string
	Kind    game.Kind
	Usage   string
}

// Commands is the game command table.
var Commands = []Command{
	{Name: "coinflip", Aliases: []string{"cf"}, Kind: game.KindCoinflip, Usage: "/coinflip <金额> <heads|tails>"},
	{Name: "roll", Kind: game.KindDice, Usage: "/roll <金额> <d4|d6|d8|d10|d12|d20> <点数>"},
	{Name: "slots", Kind: game.KindSlots, Usage: "/slots <金额>"},
	{Name: "roulette", Kind: game.KindRoulette, Usage: "/roulette <金额> <red|black|green|0-36|00|1st12|1sthalf|col1|1-18|1,2,3>"},
	{Name: "sevens", Kind: game.KindSevens, Usage: "/sevens <金额> <7|low|high>"},
	{Name: "rps", Kind: game.KindRPS, Usage: "/rps <金额> <rock|paper|scissors>"},
	{Name: "gamble", Kind: game.KindGamble, Usage: "/gamble <金额>"},
	{Name: "blackjack", Aliases: []string{"bj"}, Kind: game.KindBlackjack, Usage: "/blackjack <金额> [hard]"},
	{Name: "crash", Kind: game.KindCrash, Usage: "/crash <金额> [hard]"},
	{Name: "findthelady", Aliases: []string{"lady"}, Kind: game.KindLady, Usage: "/findthelady <金额> [hard]"},
	{Name: "higherorlower", Aliases: []string{"hilo"}, Kind: game.KindHiLo, Usage: "/higherorlower"},
	{Name: "race", Kind: game.KindRace, Usage: "/race <金额> <turtle|dog|horse|dinosaur> <编号>"},
}

// GameHandler starts games from chat commands and routes button presses back
// to running sessions.
type GameHandler struct {
	games          *service.GameService
	accountService *service.AccountService
	bot            Messenger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games *service.GameService, accountService *service.AccountService, bot Messenger) *GameHandler {
	return &GameHandler{
		games:          games,
		accountService: accountService,
		bot:            bot,
	}
}

// Play returns the handler for one game command.
func (h *GameHandler) Play(cmd Command) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := context.Background()
		sender := c.Sender()
		if sender == nil || c.Chat() == nil {
			return nil
		}

		g, ok := h.games.Games().Get(cmd.Kind)
		if !ok {
			return c.Reply("❌ 该游戏暂未开放")
		}

		wagerExpr, args, mode, ok := parsePlay(g.Wagered(), c.Args())
		if !ok {
			return c.Reply("❌ 用法: " + cmd.Usage)
		}

		username := displayName(sender)
		if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, username); err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to ensure user")
			return c.Reply("❌ 操作失败，请稍后重试")
		}

		_, err := h.games.StartGame(ctx, service.StartRequest{
			PlayerID:  sender.ID,
			Kind:      cmd.Kind,
			WagerExpr: wagerExpr,
			Mode:      mode,
			Args:      args,
			Presenter: newChatPresenter(h.bot, c.Chat(), username, h.accountService),
		})
		if err != nil {
			log.Debug().Err(err).Int64("user_id", sender.ID).Str("game", string(cmd.Kind)).Msg("Game not started")
			return c.Reply(errorReply(err, cmd.Usage))
		}
		return nil
	}
}

// HandleCallback routes an inline button press to its session.
func (h *GameHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	token, decision, ok := DecodeCallback(callback.Data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 无效操作"})
	}

	err := h.games.SubmitDecision(context.Background(), sender.ID, token, decision)
	switch {
	case err == nil:
		return c.Respond()
	case errors.Is(err, game.ErrStaleSession):
		return c.Respond(&tele.CallbackResponse{Text: "❌ 这局游戏已结束或不属于你", ShowAlert: true})
	case errors.Is(err, game.ErrInvalidDecision), errors.Is(err, game.ErrGameOver):
		return c.Respond(&tele.CallbackResponse{Text: "❌ 现在不能这样操作"})
	default:
		log.Error().Err(err).Int64("user_id", sender.ID).Str("token", token.String()).Msg("Failed to submit decision")
		return c.Respond(&tele.CallbackResponse{Text: "❌ 操作失败，请稍后重试", ShowAlert: true})
	}
}

// HandleGames lists the catalog.
func (h *GameHandler) HandleGames(c tele.Context) error {
	var b strings.Builder
	b.WriteString("🎰 游戏列表\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for _, cmd := range Commands {
		g, ok := h.games.Games().Get(cmd.Kind)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s - %s\n%s\n\n", cmd.Usage, g.Name(), g.Description())
	}
	b.WriteString("金额可写 100、1,000、10k、25%、half、max 或 all（全押不受上限限制）\n")
	b.WriteString("━━━━━━━━━━━━━━━")
	return c.Reply(b.String())
}

// parsePlay splits command arguments into the wager expression, the game
// selection and a trailing mode keyword.
func parsePlay(wagered bool, payload []string) (wagerExpr string, args []string, mode game.Mode, ok bool) {
	args = payload
	if n := len(args); n > 0 {
		if m, isMode := game.ParseMode(args[n-1]); isMode {
			mode = m
			args = args[:n-1]
		}
	}

	if wagered {
		if len(args) == 0 {
			return "", nil, mode, false
		}
		wagerExpr, args = args[0], args[1:]
	}
	return wagerExpr, args, mode, true
}

// errorReply maps a StartGame error to a chat reply.
func errorReply(err error, usage string) string {
	var ve *wager.ValidationError
	switch {
	case errors.As(err, &ve):
		switch {
		case errors.Is(ve, wager.ErrNonPositive):
			return "❌ 下注金额必须大于 0"
		case errors.Is(ve, wager.ErrExceedsBalance):
			return fmt.Sprintf("❌ 余额不足（当前余额 %d）", ve.Balance)
		case errors.Is(ve, wager.ErrExceedsMaxBetFraction):
			return fmt.Sprintf("❌ 最大下注金额为 %d，全押请用 all", ve.Limit)
		default:
			return "❌ 请输入有效的下注金额"
		}
	case errors.Is(err, game.ErrSessionConflict):
		return "⏳ 你已经有一局游戏在进行中"
	case errors.Is(err, game.ErrUnknownGame):
		return "❌ 该游戏暂未开放"
	case errors.Is(err, game.ErrInvalidSelection):
		return "❌ 无效的选择\n用法: " + usage
	case errors.Is(err, service.ErrShuttingDown):
		return "🔧 机器人正在维护，请稍后再试"
	case errors.Is(err, game.ErrInternalFault):
		return "⚠️ 游戏出错，本局已结算"
	default:
		return "❌ 操作失败，请稍后重试"
	}
}

func displayName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
