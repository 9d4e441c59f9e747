package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService *service.AccountService
	rankingService *service.RankingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, rankingService *service.RankingService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		rankingService: rankingService,
	}
}

// HandleStart handles the /start command.
// Creates an account with the starting balance if the user doesn't exist.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := displayName(sender)
	user, created, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to create account")
		return c.Reply("❌ 创建账户失败，请稍后重试")
	}

	if created {
		return c.Reply(fmt.Sprintf(
			"🎉 欢迎 @%s！\n\n"+
				"您的账户已创建，初始金币: %d\n\n"+
				"可用命令:\n"+
				"/balance - 查看余额\n"+
				"/my - 账户信息\n"+
				"/games - 游戏列表\n"+
				"/stats - 我的战绩\n"+
				"/top - 富豪榜\n"+
				"/daily_top - 今日游戏榜",
			username, user.Balance,
		))
	}

	return c.Reply(fmt.Sprintf(
		"👋 欢迎回来 @%s！\n\n"+
			"当前余额: %d 金币",
		username, user.Balance,
	))
}

// HandleBalance handles the /balance command.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, _, err := h.accountService.EnsureUser(ctx, sender.ID, displayName(sender))
	if err != nil {
		return c.Reply("❌ 获取余额失败，请稍后重试")
	}

	return c.Reply(fmt.Sprintf("💰 当前余额: %d 金币", user.Balance))
}

// HandleMy handles the /my command.
// Displays the user's balance, today's game profit and all-time record.
func (h *AccountHandler) HandleMy(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, _, err := h.accountService.EnsureUser(ctx, sender.ID, displayName(sender))
	if err != nil {
		return c.Reply("❌ 获取账户信息失败，请稍后重试")
	}

	dailyProfit, err := h.rankingService.GetUserDailyProfit(ctx, sender.ID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", sender.ID).Msg("Failed to get daily profit")
	}

	var totals service.GameTotals
	if stats, err := h.rankingService.GetPlayerStats(ctx, sender.ID); err == nil {
		totals = stats.Totals
	}

	return c.Reply(fmt.Sprintf(
		"📊 账户信息\n"+
			"━━━━━━━━━━━━━━━\n"+
			"👤 用户: @%s\n"+
			"💰 余额: %d 金币\n"+
			"📈 今日盈亏: %s\n"+
			"🎮 总局数: %d（胜率 %.1f%%）\n"+
			"━━━━━━━━━━━━━━━",
		user.Username, user.Balance, signed(dailyProfit), totals.Played, totals.WinRate(),
	))
}

// HandleTop handles the /top command.
// Displays the top 10 users by balance.
func (h *AccountHandler) HandleTop(c tele.Context) error {
	ctx := context.Background()

	users, err := h.rankingService.GetTopUsers(ctx, 10)
	if err != nil {
		return c.Reply("❌ 获取排行榜失败，请稍后重试")
	}

	if len(users) == 0 {
		return c.Reply("📊 暂无排行数据")
	}

	msg := "🏆 富豪榜 TOP 10\n"
	msg += "━━━━━━━━━━━━━━━\n"
	for i, user := range users {
		msg += fmt.Sprintf("%s @%s: %d\n", rankLabel(i), nameOr(user.Username, user.TelegramID), user.Balance)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

var medals = []string{"🥇", "🥈", "🥉"}

func rankLabel(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d.", i+1)
}

func nameOr(username string, id int64) string {
	if username == "" {
		return fmt.Sprintf("User%d", id)
	}
	return username
}

func signed(n int64) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
