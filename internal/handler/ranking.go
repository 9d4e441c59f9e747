package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"casino-bot/internal/repository"
	"casino-bot/internal/service"
)

// RankingHandler handles ranking and statistics commands.
type RankingHandler struct {
	rankingService *service.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// HandleDailyTop handles the /daily_top command.
// Displays today's top winners and losers across all games.
func (h *RankingHandler) HandleDailyTop(c tele.Context) error {
	ctx := context.Background()

	winners, err := h.rankingService.GetDailyWinners(ctx, 10)
	if err != nil {
		return c.Reply("❌ 获取排行榜失败，请稍后重试")
	}

	losers, err := h.rankingService.GetDailyLosers(ctx, 10)
	if err != nil {
		return c.Reply("❌ 获取排行榜失败，请稍后重试")
	}

	msg := "📊 今日游戏榜\n"
	msg += "━━━━━━━━━━━━━━━\n"

	msg += "🏆 赢家榜 TOP 10\n"
	if len(winners) == 0 {
		msg += "暂无数据\n"
	}
	for i, winner := range winners {
		msg += fmt.Sprintf("%s %s: +%d\n", rankLabel(i), nameOr(winner.Username, winner.UserID), winner.NetProfit)
	}

	msg += "\n━━━━━━━━━━━━━━━\n"

	msg += "😢 输家榜 TOP 10\n"
	if len(losers) == 0 {
		msg += "暂无数据\n"
	}
	for i, loser := range losers {
		msg += fmt.Sprintf("%d. %s: %d\n", i+1, nameOr(loser.Username, loser.UserID), loser.NetProfit)
	}

	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandleStats handles the /stats command: the sender's record per game.
func (h *RankingHandler) HandleStats(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	stats, err := h.rankingService.GetPlayerStats(context.Background(), sender.ID)
	if err != nil {
		return c.Reply("❌ 获取战绩失败，请稍后重试")
	}
	if len(stats.Games) == 0 {
		return c.Reply("📊 还没有游戏记录，发送 /games 开始游戏")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 @%s 的战绩\n", displayName(sender))
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for _, g := range stats.Games {
		fmt.Fprintf(&b, "🎮 %s: %d 局 | 胜 %d 负 %d | 下注 %d | 盈亏 %s\n",
			g.Game, g.Played, g.Wins, g.Losses, g.TotalWager, signed(g.TotalPayout))
	}
	b.WriteString("━━━━━━━━━━━━━━━\n")
	t := stats.Totals
	fmt.Fprintf(&b, "合计: %d 局，胜率 %.1f%%，盈亏 %s", t.Played, t.WinRate(), signed(t.TotalPayout))

	return c.Reply(b.String())
}

// HandleLeaderboard handles /leaderboard [winnings|games].
func (h *RankingHandler) HandleLeaderboard(c tele.Context) error {
	metric := repository.LeaderboardWinnings
	if args := c.Args(); len(args) > 0 {
		metric = strings.ToLower(args[0])
	}

	entries, err := h.rankingService.Leaderboard(context.Background(), metric, 10)
	if errors.Is(err, repository.ErrUnknownLeaderboard) {
		return c.Reply("❌ 用法: /leaderboard [winnings|games]")
	}
	if err != nil {
		return c.Reply("❌ 获取排行榜失败，请稍后重试")
	}
	if len(entries) == 0 {
		return c.Reply("📊 暂无排行数据")
	}

	title, unit := "💎 累计赢取榜 TOP 10", "金币"
	if metric == repository.LeaderboardGames {
		title, unit = "🎮 游戏局数榜 TOP 10", "局"
	}

	msg := title + "\n━━━━━━━━━━━━━━━\n"
	for i, e := range entries {
		msg += fmt.Sprintf("%s %s: %d %s\n", rankLabel(i), nameOr(e.Username, e.UserID), e.Value, unit)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}
