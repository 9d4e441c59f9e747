package service

import (
	"context"
	"fmt"
	"time"

	"casino-bot/internal/game"
	"casino-bot/internal/model"
	"casino-bot/internal/repository"
)

// RankingService serves leaderboards and per-player game statistics, and
// records every settled round as the casino's StatsSink.
type RankingService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	statRepo *repository.GameStatRepository
	timezone *time.Location
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	statRepo *repository.GameStatRepository,
	timezone *time.Location,
) *RankingService {
	if timezone == nil {
		timezone = time.UTC
	}
	return &RankingService{
		userRepo: userRepo,
		txRepo:   txRepo,
		statRepo: statRepo,
		timezone: timezone,
	}
}

// RecordGameResult stores one settled round.
func (s *RankingService) RecordGameResult(ctx context.Context, st game.Settlement) error {
	_, err := s.statRepo.Create(ctx, st.PlayerID, string(st.Kind), st.Wager, st.Payout, string(st.Outcome))
	return err
}

// GetTopUsers retrieves the top users by balance.
func (s *RankingService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}

// GetDailyWinners retrieves today's biggest game winners.
func (s *RankingService) GetDailyWinners(ctx context.Context, limit int) ([]*model.DailyRank, error) {
	return s.txRepo.GetDailyWinners(ctx, time.Now().In(s.timezone), limit)
}

// GetDailyLosers retrieves today's biggest game losers.
func (s *RankingService) GetDailyLosers(ctx context.Context, limit int) ([]*model.DailyRank, error) {
	return s.txRepo.GetDailyLosers(ctx, time.Now().In(s.timezone), limit)
}

// GetUserDailyProfit retrieves a specific user's game profit for today.
func (s *RankingService) GetUserDailyProfit(ctx context.Context, userID int64) (int64, error) {
	return s.txRepo.GetUserDailyProfit(ctx, userID, time.Now().In(s.timezone))
}

// Leaderboard returns the all-time leaders for a game_stats metric.
func (s *RankingService) Leaderboard(ctx context.Context, metric string, limit int) ([]*model.LeaderEntry, error) {
	return s.statRepo.Top(ctx, metric, limit)
}

// PlayerStats is a player's record across every game.
type PlayerStats struct {
	Games  []*model.GameSummary
	Totals GameTotals
}

// GameTotals sums a set of per-game summaries.
type GameTotals struct {
	Played      int64
	Wins        int64
	Losses      int64
	TotalWager  int64
	TotalPayout int64
}

// WinRate is the percentage of rounds won, 0 when nothing was played.
func (t GameTotals) WinRate() float64 {
	if t.Played == 0 {
		return 0
	}
	return float64(t.Wins) * 100 / float64(t.Played)
}

// Summarize adds up per-game summaries.
func Summarize(games []*model.GameSummary) GameTotals {
	var t GameTotals
	for _, g := range games {
		t.Played += g.Played
		t.Wins += g.Wins
		t.Losses += g.Losses
		t.TotalWager += g.TotalWager
		t.TotalPayout += g.TotalPayout
	}
	return t
}

// GetPlayerStats loads a player's per-game summaries and their totals.
func (s *RankingService) GetPlayerStats(ctx context.Context, userID int64) (*PlayerStats, error) {
	games, err := s.statRepo.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return &PlayerStats{Games: games, Totals: Summarize(games)}, nil
}
