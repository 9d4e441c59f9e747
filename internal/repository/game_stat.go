package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"casino-bot/internal/model"
)

// ErrUnknownLeaderboard is returned for a leaderboard metric that does not exist.
var ErrUnknownLeaderboard = errors.New("unknown leaderboard")

// Leaderboard metrics over game_stats.
const (
	LeaderboardWinnings = "winnings"
	LeaderboardGames    = "games"
)

var leaderboardValues = map[string]string{
	LeaderboardWinnings: "COALESCE(SUM(GREATEST(s.payout, 0)), 0)::BIGINT",
	LeaderboardGames:    "COUNT(*)",
}

// GameStatRepository persists one row per settled game round.
type GameStatRepository struct {
	pool *pgxpool.Pool
}

// NewGameStatRepository creates a new GameStatRepository instance.
func NewGameStatRepository(pool *pgxpool.Pool) *GameStatRepository {
	return &GameStatRepository{pool: pool}
}

// Create records a settled round.
func (r *GameStatRepository) Create(ctx context.Context, userID int64, game string, wager, payout int64, outcome string) (*model.GameStat, error) {
	const query = `
		INSERT INTO game_stats (user_id, game, wager, payout, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, game, wager, payout, outcome, created_at
	`

	var stat model.GameStat
	err := r.pool.QueryRow(ctx, query, userID, game, wager, payout, outcome).Scan(
		&stat.ID,
		&stat.UserID,
		&stat.Game,
		&stat.Wager,
		&stat.Payout,
		&stat.Outcome,
		&stat.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game stat: %w", err)
	}

	return &stat, nil
}

// SummaryByUser aggregates a player's rounds per game, most played first.
func (r *GameStatRepository) SummaryByUser(ctx context.Context, userID int64) ([]*model.GameSummary, error) {
	const query = `
		SELECT game,
		       COUNT(*) AS played,
		       COUNT(*) FILTER (WHERE payout > 0) AS wins,
		       COUNT(*) FILTER (WHERE payout < 0) AS losses,
		       COALESCE(SUM(wager), 0)::BIGINT AS total_wager,
		       COALESCE(SUM(payout), 0)::BIGINT AS total_payout
		FROM game_stats
		WHERE user_id = $1
		GROUP BY game
		ORDER BY played DESC, game ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game summary: %w", err)
	}
	defer rows.Close()

	var summaries []*model.GameSummary
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.Game, &s.Played, &s.Wins, &s.Losses, &s.TotalWager, &s.TotalPayout); err != nil {
			return nil, fmt.Errorf("failed to scan game summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game summary: %w", err)
	}

	return summaries, nil
}

// Top returns the all-time leaders for a metric.
func (r *GameStatRepository) Top(ctx context.Context, metric string, limit int) ([]*model.LeaderEntry, error) {
	value, ok := leaderboardValues[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeaderboard, metric)
	}

	query := `
		SELECT s.user_id, u.username, ` + value + ` AS value
		FROM game_stats s
		JOIN users u ON s.user_id = u.telegram_id
		GROUP BY s.user_id, u.username
		ORDER BY value DESC, s.user_id ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderEntry
	for rows.Next() {
		var e model.LeaderEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}
