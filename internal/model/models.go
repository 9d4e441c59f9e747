// Package model defines the persisted data models of the casino.
package model

import "time"

// User represents a Telegram user account and its coin balance.
type User struct {
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	Balance    int64     `db:"balance"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Transaction represents a balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// GameStat is one settled game round.
type GameStat struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Game      string    `db:"game"`
	Wager     int64     `db:"wager"`
	Payout    int64     `db:"payout"`
	Outcome   string    `db:"outcome"`
	CreatedAt time.Time `db:"created_at"`
}

// GameSummary aggregates a player's rounds of one game.
type GameSummary struct {
	Game        string `db:"game"`
	Played      int64  `db:"played"`
	Wins        int64  `db:"wins"`
	Losses      int64  `db:"losses"`
	TotalWager  int64  `db:"total_wager"`
	TotalPayout int64  `db:"total_payout"`
}

// LeaderEntry is one row of an all-time game leaderboard.
type LeaderEntry struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Value    int64  `db:"value"`
}

// DailyRank represents a user's daily game performance for ranking.
type DailyRank struct {
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	NetProfit int64  `db:"net_profit"`
}

// Transaction types that are not game settlements. Game settlements use the
// game kind as their type.
const (
	TxTypeInitial  = "initial"   // Initial balance on account creation
	TxTypeAdminAdd = "admin_add" // Admin added balance
	TxTypeAdminSub = "admin_sub" // Admin subtracted balance
	TxTypeAdminSet = "admin_set" // Admin set balance
)

// NonGameTransactionTypes are excluded from daily game rankings.
func NonGameTransactionTypes() []string {
	return []string{TxTypeInitial, TxTypeAdminAdd, TxTypeAdminSub, TxTypeAdminSet}
}
