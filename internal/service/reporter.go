package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"casino-bot/internal/game"
)

// BalanceStore is the ledger settlements are applied to.
type BalanceStore interface {
	GetBalance(ctx context.Context, playerID int64) (int64, error)
	// ApplyDelta adds a signed amount to the player's balance. reason tags
	// the ledger entry.
	ApplyDelta(ctx context.Context, playerID int64, delta int64, reason string) error
}

// StatsSink records finished games.
type StatsSink interface {
	RecordGameResult(ctx context.Context, s game.Settlement) error
}

// Reporter forwards settlements to the ledger and the statistics sink.
type Reporter struct {
	balances BalanceStore
	stats    StatsSink
}

// NewReporter creates a Reporter. stats may be nil.
func NewReporter(balances BalanceStore, stats StatsSink) *Reporter {
	return &Reporter{balances: balances, stats: stats}
}

// Report applies the settlement's payout once, then records statistics.
// Statistics failures are logged and never returned.
func (r *Reporter) Report(ctx context.Context, s game.Settlement) error {
	if err := r.balances.ApplyDelta(ctx, s.PlayerID, s.Payout, string(s.Kind)); err != nil {
		return fmt.Errorf("failed to apply payout: %w", err)
	}

	if r.stats != nil {
		if err := r.stats.RecordGameResult(ctx, s); err != nil {
			log.Warn().Err(err).Int64("player_id", s.PlayerID).Str("game", string(s.Kind)).Msg("Failed to record game result")
		}
	}
	return nil
}
