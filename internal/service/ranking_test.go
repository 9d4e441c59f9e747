package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"casino-bot/internal/model"
)

var (
	_ BalanceStore = (*AccountService)(nil)
	_ StatsSink    = (*RankingService)(nil)
)

// Totals are the column sums of the per-game rows.
func TestSummarizeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "games")
		games := make([]*model.GameSummary, n)
		var played, wins, losses, wagered, paid int64
		for i := range games {
			w := rapid.Int64Range(0, 1000).Draw(t, "wins")
			l := rapid.Int64Range(0, 1000).Draw(t, "losses")
			pushes := rapid.Int64Range(0, 100).Draw(t, "pushes")
			g := &model.GameSummary{
				Game:        rapid.StringMatching(`[a-z]{3,12}`).Draw(t, "game"),
				Played:      w + l + pushes,
				Wins:        w,
				Losses:      l,
				TotalWager:  rapid.Int64Range(0, 1_000_000).Draw(t, "wager"),
				TotalPayout: rapid.Int64Range(-1_000_000, 1_000_000).Draw(t, "payout"),
			}
			games[i] = g
			played += g.Played
			wins += g.Wins
			losses += g.Losses
			wagered += g.TotalWager
			paid += g.TotalPayout
		}

		totals := Summarize(games)
		if totals.Played != played || totals.Wins != wins || totals.Losses != losses {
			t.Fatalf("counts %+v, want played=%d wins=%d losses=%d", totals, played, wins, losses)
		}
		if totals.TotalWager != wagered || totals.TotalPayout != paid {
			t.Fatalf("sums %+v, want wager=%d payout=%d", totals, wagered, paid)
		}
		if rate := totals.WinRate(); rate < 0 || rate > 100 {
			t.Fatalf("win rate %v out of range", rate)
		}
	})
}

func TestGameTotals_WinRate(t *testing.T) {
	assert.Equal(t, 0.0, GameTotals{}.WinRate())
	assert.Equal(t, 25.0, GameTotals{Played: 8, Wins: 2}.WinRate())
	assert.Equal(t, 100.0, GameTotals{Played: 3, Wins: 3}.WinRate())
}
