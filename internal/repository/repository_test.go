// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"casino-bot/internal/model"
	"casino-bot/internal/pkg/db"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a migrated PostgreSQL container and returns a pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, db.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		user, err := repo.Create(ctx, 100, "alice", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(100), user.TelegramID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(1000), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("GetByID", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		_, err = repo.GetByID(ctx, 99999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("GetOrCreate", func(t *testing.T) {
		user, created, err := repo.GetOrCreate(ctx, 200, "bob", 2500)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(2500), user.Balance)

		user, created, err = repo.GetOrCreate(ctx, 200, "bob", 1)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(2500), user.Balance)
	})

	t.Run("UpdateBalance", func(t *testing.T) {
		user, err := repo.UpdateBalance(ctx, 100, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), user.Balance)

		user, err = repo.UpdateBalance(ctx, 100, -300)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), user.Balance)

		_, err = repo.UpdateBalance(ctx, 99999, 100)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("SetBalance", func(t *testing.T) {
		user, err := repo.SetBalance(ctx, 100, 5000)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), user.Balance)

		_, err = repo.SetBalance(ctx, 99999, 100)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("GetTopUsers", func(t *testing.T) {
		_, err := repo.Create(ctx, 300, "carol", 3000)
		require.NoError(t, err)

		users, err := repo.GetTopUsers(ctx, 10)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, int64(100), users[0].TelegramID) // 5000
		assert.Equal(t, int64(300), users[1].TelegramID) // 3000
		assert.Equal(t, int64(200), users[2].TelegramID) // 2500

		users, err = repo.GetTopUsers(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("UpdateUsername", func(t *testing.T) {
		require.NoError(t, repo.UpdateUsername(ctx, 100, "alice2"))
		user, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)

		assert.ErrorIs(t, repo.UpdateUsername(ctx, 99999, "name"), ErrUserNotFound)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, 100)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, 99999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

// ============================================================================
// TransactionRepository Tests
// ============================================================================

func TestTransactionRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser", 1000)
	require.NoError(t, err)

	desc := "Heads! You won 100 coins!"
	tx, err := txRepo.Create(ctx, 12345, 100, "coinflip", &desc)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), tx.UserID)
	assert.Equal(t, "coinflip", tx.Type)
	require.NotNil(t, tx.Description)
	assert.Equal(t, desc, *tx.Description)

	_, err = txRepo.Create(ctx, 12345, -50, "slots", nil)
	require.NoError(t, err)
	_, err = txRepo.Create(ctx, 12345, 200, "coinflip", nil)
	require.NoError(t, err)

	txs, err := txRepo.GetByUserID(ctx, 12345, 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, int64(200), txs[0].Amount) // newest first

	txs, err = txRepo.GetByUserIDAndType(ctx, 12345, "coinflip", 10)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, "coinflip", tx.Type)
	}
}

func TestTransactionRepository_ApplyDelta(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1, "player", 1000)
	require.NoError(t, err)

	user, err := txRepo.ApplyDelta(ctx, 1, -250, "blackjack", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(750), user.Balance)

	txs, err := txRepo.GetByUserID(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(-250), txs[0].Amount)
	assert.Equal(t, "blackjack", txs[0].Type)

	// A missing user rolls back: no orphan ledger row is left behind.
	_, err = txRepo.ApplyDelta(ctx, 404, 100, "crash", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
	txs, err = txRepo.GetByUserID(ctx, 404, 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionRepository_DailyRankings(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	for id, name := range map[int64]string{1: "winner1", 2: "winner2", 3: "loser1", 4: "loser2"} {
		_, err := userRepo.Create(ctx, id, name, 1000)
		require.NoError(t, err)
	}

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	_, _ = txRepo.CreateWithTime(ctx, 1, 1000, "roulette", nil, now)
	_, _ = txRepo.CreateWithTime(ctx, 1, -200, "slots", nil, now)
	_, _ = txRepo.CreateWithTime(ctx, 2, 500, "race", nil, now)
	_, _ = txRepo.CreateWithTime(ctx, 3, -300, "crash", nil, now)
	_, _ = txRepo.CreateWithTime(ctx, 4, -800, "blackjack", nil, now)
	_, _ = txRepo.CreateWithTime(ctx, 4, 5000, model.TxTypeAdminAdd, nil, now) // not a game
	_, _ = txRepo.CreateWithTime(ctx, 2, 9999, "race", nil, yesterday)         // other day

	stats, err := txRepo.GetDailyStats(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, stats, 4)
	assert.Equal(t, int64(1), stats[0].UserID)
	assert.Equal(t, int64(800), stats[0].NetProfit)

	winners, err := txRepo.GetDailyWinners(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	assert.Equal(t, int64(1), winners[0].UserID)
	assert.Equal(t, int64(2), winners[1].UserID)
	assert.Equal(t, int64(500), winners[1].NetProfit)

	losers, err := txRepo.GetDailyLosers(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, losers, 2)
	assert.Equal(t, int64(4), losers[0].UserID)
	assert.Equal(t, int64(-800), losers[0].NetProfit)
	assert.Equal(t, int64(3), losers[1].UserID)

	profit, err := txRepo.GetUserDailyProfit(ctx, 4, now)
	require.NoError(t, err)
	assert.Equal(t, int64(-800), profit)
}

// ============================================================================
// GameStatRepository Tests
// ============================================================================

func TestGameStatRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	statRepo := NewGameStatRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1, "high_roller", 1000)
	require.NoError(t, err)
	_, err = userRepo.Create(ctx, 2, "grinder", 1000)
	require.NoError(t, err)

	stat, err := statRepo.Create(ctx, 1, "roulette", 100, 3500, "win")
	require.NoError(t, err)
	assert.Equal(t, "roulette", stat.Game)
	assert.Equal(t, int64(3500), stat.Payout)
	assert.False(t, stat.CreatedAt.IsZero())

	_, _ = statRepo.Create(ctx, 1, "roulette", 100, -100, "loss")
	_, _ = statRepo.Create(ctx, 1, "crash", 50, 0, "push")
	_, _ = statRepo.Create(ctx, 2, "coinflip", 10, 10, "win")
	_, _ = statRepo.Create(ctx, 2, "coinflip", 10, -10, "loss")
	_, _ = statRepo.Create(ctx, 2, "coinflip", 10, -10, "loss")
	_, _ = statRepo.Create(ctx, 2, "higherorlower", 0, 300, "score_3")

	t.Run("SummaryByUser", func(t *testing.T) {
		summary, err := statRepo.SummaryByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, summary, 2)
		assert.Equal(t, "roulette", summary[0].Game)
		assert.Equal(t, int64(2), summary[0].Played)
		assert.Equal(t, int64(1), summary[0].Wins)
		assert.Equal(t, int64(1), summary[0].Losses)
		assert.Equal(t, int64(200), summary[0].TotalWager)
		assert.Equal(t, int64(3400), summary[0].TotalPayout)

		empty, err := statRepo.SummaryByUser(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("TopByWinnings", func(t *testing.T) {
		top, err := statRepo.Top(ctx, LeaderboardWinnings, 10)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, int64(1), top[0].UserID)
		assert.Equal(t, int64(3500), top[0].Value)
		assert.Equal(t, int64(310), top[1].Value)
	})

	t.Run("TopByGames", func(t *testing.T) {
		top, err := statRepo.Top(ctx, LeaderboardGames, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, int64(2), top[0].UserID)
		assert.Equal(t, int64(4), top[0].Value)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := statRepo.Top(ctx, "cash; DROP TABLE users", 10)
		assert.ErrorIs(t, err, ErrUnknownLeaderboard)
	})
}
