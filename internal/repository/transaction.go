package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"casino-bot/internal/model"
)

// querier is satisfied by both the pool and an open pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const transactionColumns = `id, user_id, amount, type, description, created_at`

// TransactionRepository handles transaction data persistence.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository instance.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var tx model.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Amount,
		&tx.Type,
		&tx.Description,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func insertTransaction(ctx context.Context, q querier, userID int64, amount int64, txType string, description *string, createdAt time.Time) (*model.Transaction, error) {
	const query = `
		INSERT INTO transactions (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + transactionColumns

	tx, err := scanTransaction(q.QueryRow(ctx, query, userID, amount, txType, description, createdAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// Create creates a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, userID int64, amount int64, txType string, description *string) (*model.Transaction, error) {
	return insertTransaction(ctx, r.pool, userID, amount, txType, description, time.Now())
}

// CreateWithTime creates a new transaction record with a specific timestamp.
// Useful for testing and data migration.
func (r *TransactionRepository) CreateWithTime(ctx context.Context, userID int64, amount int64, txType string, description *string, createdAt time.Time) (*model.Transaction, error) {
	return insertTransaction(ctx, r.pool, userID, amount, txType, description, createdAt)
}

// ApplyDelta changes the user's balance and records the ledger entry in one
// database transaction. Either both happen or neither does.
func (r *TransactionRepository) ApplyDelta(ctx context.Context, userID int64, amount int64, txType string, description *string) (*model.User, error) {
	var user *model.User
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		user, err = updateBalance(ctx, tx, userID, amount)
		if err != nil {
			return err
		}
		_, err = insertTransaction(ctx, tx, userID, amount, txType, description, time.Now())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return user, nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*model.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetByUserID retrieves all transactions for a user, ordered by creation time (newest first).
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

// GetByUserIDAndType retrieves transactions for a user filtered by type.
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID int64, txType string, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	return r.list(ctx, query, userID, txType, limit)
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

// dailyProfitQuery sums game settlements per user for one day. having is
// spliced in verbatim and is always a constant.
func dailyProfitQuery(having, order string) string {
	return `
		SELECT t.user_id, u.username, COALESCE(SUM(t.amount), 0)::BIGINT AS net_profit
		FROM transactions t
		JOIN users u ON t.user_id = u.telegram_id
		WHERE t.type <> ALL($1)
		  AND t.created_at >= $2
		  AND t.created_at < $3
		GROUP BY t.user_id, u.username
		` + having + `
		ORDER BY net_profit ` + order + `, t.user_id ASC
		LIMIT $4
	`
}

func (r *TransactionRepository) ranks(ctx context.Context, query string, date time.Time, limit int) ([]*model.DailyRank, error) {
	start, end := dayBounds(date)

	rows, err := r.pool.Query(ctx, query, model.NonGameTransactionTypes(), start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	defer rows.Close()

	var ranks []*model.DailyRank
	for rows.Next() {
		var rank model.DailyRank
		if err := rows.Scan(&rank.UserID, &rank.Username, &rank.NetProfit); err != nil {
			return nil, fmt.Errorf("failed to scan daily rank: %w", err)
		}
		ranks = append(ranks, &rank)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stats: %w", err)
	}

	return ranks, nil
}

// GetDailyStats retrieves every user's net game profit for the given date,
// most profitable first.
func (r *TransactionRepository) GetDailyStats(ctx context.Context, date time.Time, limit int) ([]*model.DailyRank, error) {
	return r.ranks(ctx, dailyProfitQuery("", "DESC"), date, limit)
}

// GetDailyWinners retrieves users with a positive net game profit for the date.
func (r *TransactionRepository) GetDailyWinners(ctx context.Context, date time.Time, limit int) ([]*model.DailyRank, error) {
	return r.ranks(ctx, dailyProfitQuery("HAVING SUM(t.amount) > 0", "DESC"), date, limit)
}

// GetDailyLosers retrieves users with a negative net game profit for the
// date, biggest loss first.
func (r *TransactionRepository) GetDailyLosers(ctx context.Context, date time.Time, limit int) ([]*model.DailyRank, error) {
	return r.ranks(ctx, dailyProfitQuery("HAVING SUM(t.amount) < 0", "ASC"), date, limit)
}

// GetUserDailyProfit retrieves a specific user's net game profit for a date.
func (r *TransactionRepository) GetUserDailyProfit(ctx context.Context, userID int64, date time.Time) (int64, error) {
	start, end := dayBounds(date)

	const query = `
		SELECT COALESCE(SUM(amount), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1
		  AND type <> ALL($2)
		  AND created_at >= $3
		  AND created_at < $4
	`

	var profit int64
	err := r.pool.QueryRow(ctx, query, userID, model.NonGameTransactionTypes(), start, end).Scan(&profit)
	if err != nil {
		return 0, fmt.Errorf("failed to get user daily profit: %w", err)
	}

	return profit, nil
}
