// Package db owns the casino's PostgreSQL pool and schema.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"casino-bot/internal/config"
)

const (
	defaultConnectTimeout  = 10 * time.Second
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	healthCheckPeriod      = 30 * time.Second
)

// ErrSchemaMissing means the pool is reachable but a casino table is absent.
var ErrSchemaMissing = errors.New("casino schema is missing")

// Tables every ledger and stats query depends on.
var casinoTables = []string{"users", "transactions", "game_stats"}

// Pool is the casino database pool. Repositories take the embedded pgxpool.
type Pool struct {
	*pgxpool.Pool
}

// poolConfig maps the database section onto pgxpool settings. A quarter of
// the pool is kept warm so settlements don't wait on a dial.
func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	pc.MaxConns = int32(max(cfg.PoolSize, 1))
	pc.MinConns = max(pc.MaxConns/4, 1)
	pc.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, defaultConnectTimeout)
	pc.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	pc.HealthCheckPeriod = healthCheckPeriod
	return pc, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// NewPool dials the casino database and pings it once.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger := log.With().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Logger()
	logger.Info().
		Int32("max_conns", pc.MaxConns).
		Int32("min_conns", pc.MinConns).
		Msg("Connecting to casino database")

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create casino pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("casino database unreachable: %w", err)
	}

	logger.Info().Msg("Casino database connected")
	return &Pool{Pool: pool}, nil
}

// Ready reports whether the database answers and every casino table exists.
// Run it after Migrate; a nil error means games can settle.
func (p *Pool) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var missing []string
	for _, table := range casinoTables {
		var exists bool
		if err := p.Pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
			return fmt.Errorf("casino database not ready: %w", err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, missing)
	}
	return nil
}

// Close logs the final pool usage and closes it.
func (p *Pool) Close() {
	if p.Pool == nil {
		return
	}
	st := p.Pool.Stat()
	log.Info().
		Int32("total_conns", st.TotalConns()).
		Int32("acquired_conns", st.AcquiredConns()).
		Int64("acquire_count", st.AcquireCount()).
		Dur("acquire_wait", st.AcquireDuration()).
		Msg("Closing casino database pool")
	p.Pool.Close()
}
