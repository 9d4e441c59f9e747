// Package main is the entry point for the casino bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casino-bot/internal/bot"
	"casino-bot/internal/config"
	"casino-bot/internal/game"
	"casino-bot/internal/game/blackjack"
	"casino-bot/internal/game/coinflip"
	"casino-bot/internal/game/crash"
	"casino-bot/internal/game/dice"
	"casino-bot/internal/game/gamble"
	"casino-bot/internal/game/hilo"
	"casino-bot/internal/game/lady"
	"casino-bot/internal/game/race"
	"casino-bot/internal/game/roulette"
	"casino-bot/internal/game/rps"
	"casino-bot/internal/game/sevens"
	"casino-bot/internal/game/slot"
	"casino-bot/internal/pkg/db"
	"casino-bot/internal/repository"
	"casino-bot/internal/service"
	"casino-bot/internal/session"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	if err := dbPool.Ready(ctx, 5*time.Second); err != nil {
		log.Fatal().Err(err).Msg("Casino database is not ready")
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	statRepo := repository.NewGameStatRepository(dbPool.Pool)

	accountService := service.NewAccountService(userRepo, txRepo, cfg.Economy.StartingBalance)
	rankingService := service.NewRankingService(userRepo, txRepo, statRepo, time.Local)

	sessions, closeSessions, err := newSessionRegistry(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session registry")
	}
	defer closeSessions()

	games, err := newGameRegistry(&cfg.Games)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register games")
	}
	log.Info().
		Int("game_count", games.Count()).
		Strs("games", games.Kinds()).
		Msg("Games registered")

	gameService := service.NewGameService(
		games,
		sessions,
		accountService,
		service.NewReporter(accountService, rankingService),
		service.GameConfig{
			MaxBetFraction: cfg.Games.MaxBetFraction,
			MaxSteps:       cfg.Games.MaxSteps,
		},
	)

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		RankingService: rankingService,
		GameService:    gameService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Stop taking updates first, then settle whatever is still running.
	telegramBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := gameService.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Game sessions did not settle before timeout")
	}

	log.Info().Msg("Bot stopped gracefully")
}

// newSessionRegistry builds the configured single-session gate. The returned
// func releases its resources.
func newSessionRegistry(ctx context.Context, cfg *config.Config) (session.Registry, func(), error) {
	if cfg.Session.Backend != config.SessionBackendRedis {
		log.Info().Msg("Using in-memory session registry")
		return session.NewMemoryRegistry(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis session registry")
	return session.NewRedisRegistry(rdb, cfg.Session.RedisPrefix, cfg.Session.RedisTTL), func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}, nil
}

// newGameRegistry registers the full catalog.
func newGameRegistry(cfg *config.GamesConfig) (*game.Registry, error) {
	registry := game.NewRegistry()

	for _, g := range []game.Game{
		coinflip.New(),
		dice.New(),
		slot.New(),
		roulette.New(),
		sevens.New(),
		rps.New(),
		gamble.New(),
		blackjack.New(blackjack.Config{
			Decks:       cfg.Blackjack.Decks,
			LowWater:    cfg.Blackjack.LowWater,
			TurnTimeout: cfg.Blackjack.TurnTimeout,
		}),
		crash.New(crash.Config{
			Tick:      cfg.Crash.Tick,
			HardTick:  cfg.Crash.HardTick,
			Ceiling:   cfg.Crash.Ceiling,
			CrashProb: cfg.Crash.CrashProbability,
		}),
		lady.New(lady.Config{
			Show:     cfg.Lady.Show,
			Shuffle:  cfg.Lady.Shuffle,
			PickWait: cfg.Lady.PickWait,
		}),
		hilo.New(cfg.HiLo.GuessTimeout),
		race.New(cfg.Race.Tick),
	} {
		if err := registry.Register(g); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", g.Kind(), err)
		}
	}

	return registry, nil
}
