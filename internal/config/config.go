// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Economy   EconomyConfig   `mapstructure:"economy"`
	Games     GamesConfig     `mapstructure:"games"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisConfig holds the Redis connection used by the shared session registry.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig selects where active sessions are tracked.
type SessionConfig struct {
	Backend     string        `mapstructure:"backend"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// EconomyConfig holds account defaults.
type EconomyConfig struct {
	StartingBalance int64 `mapstructure:"starting_balance"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	MaxBetFraction float64         `mapstructure:"max_bet_fraction"`
	MaxSteps       int             `mapstructure:"max_steps"`
	Blackjack      BlackjackConfig `mapstructure:"blackjack"`
	Crash          CrashConfig     `mapstructure:"crash"`
	Lady           LadyConfig      `mapstructure:"lady"`
	HiLo           HiLoConfig      `mapstructure:"hilo"`
	Race           RaceConfig      `mapstructure:"race"`
}

// BlackjackConfig holds blackjack shoe and timer configuration.
type BlackjackConfig struct {
	Decks       int           `mapstructure:"decks"`
	LowWater    int           `mapstructure:"low_water"`
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
}

// CrashConfig holds crash timing configuration.
type CrashConfig struct {
	Tick             time.Duration `mapstructure:"tick"`
	HardTick         time.Duration `mapstructure:"hard_tick"`
	Ceiling          time.Duration `mapstructure:"ceiling"`
	CrashProbability float64       `mapstructure:"crash_probability"`
}

// LadyConfig holds find-the-lady phase durations.
type LadyConfig struct {
	Show     time.Duration `mapstructure:"show"`
	Shuffle  time.Duration `mapstructure:"shuffle"`
	PickWait time.Duration `mapstructure:"pick_wait"`
}

// HiLoConfig holds higher-or-lower configuration.
type HiLoConfig struct {
	GuessTimeout time.Duration `mapstructure:"guess_timeout"`
}

// RaceConfig holds race configuration.
type RaceConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. BOT_TOKEN, DATABASE_HOST, GAMES_MAX_BET_FRACTION
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casino")
	v.SetDefault("database.name", "casino")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Redis and session registry defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.redis_prefix", "casino:session")
	v.SetDefault("session.redis_ttl", "10m")

	v.SetDefault("economy.starting_balance", 1000)

	// Game defaults
	v.SetDefault("games.max_bet_fraction", 0.5)
	v.SetDefault("games.max_steps", 10000)
	v.SetDefault("games.blackjack.decks", 6)
	v.SetDefault("games.blackjack.low_water", 50)
	v.SetDefault("games.blackjack.turn_timeout", "60s")
	v.SetDefault("games.crash.tick", "2s")
	v.SetDefault("games.crash.hard_tick", "1s")
	v.SetDefault("games.crash.ceiling", "2m")
	v.SetDefault("games.crash.crash_probability", 0.1)
	v.SetDefault("games.lady.show", "3s")
	v.SetDefault("games.lady.shuffle", "2s")
	v.SetDefault("games.lady.pick_wait", "30s")
	v.SetDefault("games.hilo.guess_timeout", "60s")
	v.SetDefault("games.race.tick", "1s")
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Games.MaxBetFraction <= 0 || c.Games.MaxBetFraction > 1 {
		return fmt.Errorf("games.max_bet_fraction must be in (0, 1], got %v", c.Games.MaxBetFraction)
	}
	if c.Games.Crash.CrashProbability < 0 || c.Games.Crash.CrashProbability > 1 {
		return fmt.Errorf("games.crash.crash_probability must be in [0, 1], got %v", c.Games.Crash.CrashProbability)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.Session.Backend == SessionBackendRedis {
		if wait := c.Games.longestWait(); c.Session.RedisTTL <= wait {
			return fmt.Errorf("session.redis_ttl must exceed the longest game wait %s, got %s", wait, c.Session.RedisTTL)
		}
	}
	return nil
}

// longestWait is the longest a running game can go without a decision.
// The Redis session key is refreshed on every decision, so its TTL must
// outlast this gap.
func (g *GamesConfig) longestWait() time.Duration {
	var longest time.Duration
	for _, d := range []time.Duration{
		g.Blackjack.TurnTimeout,
		g.Crash.Tick,
		g.Crash.HardTick,
		g.Lady.Show,
		g.Lady.Shuffle,
		g.Lady.PickWait,
		g.HiLo.GuessTimeout,
		g.Race.Tick,
	} {
		longest = max(longest, d)
	}
	return longest
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
