package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, int64(1000), cfg.Economy.StartingBalance)
	assert.Equal(t, 0.5, cfg.Games.MaxBetFraction)
	assert.Equal(t, 10000, cfg.Games.MaxSteps)
	assert.Equal(t, 6, cfg.Games.Blackjack.Decks)
	assert.Equal(t, 60*time.Second, cfg.Games.Blackjack.TurnTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Games.Crash.Ceiling)
	assert.Equal(t, 30*time.Second, cfg.Games.Lady.PickWait)
	assert.Equal(t, time.Second, cfg.Games.Race.Tick)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
bot:
  token: "123:abc"
admin:
  ids: [1, 2]
whitelist:
  chats: [-100]
session:
  backend: redis
games:
  crash:
    tick: 500ms
`)
	t.Setenv("GAMES_MAX_BET_FRACTION", "0.25")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Games.Crash.Tick)
	assert.Equal(t, 0.25, cfg.Games.MaxBetFraction)
	assert.True(t, cfg.IsAdmin(2))
	assert.False(t, cfg.IsAdmin(3))
	assert.True(t, cfg.IsChatAllowed(-100))
	assert.False(t, cfg.IsChatAllowed(-200))
}

func TestLoad_RejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"fraction above one":  "games:\n  max_bet_fraction: 1.5\n",
		"zero fraction":       "games:\n  max_bet_fraction: 0\n",
		"crash probability":   "games:\n  crash:\n    crash_probability: 2\n",
		"unknown backend":     "session:\n  backend: etcd\n",
		"redis ttl too short": "session:\n  backend: redis\n  redis_ttl: 30s\ngames:\n  hilo:\n    guess_timeout: 1m\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "casino"}
	assert.Equal(t, "postgres://u:p@db:5433/casino?sslmode=disable", d.DSN())
}
