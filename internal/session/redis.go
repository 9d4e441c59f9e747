package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"casino-bot/internal/game"
)

// DefaultRedisTTL bounds how long a crashed process can hold a player's slot.
const DefaultRedisTTL = 10 * time.Minute

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Both scripts act only while the stored session still carries the caller's
// token, so an expired session can never touch its successor.
var (
	releaseScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v and cjson.decode(v).token == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	refreshScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v and cjson.decode(v).token == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// RedisRegistry shares the exclusion gate between bot replicas.
type RedisRegistry struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisRegistry creates a registry storing sessions under prefix.
func NewRedisRegistry(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisRegistry {
	if prefix == "" {
		prefix = "casino:session"
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisRegistry{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisRegistry) key(playerID int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, playerID)
}

// TryAcquire claims the slot with SET NX.
func (r *RedisRegistry) TryAcquire(ctx context.Context, playerID int64, kind game.Kind) (Session, bool, error) {
	s := newSession(playerID, kind)
	payload, err := json.MarshalToString(s)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, r.key(playerID), payload, r.ttl).Result()
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to acquire session: %w", err)
	}
	if !ok {
		return Session{}, false, nil
	}

	log.Debug().
		Int64("player_id", playerID).
		Str("game", string(kind)).
		Str("token", s.Token.String()).
		Msg("Session acquired")
	return s, true, nil
}

// Release deletes the player's key if it still holds token.
func (r *RedisRegistry) Release(ctx context.Context, playerID int64, token uuid.UUID) error {
	n, err := releaseScript.Run(ctx, r.rdb, []string{r.key(playerID)}, token.String()).Int()
	if err != nil {
		return fmt.Errorf("failed to release session: %w", err)
	}
	if n == 0 {
		log.Debug().
			Int64("player_id", playerID).
			Str("token", token.String()).
			Msg("Session already released or superseded")
	}
	return nil
}

// Refresh resets the key's TTL while token still holds it.
func (r *RedisRegistry) Refresh(ctx context.Context, playerID int64, token uuid.UUID) (bool, error) {
	n, err := refreshScript.Run(ctx, r.rdb, []string{r.key(playerID)}, token.String(), r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to refresh session: %w", err)
	}
	return n == 1, nil
}

// Active loads the player's session.
func (r *RedisRegistry) Active(ctx context.Context, playerID int64) (Session, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.UnmarshalFromString(v, &s); err != nil {
		return Session{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, true, nil
}
