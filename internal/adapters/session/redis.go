package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps sessions as JSON values under session:<token>, expiring
// with the session itself.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{rdb: rdb, now: time.Now}, nil
}

// Issue stores the session under a random token with a TTL ending at
// ExpiresAt.
func (s *RedisStore) Issue(ctx context.Context, rec secondary.SessionRecord) (string, error) {
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", apperr.InvalidState("session already expired")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session data: %w", err)
	}

	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve loads the session for token.
func (s *RedisStore) Resolve(ctx context.Context, token string) (*secondary.SessionRecord, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.New(apperr.ErrUnauthenticated, "unknown session")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var rec secondary.SessionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "malformed session")
	}
	return &rec, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ensure RedisStore implements the interface.
var _ secondary.SessionStore = (*RedisStore)(nil)
