package key_value

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps browsing-session values in redis. Every write refreshes
// the TTL, so a session that stays idle longer than ttl is forgotten.
type SessionStorage struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewSessionStorage(rdb *redis.Client, namespace string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		rdb:       rdb,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, s.getSessionKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrSessionValueNotFound
		}
		return "", fmt.Errorf("failed to get session value %s: %w", key, err)
	}
	return value, nil
}

func (s *SessionStorage) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.getSessionKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session value %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) getSessionKey(key string) string {
	return fmt.Sprintf("session_%s_%s", s.namespace, key)
}
