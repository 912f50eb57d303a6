package rediscache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisLastCallStore keeps per-currency last-call timestamps in Redis with a
// TTL, which makes the cooldown state survive restarts and be shared across
// instances. Lookup failures are treated as a miss: a broken cache must not
// take the whole pipeline down, it only weakens throttling.
type RedisLastCallStore struct {
	rdb    *redis.Client
	prefix string
}

func NewLastCallStore(rdb *redis.Client, prefix string) *RedisLastCallStore {
	return &RedisLastCallStore{rdb: rdb, prefix: strings.TrimSuffix(prefix, ":")}
}

func (s *RedisLastCallStore) key(code string) string {
	return s.prefix + ":" + code
}

func (s *RedisLastCallStore) Get(ctx context.Context, code string) (time.Time, bool) {
	raw, err := s.rdb.Get(ctx, s.key(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("currency", code).Warn("last call lookup failed, treating as miss")
		}
		return time.Time{}, false
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

func (s *RedisLastCallStore) Set(ctx context.Context, code string, at time.Time, ttl time.Duration) {
	if err := s.rdb.Set(ctx, s.key(code), at.Format(time.RFC3339Nano), ttl).Err(); err != nil {
		logrus.WithError(err).WithField("currency", code).Warn("failed to record last call time")
	}
}
