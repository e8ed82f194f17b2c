// Package redis implements driven.TokenStore on Redis for deployments that
// run several blogpanel instances behind one load balancer.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Compile-time interface satisfaction check.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps values under prefix+":"+key. A positive ttl expires idle
// entries; every Set and Get slides the expiry forward.
type TokenStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewTokenStore wraps client. ttl <= 0 stores values without expiry.
func NewTokenStore(client redis.UniversalClient, prefix string, ttl time.Duration) *TokenStore {
	if prefix == "" {
		prefix = "blogpanel"
	}
	return &TokenStore{redis: client, prefix: prefix, ttl: ttl}
}

func (s *TokenStore) key(k string) string {
	return s.prefix + ":" + k
}

// Get returns ("", nil) for missing or expired keys.
func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	var (
		val string
		err error
	)
	if s.ttl > 0 {
		val, err = s.redis.GetEx(ctx, s.key(key), s.ttl).Result()
	} else {
		val, err = s.redis.Get(ctx, s.key(key)).Result()
	}
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %q: %v", ErrRedisUnavailable, key, err)
	}
	return val, nil
}

// Set stores or replaces the value for key.
func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.redis.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %q: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: delete %q: %v", ErrRedisUnavailable, key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
