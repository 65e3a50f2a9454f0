package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementIfBelowScript claims a slot only while the counter is below the
// limit, in a single atomic step. ARGV[1] is the limit (-1 for unlimited),
// ARGV[2] the expiry as unix milliseconds.
var incrementIfBelowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if limit >= 0 and current >= limit then
	return {0, current}
end
current = redis.call('INCR', KEYS[1])
redis.call('PEXPIREAT', KEYS[1], ARGV[2])
return {1, current}
`)

// RedisStore implements Store on top of a shared Redis instance, making
// the increment-if-below contract hold across application nodes.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces all counter keys, e.g. per environment.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix + ":"
		}
	}
}

// NewRedisStore creates a Redis-backed usage store. Panics if client is nil.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	if client == nil {
		panic("usage.NewRedisStore: client is required")
	}

	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current count for the key; missing keys read as zero.
func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrInvalidKey
	}

	current, err := s.client.Get(ctx, s.keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage: get counter %s: %w", key, err)
	}
	return current, nil
}

// IncrementIfBelow atomically claims one slot while the counter is below limit.
func (s *RedisStore) IncrementIfBelow(ctx context.Context, key string, limit int64, expireAt time.Time) (bool, int64, error) {
	if key == "" {
		return false, 0, ErrInvalidKey
	}

	result, err := incrementIfBelowScript.Run(ctx, s.client,
		[]string{s.keyPrefix + key}, limit, expireAt.UnixMilli()).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("usage: increment counter %s: %w", key, err)
	}
	if len(result) != 2 {
		return false, 0, fmt.Errorf("usage: unexpected script reply for %s: %v", key, result)
	}

	allowed, ok := result[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("usage: unexpected script reply for %s: %v", key, result)
	}
	current, ok := result[1].(int64)
	if !ok {
		return false, 0, fmt.Errorf("usage: unexpected script reply for %s: %v", key, result)
	}

	return allowed == 1, current, nil
}

// Delete removes the counter for the key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("usage: delete counter %s: %w", key, err)
	}
	return nil
}
