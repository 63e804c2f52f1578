package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a key/value byte store on top of Redis. It satisfies the cache
// store contract of hybridshare's cache driver.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

// NewStorage wraps a Redis client.
func NewStorage(client redis.UniversalClient) *Storage {
	return &Storage{db: client}
}

// NewStorageWithConfig wraps a Redis client and namespaces keys with cfg.KeyPrefix.
func NewStorageWithConfig(client redis.UniversalClient, cfg Config) *Storage {
	return &Storage{db: client, prefix: cfg.KeyPrefix}
}

// Get returns nil for empty keys and missing values (redis.Nil becomes nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores key-value with expiration. Zero duration means no expiration.
func (s *Storage) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" {
		return nil
	}
	return s.db.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes a key. Empty and missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.db.Del(ctx, s.prefix+key).Err()
}

// Close terminates the Redis connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Conn returns the underlying Redis client for advanced operations.
func (s *Storage) Conn() redis.UniversalClient {
	return s.db
}
