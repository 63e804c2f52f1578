package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Healthcheck returns a readiness check that pings client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		return ping(ctx, client)
	}
}

// Ping reports whether the storage backend answers.
func (s *Storage) Ping(ctx context.Context) error {
	return ping(ctx, s.db)
}

func ping(ctx context.Context, client redis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrUnhealthy, err)
	}
	return nil
}
