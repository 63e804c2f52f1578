package redis

import "errors"

// Connection and health check failures. Each is joined with the go-redis cause.
var (
	ErrEmptyURL   = errors.New("redis.empty_url")
	ErrInvalidURL = errors.New("redis.invalid_url")
	ErrNotReady   = errors.New("redis.not_ready")
	ErrUnhealthy  = errors.New("redis.unhealthy")
)
