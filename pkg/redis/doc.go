// Package redis provides helpers for connecting to a Redis server and a small
// byte Storage used as the shared backend of hybridshare's cache driver when
// several application processes serve the same users.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the connection using the supplied configuration.
//   - Storage, a context-aware Get/Set/Delete wrapper with an optional key
//     prefix. Missing keys read as nil without error.
//   - Healthcheck, for liveness and readiness checks.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  time.Second,
//	    ConnectTimeout: 10 * time.Second,
//	})
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	store := redis.NewStorage(client)
//	_ = store.Set(ctx, "foo", []byte("bar"), time.Minute)
//
// # Errors
//
// Sentinel errors (e.g. ErrNotReady) wrap the underlying go-redis errors
// using errors.Join, so both can be matched with errors.Is.
package redis
