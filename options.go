package hybridshare

import (
	"context"
	"log/slog"
	"net/http"
)

// IdentityFunc returns the identity a driver binds to for the request.
type IdentityFunc func(ctx context.Context, r *http.Request) (string, bool)

// Option configures a Manager.
type Option func(*Manager)

// WithSessionStore sets the store used by the session driver.
func WithSessionStore(store SessionStore) Option {
	return func(m *Manager) {
		if store != nil {
			m.sessionStore = store
		}
	}
}

// WithCacheStore sets the store used by the cache driver.
func WithCacheStore(store CacheStore) Option {
	return func(m *Manager) {
		if store != nil {
			m.cacheStore = store
		}
	}
}

// WithIdentity overrides how the identity is derived from a request.
func WithIdentity(fn IdentityFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.identity = fn
		}
	}
}

// WithCodec replaces the codec, for sharing resolvers between managers.
func WithCodec(codec *Codec) Option {
	return func(m *Manager) {
		if codec != nil {
			m.codec = codec
		}
	}
}

// WithResolver registers a named resolver for deferred values.
func WithResolver(name string, resolver Resolver) Option {
	return func(m *Manager) {
		if resolver != nil {
			m.resolvers = append(m.resolvers, namedResolver{name: name, resolver: resolver})
		}
	}
}

// WithPersistentKey adds a key always present in synced output with value
// as its default.
func WithPersistentKey(key string, value any) Option {
	return func(m *Manager) {
		m.extraPersistent = append(m.extraPersistent, persistentKey{key: key, value: value})
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics enables prometheus counters.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}
